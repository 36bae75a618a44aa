package copula_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestCopula(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Copula Suite")
}
