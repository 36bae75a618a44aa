package storage

import (
	"encoding/json"
	"io"
	"os"
)

type ExportData struct {
	RunMetadata
	Data [][]float64 `json:"data"`
}

// ExportJSON writes the run metadata and its samples as indented JSON.
func ExportJSON(w io.Writer, meta RunMetadata, samples [][]float64) error {
	data := ExportData{RunMetadata: meta, Data: samples}
	if data.Data == nil {
		data.Data = [][]float64{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ExportJSONFile is ExportJSON into a new file at path.
func ExportJSONFile(path string, meta RunMetadata, samples [][]float64) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := ExportJSON(file, meta, samples); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
