package viz

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/copulab/internal/copula"
	"github.com/san-kum/copulab/internal/correlation"
	"github.com/san-kum/copulab/internal/rng"
)

func gaussian3(t *testing.T) copula.Copula {
	t.Helper()
	rho, err := correlation.FromRows([][]float64{{1, 0.5, 0.2}, {0.5, 1, 0.3}, {0.2, 0.3, 1}})
	if err != nil {
		t.Fatal(err)
	}
	c, err := copula.New(copula.Settings{Family: copula.FamilyGaussian, Rho: rho}, rng.New(7))
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestCanvasPlotUnit(t *testing.T) {
	c := NewCanvas(10, 5)
	c.PlotUnit(0.01, 0.01)
	c.PlotUnit(0.99, 0.99)
	c.PlotUnit(0.5, 0.5)
	if got := c.Count(); got != 3 {
		t.Fatalf("expected 3 dots, got %d", got)
	}

	var xs, ys []int
	c.EachDot(func(x, y int) {
		xs = append(xs, x)
		ys = append(ys, y)
	})
	w, h := c.Dots()
	for k := range xs {
		if xs[k] < 0 || xs[k] >= w || ys[k] < 0 || ys[k] >= h {
			t.Errorf("dot (%d, %d) outside %dx%d", xs[k], ys[k], w, h)
		}
	}

	// u = v = 0.01 lands bottom-left.
	c.Clear()
	c.PlotUnit(0.01, 0.01)
	c.EachDot(func(x, y int) {
		if x != 0 || y != h-1 {
			t.Errorf("expected (0, %d), got (%d, %d)", h-1, x, y)
		}
	})
}

func TestRender3DCube(t *testing.T) {
	c := NewCanvas(40, 20)
	w := UnitCubeWireframe()
	if len(w.Edges) != 12 {
		t.Fatalf("expected 12 cube edges, got %d", len(w.Edges))
	}
	Render3D(c, w, NewCamera())
	if c.Count() == 0 {
		t.Fatal("cube rendered no dots")
	}
}

func TestCloudWireframeSkipsShortRows(t *testing.T) {
	w := CloudWireframe([][]float64{{0.1, 0.2, 0.3}, {0.5, 0.5}}, 0, 1, 2)
	if len(w.Edges) != 1 {
		t.Fatalf("expected 1 point, got %d", len(w.Edges))
	}
	if w.Edges[0].Start != UnitVec3(0.1, 0.2, 0.3) {
		t.Errorf("unexpected point %+v", w.Edges[0].Start)
	}
}

func TestSparkline(t *testing.T) {
	s := Sparkline([]float64{-1, 0, 1}, 10, -1, 1)
	if got := []rune(s); len(got) != 3 || got[0] != '▁' || got[2] != '█' {
		t.Errorf("unexpected sparkline %q", s)
	}
	if got := []rune(Sparkline(nil, 4, 0, 1)); len(got) != 4 {
		t.Errorf("expected blank line of width 4, got %q", string(got))
	}
	long := make([]float64, 50)
	if got := []rune(Sparkline(long, 8, 0, 1)); len(got) != 8 {
		t.Errorf("expected width 8, got %d", len(got))
	}
}

func TestModelStepsToLimit(t *testing.T) {
	m := NewModel(gaussian3(t), Options{Batch: 40, Limit: 100})
	for i := 0; i < 5; i++ {
		m.Update(TickMsg{})
	}
	if m.n != 100 {
		t.Fatalf("expected 100 samples, got %d", m.n)
	}
	if !m.done() {
		t.Error("expected model to be done")
	}
	if m.err != nil {
		t.Fatal(m.err)
	}
	if m.tau <= 0 {
		t.Errorf("expected positive tau, got %f", m.tau)
	}
	if m.canvas.Count() == 0 {
		t.Error("expected dots after sampling")
	}
	if !strings.Contains(m.View(), "DONE") {
		t.Error("view should report completion")
	}
}

func TestModelKendallWindowSlides(t *testing.T) {
	m := NewModel(gaussian3(t), Options{Batch: 700, Limit: maxPoints + 800})
	for !m.done() {
		m.Update(TickMsg{})
	}
	if m.err != nil {
		t.Fatal(m.err)
	}
	if m.n != maxPoints+800 {
		t.Fatalf("expected %d samples, got %d", maxPoints+800, m.n)
	}
	if len(m.points) != maxPoints {
		t.Fatalf("expected a window of %d points, got %d", maxPoints, len(m.points))
	}
	if m.tau <= 0 || m.tau >= 1 {
		t.Errorf("windowed tau out of range: %f", m.tau)
	}
}

func TestModelPause(t *testing.T) {
	m := NewModel(gaussian3(t), Options{Batch: 10})
	m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	m.Update(TickMsg{})
	if m.n != 0 {
		t.Fatalf("paused model sampled %d points", m.n)
	}
}

func TestModelCyclePair(t *testing.T) {
	m := NewModel(gaussian3(t), Options{Batch: 10})
	m.step()
	want := [][2]int{{0, 2}, {1, 2}, {0, 1}}
	for _, w := range want {
		m.cyclePair()
		if m.pair[0] != w[0] || m.pair[1] != w[1] {
			t.Fatalf("expected pair %v, got %v", w, m.pair[:2])
		}
		if m.pair[2] == m.pair[0] || m.pair[2] == m.pair[1] {
			t.Fatalf("depth axis %d repeats a pair axis", m.pair[2])
		}
	}
}

func TestModelReset(t *testing.T) {
	m := NewModel(gaussian3(t), Options{Batch: 25})
	m.step()
	m.reset()
	if m.n != 0 || len(m.points) != 0 {
		t.Fatalf("reset left n=%d points=%d", m.n, len(m.points))
	}
}

func TestPickerListsPresets(t *testing.T) {
	p := NewPicker(1)
	if len(p.entries) == 0 {
		t.Fatal("expected presets")
	}
	p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if p.err != nil {
		t.Fatal(p.err)
	}
	if p.live == nil {
		t.Fatal("expected a live view after enter")
	}
	p.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if p.live != nil {
		t.Fatal("esc should return to the menu")
	}
}

func TestNextThemeCycles(t *testing.T) {
	defer SetTheme(CurrentTheme.Name)
	start := CurrentTheme.Name
	for range Themes {
		NextTheme()
	}
	if CurrentTheme.Name != start {
		t.Errorf("expected to cycle back to %s, got %s", start, CurrentTheme.Name)
	}
}
