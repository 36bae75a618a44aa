package viz

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"maps"
	"math"
	"os"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/copulab/internal/analysis"
	"github.com/san-kum/copulab/internal/copula"
	"github.com/san-kum/copulab/internal/metrics"
	"github.com/san-kum/copulab/internal/sim"
	"gonum.org/v1/gonum/stat"
)

const (
	width  = 60
	height = 24

	// DefaultBatch is the number of draws per frame.
	DefaultBatch = 50
	// maxPoints bounds the points on screen. Kendall's tau is recomputed
	// over them every frame, so they are also its sliding window.
	maxPoints      = 2000
	historyLength  = 120
	frameInterval  = time.Second / 30
	recordFilename = "copulab.gif"
)

type TickMsg time.Time

// Options tune a live session.
type Options struct {
	Title string
	Batch int
	// Limit stops sampling after this many draws; zero runs until quit.
	Limit        int
	TailQuantile float64
}

func (o Options) withDefaults(c copula.Copula) Options {
	if o.Title == "" {
		o.Title = string(c.Family())
	}
	if o.Batch <= 0 {
		o.Batch = DefaultBatch
	}
	if o.TailQuantile <= 0 || o.TailQuantile >= 0.5 {
		o.TailQuantile = metrics.DefaultTailQuantile
	}
	return o
}

// Model streams samples of a copula into a braille scatter and keeps running
// dependence estimates for the displayed pair.
type Model struct {
	sampler *sim.Sampler
	copula  copula.Copula
	opts    Options

	canvas *Canvas
	camera *Camera
	cloud  bool

	pair     [3]int
	points   [][]float64
	n        int
	pearson  *metrics.PearsonPair
	spearman *metrics.SpearmanPair
	lower    *metrics.TailDependence
	upper    *metrics.TailDependence
	tau      float64
	tauHist  []float64
	target   float64
	tails    analysis.TailDependence

	running   bool
	showHelp  bool
	recording bool
	frames    []*image.Paletted
	err       error
}

// NewModel prepares a live view of c. The first two coordinates are shown
// initially.
func NewModel(c copula.Copula, opts Options) *Model {
	m := &Model{
		sampler: sim.New(c),
		copula:  c,
		opts:    opts.withDefaults(c),
		canvas:  NewCanvas(width, height),
		camera:  NewCamera(),
		points:  make([][]float64, 0, maxPoints),
		tauHist: make([]float64, 0, historyLength),
		running: true,
	}
	m.selectPair(0, 1, 2)
	return m
}

func (m *Model) selectPair(i, j, k int) {
	m.pair = [3]int{i, j, k}
	m.pearson = metrics.NewPearsonPair(i, j)
	m.spearman = metrics.NewSpearmanPair(i, j)
	m.lower = metrics.NewTailDependence(i, j, m.opts.TailQuantile, true)
	m.upper = metrics.NewTailDependence(i, j, m.opts.TailQuantile, false)
	m.tauHist = m.tauHist[:0]
	m.tau = 0
	if tau := analysis.TheoreticalKendall(m.copula); tau != nil {
		m.target = tau.At(i, j)
	}
	m.tails, _ = analysis.TheoreticalTailDependence(m.copula, i, j)
	for _, u := range m.points {
		m.observe(u)
	}
	m.refreshTau()
}

func (m *Model) observe(u sim.Sample) {
	m.pearson.Observe(u, m.n)
	m.spearman.Observe(u, m.n)
	m.lower.Observe(u, m.n)
	m.upper.Observe(u, m.n)
}

func (m *Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "tab":
			m.cyclePair()
		case "c":
			m.cloud = !m.cloud && m.copula.Dimension() >= 3
		case "t":
			NextTheme()
		case "g":
			m.toggleRecording()
		case "?":
			m.showHelp = !m.showHelp
		case "x":
			m.camera.RotateX(0.1)
		case "X":
			m.camera.RotateX(-0.1)
		case "y":
			m.camera.RotateY(0.1)
		case "Y":
			m.camera.RotateY(-0.1)
		case "z":
			m.camera.RotateZ(0.1)
		case "Z":
			m.camera.RotateZ(-0.1)
		case "+", "=":
			m.camera.ZoomIn()
		case "-", "_":
			m.camera.ZoomOut()
		}
	case TickMsg:
		if m.running && !m.done() {
			m.step()
		}
		m.draw()
		if m.recording {
			m.captureFrame()
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) done() bool {
	return m.err != nil || (m.opts.Limit > 0 && m.n >= m.opts.Limit)
}

// step draws one batch.
func (m *Model) step() {
	batch := m.opts.Batch
	if m.opts.Limit > 0 && m.n+batch > m.opts.Limit {
		batch = m.opts.Limit - m.n
	}
	cfg := sim.Config{Samples: batch, ValidateSamples: true}
	m.err = m.sampler.RunWithCallback(context.Background(), cfg, func(u sim.Sample, _ int) bool {
		m.observe(u)
		m.n++
		if len(m.points) == maxPoints {
			copy(m.points, m.points[1:])
			m.points = m.points[:maxPoints-1]
		}
		m.points = append(m.points, u)
		return true
	})
	m.refreshTau()
}

// refreshTau estimates Kendall's tau over the points on screen.
func (m *Model) refreshTau() {
	if len(m.points) < 2 {
		return
	}
	x := make([]float64, len(m.points))
	y := make([]float64, len(m.points))
	for k, u := range m.points {
		x[k], y[k] = u[m.pair[0]], u[m.pair[1]]
	}
	m.tau = stat.Kendall(x, y, nil)
	m.tauHist = append(m.tauHist, m.tau)
	if len(m.tauHist) > historyLength {
		m.tauHist = m.tauHist[1:]
	}
}

func (m *Model) reset() {
	m.n = 0
	m.err = nil
	m.points = m.points[:0]
	m.selectPair(m.pair[0], m.pair[1], m.pair[2])
}

// cyclePair moves to the next coordinate pair (i, j), i < j.
func (m *Model) cyclePair() {
	d := m.copula.Dimension()
	if d < 3 {
		return
	}
	i, j := m.pair[0], m.pair[1]+1
	if j >= d {
		i++
		j = i + 1
	}
	if j >= d {
		i, j = 0, 1
	}
	k := 0
	for k == i || k == j {
		k++
	}
	m.selectPair(i, j, k)
}

func (m *Model) draw() {
	m.canvas.Clear()
	if m.cloud {
		w := UnitCubeWireframe()
		w.Extend(CloudWireframe(m.points, m.pair[0], m.pair[1], m.pair[2]))
		Render3D(m.canvas, w, m.camera)
		return
	}
	for _, u := range m.points {
		m.canvas.PlotUnit(u[m.pair[0]], u[m.pair[1]])
	}
}

func (m *Model) View() string {
	st := newStyles(CurrentTheme)
	canvasView := st.canvas.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(st.header.Render(strings.ToUpper(m.opts.Title)) + "\n")
	switch {
	case m.err != nil:
		s.WriteString(st.bad.Render("ERROR "+m.err.Error()) + "\n")
	case m.done():
		s.WriteString(st.paused.Render("DONE") + "\n")
	case m.running:
		s.WriteString(st.running.Render("SAMPLING") + "\n")
	default:
		s.WriteString(st.paused.Render("PAUSED") + "\n")
	}
	if m.recording {
		s.WriteString(st.rec.Render("● REC") + "\n")
	}
	s.WriteString("\n")

	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	row("Family", string(m.copula.Family()))
	row("Dimension", fmt.Sprintf("%d", m.copula.Dimension()))
	params := m.copula.Params()
	for _, k := range slices.Sorted(maps.Keys(params)) {
		row(k, fmt.Sprintf("%.4g", params[k]))
	}
	row("Samples", fmt.Sprintf("%d", m.n))
	if m.opts.Limit > 0 {
		s.WriteString(ProgressBar(float64(m.n)/float64(m.opts.Limit), 30) + "\n")
	}

	s.WriteString("\n" + st.active.Render(fmt.Sprintf("PAIR u%d × u%d", m.pair[0], m.pair[1])) + "\n")
	row("Pearson", fmt.Sprintf("%+.4f", m.pearson.Value()))
	row("Spearman", fmt.Sprintf("%+.4f", m.spearman.Value()))
	tol := 1.5 / math.Sqrt(float64(max(len(m.points), 1)))
	s.WriteString(st.label.Render("Kendall") +
		st.deviation(m.tau-m.target, tol).Render(fmt.Sprintf("%+.4f", m.tau)) +
		st.label.Render(fmt.Sprintf("  τ=%+.4f", m.target)) + "\n")
	s.WriteString(st.value.Render(Sparkline(m.tauHist, 30, -1, 1)) + "\n")
	q := m.opts.TailQuantile
	row(fmt.Sprintf("λL(%.2g)", q), fmt.Sprintf("%.3f  λ=%.3f", m.lower.Value(), m.tails.Lower))
	row(fmt.Sprintf("λU(%.2g)", q), fmt.Sprintf("%.3f  λ=%.3f", m.upper.Value(), m.tails.Upper))

	s.WriteString(st.help.Render(Separator(30) + "\nSP:Pause R:Reset Q:Quit\nTAB:Pair C:Cloud T:Theme\nG:Record ?:Help"))
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, st.panel.Render(s.String()))
	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

const helpText = `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume sampling    ║
║  R        - Clear samples            ║
║  Tab      - Next coordinate pair     ║
║  C        - Toggle 3D cloud (d ≥ 3)  ║
║  x/y/z    - Rotate cloud             ║
║  +/-      - Zoom cloud               ║
║  G        - Toggle GIF recording     ║
║  T        - Cycle themes             ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝`

func (m *Model) toggleRecording() {
	if m.recording {
		if err := m.saveGIF(recordFilename); err != nil {
			m.err = err
		}
		m.recording = false
		m.frames = nil
		return
	}
	m.recording = true
	m.frames = make([]*image.Paletted, 0)
}

// captureFrame rasterises the canvas, one 4x4 block per dot.
func (m *Model) captureFrame() {
	const dot = 4
	w, h := m.canvas.Dots()
	img := image.NewPaletted(image.Rect(0, 0, w*dot, h*dot), color.Palette{color.Black, color.White})
	m.canvas.EachDot(func(x, y int) {
		for py := 0; py < dot; py++ {
			for px := 0; px < dot; px++ {
				img.SetColorIndex(x*dot+px, y*dot+py, 1)
			}
		}
	})
	m.frames = append(m.frames, img)
}

func (m *Model) saveGIF(path string) error {
	if len(m.frames) == 0 {
		return nil
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range m.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, 3)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gif.EncodeAll(f, &anim)
}

// Run starts a full-screen live session.
func Run(c copula.Copula, opts Options) error {
	_, err := tea.NewProgram(NewModel(c, opts), tea.WithAltScreen()).Run()
	return err
}
