package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/copulab/internal/config"
	"github.com/san-kum/copulab/internal/copula"
	"github.com/san-kum/copulab/internal/rng"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	red    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

var familyInfo = map[string]string{
	"gaussian": "elliptical, no tail dependence",
	"t":        "elliptical, symmetric tails",
	"clayton":  "archimedean, lower tail",
	"gumbel":   "archimedean, upper tail",
}

// entry is one selectable preset.
type entry struct {
	family, preset string
}

// Picker lists every preset and opens a live view of the selected one.
type Picker struct {
	entries []entry
	cursor  int
	seed    uint64
	live    *Model
	err     error
}

// NewPicker lists the built-in presets. Copulas it builds draw from a
// stream seeded with seed.
func NewPicker(seed uint64) *Picker {
	p := &Picker{seed: seed}
	for _, f := range config.Families() {
		for _, name := range config.ListPresets(f) {
			p.entries = append(p.entries, entry{family: f, preset: name})
		}
	}
	return p
}

func (p *Picker) Init() tea.Cmd { return nil }

func (p *Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if p.live != nil {
		if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
			p.live = nil
			return p, nil
		}
		_, cmd := p.live.Update(msg)
		return p, cmd
	}
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}
	switch key.String() {
	case "q", "ctrl+c":
		return p, tea.Quit
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.entries)-1 {
			p.cursor++
		}
	case "enter", " ":
		return p, p.open()
	}
	return p, nil
}

// open builds the copula under the cursor and hands control to its live view.
func (p *Picker) open() tea.Cmd {
	if len(p.entries) == 0 {
		return nil
	}
	e := p.entries[p.cursor]
	cfg := config.GetPreset(e.family, e.preset)
	if cfg == nil {
		p.err = fmt.Errorf("preset %s/%s not found", e.family, e.preset)
		return nil
	}
	settings, err := cfg.Settings()
	if err != nil {
		p.err = err
		return nil
	}
	c, err := copula.New(settings, rng.New(p.seed))
	if err != nil {
		p.err = err
		return nil
	}
	p.err = nil
	p.live = NewModel(c, Options{Title: e.family + "/" + e.preset, Limit: cfg.Samples})
	return p.live.Init()
}

func (p *Picker) View() string {
	if p.live != nil {
		return p.live.View() + "\n" + dim.Render("esc: back to presets")
	}
	var b strings.Builder
	b.WriteString(cyan.Bold(true).Render("COPULAB") + dim.Render("  pick a preset") + "\n\n")
	last := ""
	for i, e := range p.entries {
		if e.family != last {
			b.WriteString("  " + yellow.Render(e.family) + dim.Render("  "+familyInfo[e.family]) + "\n")
			last = e.family
		}
		line := "    " + e.preset
		if i == p.cursor {
			line = cyan.Render("  > " + e.preset)
		} else {
			line = white.Render(line)
		}
		b.WriteString(line + "\n")
	}
	if p.err != nil {
		b.WriteString("\n" + red.Render(p.err.Error()) + "\n")
	}
	b.WriteString("\n" + dim.Render("↑↓ move  enter open  q quit"))
	return b.String()
}

// RunInteractive starts the preset picker full screen.
func RunInteractive(seed uint64) error {
	_, err := tea.NewProgram(NewPicker(seed), tea.WithAltScreen()).Run()
	return err
}
