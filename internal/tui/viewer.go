package tui

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/hillfit/internal/dataset"
	"github.com/san-kum/hillfit/internal/hill"
	"github.com/san-kum/hillfit/internal/render"
)

type Tab int

const (
	TabCurve Tab = iota
	TabResiduals
	TabParams
	numTabs
)

var tabNames = [numTabs]string{"curve", "residuals", "parameters"}

func (t Tab) String() string {
	if t < 0 || t >= numTabs {
		return "unknown"
	}
	return tabNames[t]
}

const (
	chromeHeight = 8
	minBodyRows  = 5
	axisMargin   = 14
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
)

// Model is a read-only viewer over one fit.
type Model struct {
	title   string
	series  dataset.Series
	report  *hill.Report
	sigfigs int
	tab     Tab

	width  int
	height int
}

func New(title string, series dataset.Series, rep *hill.Report, sigfigs int) Model {
	if title == "" {
		title = series.Name
	}
	return Model{
		title:   title,
		series:  series,
		report:  rep,
		sigfigs: sigfigs,
		width:   80,
		height:  24,
	}
}

// Run shows m full screen until the user quits.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func (m Model) Tab() Tab { return m.tab }

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch key := msg.String(); key {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "tab", "right", "l":
		m.tab = (m.tab + 1) % numTabs
	case "shift+tab", "left", "h":
		m.tab = (m.tab + numTabs - 1) % numTabs
	case "1", "2", "3":
		m.tab = Tab(key[0] - '1')
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString("\n  " + cyan.Render(m.title) + "  " + m.viewTabs() + "\n")
	b.WriteString(dimmer.Render("  "+strings.Repeat("━", max(m.width-4, 10))) + "\n\n")

	switch m.tab {
	case TabCurve:
		b.WriteString(m.viewCurve())
	case TabResiduals:
		b.WriteString(m.viewResiduals())
	case TabParams:
		b.WriteString(m.viewParams())
	}

	b.WriteString("\n\n  " + render.KeyHint.Render("tab/←/→ switch  1-3 jump  q quit") + "\n")
	return b.String()
}

func (m Model) viewTabs() string {
	parts := make([]string, numTabs)
	for i := Tab(0); i < numTabs; i++ {
		label := fmt.Sprintf("%d %s", i+1, i)
		if i == m.tab {
			parts[i] = render.ActiveTab.Render(label)
		} else {
			parts[i] = render.InactiveTab.Render(label)
		}
	}
	return strings.Join(parts, dim.Render("│"))
}

func (m Model) plotOptions(caption string) render.PlotOptions {
	return render.PlotOptions{
		Width:   max(m.width-axisMargin, 10),
		Height:  max(m.height-chromeHeight, minBodyRows),
		Caption: caption,
	}
}

func (m Model) viewCurve() string {
	caption := fmt.Sprintf("R² = %.4f   %s", m.report.RSquared, m.report.Params.Equation(m.sigfigs))
	out, err := render.Curve(m.series.X, m.series.Y, m.report.Params, m.plotOptions(caption))
	if err != nil {
		return render.Warning.Render("  cannot plot: " + err.Error())
	}
	return out
}

func (m Model) viewResiduals() string {
	out, err := render.Residuals(m.series.X, m.series.Y, m.report.Params, m.plotOptions(""))
	if err != nil {
		return render.Warning.Render("  cannot plot: " + err.Error())
	}
	return out
}

func (m Model) viewParams() string {
	var b strings.Builder
	b.WriteString(render.ParamTable(m.report.Estimation, m.sigfigs))
	b.WriteString("\n" + render.MetricLabel.Render(fmt.Sprintf("%-18s", "R²")) +
		render.Quality(m.report.RSquared).Render(fmt.Sprintf("%.6g", m.report.RSquared)) + "\n")

	names := make([]string, 0, len(m.report.Metrics))
	for name := range m.report.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		b.WriteString(render.MetricLabel.Render(fmt.Sprintf("%-18s", name)) +
			render.MetricValue.Render(fmt.Sprintf("%.6g", m.report.Metrics[name])) + "\n")
	}
	for _, w := range m.report.Warnings {
		b.WriteString(render.Warning.Render("warning: "+w) + "\n")
	}
	return b.String()
}
