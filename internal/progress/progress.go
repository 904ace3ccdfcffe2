// Package progress shows export progress on a terminal.
package progress

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#1F77B4", Dark: "#8EDEFF"})
	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BBBBBB"})
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#A00000", Dark: "#FF8080"})
)

type frameMsg int

type doneMsg struct{ err error }

type model struct {
	title   string
	total   int
	done    int
	started time.Time
	now     func() time.Time
	bar     progress.Model
	err     error
	quit    bool
}

func newModel(title string, total int) model {
	return model{
		title:   title,
		total:   total,
		started: time.Now(),
		now:     time.Now,
		bar: progress.New(
			progress.WithScaledGradient("#1F77B4", "#8EDEFF"),
			progress.WithoutPercentage(),
			progress.WithWidth(40),
		),
	}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.bar.Width = min(max(msg.Width-30, 10), 60)
	case frameMsg:
		m.done = int(msg)
	case doneMsg:
		m.err = msg.err
		m.quit = true
		return m, tea.Quit
	}
	return m, nil
}

func (m model) percent() float64 {
	if m.total <= 0 {
		return 0
	}
	return min(1, float64(m.done)/float64(m.total))
}

// rate returns frames rendered per second so far.
func (m model) rate() float64 {
	elapsed := m.now().Sub(m.started).Seconds()
	if elapsed <= 0 {
		return 0
	}
	return float64(m.done) / elapsed
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n")
	b.WriteString(m.bar.ViewAs(m.percent()))
	b.WriteString(statusStyle.Render(fmt.Sprintf("  %d/%d frames  %.1f fps", m.done, m.total, m.rate())))
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(errorStyle.Render("error: " + m.err.Error()))
		b.WriteString("\n")
	}
	return b.String()
}

// Reporter drives a progress bar from the export loop.
type Reporter struct {
	p    *tea.Program
	done chan error
}

// Start shows a progress bar for total frames on out. Input is not read,
// so the bar never competes with the caller for stdin.
func Start(out io.Writer, title string, total int) *Reporter {
	r := &Reporter{
		p:    tea.NewProgram(newModel(title, total), tea.WithOutput(out), tea.WithInput(nil)),
		done: make(chan error, 1),
	}
	go func() {
		_, err := r.p.Run()
		r.done <- err
	}()
	return r
}

// Frame reports that n frames are done.
func (r *Reporter) Frame(n int) {
	r.p.Send(frameMsg(n))
}

// Finish shows the final state and waits for the bar to exit.
func (r *Reporter) Finish(err error) error {
	r.p.Send(doneMsg{err: err})
	return <-r.done
}
