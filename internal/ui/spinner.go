package ui

import (
	"io"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

type spinTickMsg struct{}

// SpinnerDoneMsg stops the spinner, replacing it with Final (may be empty).
type SpinnerDoneMsg struct {
	Final string
}

// SpinnerModel is the Bubble Tea model for a single-line progress indicator.
type SpinnerModel struct {
	Msg   string
	Frame int
	Done  bool
	Final string
}

func spinTick() tea.Cmd {
	return tea.Tick(spinnerInterval, func(time.Time) tea.Msg {
		return spinTickMsg{}
	})
}

func (m SpinnerModel) Init() tea.Cmd { return spinTick() }

func (m SpinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinTickMsg:
		if m.Done {
			return m, nil
		}
		m.Frame = (m.Frame + 1) % len(spinnerFrames)
		return m, spinTick()

	case SpinnerDoneMsg:
		m.Done = true
		m.Final = msg.Final
		return m, tea.Quit

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.Done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m SpinnerModel) View() string {
	if m.Done {
		if m.Final == "" {
			return ""
		}
		return m.Final + "\n"
	}
	return StyleChain.Render(spinnerFrames[m.Frame]) + "  " + m.Msg
}

// Spinner runs a SpinnerModel program on w. It never reads stdin.
type Spinner struct {
	out io.Writer

	mu   sync.Mutex
	prog *tea.Program
	done chan struct{}
}

// NewSpinner creates a spinner that renders to w (normally stderr).
func NewSpinner(w io.Writer) *Spinner {
	return &Spinner{out: w}
}

// Start shows msg with an animated frame. Calling Start while running is a no-op.
func (s *Spinner) Start(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.prog != nil {
		return
	}
	s.prog = tea.NewProgram(SpinnerModel{Msg: msg},
		tea.WithOutput(s.out),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
	)
	s.done = make(chan struct{})
	go func(p *tea.Program, done chan struct{}) {
		defer close(done)
		_, _ = p.Run()
	}(s.prog, s.done)
}

// Stop halts the animation, prints final (if any) and waits for the program to exit.
func (s *Spinner) Stop(final string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.prog == nil {
		return
	}
	s.prog.Send(SpinnerDoneMsg{Final: final})
	<-s.done
	s.prog, s.done = nil, nil
}
