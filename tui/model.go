package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cameronprince/mptcc/led"
	"github.com/cameronprince/mptcc/midifile"
	"github.com/cameronprince/mptcc/pulse"
)

// Model is the terminal control surface: it displays the engine's channel
// state and routes key input to whichever source is active, the way the
// hardware's menu layer routes encoder events.
type Model struct {
	Engine      *pulse.Engine
	Interrupter *pulse.Interrupter
	ARSG        *pulse.ARSG
	Input       *pulse.MIDIInput
	Player      *pulse.Player
	FileDir     string

	files    []string
	fileIdx  int
	trackIdx int
	output   int // gain-adjust target during playback
	status   string
	quitting bool
}

type UpdateMsg struct{}

type tickMsg time.Time

func NewModel(engine *pulse.Engine, in *pulse.Interrupter, ar *pulse.ARSG, mi *pulse.MIDIInput, pl *pulse.Player, fileDir string) Model {
	m := Model{
		Engine:      engine,
		Interrupter: in,
		ARSG:        ar,
		Input:       mi,
		Player:      pl,
		FileDir:     fileDir,
	}
	if fileDir != "" {
		m.files, _ = midifile.ListFiles(fileDir)
	}
	return m
}

// ListenForUpdates relays engine state changes to the UI.
func ListenForUpdates(engine *pulse.Engine) tea.Cmd {
	return func() tea.Msg {
		<-engine.UpdateChan
		return UpdateMsg{}
	}
}

func tick() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(ListenForUpdates(m.Engine), tick())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case UpdateMsg:
		return m, ListenForUpdates(m.Engine)
	case tickMsg:
		return m, tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		m.Engine.Stop()
		return m, tea.Quit

	case "esc":
		m.Engine.SetSource(nil)
		m.status = ""
		return m, nil

	case "i":
		m.Engine.SetSource(m.Interrupter)
		m.status = ""
		return m, nil

	case "m":
		m.Engine.SetSource(m.Input)
		m.status = ""
		return m, nil

	case "f":
		m.Engine.SetSource(m.Player)
		m.status = ""
		if m.Player.Path() == "" && len(m.files) > 0 {
			m.loadSelected()
		}
		return m, nil

	case "a":
		m.Engine.SetSource(m.ARSG)
		m.status = ""
		return m, nil
	}

	switch m.Engine.Mode() {
	case pulse.ModeInterrupter:
		return m.handleInterrupterKey(msg)
	case pulse.ModeARSG:
		return m.handleARSGKey(msg)
	case pulse.ModeFilePlayback:
		return m.handleFileKey(msg)
	}
	return m, nil
}

func (m Model) handleInterrupterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		m.Interrupter.AdjustOnTime(1)
	case "down", "j":
		m.Interrupter.AdjustOnTime(-1)
	case "right", "l":
		m.Interrupter.AdjustFrequency(1)
	case "left", "h":
		m.Interrupter.AdjustFrequency(-1)
	case "x":
		m.Interrupter.ToggleCoarse()
	case " ":
		m.Interrupter.ToggleEnabled()
	}
	return m, nil
}

func (m Model) handleARSGKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		m.ARSG.AdjustOnTime(1)
	case "down", "j":
		m.ARSG.AdjustOnTime(-1)
	case "right", "l":
		m.ARSG.AdjustFrequency(1)
	case "left", "h":
		m.ARSG.AdjustFrequency(-1)
	case ".":
		m.ARSG.AdjustLineFrequency(1)
	case ",":
		m.ARSG.AdjustLineFrequency(-1)
	case "x":
		m.ARSG.ToggleCoarse()
	case " ":
		m.ARSG.ToggleEnabled()
	}
	return m, nil
}

func (m Model) handleFileKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	playing := m.Player.Playing()

	switch msg.String() {
	case "j", "down":
		if !playing {
			m.trackIdx = m.clampTrack(m.trackIdx + 1)
		}
	case "k", "up":
		if !playing {
			m.trackIdx = m.clampTrack(m.trackIdx - 1)
		}
	case "n":
		if !playing && len(m.files) > 0 {
			m.fileIdx = (m.fileIdx + 1) % len(m.files)
			m.loadSelected()
		}
	case "enter":
		if playing {
			m.Player.Stop()
			m.status = "stopped"
		} else if err := m.Player.Start(); err != nil {
			m.status = err.Error()
		} else {
			m.status = "playing"
		}
	case "u":
		if !playing {
			m.Player.UnassignTrack(m.trackIdx)
		}
	case "1", "2", "3", "4":
		out := int(msg.String()[0] - '1')
		if playing {
			m.output = out
		} else {
			m.Player.AssignTrack(m.trackIdx, out)
		}
	case "+", "=":
		m.Player.AdjustGain(m.output, 5)
	case "-", "_":
		m.Player.AdjustGain(m.output, -5)
	}
	return m, nil
}

func (m *Model) loadSelected() {
	if len(m.files) == 0 {
		return
	}
	path := filepath.Join(m.FileDir, m.files[m.fileIdx])
	if err := m.Player.LoadFile(path); err != nil {
		m.status = err.Error()
		return
	}
	m.trackIdx = 0
	m.status = ""
}

func (m Model) clampTrack(i int) int {
	n := len(m.Player.Tracks())
	if n == 0 {
		return 0
	}
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	dimStyle    = lipgloss.NewStyle().Faint(true)
	activeStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var out strings.Builder
	mode := m.Engine.Mode()

	out.WriteString(titleStyle.Render("MPTCC") + "  " + mode.String() + "\n\n")
	out.WriteString(m.channelView())
	out.WriteString("\n")

	switch mode {
	case pulse.ModeInterrupter:
		out.WriteString(m.interrupterView())
	case pulse.ModeARSG:
		out.WriteString(m.arsgView())
	case pulse.ModeLiveMIDI:
		out.WriteString(m.liveView())
	case pulse.ModeFilePlayback:
		out.WriteString(m.fileView())
	default:
		out.WriteString(dimStyle.Render("all outputs off") + "\n")
	}

	if m.status != "" {
		out.WriteString("\n" + m.status + "\n")
	}
	out.WriteString("\n" + dimStyle.Render("i interrupter  a arsg  m midi input  f midi file  esc idle  q quit") + "\n")
	return out.String()
}

func (m Model) channelView() string {
	var out strings.Builder
	for _, ch := range m.Engine.Channels() {
		bar := levelBar(ch.Level)
		state := dimStyle.Render("off")
		if ch.Enabled {
			state = fmt.Sprintf("%4dHz %3dus", ch.FrequencyHz, ch.OnTimeMicros)
		}
		out.WriteString(fmt.Sprintf("  %d %s %3d%%  %s\n", ch.ID, bar, ch.Level, state))
	}
	return out.String()
}

// levelBar renders a 20-cell bar tinted by the same green→yellow→red map
// that drives the hardware LEDs.
func levelBar(level int) string {
	const width = 20
	filled := level * width / 100
	rgb := led.LevelColor(level)
	color := lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", rgb[0], rgb[1], rgb[2]))
	style := lipgloss.NewStyle().Foreground(color)
	return style.Render(strings.Repeat("█", filled)) + dimStyle.Render(strings.Repeat("░", width-filled))
}

func (m Model) interrupterView() string {
	freq, onTime, coarse, enabled := m.Interrupter.Settings()
	state := "standby"
	if enabled {
		state = activeStyle.Render("ACTIVE")
	}
	mult := ""
	if coarse {
		mult = "  10x"
	}
	return fmt.Sprintf("  on time %dus   freq %dHz   %s%s\n%s",
		onTime, freq, state, mult,
		dimStyle.Render("  arrows adjust  x 10x  space arm\n"))
}

func (m Model) arsgView() string {
	line, freq, onTime, coarse, enabled := m.ARSG.Settings()
	state := "standby"
	if enabled {
		state = activeStyle.Render("ACTIVE")
	}
	mult := ""
	if coarse {
		mult = "  10x"
	}
	return fmt.Sprintf("  line %dHz   on time %dus   freq %dHz   %s%s\n%s",
		line, onTime, freq, state, mult,
		dimStyle.Render("  arrows adjust  ,/. line freq  x 10x  space arm\n"))
}

func (m Model) liveView() string {
	if note, ok := m.Input.ActiveNote(); ok {
		return fmt.Sprintf("  note %d  %dHz\n", note, pulse.NoteFrequency(note))
	}
	return dimStyle.Render("  ready for input\n")
}

func (m Model) fileView() string {
	var out strings.Builder

	if m.Player.Playing() {
		elapsed := m.Player.Elapsed().Round(time.Second)
		out.WriteString(fmt.Sprintf("  %s  %02d:%02d\n", m.Player.Path(), int(elapsed.Minutes()), int(elapsed.Seconds())%60))
		for o := 0; o < pulse.NumOutputs; o++ {
			marker := "  "
			if o == m.output {
				marker = "> "
			}
			out.WriteString(fmt.Sprintf("  %s%d: %3d%%\n", marker, o+1, m.Player.Gain(o)))
		}
		out.WriteString(dimStyle.Render("  1-4 select output  +/- gain  enter stop\n"))
		return out.String()
	}

	if m.Player.Path() == "" {
		out.WriteString(dimStyle.Render("  no MIDI files found\n"))
		return out.String()
	}

	out.WriteString(fmt.Sprintf("  %s\n", m.Player.Path()))
	for _, t := range m.Player.Tracks() {
		cursor := "  "
		if t.Index == m.trackIdx {
			cursor = "> "
		}
		name := t.Name
		if name == "" {
			name = fmt.Sprintf("track %d", t.Index)
		}
		assigned := ""
		if t.Output >= 0 {
			assigned = fmt.Sprintf("  -> output %d", t.Output+1)
		}
		if t.Err != nil {
			assigned = dimStyle.Render("  (unusable)")
		}
		out.WriteString(fmt.Sprintf("  %s%s%s\n", cursor, name, assigned))
	}
	out.WriteString(dimStyle.Render("  j/k select  1-4 assign  u unassign  n next file  enter play\n"))
	return out.String()
}
