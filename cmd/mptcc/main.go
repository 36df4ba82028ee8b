package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver

	"github.com/cameronprince/mptcc/config"
	"github.com/cameronprince/mptcc/debug"
	"github.com/cameronprince/mptcc/hw"
	"github.com/cameronprince/mptcc/pulse"
	"github.com/cameronprince/mptcc/tui"
)

func main() {
	fileDir := flag.String("dir", "", "directory to list MIDI files from")
	file := flag.String("file", "", "MIDI file to load for playback")
	serialPort := flag.String("serial", "", "serial port for DIN MIDI input")
	midiPort := flag.String("port", "", "system MIDI input port for live input")
	verbose := flag.Bool("debug", false, "write a debug log")
	flag.Parse()

	if *verbose {
		if err := debug.Enable(); err != nil {
			fmt.Fprintf(os.Stderr, "debug log: %v\n", err)
		}
		defer debug.Disable()
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v (using defaults)\n", err)
		cfg = config.DefaultConfig()
	}

	limits := pulse.Limits{
		MinFrequencyHz:  cfg.Output.MinFrequencyHz,
		MaxFrequencyHz:  cfg.Output.MaxFrequencyHz,
		MinOnTimeMicros: cfg.Output.MinOnTimeMicros,
		MaxOnTimeMicros: cfg.Output.MaxOnTimeMicros,
		MaxDutyPercent:  cfg.Output.MaxDutyPercent,
	}

	// Hardware writers are null here; real builds inject their PWM and LED
	// drivers at this point.
	engine := pulse.NewEngine(hw.NullPulseWriter{}, hw.NullLEDWriter{}, limits)
	engine.Start()
	defer engine.Stop()

	interrupter := pulse.NewInterrupter(limits, cfg.Output.SkipFrequencies)
	arsg := pulse.NewARSG(
		pulse.Limits{
			MinFrequencyHz:  cfg.ARSG.MinFrequencyHz,
			MaxFrequencyHz:  cfg.ARSG.MaxFrequencyHz,
			MinOnTimeMicros: cfg.ARSG.MinOnTimeMicros,
			MaxOnTimeMicros: cfg.ARSG.MaxOnTimeMicros,
			MaxDutyPercent:  cfg.ARSG.MaxDutyPercent,
		},
		pulse.LineRange{MinHz: cfg.ARSG.MinLineFrequencyHz, MaxHz: cfg.ARSG.MaxLineFrequencyHz},
	)
	input := pulse.NewMIDIInput(cfg.MIDI.MaxOnTimeMicros)
	player := pulse.NewPlayer(cfg.MIDI.MaxOnTimeMicros)
	player.SetOnIdle(func() { engine.SetSource(nil) })

	// Live note input: serial DIN MIDI if configured, otherwise a system
	// MIDI port if one was named.
	if noteIn := openNoteInput(cfg, *serialPort, *midiPort); noteIn != nil {
		defer noteIn.Close()
		go func() {
			for ev := range noteIn.NoteEvents() {
				input.Handle(ev)
			}
		}()
	}

	if *file != "" {
		if err := player.LoadFile(*file); err != nil {
			fmt.Fprintf(os.Stderr, "load %s: %v\n", *file, err)
			os.Exit(1)
		}
	}

	dir := *fileDir
	if dir == "" {
		dir = cfg.UI.FileDir
	}

	m := tui.NewModel(engine, interrupter, arsg, input, player, dir)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func openNoteInput(cfg *config.Config, serialPort, midiPort string) hw.NoteInput {
	if serialPort == "" {
		serialPort = cfg.MIDI.SerialPort
	}
	if serialPort != "" {
		in, err := hw.OpenSerialInput(serialPort, cfg.MIDI.SerialBaud)
		if err != nil {
			fmt.Fprintf(os.Stderr, "serial MIDI: %v\n", err)
			return nil
		}
		debug.Log("midi", "listening on serial %s", serialPort)
		return in
	}

	if midiPort == "" {
		midiPort = cfg.MIDI.InputPort
	}
	if midiPort != "" {
		in, err := hw.OpenPortInput(midiPort)
		if err != nil {
			fmt.Fprintf(os.Stderr, "MIDI input: %v\n", err)
			return nil
		}
		debug.Log("midi", "listening on port %s", in.Name())
		return in
	}
	return nil
}
