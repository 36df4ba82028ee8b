package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFileMissingReturnsDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}

	def := DefaultConfig()
	if cfg.Output.MaxFrequencyHz != def.Output.MaxFrequencyHz {
		t.Errorf("max frequency %d, want default %d", cfg.Output.MaxFrequencyHz, def.Output.MaxFrequencyHz)
	}
	if cfg.MIDI.MaxOnTimeMicros != def.MIDI.MaxOnTimeMicros {
		t.Errorf("MIDI max on-time %d, want default %d", cfg.MIDI.MaxOnTimeMicros, def.MIDI.MaxOnTimeMicros)
	}
	if cfg.MIDI.SerialBaud != 31250 {
		t.Errorf("serial baud %d, want 31250", cfg.MIDI.SerialBaud)
	}
	if cfg.ARSG.MinLineFrequencyHz != 10 || cfg.ARSG.MaxLineFrequencyHz != 120 {
		t.Errorf("ARSG line range %d-%d, want 10-120", cfg.ARSG.MinLineFrequencyHz, cfg.ARSG.MaxLineFrequencyHz)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg := DefaultConfig()
	cfg.Output.MaxFrequencyHz = 800
	cfg.Output.SkipFrequencies = []int{111, 222}
	cfg.MIDI.SerialPort = "/dev/ttyUSB0"
	cfg.UI.FileDir = "/tmp/midi"
	if err := cfg.SaveFile(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Output.MaxFrequencyHz != 800 {
		t.Errorf("max frequency %d, want 800", got.Output.MaxFrequencyHz)
	}
	if len(got.Output.SkipFrequencies) != 2 || got.Output.SkipFrequencies[0] != 111 {
		t.Errorf("skip frequencies %v, want [111 222]", got.Output.SkipFrequencies)
	}
	if got.MIDI.SerialPort != "/dev/ttyUSB0" {
		t.Errorf("serial port %q", got.MIDI.SerialPort)
	}
	if got.UI.FileDir != "/tmp/midi" {
		t.Errorf("file dir %q", got.UI.FileDir)
	}
}

func TestLoadFilePartialKeepsDefaults(t *testing.T) {
	// A file that only sets one field leaves the rest at their defaults.
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"output":{"maxFrequencyHz":500}}`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Output.MaxFrequencyHz != 500 {
		t.Errorf("max frequency %d, want 500", cfg.Output.MaxFrequencyHz)
	}
	if cfg.MIDI.MaxOnTimeMicros != DefaultConfig().MIDI.MaxOnTimeMicros {
		t.Errorf("MIDI max on-time %d, want default", cfg.MIDI.MaxOnTimeMicros)
	}
}

func TestLoadFileRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatal("garbage config should fail to load")
	}
}
