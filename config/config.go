package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// OutputConfig holds the safety envelope for the pulse outputs.
type OutputConfig struct {
	MinFrequencyHz  int     `json:"minFrequencyHz"`
	MaxFrequencyHz  int     `json:"maxFrequencyHz"`
	MinOnTimeMicros int     `json:"minOnTimeMicros"`
	MaxOnTimeMicros int     `json:"maxOnTimeMicros"`
	MaxDutyPercent  float64 `json:"maxDutyPercent"`
	SkipFrequencies []int   `json:"skipFrequencies,omitempty"`
}

// ARSGConfig holds the rotary-gap emulator's envelope and line range.
type ARSGConfig struct {
	MinLineFrequencyHz int     `json:"minLineFrequencyHz"`
	MaxLineFrequencyHz int     `json:"maxLineFrequencyHz"`
	MinFrequencyHz     int     `json:"minFrequencyHz"`
	MaxFrequencyHz     int     `json:"maxFrequencyHz"`
	MinOnTimeMicros    int     `json:"minOnTimeMicros"`
	MaxOnTimeMicros    int     `json:"maxOnTimeMicros"`
	MaxDutyPercent     float64 `json:"maxDutyPercent"`
}

// MIDIConfig holds settings for live MIDI input and file playback.
type MIDIConfig struct {
	// On-time range velocity 1..127 maps into, in microseconds.
	MaxOnTimeMicros int    `json:"maxOnTimeMicros"`
	SerialPort      string `json:"serialPort,omitempty"`
	SerialBaud      int    `json:"serialBaud,omitempty"`
	InputPort       string `json:"inputPort,omitempty"` // gomidi port name
}

// UIConfig stores UI preferences
type UIConfig struct {
	FileDir string `json:"fileDir,omitempty"` // where MIDI files are listed from
}

// Config is the main configuration structure
type Config struct {
	Output OutputConfig `json:"output"`
	ARSG   ARSGConfig   `json:"arsg"`
	MIDI   MIDIConfig   `json:"midi"`
	UI     UIConfig     `json:"ui,omitempty"`
}

// DefaultConfig returns a config with the reference controller's defaults.
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{
			MinFrequencyHz:  100,
			MaxFrequencyHz:  1000,
			MinOnTimeMicros: 20,
			MaxOnTimeMicros: 300,
			MaxDutyPercent:  5.0,
			// These frequencies interfere with the reference display hardware.
			SkipFrequencies: []int{
				139, 239, 289, 339, 389, 390, 391, 392, 393, 394, 395,
				396, 397, 398, 399, 439, 489, 539, 639, 739, 839, 939,
			},
		},
		ARSG: ARSGConfig{
			MinLineFrequencyHz: 10,
			MaxLineFrequencyHz: 120,
			MinFrequencyHz:     100,
			MaxFrequencyHz:     1000,
			MinOnTimeMicros:    20,
			MaxOnTimeMicros:    300,
			MaxDutyPercent:     5.0,
		},
		MIDI: MIDIConfig{
			MaxOnTimeMicros: 100,
			SerialBaud:      31250, // DIN MIDI
		},
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "mptcc"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFile(path)
}

// LoadFile reads a config from an explicit path, or returns defaults if
// the file does not exist.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveFile(path)
}

// SaveFile writes the config to an explicit path
func (c *Config) SaveFile(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
