package config

import (
	"os"
	"time"

	"github.com/jsphweid/dormbell/constants"
	"github.com/jsphweid/dormbell/frame"
	"github.com/jsphweid/dormbell/transport"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Pacing struct {
	Mode          string `yaml:"mode"`            // ack or delay
	// nil means the default; 0 is a real, zero delay
	DelayMS       *int `yaml:"delay_ms"`        // between burst halves
	PackedDelayMS *int `yaml:"packed_delay_ms"` // every half limit in packed frames
}

type Config struct {
	Port           string `yaml:"port"`
	BaudRate       int    `yaml:"baud_rate"`
	ClockFrequency int    `yaml:"clock_frequency"`
	MemoryLimit    int    `yaml:"memory_limit"`
	Layout         string `yaml:"layout"`
	Pacing         Pacing `yaml:"pacing"`
	ByteRate       int    `yaml:"byte_rate"`
}

func Millis(ms int) *int {
	return &ms
}

func Default() Config {
	var cfg Config
	cfg.fillDefaults()
	return cfg
}

func (cfg *Config) fillDefaults() {
	if cfg.BaudRate == 0 {
		cfg.BaudRate = constants.BaudRate
	}
	if cfg.ClockFrequency == 0 {
		cfg.ClockFrequency = constants.ClockFrequency
	}
	if cfg.MemoryLimit == 0 {
		cfg.MemoryLimit = constants.MemoryLimit
	}
	if cfg.Layout == "" {
		cfg.Layout = frame.Burst.String()
	}
	if cfg.Pacing.Mode == "" {
		cfg.Pacing.Mode = transport.AckWait.String()
	}
	if cfg.Pacing.DelayMS == nil {
		cfg.Pacing.DelayMS = Millis(500)
	}
	if cfg.Pacing.PackedDelayMS == nil {
		cfg.Pacing.PackedDelayMS = Millis(2000)
	}
	if env := constants.GetPort(); env != "" {
		cfg.Port = env
	}
}

// Load reads a YAML config. A missing file at the default path yields the
// defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) && path == constants.DefaultConfigPath {
		return Default(), nil
	}
	if err != nil {
		return Config{}, errors.Wrapf(err, "reading config %s", path)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrapf(err, "parsing config %s", path)
	}
	cfg.fillDefaults()
	return cfg, cfg.Validate()
}

func negative(ms *int) bool {
	return ms != nil && *ms < 0
}

func (cfg Config) Validate() error {
	if _, err := frame.ParseLayout(cfg.Layout); err != nil {
		return err
	}
	if _, err := transport.ParsePaceMode(cfg.Pacing.Mode); err != nil {
		return err
	}
	if cfg.MemoryLimit < constants.SongOverhead+constants.NoteSize {
		return errors.Errorf("memory_limit %d cannot hold a single note", cfg.MemoryLimit)
	}
	if negative(cfg.Pacing.DelayMS) || negative(cfg.Pacing.PackedDelayMS) {
		return errors.New("pacing delays cannot be negative")
	}
	if cfg.ByteRate < 0 {
		return errors.Errorf("byte_rate %d is negative", cfg.ByteRate)
	}
	return nil
}

func (cfg Config) FrameLayout() frame.Layout {
	l, _ := frame.ParseLayout(cfg.Layout)
	return l
}

func (cfg Config) TransportOptions() transport.Options {
	mode, _ := transport.ParsePaceMode(cfg.Pacing.Mode)
	return transport.Options{
		Name:        cfg.Port,
		Pacing:      mode,
		Delay:       time.Duration(*cfg.Pacing.DelayMS) * time.Millisecond,
		PackedDelay: time.Duration(*cfg.Pacing.PackedDelayMS) * time.Millisecond,
		ByteRate:    cfg.ByteRate,
	}
}
