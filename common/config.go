// common/config.go
package common

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	MinFloors   = 3
	MaxFloors   = 30
	MinCapacity = 3
	MaxCapacity = 20
)

type BuildingConfig struct {
	NumFloors        int `yaml:"floors"`
	NumElevators     int `yaml:"elevators"`
	ElevatorCapacity int `yaml:"capacity"`
}

// Validate checks the construction contract of a building.
func (b BuildingConfig) Validate() error {
	if b.NumFloors <= 0 || b.NumElevators <= 0 || b.ElevatorCapacity <= 0 {
		return InvalidArgument("the number of floors, elevators, and elevator capacity must be greater than 0")
	}
	if b.NumFloors < MinFloors || b.NumFloors > MaxFloors {
		return InvalidArgument("the number of floors must be between %d and %d", MinFloors, MaxFloors)
	}
	if b.ElevatorCapacity < MinCapacity || b.ElevatorCapacity > MaxCapacity {
		return InvalidArgument("the elevator capacity must be between %d and %d", MinCapacity, MaxCapacity)
	}
	return nil
}

func (b BuildingConfig) TopFloor() int {
	return b.NumFloors - 1
}

// CarConfig holds the timing of a simulated car, in ticks.
type CarConfig struct {
	DoorOpenTicks int `yaml:"door_open_ticks"`
	ParkTicks     int `yaml:"park_ticks"`
}

func (c CarConfig) Validate() error {
	if c.DoorOpenTicks < 1 {
		return InvalidArgument("door_open_ticks must be at least 1")
	}
	if c.ParkTicks < 1 {
		return InvalidArgument("park_ticks must be at least 1")
	}
	return nil
}

type ConsoleConfig struct {
	// Zero disables automatic stepping.
	TickInterval time.Duration `yaml:"tick_interval"`
	Intro        bool          `yaml:"intro"`
}

type FeedConfig struct {
	// Empty disables the report feed.
	Listen string `yaml:"listen"`
	Outbox int    `yaml:"outbox"`
}

type Config struct {
	SessionID string         `yaml:"session_id"`
	LogLevel  string         `yaml:"log_level"`
	Building  BuildingConfig `yaml:"building"`
	Car       CarConfig      `yaml:"car"`
	Console   ConsoleConfig  `yaml:"console"`
	Feed      FeedConfig     `yaml:"feed"`
}

// DefaultConfig is the console boot configuration: 11 floors, 8 cars of 20.
func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
		Building: BuildingConfig{
			NumFloors:        11,
			NumElevators:     8,
			ElevatorCapacity: 20,
		},
		Car: DefaultCarConfig(),
		Console: ConsoleConfig{
			Intro: true,
		},
		Feed: FeedConfig{
			Outbox: 16,
		},
	}
}

func DefaultCarConfig() CarConfig {
	return CarConfig{
		DoorOpenTicks: 3,
		ParkTicks:     5,
	}
}

// LoadConfig reads a YAML file over the defaults. A missing file yields the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Car.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyEnvFile overrides fields from ELEVSIM_* keys of a .env file.
// A missing file is not an error.
func (c *Config) ApplyEnvFile(path string) error {
	if path == "" {
		return nil
	}
	env, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read env %s: %w", path, err)
	}
	return c.ApplyEnv(env)
}

func (c *Config) ApplyEnv(env map[string]string) error {
	ints := []struct {
		key  string
		dest *int
	}{
		{"ELEVSIM_FLOORS", &c.Building.NumFloors},
		{"ELEVSIM_ELEVATORS", &c.Building.NumElevators},
		{"ELEVSIM_CAPACITY", &c.Building.ElevatorCapacity},
	}
	for _, e := range ints {
		v, ok := env[e.key]
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", e.key, err)
		}
		*e.dest = n
	}

	if v, ok := env["ELEVSIM_TICK_INTERVAL"]; ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("ELEVSIM_TICK_INTERVAL: %w", err)
		}
		c.Console.TickInterval = d
	}
	if v, ok := env["ELEVSIM_FEED_LISTEN"]; ok {
		c.Feed.Listen = v
	}
	if v, ok := env["ELEVSIM_LOG_LEVEL"]; ok {
		c.LogLevel = v
	}
	if v, ok := env["ELEVSIM_SESSION_ID"]; ok {
		c.SessionID = v
	}
	return nil
}
