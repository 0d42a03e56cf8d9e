// config/config.go
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the root YAML configuration for a controller connection.
type Config struct {
	Serial SerialConfig `yaml:"serial"`
	Engine EngineConfig `yaml:"engine"`
	Device DeviceConfig `yaml:"device"`
}

// ---- SERIAL ----

type SerialConfig struct {
	// Port is the device path (e.g. /dev/ttyUSB0). When empty the port
	// is located by the discovery filter below.
	Port          string `yaml:"port"`
	SerialNumber  string `yaml:"serial_number"` // regexp, matched from the start
	Product       string `yaml:"product"`       // regexp, matched from the start
	VID           string `yaml:"vid"`
	PID           string `yaml:"pid"`
	BaudRate      int    `yaml:"baud_rate"`
	ReadTimeoutMs int    `yaml:"read_timeout_ms"`
}

// ---- ENGINE ----

type EngineConfig struct {
	ReadIntervalMs      int `yaml:"read_interval_ms"`
	KeepaliveIntervalMs int `yaml:"keepalive_interval_ms"`
}

// ---- DEVICE ----

// DeviceConfig selects the controller layout and motion behavior flags.
// The behavior flags are tri-state: a flag left unset in the YAML keeps
// the profile's own default (single-bay units, for example, default both
// invert_direction_logic and swap_limit_switches to true).
type DeviceConfig struct {
	// Profile is "rack-dc", "rack-stepper" or "single-bay".
	Profile string `yaml:"profile"`
	// Bays is the number of populated bays for rack profiles (1-3 on
	// shipping hardware, up to 10 addressable).
	Bays                 int   `yaml:"bays"`
	HomeOnStart          *bool `yaml:"home_on_start"`
	InvertDirectionLogic *bool `yaml:"invert_direction_logic"`
	SwapLimitSwitches    *bool `yaml:"swap_limit_switches"`
}

// Load reads and parses a YAML config file. It does not validate;
// call Validate before use.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return &cfg, nil
}
