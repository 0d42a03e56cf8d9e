// config/validate.go
package config

import (
	"errors"
	"fmt"
	"regexp"
)

// Profile names accepted in DeviceConfig.Profile.
const (
	ProfileRackDC      = "rack-dc"
	ProfileRackStepper = "rack-stepper"
	ProfileSingleBay   = "single-bay"
)

// Validate checks a loaded Config. It does not mutate; defaults are
// applied by the driver when building a device from the config.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config: nil config")
	}

	// ---- serial ----

	if cfg.Serial.BaudRate < 0 {
		return errors.New("config: baud_rate must be >= 0")
	}
	if cfg.Serial.ReadTimeoutMs < 0 {
		return errors.New("config: read_timeout_ms must be >= 0")
	}
	for _, expr := range []string{cfg.Serial.SerialNumber, cfg.Serial.Product} {
		if expr == "" {
			continue
		}
		if _, err := regexp.Compile(expr); err != nil {
			return fmt.Errorf("config: bad filter expression %q: %w", expr, err)
		}
	}

	// ---- engine ----

	if cfg.Engine.ReadIntervalMs < 0 {
		return errors.New("config: read_interval_ms must be >= 0")
	}
	if cfg.Engine.KeepaliveIntervalMs < 0 {
		return errors.New("config: keepalive_interval_ms must be >= 0")
	}

	// ---- device ----

	switch cfg.Device.Profile {
	case ProfileRackDC, ProfileRackStepper:
		if cfg.Device.Bays < 1 || cfg.Device.Bays > 10 {
			return fmt.Errorf("config: bays must be 1-10 for profile %s", cfg.Device.Profile)
		}
	case ProfileSingleBay:
		if cfg.Device.Bays > 1 {
			return errors.New("config: single-bay profile cannot have multiple bays")
		}
	case "":
		return errors.New("config: device profile required")
	default:
		return fmt.Errorf("config: unknown device profile %q", cfg.Device.Profile)
	}

	return nil
}
