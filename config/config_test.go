// config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadAndValidate(t *testing.T) {
	raw := `
serial:
  serial_number: "73"
  baud_rate: 115200
  read_timeout_ms: 100
engine:
  read_interval_ms: 25
  keepalive_interval_ms: 900
device:
  profile: rack-dc
  bays: 2
  home_on_start: true
  swap_limit_switches: true
`
	path := filepath.Join(t.TempDir(), "device.yaml")
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() err=%v", err)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate() err=%v", err)
	}

	if cfg.Serial.SerialNumber != "73" || cfg.Serial.BaudRate != 115200 {
		t.Fatalf("serial section wrong: %+v", cfg.Serial)
	}
	if cfg.Device.Profile != ProfileRackDC || cfg.Device.Bays != 2 {
		t.Fatalf("device section wrong: %+v", cfg.Device)
	}
	if cfg.Device.HomeOnStart == nil || !*cfg.Device.HomeOnStart {
		t.Fatalf("home_on_start not parsed: %+v", cfg.Device)
	}
	if cfg.Device.SwapLimitSwitches == nil || !*cfg.Device.SwapLimitSwitches {
		t.Fatalf("swap_limit_switches not parsed: %+v", cfg.Device)
	}
	// Flags absent from the YAML stay unset so profile defaults apply.
	if cfg.Device.InvertDirectionLogic != nil {
		t.Fatalf("unset invert_direction_logic parsed as set: %+v", cfg.Device)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Device: DeviceConfig{Profile: ProfileRackDC, Bays: 1},
		}
	}

	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"minimal rack", func(*Config) {}, false},
		{"single bay", func(c *Config) { c.Device = DeviceConfig{Profile: ProfileSingleBay} }, false},
		{"stepper", func(c *Config) { c.Device = DeviceConfig{Profile: ProfileRackStepper, Bays: 3} }, false},
		{"missing profile", func(c *Config) { c.Device.Profile = "" }, true},
		{"unknown profile", func(c *Config) { c.Device.Profile = "piezo" }, true},
		{"zero bays", func(c *Config) { c.Device.Bays = 0 }, true},
		{"too many bays", func(c *Config) { c.Device.Bays = 11 }, true},
		{"single bay with bays", func(c *Config) { c.Device = DeviceConfig{Profile: ProfileSingleBay, Bays: 2} }, true},
		{"negative baud", func(c *Config) { c.Serial.BaudRate = -1 }, true},
		{"negative read interval", func(c *Config) { c.Engine.ReadIntervalMs = -5 }, true},
		{"bad filter regexp", func(c *Config) { c.Serial.SerialNumber = "(" }, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(cfg)
			err := Validate(cfg)
			if tc.wantErr && err == nil {
				t.Fatal("expected error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}

	if err := Validate(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
}
