// driver/profile_test.go
package driver

import (
	"testing"

	"github.com/optomech/aptdrive/config"
)

func TestProfileFromConfigSingleBayDefaults(t *testing.T) {
	// A minimal config leaves every behavior flag unset; the profile
	// defaults must survive.
	p, err := ProfileFromConfig(config.DeviceConfig{Profile: config.ProfileSingleBay})
	if err != nil {
		t.Fatalf("ProfileFromConfig() err=%v", err)
	}
	if !p.InvertDirectionLogic {
		t.Fatal("single-bay default InvertDirectionLogic lost")
	}
	if !p.SwapLimitSwitches {
		t.Fatal("single-bay default SwapLimitSwitches lost")
	}
	if p.HomeOnStart {
		t.Fatal("HomeOnStart defaulted to true")
	}
}

func TestProfileFromConfigExplicitFlagOverrides(t *testing.T) {
	off := false
	on := true
	p, err := ProfileFromConfig(config.DeviceConfig{
		Profile:              config.ProfileSingleBay,
		HomeOnStart:          &on,
		InvertDirectionLogic: &off,
		SwapLimitSwitches:    &off,
	})
	if err != nil {
		t.Fatalf("ProfileFromConfig() err=%v", err)
	}
	if !p.HomeOnStart {
		t.Fatal("explicit home_on_start: true not applied")
	}
	if p.InvertDirectionLogic || p.SwapLimitSwitches {
		t.Fatalf("explicit false flags not applied: %+v", p)
	}
}

func TestProfileFromConfigRackLayouts(t *testing.T) {
	p, err := ProfileFromConfig(config.DeviceConfig{Profile: config.ProfileRackStepper, Bays: 3})
	if err != nil {
		t.Fatalf("ProfileFromConfig() err=%v", err)
	}
	if p.Kind != KindStepper || len(p.Bays) != 3 {
		t.Fatalf("rack-stepper profile wrong: %+v", p)
	}
	if p.InvertDirectionLogic {
		t.Fatal("rack profile must not invert direction logic by default")
	}

	if _, err := ProfileFromConfig(config.DeviceConfig{Profile: "piezo"}); err == nil {
		t.Fatal("expected error for unknown profile")
	}
}
