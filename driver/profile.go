// driver/profile.go
package driver

import (
	"fmt"
	"time"

	"github.com/optomech/aptdrive/apt"
	"github.com/optomech/aptdrive/config"
)

// Kind selects which status-report tags a device interprets. The engine
// is shared; a device kind only changes the merge rules.
type Kind int

const (
	KindDC Kind = iota
	KindStepper
)

// Default schedule intervals. Rack controllers are polled at 25ms; small
// single-bay USB units stream faster and get a 10ms poll.
const (
	DefaultReadInterval       = 25 * time.Millisecond
	DefaultReadIntervalSingle = 10 * time.Millisecond
	DefaultKeepaliveInterval  = 900 * time.Millisecond
)

// Profile is the capability-tagged description of a controller: its
// endpoints, channel layout and behavior flags. Fixed at construction.
type Profile struct {
	Controller apt.EndPoint
	Bays       []apt.EndPoint
	Channels   []uint16 // 1-based channel identifiers, insertion order

	Kind                 Kind
	HomeOnStart          bool
	InvertDirectionLogic bool
	SwapLimitSwitches    bool

	ReadInterval      time.Duration
	KeepaliveInterval time.Duration
}

// RackDC describes a rack-style DC motor controller (BBD10x/20x family)
// with the given number of populated bays, one channel per bay.
func RackDC(bays int) (Profile, error) {
	eps, err := rackBays(bays)
	if err != nil {
		return Profile{}, err
	}
	return Profile{
		Controller:        apt.Rack,
		Bays:              eps,
		Channels:          []uint16{1},
		Kind:              KindDC,
		SwapLimitSwitches: true,
		ReadInterval:      DefaultReadInterval,
		KeepaliveInterval: DefaultKeepaliveInterval,
	}, nil
}

// RackStepper describes a rack-style stepper controller (BSC10x/20x
// family) with the given number of populated bays.
func RackStepper(bays int) (Profile, error) {
	p, err := RackDC(bays)
	if err != nil {
		return Profile{}, err
	}
	p.Kind = KindStepper
	return p, nil
}

// SingleBay describes a single-bay USB unit (TDC001/KDC101 family).
// These report "forward" moves as negative encoder counts, hence the
// inverted direction logic default.
func SingleBay() Profile {
	return Profile{
		Controller:           apt.USB,
		Bays:                 []apt.EndPoint{apt.USB},
		Channels:             []uint16{1},
		Kind:                 KindDC,
		InvertDirectionLogic: true,
		SwapLimitSwitches:    true,
		ReadInterval:         DefaultReadIntervalSingle,
		KeepaliveInterval:    DefaultKeepaliveInterval,
	}
}

func rackBays(n int) ([]apt.EndPoint, error) {
	if n < 1 || n > 10 {
		return nil, fmt.Errorf("driver: bay count %d out of range", n)
	}
	eps := make([]apt.EndPoint, n)
	for i := range eps {
		ep, err := apt.Bay(i)
		if err != nil {
			return nil, err
		}
		eps[i] = ep
	}
	return eps, nil
}

// ProfileFromConfig builds a Profile from a validated device config.
// Behavior flags override the profile defaults only when set in the
// config; an absent flag keeps the default (single-bay units invert
// direction logic and swap limit switches unless told otherwise).
func ProfileFromConfig(dc config.DeviceConfig) (Profile, error) {
	var (
		p   Profile
		err error
	)
	switch dc.Profile {
	case config.ProfileRackDC:
		p, err = RackDC(dc.Bays)
	case config.ProfileRackStepper:
		p, err = RackStepper(dc.Bays)
	case config.ProfileSingleBay:
		p = SingleBay()
	default:
		return Profile{}, fmt.Errorf("driver: unknown device profile %q", dc.Profile)
	}
	if err != nil {
		return Profile{}, err
	}
	if dc.HomeOnStart != nil {
		p.HomeOnStart = *dc.HomeOnStart
	}
	if dc.InvertDirectionLogic != nil {
		p.InvertDirectionLogic = *dc.InvertDirectionLogic
	}
	if dc.SwapLimitSwitches != nil {
		p.SwapLimitSwitches = *dc.SwapLimitSwitches
	}
	return p, nil
}

func (p Profile) validate() error {
	if len(p.Bays) == 0 {
		return fmt.Errorf("driver: profile requires at least one bay")
	}
	if len(p.Channels) == 0 {
		return fmt.Errorf("driver: profile requires at least one channel")
	}
	return nil
}

// withDefaults fills unset intervals.
func (p Profile) withDefaults() Profile {
	if p.ReadInterval <= 0 {
		p.ReadInterval = DefaultReadInterval
	}
	if p.KeepaliveInterval <= 0 {
		p.KeepaliveInterval = DefaultKeepaliveInterval
	}
	return p
}
