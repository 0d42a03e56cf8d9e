// transport/discover.go
package transport

import (
	"fmt"
	"regexp"
	"strings"

	"go.bug.st/serial/enumerator"
)

// Filter selects a serial port by USB metadata. String fields are
// regular expressions matched against the start of the corresponding
// property (mirroring the vendor tooling's matching rules); empty fields
// match anything. VID and PID are compared case-insensitively as exact
// hex strings.
type Filter struct {
	SerialNumber string
	Product      string
	VID          string
	PID          string
}

// Find enumerates attached serial ports and returns the device path of
// the first one matching the filter. Controllers identify themselves as
// "APT ..." products, so a zero Filter still finds a plausible device on
// a single-instrument host.
func Find(f Filter) (string, error) {
	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return "", fmt.Errorf("transport: enumerating ports: %w", err)
	}
	for _, p := range ports {
		if !p.IsUSB {
			continue
		}
		ok, err := matchPort(f, p)
		if err != nil {
			return "", err
		}
		if ok {
			return p.Name, nil
		}
	}
	return "", fmt.Errorf("%w (serial_number=%q)", ErrNoDevice, f.SerialNumber)
}

func matchPort(f Filter, p *enumerator.PortDetails) (bool, error) {
	if f.VID != "" && !strings.EqualFold(f.VID, p.VID) {
		return false, nil
	}
	if f.PID != "" && !strings.EqualFold(f.PID, p.PID) {
		return false, nil
	}
	ok, err := matchPrefix(f.SerialNumber, p.SerialNumber)
	if err != nil || !ok {
		return ok, err
	}
	return matchPrefix(f.Product, p.Product)
}

// matchPrefix anchors the expression at the start of the value, so
// "83" matches serial numbers beginning with 83 and ".*83$" matches ones
// ending in 83.
func matchPrefix(expr, value string) (bool, error) {
	if expr == "" {
		return true, nil
	}
	re, err := regexp.Compile("^(?:" + expr + ")")
	if err != nil {
		return false, fmt.Errorf("transport: bad filter expression %q: %w", expr, err)
	}
	return re.MatchString(value), nil
}
