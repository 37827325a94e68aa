package inf

import (
	"strings"

	"github.com/gentlemanautomaton/windevice/deviceid"
)

// DefaultBusPrefixes are the enumerators whose hardware ids are taken from device sections.
var DefaultBusPrefixes = []string{`PCI\`, `USB\`, `HDAUDIO\`, `ACPI\`, `HID\`, `SWD\`, `ROOT\`}

var vendorDeviceMarkers = []string{"VEN_", "DEV_", "VID_", "PID_"}

// HardwareIDFilter accepts hardware ids by bus prefix or vendor/device marker.
type HardwareIDFilter struct {
	prefixes []string
}

// NewHardwareIDFilter builds a filter for the given bus prefixes, DefaultBusPrefixes when empty.
func NewHardwareIDFilter(prefixes []string) HardwareIDFilter {
	if len(prefixes) == 0 {
		prefixes = DefaultBusPrefixes
	}

	f := HardwareIDFilter{prefixes: make([]string, 0, len(prefixes))}
	for _, p := range prefixes {
		p = strings.ToUpper(strings.TrimSpace(p))
		if p != "" {
			f.prefixes = append(f.prefixes, p)
		}
	}
	return f
}

func (f HardwareIDFilter) Accept(id string) bool {
	if deviceid.Hardware(id).Validate() != nil {
		return false
	}

	upper := strings.ToUpper(id)
	for _, p := range f.prefixes {
		if strings.HasPrefix(upper, p) {
			return true
		}
	}
	for _, marker := range vendorDeviceMarkers {
		if strings.Contains(upper, marker) {
			return true
		}
	}
	return false
}
