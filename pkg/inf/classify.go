package inf

import "strings"

const (
	sectionVersion      = "version"
	sectionManufacturer = "manufacturer"
)

// ManufacturerEntry is a name=target[,decoration...] line of the [Manufacturer] section.
type ManufacturerEntry struct {
	Name   string
	Target string
}

// TargetSection returns the lower-cased target with the decoration suffix removed.
func (m ManufacturerEntry) TargetSection() string {
	target := m.Target
	if i := strings.IndexByte(target, ','); i >= 0 {
		target = target[:i]
	}
	return strings.ToLower(strings.TrimSpace(target))
}

func isReservedSection(section string) bool {
	return section == "" || section == sectionVersion || section == sectionManufacturer || isStringsSection(section)
}

// ClassifySections decides which of the observed sections declare devices.
//
// Declared targets and actual section names are not required to match exactly
// ("Models" vs "Models.NTamd64.10.0"), so a section is a device section when it
// and some stripped target are case-insensitive prefixes of one another.
// The result maps each device section to the manufacturer recorded for its records:
// the first entry whose target is a prefix of the section, otherwise the first
// entry that matched the other way round.
func ClassifySections(manufacturers []ManufacturerEntry, sections []string) map[string]string {
	result := make(map[string]string)
	if len(manufacturers) == 0 {
		return result
	}

	for _, section := range sections {
		name := strings.ToLower(section)
		if isReservedSection(name) {
			continue
		}

		manufacturer, matched := "", false
		for _, m := range manufacturers {
			target := m.TargetSection()
			if target == "" {
				continue
			}
			if strings.HasPrefix(name, target) {
				manufacturer, matched = m.Name, true
				break
			}
			if !matched && strings.HasPrefix(target, name) {
				manufacturer, matched = m.Name, true
			}
		}

		if matched {
			result[name] = manufacturer
		}
	}

	return result
}
