package driver

import (
	"strconv"
	"strings"
)

// NormalizeDate turns a date starting with 8 digits YYYYMMDD into YYYY-MM-DD.
// WMI dates like "20230115000000.******+000" qualify as well.
// Any other shape is returned unchanged.
func NormalizeDate(date string) string {
	if len(date) < 8 {
		return date
	}
	for i := 0; i < 8; i++ {
		if date[i] < '0' || date[i] > '9' {
			return date
		}
	}

	year, month, day := date[0:4], date[4:6], date[6:8]
	m, _ := strconv.Atoi(month)
	d, _ := strconv.Atoi(day)
	if m < 1 || m > 12 || d < 1 || d > 31 {
		return date
	}

	return year + "-" + month + "-" + day
}

// NormalizeIdentity lower-cases a package identity and validates it.
// Only published OEM packages (oem<N>.inf) can be handed to the export utility.
func NormalizeIdentity(identity string) (string, bool) {
	id := strings.ToLower(strings.TrimSpace(identity))
	return id, IsExportableIdentity(id)
}

// IsExportableIdentity reports whether id is a lower-case oem*.inf name
// built from ASCII alphanumerics, dots and underscores only.
func IsExportableIdentity(id string) bool {
	if !strings.HasPrefix(id, "oem") || !strings.HasSuffix(id, ".inf") {
		return false
	}

	for _, c := range id {
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == '.', c == '_':
		default:
			return false
		}
	}

	return true
}
