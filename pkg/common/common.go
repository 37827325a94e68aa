package common

// Unknown is rendered for every value a driver source did not provide.
const Unknown = "Unknown"

func OrUnknown(s string) string {
	if s == "" {
		return Unknown
	}
	return s
}

func OrDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
