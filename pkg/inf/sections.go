package inf

import "strings"

// Line is a data line of an INF file with the section it belongs to.
type Line struct {
	// Section is lower-cased, empty for lines before the first section header
	Section string
	Text    string
	Number  int
}

// ScanSections splits decoded INF text into data lines.
// Blank lines, comments and section headers are not emitted; a header only
// switches the section of the lines that follow it. Sections may repeat.
func ScanSections(text string) []Line {
	var lines []Line
	section := ""

	for n, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(stripComment(raw))
		if line == "" {
			continue
		}

		if name, ok := sectionHeader(line); ok {
			section = name
			continue
		}

		lines = append(lines, Line{Section: section, Text: line, Number: n + 1})
	}

	return lines
}

func sectionHeader(line string) (string, bool) {
	if len(line) < 2 || line[0] != '[' || line[len(line)-1] != ']' {
		return "", false
	}
	return strings.ToLower(strings.TrimSpace(line[1 : len(line)-1])), true
}

// stripComment cuts the line at the first ';' that is not inside double quotes.
func stripComment(line string) string {
	inQuotes := false
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '"':
			inQuotes = !inQuotes
		case ';':
			if !inQuotes {
				return line[:i]
			}
		}
	}
	return line
}

// splitKeyValue splits on the first '='. Lines without '=' have an empty value and ok=false.
func splitKeyValue(line string) (key, value string, ok bool) {
	i := strings.IndexByte(line, '=')
	if i < 0 {
		return strings.TrimSpace(line), "", false
	}
	return strings.TrimSpace(line[:i]), strings.TrimSpace(line[i+1:]), true
}

// splitFields splits a comma separated value list and trims every field.
func splitFields(value string) []string {
	fields := strings.Split(value, ",")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return fields
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
