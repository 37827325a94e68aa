package inf

import "strings"

const (
	sectionStrings      = "strings"
	localizedStringsPfx = "strings."
)

// StringTable resolves %token% references. Keys are matched case-insensitively.
type StringTable struct {
	values    map[string]string
	localized []localizedStrings
}

type localizedStrings struct {
	section string
	values  map[string]string
}

func NewStringTable() *StringTable {
	return &StringTable{values: map[string]string{}}
}

func isStringsSection(section string) bool {
	return section == sectionStrings || strings.HasPrefix(section, localizedStringsPfx)
}

// add stores a key=value line of a strings section, later duplicates overwrite earlier ones.
func (t *StringTable) add(section, line string) {
	key, value, ok := splitKeyValue(line)
	if !ok || key == "" {
		return
	}

	key = strings.ToLower(key)
	value = unquote(value)

	if section == sectionStrings {
		t.values[key] = value
		return
	}

	for i := range t.localized {
		if t.localized[i].section == section {
			t.localized[i].values[key] = value
			return
		}
	}
	t.localized = append(t.localized, localizedStrings{section: section, values: map[string]string{key: value}})
}

// Lookup returns the value of a bare key. The [strings] section wins over localized tables.
func (t *StringTable) Lookup(key string) (string, bool) {
	key = strings.ToLower(key)
	if v, ok := t.values[key]; ok {
		return v, true
	}
	for _, l := range t.localized {
		if v, ok := l.values[key]; ok {
			return v, true
		}
	}
	return "", false
}

// Resolve replaces a whole-string %token% reference by its value.
// Unknown tokens and strings without delimiters are returned unchanged.
func (t *StringTable) Resolve(s string) string {
	if len(s) < 3 || s[0] != '%' || s[len(s)-1] != '%' {
		return s
	}

	if v, ok := t.Lookup(s[1 : len(s)-1]); ok {
		return v
	}
	return s
}

// Len returns the number of keys in the [strings] section.
func (t *StringTable) Len() int {
	return len(t.values)
}
