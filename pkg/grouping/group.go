package grouping

import (
	"sort"
	"strings"

	"github.com/cloudradar-monitoring/drvbackup/pkg/driver"
)

// Aggregate is the set of records sharing one key.
type Aggregate struct {
	Key     []string
	Records []driver.Record
}

// Name is the last key component, the one identifying the group inside its section.
func (a Aggregate) Name() string {
	if len(a.Key) == 0 {
		return ""
	}
	return a.Key[len(a.Key)-1]
}

// Group buckets records by the strategy key. Groups are ordered by key,
// records keep their input order and every record lands in exactly one group.
func Group(records []driver.Record, s Strategy) []Aggregate {
	index := map[string]int{}
	var groups []Aggregate

	for _, r := range records {
		key := s.Key(r)
		id := strings.Join(key, "\x00")

		i, ok := index[id]
		if !ok {
			i = len(groups)
			index[id] = i
			groups = append(groups, Aggregate{Key: key})
		}
		groups[i].Records = append(groups[i].Records, r)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return lessKey(groups[i].Key, groups[j].Key)
	})

	return groups
}

func lessKey(a, b []string) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

// Count returns the number of records over all groups.
func Count(groups []Aggregate) int {
	n := 0
	for _, g := range groups {
		n += len(g.Records)
	}
	return n
}

// Section is a run of groups sharing the first key component.
type Section struct {
	Name   string
	Groups []Aggregate
}

// Count returns the number of records in the section.
func (s Section) Count() int {
	return Count(s.Groups)
}

// Sections nests sorted groups under their first key component.
func Sections(groups []Aggregate) []Section {
	var sections []Section
	for _, g := range groups {
		name := ""
		if len(g.Key) > 0 {
			name = g.Key[0]
		}

		if n := len(sections); n > 0 && sections[n-1].Name == name {
			sections[n-1].Groups = append(sections[n-1].Groups, g)
			continue
		}
		sections = append(sections, Section{Name: name, Groups: []Aggregate{g}})
	}
	return sections
}
