package grouping

import (
	"strings"
	"unicode"

	"github.com/cloudradar-monitoring/drvbackup/pkg/common"
)

// MaxLabelLength is the longest label in characters.
const MaxLabelLength = 100

// Label derives a filesystem-safe name from parts joined by '_'.
// Characters other than letters, digits, space and .-_()[] become '_',
// the result is cut to MaxLabelLength characters and trailing '_', ' ' and '.'
// are removed, so a label is never "." or "..".
func Label(parts ...string) string {
	var sb strings.Builder
	n := 0

	for i, part := range parts {
		if i > 0 {
			part = "_" + part
		}
		for _, c := range part {
			if n == MaxLabelLength {
				break
			}
			if !allowedInLabel(c) {
				c = '_'
			}
			sb.WriteRune(c)
			n++
		}
	}

	return orUnknown(trimLabel(sb.String()))
}

// truncateLabel cuts label to at most n characters keeping it a valid label.
func truncateLabel(label string, n int) string {
	rs := []rune(label)
	if len(rs) > n {
		rs = rs[:n]
	}
	return orUnknown(trimLabel(string(rs)))
}

func trimLabel(label string) string {
	return strings.TrimRight(label, "_ .")
}

func orUnknown(label string) string {
	if label == "" {
		return common.Unknown
	}
	return label
}

func allowedInLabel(c rune) bool {
	if unicode.IsLetter(c) || unicode.IsDigit(c) {
		return true
	}
	switch c {
	case ' ', '.', '-', '_', '(', ')', '[', ']':
		return true
	}
	return false
}
