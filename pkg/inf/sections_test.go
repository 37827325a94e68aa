package inf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScanSections(t *testing.T) {
	s := `; leading comment
Signature=orphan

[Version]
Class = Net ; trailing comment
   ; indented comment

[Strings]
Text="semi;colon"
[ VERSION ]
DriverVer=01/02/2020,1.0
`

	lines := ScanSections(s)

	assert.Equal(t, []Line{
		{Section: "", Text: "Signature=orphan", Number: 2},
		{Section: "version", Text: "Class = Net", Number: 5},
		{Section: "strings", Text: `Text="semi;colon"`, Number: 9},
		{Section: "version", Text: "DriverVer=01/02/2020,1.0", Number: 11},
	}, lines)
}

func TestScanSectionsCRLF(t *testing.T) {
	lines := ScanSections("[Manufacturer]\r\nACME=Models\r\n\r\n")
	assert.Equal(t, 1, len(lines))
	assert.Equal(t, "manufacturer", lines[0].Section)
	assert.Equal(t, "ACME=Models", lines[0].Text)
}

func TestScanSectionsNotAHeader(t *testing.T) {
	lines := ScanSections("[Version\nfoo]\n[]\nx=1")
	assert.Equal(t, 3, len(lines))
	assert.Equal(t, "[Version", lines[0].Text)
	assert.Equal(t, "foo]", lines[1].Text)
	assert.Equal(t, "", lines[2].Section)
	assert.Equal(t, "x=1", lines[2].Text)
}

func TestSplitKeyValue(t *testing.T) {
	key, value, ok := splitKeyValue(`%Dev% = Install, PCI\VEN_1=2`)
	assert.True(t, ok)
	assert.Equal(t, "%Dev%", key)
	assert.Equal(t, `Install, PCI\VEN_1=2`, value)

	_, _, ok = splitKeyValue("CopyFiles")
	assert.False(t, ok)
}
