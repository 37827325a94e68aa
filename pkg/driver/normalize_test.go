package driver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDate(t *testing.T) {
	var testMap = map[string]string{
		"20230115":                  "2023-01-15",
		"20230115000000.******+000": "2023-01-15",
		"20231301":                  "20231301",
		"20230100":                  "20230100",
		"20230132":                  "20230132",
		"01/15/2023":                "01/15/2023",
		"2023011":                   "2023011",
		"":                          "",
		"2023O115":                  "2023O115",
	}

	for input, expected := range testMap {
		assert.Equal(t, expected, NormalizeDate(input), input)
	}
}

func TestRecordNormalizedDate(t *testing.T) {
	assert.Equal(t, "Unknown", Record{}.NormalizedDate())
	assert.Equal(t, "2019-07-04", Record{DriverDate: "20190704"}.NormalizedDate())
}

func TestNormalizeIdentity(t *testing.T) {
	id, ok := NormalizeIdentity(" OEM12.INF ")
	assert.True(t, ok)
	assert.Equal(t, "oem12.inf", id)

	for _, invalid := range []string{"", "netrtwlane.inf", "oem12.sys", "oem-12.inf", "oem12 .inf", "oem..\\x.inf"} {
		_, ok := NormalizeIdentity(invalid)
		assert.False(t, ok, invalid)
	}
}

func TestThirdParty(t *testing.T) {
	records := []Record{
		{DeviceName: "a", ProviderName: "Microsoft"},
		{DeviceName: "b", ProviderName: "Intel Corporation"},
		{DeviceName: "c"},
		{DeviceName: "d", ProviderName: "MICROSOFT CORPORATION"},
	}

	filtered := ThirdParty(records)
	assert.Len(t, filtered, 2)
	assert.Equal(t, "b", filtered[0].DeviceName)
	assert.Equal(t, "c", filtered[1].DeviceName)
}
