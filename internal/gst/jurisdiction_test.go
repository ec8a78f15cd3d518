package gst

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsInterState(t *testing.T) {
	tests := []struct {
		name          string
		placeOfSupply string
		homeState     string
		want          bool
	}{
		{"exact match", "Gujarat", "Gujarat", false},
		{"case and whitespace", "  gujarat  ", "GUJARAT", false},
		{"substring of home", "Gujarat", "Gujarat, India", false},
		{"home substring of place", "Ahmedabad, Gujarat", "Gujarat", false},
		{"code with parenthesis", "GJ (24)", "Gujarat", false},
		{"code with space before parenthesis", "MH (27)", "Maharashtra", false},
		{"bare leading code", "KA", "Karnataka", false},
		{"leading code with trailing text", "TN Chennai office", "Tamil Nadu", false},
		{"different states", "Maharashtra", "Gujarat", true},
		{"code of different state", "MH (27)", "Gujarat", true},
		{"unknown code", "ZZ (99)", "Gujarat", true},
		{"empty place of supply", "", "Gujarat", true},
		{"empty home state", "Gujarat", "", true},
		{"garbage", "somewhere else entirely", "Gujarat", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsInterState(tt.placeOfSupply, tt.homeState, nil)
			assert.Equal(t, tt.want, got)

			// Pure function: repeated calls agree.
			assert.Equal(t, got, IsInterState(tt.placeOfSupply, tt.homeState, nil))
		})
	}
}

func TestIsInterState_SubstringBeforeCodeTable(t *testing.T) {
	// "GA" is the code for Goa, but the raw string already contains the home
	// state: the substring rule must win before any code lookup happens.
	assert.False(t, IsInterState("GA office, Gujarat", "Gujarat", nil))
}

func TestIsInterState_Aliases(t *testing.T) {
	aliases := map[string]string{"xx": "gujarat"}

	assert.False(t, IsInterState("XX (24)", "Gujarat", aliases))
	assert.True(t, IsInterState("XX (24)", "Kerala", aliases))

	// Alias shadows the built-in table.
	shadow := map[string]string{"mh": "gujarat"}
	assert.False(t, IsInterState("MH (27)", "Gujarat", shadow))
}

func TestIsInterStateByCode(t *testing.T) {
	interState, ok := IsInterStateByCode("GJ", "gj")
	assert.True(t, ok)
	assert.False(t, interState)

	interState, ok = IsInterStateByCode("MH", "GJ")
	assert.True(t, ok)
	assert.True(t, interState)

	_, ok = IsInterStateByCode("", "GJ")
	assert.False(t, ok)

	_, ok = IsInterStateByCode("ZZ", "GJ")
	assert.False(t, ok)
}

func TestStateNameForCode(t *testing.T) {
	name, ok := StateNameForCode("GJ")
	assert.True(t, ok)
	assert.Equal(t, "gujarat", name)

	_, ok = StateNameForCode("zz")
	assert.False(t, ok)

	assert.True(t, IsValidStateCode(" mh "))
	assert.False(t, IsValidStateCode("m"))
}
