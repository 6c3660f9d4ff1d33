package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		a, b     string
		expected int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"a", "b", 1},
		{"ab", "abc", 1},
		{"kitten", "sitting", 3},
		{"saturday", "sunday", 3},
		{"Hello", "hello", 1},
		{"größe", "grösse", 2},
	}

	for _, tt := range tests {
		t.Run(tt.a+"->"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.expected, Distance(tt.a, tt.b))
			assert.Equal(t, tt.expected, Distance(tt.b, tt.a))
		})
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "interlocation", Normalize("InterLocation"))
	assert.Equal(t, "interlocation", Normalize("inter_location"))
	assert.Equal(t, "interlocation", Normalize("inter.location"))
	assert.Equal(t, "", Normalize("- _"))
}

func TestScore(t *testing.T) {
	assert.InDelta(t, 1.0, Score("", ""), 1e-9)
	assert.InDelta(t, 1.0, Score("InterLocation", "inter_location"), 1e-9)
	assert.InDelta(t, 0.0, Score("abc", "xyz"), 1e-9)
	assert.InDelta(t, 0.5, Score("atoi", "itoa"), 1e-9)
}

func TestClosest(t *testing.T) {
	candidates := []string{"atoi", "interLocation", "toLocation"}

	tests := []struct {
		name     string
		expected string
		found    bool
	}{
		{name: "interLocaton", expected: "interLocation", found: true},
		{name: "inter_location", expected: "interLocation", found: true},
		{name: "toLocatoin", expected: "toLocation", found: true},
		{name: "atoii", expected: "atoi", found: true},
		{name: "atio", found: false},
		{name: "unrelated", found: false},
		{name: "", found: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Closest(tt.name, candidates)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.expected, got)
		})
	}

	_, ok := Closest("atoi", nil)
	assert.False(t, ok)
}
