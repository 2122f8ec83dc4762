package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColour(t *testing.T) {
	tests := map[string]string{
		"bk":     "Black",
		"BK":     "Black",
		"W/BL":   "White/Blue",
		"fawn":   "Fawn",
		"Black":  "Black",
		"silver": "Silver",
		" ":      "",
	}
	for in, want := range tests {
		assert.Equal(t, want, Colour(in), in)
	}
}

func TestSex(t *testing.T) {
	assert.Equal(t, "Dog", Sex("d"))
	assert.Equal(t, "Bitch", Sex("BITCH"))
	assert.Equal(t, "Spayed", Sex("spayed"))

	assert.Equal(t, "D", SexCode("dog"))
	assert.Equal(t, "B", SexCode("b"))
	assert.Equal(t, "", SexCode("x"))
}

func TestName(t *testing.T) {
	assert.Equal(t, "Fast Lane", Name("  FAST   lane"))
	assert.Equal(t, "", Name("   "))
	assert.Equal(t, "Éclair Bay", Name("ÉCLAIR BAY"))
}
