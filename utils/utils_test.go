package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateID(t *testing.T) {
	id := GenerateID(12)
	assert.Len(t, id, 12)

	other := GenerateID(12)
	assert.NotEqual(t, id, other)

	for _, r := range id {
		assert.Contains(t, "abcdefghijklmnopqrstuvwxyz0123456789", string(r))
	}
}

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Cotton Panjabi", "cotton-panjabi"},
		{"  Trimmed  ", "trimmed"},
		{"Eid Collection 2026!", "eid-collection-2026"},
		{"--dashes--", "dashes"},
		{"UPPER case & symbols %", "upper-case-symbols"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Slugify(tc.in), "input %q", tc.in)
	}
}

func TestValidPhone(t *testing.T) {
	assert.True(t, ValidPhone("01712345678"))

	// ten digits, twelve digits, plus prefix, embedded space
	assert.False(t, ValidPhone("0171234567"))
	assert.False(t, ValidPhone("017123456789"))
	assert.False(t, ValidPhone("+8801712345678"))
	assert.False(t, ValidPhone("01712 45678"))
	assert.False(t, ValidPhone(""))
}
