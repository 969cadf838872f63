package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUsername(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"valid_user1", true},
		{"Tester", true},
		{"12345", true},
		{"User", false},
		{"       ", false},
		{"1111", false},
		{"special*", false},
		{" username ", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, Username.MatchString(tt.value))
		})
	}
}

func TestPassword(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  bool
	}{
		{"valid", "Abc123!@", true},
		{"valid long", "Correct-Horse-Battery-9", true},
		{"no symbol", "Pass123456", false},
		{"no upper", "******aa7", false},
		{"too short", "2Short<", false},
		{"no upper with underscore", "no_upper1+", false},
		{"no lower", "*UPPPER_ONLY1", false},
		{"empty", "", false},
		{"trailing whitespace", "Whitespaces12*    ", false},
		{"surrounding whitespace", "  Password123+   ", false},
		{"seven characters", "Abc123!", false},
		{"accented letter is not a symbol", "Abcdef1é", false},
		{"accented letter and symbol", "Abcdéf1!", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Password.MatchString(tt.value))
		})
	}
}

func TestSet_EmptyMatchesEverything(t *testing.T) {
	assert.True(t, Set{}.MatchString("anything"))
}

func TestNonWhitespace(t *testing.T) {
	assert.True(t, NonWhitespace.MatchString("abc"))
	assert.True(t, NonWhitespace.MatchString(""))
	assert.False(t, NonWhitespace.MatchString("a b"))
}
