package validation

import (
	"os"
	"strings"
	"testing"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"amin@student.test", true},
		{"  amin@student.test  ", true},
		{"", false},
		{"not-an-email", false},
		{"@student.test", false},
	}
	for _, tt := range tests {
		if got := ValidateEmail(tt.email); got != tt.want {
			t.Errorf("ValidateEmail(%q) = %v, want %v", tt.email, got, tt.want)
		}
	}
}

func TestValidateGroupSize(t *testing.T) {
	tests := []struct {
		size int
		want bool
	}{
		{1, true},
		{2, true},
		{50, true},
		{0, false},
		{-3, false},
	}
	for _, tt := range tests {
		if got := ValidateGroupSize(tt.size); got != tt.want {
			t.Errorf("ValidateGroupSize(%d) = %v, want %v", tt.size, got, tt.want)
		}
	}
}

func TestValidateGroupType(t *testing.T) {
	tests := []struct {
		groupType string
		want      bool
	}{
		{"general", true},
		{"assignment", true},
		{"", false},
		{"General", false},
		{"social", false},
	}
	for _, tt := range tests {
		if got := ValidateGroupType(tt.groupType); got != tt.want {
			t.Errorf("ValidateGroupType(%q) = %v, want %v", tt.groupType, got, tt.want)
		}
	}
}

func TestNormalizeInviteList(t *testing.T) {
	got := NormalizeInviteList([]string{
		"A@Student.Test",
		"a@student.test",
		"  b@student.test ",
		"Creator@Student.Test",
		"junk",
		"",
	}, "creator@student.test")

	want := []string{"a@student.test", "b@student.test"}
	if len(got) != len(want) {
		t.Fatalf("NormalizeInviteList = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("NormalizeInviteList[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestMaxMessageLength(t *testing.T) {
	old := os.Getenv("MAX_MESSAGE_LENGTH")
	defer os.Setenv("MAX_MESSAGE_LENGTH", old)

	os.Setenv("MAX_MESSAGE_LENGTH", "")
	if got := MaxMessageLength(); got != 4000 {
		t.Errorf("default max = %d, want 4000", got)
	}
	os.Setenv("MAX_MESSAGE_LENGTH", "120")
	if got := MaxMessageLength(); got != 120 {
		t.Errorf("max = %d, want 120", got)
	}
	os.Setenv("MAX_MESSAGE_LENGTH", "garbage")
	if got := MaxMessageLength(); got != 4000 {
		t.Errorf("max with invalid value = %d, want 4000", got)
	}
	os.Setenv("MAX_MESSAGE_LENGTH", "0")
	if got := MaxMessageLength(); got != 4000 {
		t.Errorf("max with zero value = %d, want 4000", got)
	}
}

func TestTrimAndLimit(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"trims whitespace", "  hi  ", 100, "hi"},
		{"whitespace only becomes empty", " \n\t ", 100, ""},
		{"within limit untouched", "hello", 100, "hello"},
		{"over limit truncated", strings.Repeat("x", 10), 4, "xxxx"},
		{"zero max disables limiting", "hello", 0, "hello"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrimAndLimit(tt.in, tt.max); got != tt.want {
				t.Errorf("TrimAndLimit(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
			}
		})
	}
}
