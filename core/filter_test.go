package core

import "testing"

func TestParseActive(t *testing.T) {
	tests := []struct {
		in   string
		want *bool
	}{
		{in: "true", want: bPtr(true)},
		{in: " FALSE ", want: bPtr(false)},
		{in: ""},
		{in: "null"},
		{in: "lol"},
		{in: "1"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParseActive(tt.in)
			switch {
			case got == nil && tt.want == nil:
			case got == nil || tt.want == nil || *got != *tt.want:
				t.Errorf("ParseActive(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseFlag(t *testing.T) {
	for in, want := range map[string]bool{"true": true, "1": true, "Yes": true, "": false, "false": false, "lol": false} {
		if got := ParseFlag(in); got != want {
			t.Errorf("ParseFlag(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestEscapeLike(t *testing.T) {
	if got, want := EscapeLike(`50%_a\b`), `50\%\_a\\b`; got != want {
		t.Errorf("EscapeLike() = %s, want %s", got, want)
	}
}

func TestCleanCode(t *testing.T) {
	if got := CleanCode("  ing-01 "); got != "ING-01" {
		t.Errorf("CleanCode() = %s, want ING-01", got)
	}
}

func bPtr(b bool) *bool { return &b }
