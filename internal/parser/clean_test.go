package parser

import "testing"

func TestCleanName(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"  Bradley,   Kay  M  ", "Bradley, Kay M"},
		{"Bradley,\tKay M", "Bradley, Kay M"},
		{"O|iver, Kim", "OIiver, Kim"},
		{"O’Brien, Pat", "O'Brien, Pat"},
		{"O`Brien, Pat", "O'Brien, Pat"},
		{"--Smith, John.", "Smith, John"},
		{"Sm1th, J0hn", "SmIth, JOhn"},
		{"...", ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := cleanName(tt.raw); got != tt.want {
				t.Errorf("cleanName(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

// The lookalike table is a heuristic; these cases document where it applies
// and where it deliberately does not.
func TestFixDigitLookalikes(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"J0hn", "JOhn"},
		{"Sm1th", "SmIth"},
		{"Ro5e", "RoSe"},
		{"Ro8ert", "RoBert"},
		{"R2D2", "R2D2"},
		{"Unit 12 A", "Unit 12 A"},
		{"0scar", "0scar"},
		{"Kim5", "Kim5"},
	}

	for _, tt := range tests {
		if got := fixDigitLookalikes(tt.in); got != tt.want {
			t.Errorf("fixDigitLookalikes(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseHours(t *testing.T) {
	tests := []struct {
		token  string
		want   float64
		wantOK bool
	}{
		{"27.10", 27.1, true},
		{"2710", 27.1, true},
		{"2148", 21.48, true},
		{"271", 27.1, true},
		{"100", 10, true},
		{"99.5", 99.5, true},
		{"150.5", 150.5, true},
		{"45000", 45000, true},
		{"abc", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, ok := parseHours(tt.token)
			if ok != tt.wantOK {
				t.Fatalf("parseHours(%q) ok = %v, want %v", tt.token, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("parseHours(%q) = %v, want %v", tt.token, got, tt.want)
			}
		})
	}
}

func TestNameKey(t *testing.T) {
	if nameKey("Bradley,  Kay M") != nameKey(" BRADLEY, kay m ") {
		t.Error("expected case and whitespace variants to share a key")
	}
	if nameKey("Ｂradley, Kay M") != nameKey("Bradley, Kay M") {
		t.Error("expected fullwidth letters to normalize")
	}
	if nameKey("Bradley, Kay M") == nameKey("Bradley, Kay N") {
		t.Error("expected different names to have different keys")
	}
}
