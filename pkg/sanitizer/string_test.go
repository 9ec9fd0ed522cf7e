package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "trim spaces", input: "  The Matrix  ", want: "The Matrix"},
		{name: "multiple spaces between words", input: "The    Matrix", want: "The Matrix"},
		{name: "tabs and newlines", input: "The\t\nMatrix", want: "The Matrix"},
		{name: "empty string", input: "", want: ""},
		{name: "only whitespace", input: "   \t\n  ", want: ""},
		{name: "preserve special characters", input: " Amélie & Co™ ", want: "Amélie & Co™"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TrimAndNormalize(tt.input)
			if got != tt.want {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if again := TrimAndNormalize(got); again != got {
				t.Errorf("TrimAndNormalize is not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestNormalizeSeatID(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "a1", want: "A1"},
		{input: " b10 ", want: "B10"},
		{input: "F5", want: "F5"},
		{input: "", want: ""},
		{input: "z0", want: "Z0"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := NormalizeSeatID(tt.input); got != tt.want {
				t.Errorf("NormalizeSeatID(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeShowID(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "show_TT0111161", want: "show_tt0111161"},
		{input: "  show_tt0111161 ", want: "show_tt0111161"},
		{input: "SHOW_tt0111161", want: "SHOW_tt0111161"},
		{input: "other", want: "other"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := NormalizeShowID(tt.input); got != tt.want {
				t.Errorf("NormalizeShowID(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeIMDbID(t *testing.T) {
	if got := NormalizeIMDbID(" TT0133093 "); got != "tt0133093" {
		t.Errorf("NormalizeIMDbID() = %q, want %q", got, "tt0133093")
	}
}
