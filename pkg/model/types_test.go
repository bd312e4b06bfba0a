package model

import "testing"

func TestParsePolarity(t *testing.T) {
	cases := []struct {
		in      string
		want    Polarity
		wantErr bool
	}{
		{"inc", PolarityInc, false},
		{"dec", PolarityDec, false},
		{"", "", true},
		{"INC", "", true},
		{"both", "", true},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParsePolarity(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("ParsePolarity(%q): expected error, got %q", tc.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePolarity(%q): %v", tc.in, err)
			}
			if got != tc.want {
				t.Fatalf("ParsePolarity(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
