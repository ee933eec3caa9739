package analytics

import (
	"testing"
	"time"
)

func TestParseSaleDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{
			name:  "valid date",
			input: "15.06.2024",
			want:  time.Date(2024, time.June, 15, 0, 0, 0, 0, time.Local),
		},
		{
			name:  "first of january",
			input: "01.01.2024",
			want:  time.Date(2024, time.January, 1, 0, 0, 0, 0, time.Local),
		},
		{
			name:  "empty string",
			input: "",
			want:  Epoch(),
		},
		{
			name:  "wrong separator",
			input: "2024-13-40",
			want:  Epoch(),
		},
		{
			name:  "not a date",
			input: "not-a-date",
			want:  Epoch(),
		},
		{
			name:  "two parts only",
			input: "15.06",
			want:  Epoch(),
		},
		{
			name:  "four parts",
			input: "15.06.2024.12",
			want:  Epoch(),
		},
		{
			name:  "non numeric day",
			input: "xx.06.2024",
			want:  Epoch(),
		},
		{
			name:  "spaces around parts",
			input: " 15 . 06 . 2024 ",
			want:  time.Date(2024, time.June, 15, 0, 0, 0, 0, time.Local),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseSaleDate(tt.input)
			if !got.Equal(tt.want) {
				t.Errorf("ParseSaleDate(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatSaleDateRoundTrip(t *testing.T) {
	orig := "03.11.2023"
	if got := FormatSaleDate(ParseSaleDate(orig)); got != orig {
		t.Errorf("round trip = %q, want %q", got, orig)
	}
}
