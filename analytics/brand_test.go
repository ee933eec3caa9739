package analytics

import "testing"

func TestBrandFromModel(t *testing.T) {
	tests := []struct {
		name  string
		model string
		want  string
	}{
		{
			name:  "exact keyword",
			model: "VOGE 525 DSX",
			want:  "VOGE",
		},
		{
			name:  "lowercase input",
			model: "voge x1",
			want:  "VOGE",
		},
		{
			name:  "keyword inside name",
			model: "Moto BMW R1250GS",
			want:  "BMW",
		},
		{
			name:  "harley davidson",
			model: "Harley-Davidson Sportster",
			want:  "Harley-Davidson",
		},
		{
			name:  "unknown model",
			model: "Урал Турист",
			want:  BrandOther,
		},
		{
			name:  "empty string",
			model: "",
			want:  BrandOther,
		},
		{
			name:  "first match wins",
			model: "VOGE копия Honda CB500",
			want:  "VOGE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BrandFromModel(tt.model); got != tt.want {
				t.Errorf("BrandFromModel(%q) = %q, want %q", tt.model, got, tt.want)
			}
		})
	}
}
