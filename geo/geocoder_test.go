package geo

import (
	"math"
	"testing"
)

func TestLocateStability(t *testing.T) {
	tests := []struct {
		name   string
		city   string
		dealer string
	}{
		{"known city", "Москва", "МотоМир"},
		{"another known city", "Казань", "Драйв"},
		{"unknown city", "Урюпинск", "МотоСалон"},
		{"empty city", "", "Дилер без города"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p1, ok1 := Locate(tt.city, tt.dealer)
			p2, ok2 := Locate(tt.city, tt.dealer)
			if ok1 != ok2 {
				t.Fatalf("ok mismatch: %v vs %v", ok1, ok2)
			}
			if p1.Lat != p2.Lat || p1.Lng != p2.Lng {
				t.Errorf("coordinates not bit-identical: %+v vs %+v", p1, p2)
			}
		})
	}
}

func TestLocateKnownCityNearTable(t *testing.T) {
	base, ok := CityPoint("Москва")
	if !ok {
		t.Fatal("Москва must be in the city table")
	}

	p, ok := Locate("Москва", "МотоМир")
	if !ok {
		t.Fatal("expected a point")
	}
	if math.Abs(p.Lat-base.Lat) > 0.1 || math.Abs(p.Lng-base.Lng) > 0.1 {
		t.Errorf("jittered point %+v too far from base %+v", p, base)
	}
}

func TestLocateDistinguishesDealersInSameCity(t *testing.T) {
	p1, _ := Locate("Москва", "МотоМир")
	p2, _ := Locate("Москва", "БайкЦентр")
	if p1 == p2 {
		t.Error("different dealers in the same city must not overlap exactly")
	}
}

func TestLocateFiniteCoordinates(t *testing.T) {
	dealers := []string{"", "А", "Очень длинное название мотосалона с цифрами 12345", "X"}
	cities := []string{"", "Москва", "Нигде", "Владивосток"}
	for _, c := range cities {
		for _, d := range dealers {
			p, ok := Locate(c, d)
			if !ok {
				continue
			}
			if math.IsNaN(p.Lat) || math.IsInf(p.Lat, 0) || math.IsNaN(p.Lng) || math.IsInf(p.Lng, 0) {
				t.Errorf("non-finite point for (%q, %q): %+v", c, d, p)
			}
		}
	}
}

func TestUnknownCityFallsBackNearCenter(t *testing.T) {
	p, ok := Locate("Несуществующий город", "Дилер")
	if !ok {
		t.Fatal("fallback scatter must still produce a point")
	}
	if math.Abs(p.Lat-defaultCenter.Lat) > 10 || math.Abs(p.Lng-defaultCenter.Lng) > 10 {
		t.Errorf("fallback point %+v implausibly far from center", p)
	}
}
