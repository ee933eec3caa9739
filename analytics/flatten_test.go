package analytics

import (
	"math"
	"testing"
)

func sampleDocument() *RawDocument {
	return &RawDocument{
		Total: Totals{CountSold: 2, TotalSoldPrice: 200000, TotalBuyPrice: 150000},
		Items: map[string]DealerNode{
			"d1": {
				Name: "Dealer A",
				City: "Москва",
				Models: map[string]ModelNode{
					"m1": {
						Name: "VOGE X1",
						Offers: map[string]OfferNode{
							"o1": {
								Name:           "Red",
								CountSold:      2,
								TotalSoldPrice: 200000,
								TotalBuyPrice:  150000,
								Vehicles: map[string]VehicleNode{
									"v1": {VIN: "VIN001", SaleDate: "01.01.2024"},
									"v2": {VIN: "VIN002", SaleDate: "15.06.2024"},
								},
							},
						},
					},
				},
			},
		},
	}
}

func TestFlattenEndToEndScenario(t *testing.T) {
	records := Flatten(sampleDocument())

	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}
	for _, r := range records {
		if r.SoldPrice != 100000 {
			t.Errorf("SoldPrice = %v, want 100000", r.SoldPrice)
		}
		if r.BuyPrice != 75000 {
			t.Errorf("BuyPrice = %v, want 75000", r.BuyPrice)
		}
		if r.Margin != 25000 {
			t.Errorf("Margin = %v, want 25000", r.Margin)
		}
		if r.Dealer != "Dealer A" || r.Brand != "VOGE" || r.Model != "VOGE X1" || r.Offer != "Red" {
			t.Errorf("unexpected record attributes: %+v", r)
		}
	}

	// Сортировка по дате продажи по убыванию
	if !records[0].SaleDate.After(records[1].SaleDate) {
		t.Errorf("records not sorted by sale date descending: %v before %v", records[0].SaleDate, records[1].SaleDate)
	}

	byYear2024 := FilterRecords(records, Criteria{Year: "2024", Brand: All, City: All, Dealer: All})
	if len(byYear2024) != 2 {
		t.Errorf("filter by year 2024: got %d records, want 2", len(byYear2024))
	}
	byYear2023 := FilterRecords(records, Criteria{Year: "2023", Brand: All, City: All, Dealer: All})
	if len(byYear2023) != 0 {
		t.Errorf("filter by year 2023: got %d records, want 0", len(byYear2023))
	}

	rows := GroupBy(records, GroupByDealer)
	if len(rows) != 1 {
		t.Fatalf("group by dealer: got %d rows, want 1", len(rows))
	}
	if rows[0].Label != "Dealer A" || rows[0].Revenue != 200000 || rows[0].Units != 2 {
		t.Errorf("group by dealer = %+v, want Dealer A / 200000 / 2", rows[0])
	}
}

func TestFlattenTotality(t *testing.T) {
	tests := []struct {
		name string
		doc  *RawDocument
		want int
	}{
		{
			name: "nil document",
			doc:  nil,
			want: 0,
		},
		{
			name: "empty items",
			doc:  &RawDocument{Items: map[string]DealerNode{}},
			want: 0,
		},
		{
			name: "dealer without models",
			doc: &RawDocument{Items: map[string]DealerNode{
				"d1": {Name: "Пустой дилер"},
			}},
			want: 0,
		},
		{
			name: "model without offers",
			doc: &RawDocument{Items: map[string]DealerNode{
				"d1": {Name: "Дилер", Models: map[string]ModelNode{
					"m1": {Name: "VOGE X1"},
				}},
			}},
			want: 0,
		},
		{
			name: "offer without vehicles",
			doc: &RawDocument{Items: map[string]DealerNode{
				"d1": {Name: "Дилер", Models: map[string]ModelNode{
					"m1": {Name: "VOGE X1", Offers: map[string]OfferNode{
						"o1": {Name: "Red", CountSold: 5, TotalSoldPrice: 100},
					}},
				}},
			}},
			want: 0,
		},
		{
			name: "full document",
			doc:  sampleDocument(),
			want: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := Flatten(tt.doc)
			if len(records) != tt.want {
				t.Errorf("len = %d, want %d", len(records), tt.want)
			}
		})
	}
}

func TestFlattenPriceDistribution(t *testing.T) {
	doc := sampleDocument()
	offer := doc.Items["d1"].Models["m1"].Offers["o1"]
	records := Flatten(doc)

	wantSold := offer.TotalSoldPrice / float64(offer.CountSold)
	var marginSum float64
	for _, r := range records {
		if math.Abs(r.SoldPrice-wantSold) > 1e-9 {
			t.Errorf("SoldPrice = %v, want %v", r.SoldPrice, wantSold)
		}
		marginSum += r.Margin
	}

	wantMargin := offer.TotalSoldPrice - offer.TotalBuyPrice
	if math.Abs(marginSum-wantMargin) > 1e-6 {
		t.Errorf("sum of margins = %v, want %v", marginSum, wantMargin)
	}
}

func TestFlattenZeroCountGuard(t *testing.T) {
	doc := &RawDocument{Items: map[string]DealerNode{
		"d1": {Name: "Дилер", Models: map[string]ModelNode{
			"m1": {Name: "Racer RC300", Offers: map[string]OfferNode{
				"o1": {
					Name:           "Сток",
					CountSold:      0,
					TotalSoldPrice: 500000,
					TotalBuyPrice:  400000,
					Vehicles: map[string]VehicleNode{
						"v1": {VIN: "VIN100"},
					},
				},
			}},
		}},
	}}

	records := Flatten(doc)
	if len(records) != 1 {
		t.Fatalf("len = %d, want 1", len(records))
	}
	r := records[0]
	if r.BuyPrice != 0 || r.SoldPrice != 0 || r.Margin != 0 {
		t.Errorf("zero-count offer must give zero prices, got %+v", r)
	}
	for _, v := range []float64{r.BuyPrice, r.SoldPrice, r.Margin} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Errorf("non-finite price: %v", v)
		}
	}
}

func TestFlattenDateAndVINFallbacks(t *testing.T) {
	doc := &RawDocument{Items: map[string]DealerNode{
		"d1": {Name: "Дилер", Models: map[string]ModelNode{
			"m1": {Name: "Honda CB500", Offers: map[string]OfferNode{
				"o1": {
					Name:      "База",
					CountSold: 2,
					Vehicles: map[string]VehicleNode{
						"v1": {VIN: "", SaleDate: "not-a-date"},
						"v2": {VIN: "VIN200", SaleDate: ""},
					},
				},
			}},
		}},
	}}

	records := Flatten(doc)
	if len(records) != 2 {
		t.Fatalf("len = %d, want 2", len(records))
	}

	epoch := Epoch()
	sawPlaceholder := false
	for _, r := range records {
		if !r.SaleDate.Equal(epoch) {
			t.Errorf("SaleDate = %v, want epoch", r.SaleDate)
		}
		if r.Year != epoch.Year() || r.Month != int(epoch.Month())-1 {
			t.Errorf("Year/Month = %d/%d, want epoch-derived %d/%d", r.Year, r.Month, epoch.Year(), int(epoch.Month())-1)
		}
		if r.VIN == PlaceholderVIN {
			sawPlaceholder = true
		}
	}
	if !sawPlaceholder {
		t.Error("missing VIN must become placeholder")
	}
}
