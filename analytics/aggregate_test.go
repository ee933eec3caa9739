package analytics

import (
	"math"
	"testing"
)

func TestGroupByDealer(t *testing.T) {
	rows := GroupBy(testRecords(), GroupByDealer)
	if len(rows) != 2 {
		t.Fatalf("len = %d, want 2", len(rows))
	}

	byLabel := map[string]AggRow{}
	for _, r := range rows {
		byLabel[r.Label] = r
	}

	moto := byLabel["МотоМир"]
	if moto.Units != 3 || moto.Revenue != 1460000 || moto.Margin != 225000 {
		t.Errorf("МотоМир = %+v", moto)
	}
	drive := byLabel["Драйв"]
	if drive.Units != 2 || drive.Revenue != 1150000 {
		t.Errorf("Драйв = %+v", drive)
	}
}

func TestGroupByMonthAndWeekday(t *testing.T) {
	records := testRecords()

	months := GroupBy(records, GroupByMonth)
	for _, row := range months {
		if row.Label == "" {
			t.Errorf("month row %q has no label", row.Key)
		}
	}

	weekdays := GroupBy(records, GroupByWeekday)
	var units int
	for _, row := range weekdays {
		units += row.Units
	}
	if units != len(records) {
		t.Errorf("weekday units sum = %d, want %d", units, len(records))
	}
}

func TestSortRows(t *testing.T) {
	rows := GroupBy(testRecords(), GroupByModel)

	desc := SortRows(rows, MetricRevenue, true)
	for i := 1; i < len(desc); i++ {
		if desc[i].Revenue > desc[i-1].Revenue {
			t.Errorf("rows not sorted descending at %d", i)
		}
	}

	asc := SortRows(rows, MetricUnits, false)
	for i := 1; i < len(asc); i++ {
		if asc[i].Units < asc[i-1].Units {
			t.Errorf("rows not sorted ascending at %d", i)
		}
	}
}

func TestTopNShares(t *testing.T) {
	rows := GroupBy(testRecords(), GroupByDealer)
	total := TotalOf(rows, MetricRevenue)

	top := TopN(rows, 0, MetricRevenue, total)
	var shareSum float64
	for _, r := range top {
		shareSum += r.Share
	}
	if math.Abs(shareSum-100) > 1e-9 {
		t.Errorf("shares sum = %v, want 100", shareSum)
	}

	top1 := TopN(rows, 1, MetricRevenue, total)
	if len(top1) != 1 || top1[0].Label != "МотоМир" {
		t.Errorf("top1 = %+v", top1)
	}
}

func TestTopNZeroTotal(t *testing.T) {
	rows := []AggRow{{Key: "a", Label: "a"}, {Key: "b", Label: "b"}}
	top := TopN(rows, 10, MetricRevenue, 0)
	for _, r := range top {
		if r.Share != 0 {
			t.Errorf("share with zero total = %v, want exactly 0", r.Share)
		}
		if math.IsNaN(r.Share) || math.IsInf(r.Share, 0) {
			t.Errorf("non-finite share: %v", r.Share)
		}
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(testRecords())
	if s.Units != 5 {
		t.Errorf("Units = %d", s.Units)
	}
	if s.Revenue != 2610000 {
		t.Errorf("Revenue = %v", s.Revenue)
	}
	if math.Abs(s.AvgCheck-522000) > 1e-9 {
		t.Errorf("AvgCheck = %v", s.AvgCheck)
	}

	empty := Summarize(nil)
	if empty.AvgCheck != 0 || empty.Units != 0 {
		t.Errorf("empty summary = %+v", empty)
	}
}
