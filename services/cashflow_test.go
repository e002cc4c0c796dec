package services

import (
	"math"
	"testing"
	"time"
)

func date(y int, m time.Month) time.Time {
	return time.Date(y, m, 15, 0, 0, 0, 0, time.UTC)
}

func TestMonthsBetween(t *testing.T) {
	tests := []struct {
		name   string
		start  time.Time
		fin    time.Time
		expect int
	}{
		{"same month", date(2026, time.January), date(2026, time.January), 1},
		{"half year", date(2026, time.January), date(2026, time.June), 6},
		{"across year boundary", date(2026, time.November), date(2027, time.February), 4},
		{"full year", date(2026, time.January), date(2026, time.December), 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MonthsBetween(tt.start, tt.fin); got != tt.expect {
				t.Errorf("MonthsBetween(%v, %v) = %d, want %d", tt.start, tt.fin, got, tt.expect)
			}
		})
	}
}

func TestProjectMonthly(t *testing.T) {
	rows := ProjectMonthly(6000000, date(2026, time.January), date(2026, time.June))

	if len(rows) != 6 {
		t.Fatalf("expected 6 rows, got %d", len(rows))
	}
	if rows[0].Period != "2026-01" || rows[5].Period != "2026-06" {
		t.Errorf("unexpected period bounds: %s .. %s", rows[0].Period, rows[5].Period)
	}

	var sum float64
	for _, row := range rows {
		if row.Projected != 1000000 {
			t.Errorf("period %s projected = %v, want 1000000", row.Period, row.Projected)
		}
		if row.Actual != 0 {
			t.Errorf("period %s actual = %v, want 0", row.Period, row.Actual)
		}
		sum += row.Projected
	}
	if math.Abs(sum-6000000) > 0.01 {
		t.Errorf("projected sum = %v, want 6000000", sum)
	}
}

func TestProjectMonthlyCrossesYears(t *testing.T) {
	rows := ProjectMonthly(400000, date(2026, time.November), date(2027, time.February))

	want := []string{"2026-11", "2026-12", "2027-01", "2027-02"}
	if len(rows) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(rows))
	}
	for i, period := range want {
		if rows[i].Period != period {
			t.Errorf("row %d period = %s, want %s", i, rows[i].Period, period)
		}
	}
}

func TestReconcile(t *testing.T) {
	tests := []struct {
		name      string
		projected float64
		actual    float64
		wantDiff  float64
		wantPct   float64
	}{
		{"over budget", 1000000, 1100000, 100000, 10},
		{"under budget", 1000000, 900000, -100000, -10},
		{"exact", 1000000, 1000000, 0, 0},
		{"zero projected never divides", 0, 500000, 500000, 0},
		{"nothing booked yet", 1000000, 0, -1000000, -100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diff, pct := Reconcile(tt.projected, tt.actual)
			if diff != tt.wantDiff {
				t.Errorf("difference = %v, want %v", diff, tt.wantDiff)
			}
			if pct != tt.wantPct {
				t.Errorf("difference_pct = %v, want %v", pct, tt.wantPct)
			}
		})
	}
}
