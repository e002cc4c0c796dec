package services

import (
	"fmt"
	"time"
)

// CashflowRow is one monthly projection/reconciliation entry.
type CashflowRow struct {
	Period        string  `json:"period"` // YYYY-MM
	Projected     float64 `json:"projected"`
	Actual        float64 `json:"actual"`
	Difference    float64 `json:"difference"`
	DifferencePct float64 `json:"difference_pct"`
}

// MonthsBetween returns the number of calendar months between start and fin,
// inclusive of both. Callers validate date order beforehand.
func MonthsBetween(start, fin time.Time) int {
	years := fin.Year() - start.Year()
	months := int(fin.Month()) - int(start.Month())
	return years*12 + months + 1
}

// ProjectMonthly spreads a version's total general linearly across the
// inclusive calendar months between start and fin. Each row carries an equal
// share; actuals start at zero.
func ProjectMonthly(totalGeneral float64, start, fin time.Time) []CashflowRow {
	n := MonthsBetween(start, fin)
	if n <= 0 {
		return nil
	}

	share := totalGeneral / float64(n)
	rows := make([]CashflowRow, 0, n)

	cursor := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		rows = append(rows, CashflowRow{
			Period:    fmt.Sprintf("%04d-%02d", cursor.Year(), int(cursor.Month())),
			Projected: share,
		})
		cursor = cursor.AddDate(0, 1, 0)
	}
	return rows
}

// Reconcile returns the difference between actual and projected and the
// difference as a percentage of projected. The percentage is zero when
// projected is zero so empty periods never divide by zero.
func Reconcile(projected, actual float64) (difference, differencePct float64) {
	difference = actual - projected
	if projected != 0 {
		differencePct = difference / projected * 100
	}
	return difference, differencePct
}
