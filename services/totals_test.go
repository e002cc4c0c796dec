package services

import "testing"

func TestCalcVersionTotals(t *testing.T) {
	tests := []struct {
		name           string
		chapter1       float64
		foundation     float64
		complementary  float64
		administration float64
		want           VersionTotals
	}{
		{
			"all chapters populated",
			5000000, 1200000, 800000, 950000,
			VersionTotals{
				Chapter1:       5000000,
				Chapter2:       2000000,
				Administration: 950000,
				TotalGeneral:   7000000,
			},
		},
		{
			"administration stays out of the general total",
			1000000, 0, 0, 500000,
			VersionTotals{
				Chapter1:       1000000,
				Chapter2:       0,
				Administration: 500000,
				TotalGeneral:   1000000,
			},
		},
		{
			"empty version",
			0, 0, 0, 0,
			VersionTotals{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalcVersionTotals(tt.chapter1, tt.foundation, tt.complementary, tt.administration)
			if got != tt.want {
				t.Errorf("CalcVersionTotals(%v, %v, %v, %v) = %+v, want %+v",
					tt.chapter1, tt.foundation, tt.complementary, tt.administration, got, tt.want)
			}
		})
	}
}
