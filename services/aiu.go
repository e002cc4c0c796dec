package services

// AIUInputs are the markup-engine inputs for one group: the direct-cost
// subtotal plus the configured commission, contingency, logistics and the
// administration/profit percentages and user-editable final values.
type AIUInputs struct {
	DirectCost  float64
	Commission  float64
	Contingency float64
	Logistics   float64
	AdminPct    float64
	ProfitPct   float64
	AdminFinal  float64
	ProfitFinal float64
}

// AIUResult holds the derived markup values for one group.
// The suggested values are informational only; the total markup always uses
// the user-editable finals.
type AIUResult struct {
	AdminSuggested  float64
	ProfitSuggested float64
	TotalMarkup     float64
	ChapterTotal    float64
}

// ComputeAIU derives the suggested administration/profit values, the total
// markup and the chapter total for one group. Suggested values are forced to
// zero when the direct cost is zero so empty chapters never carry a
// percentage of nothing.
func ComputeAIU(in AIUInputs) AIUResult {
	var adminSuggested, profitSuggested float64
	if in.DirectCost > 0 {
		adminSuggested = in.DirectCost * in.AdminPct / 100
		profitSuggested = in.DirectCost * in.ProfitPct / 100
	}

	totalMarkup := in.Commission + in.Contingency + in.AdminFinal + in.Logistics + in.ProfitFinal

	return AIUResult{
		AdminSuggested:  adminSuggested,
		ProfitSuggested: profitSuggested,
		TotalMarkup:     totalMarkup,
		ChapterTotal:    in.DirectCost + totalMarkup,
	}
}
