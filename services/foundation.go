package services

// FoundationOption selects which of the two foundation costing options is
// active for a version. Both options stay fully computed either way so they
// can be compared and audited after a choice is made.
type FoundationOption string

const (
	OptionNone     FoundationOption = ""
	OptionPiles    FoundationOption = "piles"
	OptionPileCaps FoundationOption = "pile_caps"
)

// FoundationOptionValues lists the selectable option codes (the empty string
// means no selection has been made yet).
var FoundationOptionValues = []string{
	string(OptionPiles),
	string(OptionPileCaps),
}

// IsValidFoundationOption reports whether code is a selectable option or the
// empty (unselected) value.
func IsValidFoundationOption(code string) bool {
	return code == string(OptionNone) ||
		code == string(OptionPiles) ||
		code == string(OptionPileCaps)
}

// ResolveFoundation returns the chapter-2 foundation total: the selected
// option's total, or max(piles, pileCaps) when no selection has been made.
// The fallback is an invariant, not an error state.
func ResolveFoundation(pilesTotal, pileCapsTotal float64, sel FoundationOption) float64 {
	switch sel {
	case OptionPiles:
		return pilesTotal
	case OptionPileCaps:
		return pileCapsTotal
	default:
		if pilesTotal >= pileCapsTotal {
			return pilesTotal
		}
		return pileCapsTotal
	}
}
