package services

import "time"

const dateLayout = "2006-01-02"

// ValidateCostLine checks the quantity and price inputs of a cost line and
// returns field-keyed error messages. Roofing lines require a strictly
// positive quantity; every other section accepts zero. Negative prices are
// rejected uniformly.
func ValidateCostLine(section Section, qty, unitPrice, materials, equipment, labor float64) map[string]string {
	errors := make(map[string]string)

	if section == SectionRoofing {
		if qty <= 0 {
			errors["quantity"] = "Quantity must be greater than zero for roofing items"
		}
	} else if qty < 0 {
		errors["quantity"] = "Quantity must be zero or greater"
	}

	if unitPrice < 0 {
		errors["unit_price"] = "Unit price must be zero or greater"
	}
	if materials < 0 {
		errors["price_materials"] = "Materials price must be zero or greater"
	}
	if equipment < 0 {
		errors["price_equipment"] = "Equipment price must be zero or greater"
	}
	if labor < 0 {
		errors["price_labor"] = "Labor price must be zero or greater"
	}

	return errors
}

// ValidateAreaBase checks the version-level base floor area.
func ValidateAreaBase(area float64) map[string]string {
	errors := make(map[string]string)
	if area <= 0 {
		errors["area_base"] = "Base area must be greater than zero"
	}
	return errors
}

// ValidateDates checks that both dates parse as YYYY-MM-DD and that the
// finish date is not earlier than the start date.
func ValidateDates(startDate, finDate string) map[string]string {
	errors := make(map[string]string)

	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		errors["start_date"] = "Start date must be in YYYY-MM-DD format"
	}
	fin, err := time.Parse(dateLayout, finDate)
	if err != nil {
		errors["fin_date"] = "Finish date must be in YYYY-MM-DD format"
	}
	if len(errors) > 0 {
		return errors
	}

	if fin.Before(start) {
		errors["fin_date"] = "Finish date cannot be earlier than the start date"
	}
	return errors
}
