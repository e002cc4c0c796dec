package collections

import (
	"fmt"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"cotizador/services"
)

// RegisterVersionGuards binds the version invariants to the persistence layer,
// so every save path is covered regardless of which handler (or future code)
// performs it: a positive base area, at most one active version per quotation
// and a unique (quotation, version_number) pair.
func RegisterVersionGuards(app *pocketbase.PocketBase) {
	app.OnRecordValidate("quotation_versions").BindFunc(func(e *core.RecordEvent) error {
		quotationID := e.Record.GetString("quotation")

		if msgs := services.ValidateAreaBase(e.Record.GetFloat("area_base")); len(msgs) > 0 {
			return fmt.Errorf("version save rejected: %s", msgs["area_base"])
		}

		if e.Record.GetBool("active") {
			others, err := e.App.FindRecordsByFilter(
				"quotation_versions",
				"quotation = {:quotationId} && active = true && id != {:id}",
				"",
				1,
				0,
				map[string]any{"quotationId": quotationID, "id": e.Record.Id},
			)
			if err != nil {
				return err
			}
			if len(others) > 0 {
				return fmt.Errorf("quotation %s already has an active version", quotationID)
			}
		}

		duplicates, err := e.App.FindRecordsByFilter(
			"quotation_versions",
			"quotation = {:quotationId} && version_number = {:number} && id != {:id}",
			"",
			1,
			0,
			map[string]any{
				"quotationId": quotationID,
				"number":      e.Record.GetInt("version_number"),
				"id":          e.Record.Id,
			},
		)
		if err != nil {
			return err
		}
		if len(duplicates) > 0 {
			return fmt.Errorf("quotation %s already has a version numbered %d",
				quotationID, e.Record.GetInt("version_number"))
		}

		return e.Next()
	})
}
