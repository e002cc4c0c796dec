package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
)

// NormalizeActiveVersions demotes duplicate active versions so every
// quotation ends up with at most one. The lowest version number wins
// (it was activated first). Safe to call on every startup -- returns early
// when nothing needs repair.
func NormalizeActiveVersions(app *pocketbase.PocketBase) error {
	quotations, err := app.FindAllRecords("quotations")
	if err != nil {
		return fmt.Errorf("normalize: could not load quotations: %w", err)
	}

	repaired := 0
	for _, q := range quotations {
		active, err := app.FindRecordsByFilter(
			"quotation_versions",
			"quotation = {:quotationId} && active = true",
			"version_number",
			0,
			0,
			map[string]any{"quotationId": q.Id},
		)
		if err != nil {
			return fmt.Errorf("normalize: could not query active versions for %s: %w", q.Id, err)
		}
		if len(active) <= 1 {
			continue
		}

		for _, extra := range active[1:] {
			extra.Set("active", false)
			if err := app.Save(extra); err != nil {
				log.Printf("normalize: failed to demote version %s of quotation %q: %v\n", extra.Id, q.GetString("name"), err)
				continue
			}
			repaired++
		}
	}

	if repaired > 0 {
		log.Printf("normalize: demoted %d duplicate active version(s)\n", repaired)
	}
	return nil
}
