// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"cotizador/collections"
	"cotizador/services"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

// CreateTestQuotation creates a quotation record with the given name and returns it.
func CreateTestQuotation(t *testing.T, app *pocketbase.PocketBase, name string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("quotations")
	if err != nil {
		t.Fatalf("failed to find quotations collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("name", name)
	record.Set("client", "Test Client S.A.S.")
	record.Set("reference", "COT-TEST-001")
	record.Set("start_date", "2026-01-01")
	record.Set("fin_date", "2026-06-30")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test quotation: %v", err)
	}

	return record
}

// CreateTestVersion creates a version record linked to a quotation and returns it.
func CreateTestVersion(t *testing.T, app *pocketbase.PocketBase, quotationID string, number int, active bool) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("quotation_versions")
	if err != nil {
		t.Fatalf("failed to find quotation_versions collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("quotation", quotationID)
	record.Set("version_number", number)
	record.Set("active", active)
	record.Set("area_base", 100.0)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test version: %v", err)
	}

	return record
}

// CreateTestLine creates a cost line in the given section.
func CreateTestLine(t *testing.T, app *pocketbase.PocketBase, versionID string, section services.Section, concept string, qty, unitPrice float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("cost_lines")
	if err != nil {
		t.Fatalf("failed to find cost_lines collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("version", versionID)
	record.Set("sort_order", 1)
	record.Set("section", string(section))
	record.Set("concept", concept)
	record.Set("unit", "un")
	record.Set("quantity", qty)
	record.Set("unit_price", unitPrice)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test line: %v", err)
	}

	return record
}

// CreateTestAIUGroups creates the four markup group records for a version at
// the default percentages and returns them keyed by group code.
func CreateTestAIUGroups(t *testing.T, app *pocketbase.PocketBase, versionID string) map[string]*core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("aiu_groups")
	if err != nil {
		t.Fatalf("failed to find aiu_groups collection: %v", err)
	}

	groups := make(map[string]*core.Record, len(services.AIUGroupValues))
	for _, group := range services.AIUGroupValues {
		record := core.NewRecord(col)
		record.Set("version", versionID)
		record.Set("group", group)
		record.Set("admin_pct", services.DefaultAdminPct)
		record.Set("profit_pct", services.DefaultProfitPct)

		if err := app.Save(record); err != nil {
			t.Fatalf("failed to save test AIU group %q: %v", group, err)
		}
		groups[group] = record
	}

	return groups
}

// CreateTestCashflowEntry creates a cashflow entry for a version.
func CreateTestCashflowEntry(t *testing.T, app *pocketbase.PocketBase, versionID, period string, projected, actual float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("cashflow_entries")
	if err != nil {
		t.Fatalf("failed to find cashflow_entries collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("version", versionID)
	record.Set("period", period)
	record.Set("projected", projected)
	record.Set("actual", actual)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test cashflow entry: %v", err)
	}

	return record
}
