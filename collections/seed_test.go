package collections_test

import (
	"testing"

	"github.com/pocketbase/dbx"

	"cotizador/collections"
	"cotizador/testhelpers"
)

func TestSeed_CreatesDemoQuotation(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	if err := collections.Seed(app); err != nil {
		t.Fatalf("Seed error: %v", err)
	}

	quotations, err := app.FindAllRecords("quotations")
	if err != nil {
		t.Fatalf("load quotations: %v", err)
	}
	if len(quotations) != 1 {
		t.Fatalf("expected 1 seeded quotation, got %d", len(quotations))
	}

	versions, err := app.FindRecordsByFilter(
		"quotation_versions", "quotation = {:q}", "", 0, 0,
		map[string]any{"q": quotations[0].Id},
	)
	if err != nil || len(versions) != 1 {
		t.Fatalf("expected 1 seeded version, got %d (%v)", len(versions), err)
	}
	v := versions[0]
	if !v.GetBool("active") {
		t.Error("seeded version should be active")
	}
	if v.GetFloat("total_general") <= 0 {
		t.Error("seeded version should have computed totals")
	}

	groups, _ := app.FindRecordsByFilter("aiu_groups", "version = {:v}", "", 0, 0, map[string]any{"v": v.Id})
	if len(groups) != 4 {
		t.Errorf("expected 4 AIU groups, got %d", len(groups))
	}

	lines, _ := app.FindRecordsByFilter("cost_lines", "version = {:v}", "", 0, 0, map[string]any{"v": v.Id})
	if len(lines) == 0 {
		t.Error("expected seeded cost lines")
	}
	for _, line := range lines {
		if line.GetFloat("subtotal") < 0 {
			t.Errorf("line %q has negative subtotal", line.GetString("concept"))
		}
	}
}

func TestSeed_SkipsWhenDataExists(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestQuotation(t, app, "Existente")

	if err := collections.Seed(app); err != nil {
		t.Fatalf("Seed error: %v", err)
	}

	quotations, _ := app.FindAllRecords("quotations")
	if len(quotations) != 1 {
		t.Errorf("Seed must not add data when quotations exist, got %d", len(quotations))
	}
}

func TestNormalizeActiveVersions(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	q := testhelpers.CreateTestQuotation(t, app, "Duplicadas")
	v1 := testhelpers.CreateTestVersion(t, app, q.Id, 1, true)
	v2 := testhelpers.CreateTestVersion(t, app, q.Id, 2, false)
	v3 := testhelpers.CreateTestVersion(t, app, q.Id, 3, false)

	// Simulate legacy rows written before the write-time guard existed: flip
	// the flag with raw SQL so the record hooks never run.
	if _, err := app.DB().NewQuery("UPDATE quotation_versions SET active = 1 WHERE id = {:id}").
		Bind(dbx.Params{"id": v2.Id}).Execute(); err != nil {
		t.Fatalf("raw activate: %v", err)
	}

	if err := collections.NormalizeActiveVersions(app); err != nil {
		t.Fatalf("NormalizeActiveVersions error: %v", err)
	}

	// The lowest active number survives; the later duplicate is demoted.
	first, _ := app.FindRecordById("quotation_versions", v1.Id)
	if !first.GetBool("active") {
		t.Error("version 1 should stay active")
	}
	second, _ := app.FindRecordById("quotation_versions", v2.Id)
	if second.GetBool("active") {
		t.Error("version 2 should be demoted")
	}
	third, _ := app.FindRecordById("quotation_versions", v3.Id)
	if third.GetBool("active") {
		t.Error("version 3 was never active")
	}
}

func TestNormalizeActiveVersions_NoopWhenHealthy(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	q := testhelpers.CreateTestQuotation(t, app, "Sana")
	v1 := testhelpers.CreateTestVersion(t, app, q.Id, 1, true)

	if err := collections.NormalizeActiveVersions(app); err != nil {
		t.Fatalf("NormalizeActiveVersions error: %v", err)
	}

	saved, _ := app.FindRecordById("quotation_versions", v1.Id)
	if !saved.GetBool("active") {
		t.Error("healthy active version must not be touched")
	}
}
