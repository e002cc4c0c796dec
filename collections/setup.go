package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"cotizador/services"
)

// Setup programmatically creates/ensures the quotations, quotation_versions,
// cost_lines, aiu_groups and cashflow_entries collections exist, and binds the
// write-time version guards.
func Setup(app *pocketbase.PocketBase) {
	RegisterVersionGuards(app)

	quotations := ensureCollection(app, "quotations", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "client", Required: false})
		c.Fields.Add(&core.TextField{Name: "reference", Required: false})
		c.Fields.Add(&core.TextField{Name: "start_date", Required: false})
		c.Fields.Add(&core.TextField{Name: "fin_date", Required: false})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	versions := ensureCollection(app, "quotation_versions", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "quotation",
			Required:      true,
			CollectionId:  quotations.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.NumberField{Name: "version_number", Required: true})
		c.Fields.Add(&core.BoolField{Name: "active"})
		c.Fields.Add(&core.NumberField{Name: "area_base", Required: false})
		c.Fields.Add(&core.NumberField{Name: "area_covered", Required: false})
		c.Fields.Add(&core.NumberField{Name: "area_mezzanine", Required: false})
		c.Fields.Add(&core.TextField{Name: "change_notes", Required: false})
		c.Fields.Add(&core.TextField{Name: "created_by", Required: false})
		c.Fields.Add(&core.SelectField{
			Name:      "foundation_option",
			Required:  false,
			Values:    services.FoundationOptionValues,
			MaxSelect: 1,
		})
		// Derived totals, written only by the recompute pass.
		c.Fields.Add(&core.NumberField{Name: "total_chapter1", Required: false})
		c.Fields.Add(&core.NumberField{Name: "total_chapter2", Required: false})
		c.Fields.Add(&core.NumberField{Name: "total_administration", Required: false})
		c.Fields.Add(&core.NumberField{Name: "total_general", Required: false})
		c.Fields.Add(&core.NumberField{Name: "total_foundation_piles", Required: false})
		c.Fields.Add(&core.NumberField{Name: "total_foundation_pile_caps", Required: false})
		c.Fields.Add(&core.NumberField{Name: "total_foundation", Required: false})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	ensureCollection(app, "cost_lines", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "version",
			Required:      true,
			CollectionId:  versions.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.NumberField{Name: "sort_order", Required: true})
		c.Fields.Add(&core.SelectField{
			Name:      "section",
			Required:  true,
			Values:    services.SectionValues,
			MaxSelect: 1,
		})
		c.Fields.Add(&core.TextField{Name: "concept", Required: true})
		c.Fields.Add(&core.TextField{Name: "description", Required: false})
		c.Fields.Add(&core.TextField{Name: "unit", Required: false})
		c.Fields.Add(&core.NumberField{Name: "quantity", Required: false})
		c.Fields.Add(&core.NumberField{Name: "unit_price", Required: false})
		c.Fields.Add(&core.NumberField{Name: "price_materials", Required: false})
		c.Fields.Add(&core.NumberField{Name: "price_equipment", Required: false})
		c.Fields.Add(&core.NumberField{Name: "price_labor", Required: false})
		c.Fields.Add(&core.BoolField{Name: "multi_price"})
		c.Fields.Add(&core.JSONField{Name: "entries"})
		c.Fields.Add(&core.NumberField{Name: "subtotal", Required: false})
	})

	ensureCollection(app, "aiu_groups", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "version",
			Required:      true,
			CollectionId:  versions.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.SelectField{
			Name:      "group",
			Required:  true,
			Values:    services.AIUGroupValues,
			MaxSelect: 1,
		})
		c.Fields.Add(&core.NumberField{Name: "commission", Required: false})
		c.Fields.Add(&core.NumberField{Name: "contingency", Required: false})
		c.Fields.Add(&core.NumberField{Name: "logistics", Required: false})
		c.Fields.Add(&core.NumberField{Name: "admin_pct", Required: false})
		c.Fields.Add(&core.NumberField{Name: "profit_pct", Required: false})
		c.Fields.Add(&core.NumberField{Name: "admin_final", Required: false})
		c.Fields.Add(&core.NumberField{Name: "profit_final", Required: false})
		// Derived, written only by the recompute pass.
		c.Fields.Add(&core.NumberField{Name: "direct_cost", Required: false})
		c.Fields.Add(&core.NumberField{Name: "admin_suggested", Required: false})
		c.Fields.Add(&core.NumberField{Name: "profit_suggested", Required: false})
		c.Fields.Add(&core.NumberField{Name: "total_markup", Required: false})
		c.Fields.Add(&core.NumberField{Name: "chapter_total", Required: false})
	})

	ensureCollection(app, "cashflow_entries", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "version",
			Required:      true,
			CollectionId:  versions.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.TextField{Name: "period", Required: true})
		c.Fields.Add(&core.NumberField{Name: "projected", Required: false})
		c.Fields.Add(&core.NumberField{Name: "actual", Required: false})
		c.Fields.Add(&core.NumberField{Name: "difference", Required: false})
		c.Fields.Add(&core.NumberField{Name: "difference_pct", Required: false})
	})
}

// ensureCollection checks if a collection already exists by name. If it does,
// the existing collection is returned. Otherwise a new base collection is
// created, the addFields callback is invoked to populate its fields, and the
// collection is saved.
func ensureCollection(app *pocketbase.PocketBase, name string, addFields func(*core.Collection)) *core.Collection {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		log.Printf("Collection %q already exists, skipping creation.\n", name)
		return existing
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		log.Fatalf("Failed to create collection %q: %v", name, err)
	}

	fmt.Printf("Created collection %q (id=%s)\n", name, collection.Id)
	return collection
}
