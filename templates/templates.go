// Package templates renders the HTMX dashboard shell. Components are built
// with templ.ComponentFunc so handlers compose and render them the same way
// regardless of whether a full page or an HTMX fragment is requested.
package templates

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"cotizador/services"
)

// HeaderData carries the quotation selector state shown in the page header.
type HeaderData struct {
	ActiveQuotationID   string
	ActiveQuotationName string
	Quotations          []QuotationOption
}

// QuotationOption is one entry of the header's quotation dropdown.
type QuotationOption struct {
	ID   string
	Name string
}

// VersionSummary is one row of the dashboard's version list.
type VersionSummary struct {
	ID            string
	VersionNumber int
	Active        bool
	ChangeNotes   string
	TotalGeneral  float64
}

// AIURow is one markup group of the dashboard's AIU table.
type AIURow struct {
	Label           string
	DirectCost      float64
	AdminSuggested  float64
	AdminFinal      float64
	ProfitSuggested float64
	ProfitFinal     float64
	TotalMarkup     float64
	ChapterTotal    float64
}

// DashboardData is everything the dashboard page needs for one quotation.
type DashboardData struct {
	QuotationID        string
	QuotationName      string
	Versions           []VersionSummary
	ActiveVersionID    string
	AreaBase           float64
	FoundationOption   string
	FoundationPiles    float64
	FoundationPileCaps float64
	FoundationResolved float64
	AIURows            []AIURow
	TotalChapter1      float64
	TotalChapter2      float64
	TotalAdmin         float64
	TotalGeneral       float64
	Cashflow           []services.CashflowRow
}

func esc(s string) string { return templ.EscapeString(s) }

func cop(v float64) string { return services.FormatCOP(v) }

// Layout wraps content in the full HTML shell with the HTMX runtime and the
// toast listener.
func Layout(title string, header HeaderData, content templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s</title>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<link rel="stylesheet" href="/static/app.css">
</head>
<body hx-ext="json-enc">
<div id="toast-container"></div>
<script>
document.body.addEventListener("toast", function (evt) {
  var d = evt.detail || {};
  var el = document.createElement("div");
  el.className = "toast toast-" + (d.type || "info");
  el.textContent = d.message || "";
  document.getElementById("toast-container").appendChild(el);
  setTimeout(function () { el.remove(); }, 4000);
});
</script>
`, esc(title)); err != nil {
			return err
		}
		if err := Header(header).Render(ctx, w); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `<main id="content">`); err != nil {
			return err
		}
		if content != nil {
			if err := content.Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</main>
</body>
</html>`)
		return err
	})
}

// Header renders the top bar with the quotation selector.
func Header(data HeaderData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<header class="topbar">
<span class="brand">Cotizador</span>
<select name="quotation" hx-trigger="change" hx-swap="none"
  onchange="if(this.value)htmx.ajax('POST','/quotations/'+this.value+'/select',{swap:'none'})">
<option value="">— Seleccionar cotización —</option>
`); err != nil {
			return err
		}
		for _, q := range data.Quotations {
			selected := ""
			if q.ID == data.ActiveQuotationID {
				selected = " selected"
			}
			if _, err := fmt.Fprintf(w, `<option value="%s"%s>%s</option>
`, esc(q.ID), selected, esc(q.Name)); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</select>
</header>
`)
		return err
	})
}

// Dashboard renders the main view for the active quotation: version list,
// totals, AIU breakdown, foundation comparison and cashflow.
func Dashboard(data DashboardData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<section class="dashboard">
<h1>%s</h1>
`, esc(data.QuotationName)); err != nil {
			return err
		}

		if _, err := io.WriteString(w, `<div class="card versions">
<h2>Versiones</h2>
<table>
<thead><tr><th>#</th><th>Estado</th><th>Notas</th><th class="num">Total</th><th></th></tr></thead>
<tbody>
`); err != nil {
			return err
		}
		for _, v := range data.Versions {
			state := ""
			action := fmt.Sprintf(
				`<button hx-post="/quotations/%s/versions/%s/activate" hx-swap="none">Activar</button>`,
				esc(data.QuotationID), esc(v.ID))
			if v.Active {
				state = `<span class="badge">activa</span>`
				action = ""
			}
			if _, err := fmt.Fprintf(w, `<tr><td>%d</td><td>%s</td><td>%s</td><td class="num">%s</td><td>%s</td></tr>
`, v.VersionNumber, state, esc(v.ChangeNotes), cop(v.TotalGeneral), action); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `</tbody>
</table>
</div>
`); err != nil {
			return err
		}

		if data.ActiveVersionID != "" {
			if err := LineForm(data.ActiveVersionID).Render(ctx, w); err != nil {
				return err
			}
		}

		if _, err := io.WriteString(w, `<div class="card aiu">
<h2>AIU</h2>
<table>
<thead><tr><th>Grupo</th><th class="num">Costo directo</th><th class="num">Admin. sug.</th><th class="num">Admin. final</th><th class="num">Utilidad sug.</th><th class="num">Utilidad final</th><th class="num">Total AIU</th><th class="num">Total capítulo</th></tr></thead>
<tbody>
`); err != nil {
			return err
		}
		for _, row := range data.AIURows {
			if _, err := fmt.Fprintf(w, `<tr><td>%s</td><td class="num">%s</td><td class="num">%s</td><td class="num">%s</td><td class="num">%s</td><td class="num">%s</td><td class="num">%s</td><td class="num">%s</td></tr>
`, esc(row.Label), cop(row.DirectCost), cop(row.AdminSuggested), cop(row.AdminFinal),
				cop(row.ProfitSuggested), cop(row.ProfitFinal), cop(row.TotalMarkup), cop(row.ChapterTotal)); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `</tbody>
</table>
</div>
`); err != nil {
			return err
		}

		pilesClass, capsClass := "", ""
		switch data.FoundationOption {
		case "piles":
			pilesClass = ` class="selected"`
		case "pile_caps":
			capsClass = ` class="selected"`
		}
		if _, err := fmt.Fprintf(w, `<div class="card foundation">
<h2>Cimentación</h2>
<table>
<tbody>
<tr%s><td>Pilotes</td><td class="num">%s</td></tr>
<tr%s><td>Dados</td><td class="num">%s</td></tr>
<tr class="total"><td>En total general</td><td class="num">%s</td></tr>
</tbody>
</table>
</div>
`, pilesClass, cop(data.FoundationPiles), capsClass, cop(data.FoundationPileCaps),
			cop(data.FoundationResolved)); err != nil {
			return err
		}

		if _, err := fmt.Fprintf(w, `<div class="card totals">
<h2>Totales</h2>
<table>
<tbody>
<tr><td>Capítulo 1</td><td class="num">%s</td></tr>
<tr><td>Capítulo 2</td><td class="num">%s</td></tr>
<tr><td>Administración</td><td class="num">%s</td></tr>
<tr class="total"><td>TOTAL GENERAL</td><td class="num">%s</td></tr>
</tbody>
</table>
<p class="words">Son: %s</p>
</div>
`, cop(data.TotalChapter1), cop(data.TotalChapter2), cop(data.TotalAdmin),
			cop(data.TotalGeneral), esc(services.AmountToWordsCOP(data.TotalGeneral))); err != nil {
			return err
		}

		if len(data.Cashflow) > 0 {
			if _, err := io.WriteString(w, `<div class="card cashflow">
<h2>Flujo de caja</h2>
<table>
<thead><tr><th>Periodo</th><th class="num">Proyectado</th><th class="num">Real</th><th class="num">Diferencia</th><th class="num">%</th></tr></thead>
<tbody>
`); err != nil {
				return err
			}
			for _, row := range data.Cashflow {
				if _, err := fmt.Fprintf(w, `<tr><td>%s</td><td class="num">%s</td><td class="num">%s</td><td class="num">%s</td><td class="num">%.1f%%</td></tr>
`, esc(row.Period), cop(row.Projected), cop(row.Actual), cop(row.Difference), row.DifferencePct); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, `</tbody>
</table>
</div>
`); err != nil {
				return err
			}
		}

		_, err := io.WriteString(w, `</section>
`)
		return err
	})
}

// LineForm renders the add-line form for the shown version, with the section
// and unit catalogs as dropdowns and the design disciplines as suggestions.
func LineForm(versionID string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<div class="card line-form">
<h2>Agregar línea</h2>
<form hx-post="/versions/%s/lines" hx-swap="none">
<select name="section">
`, esc(versionID)); err != nil {
			return err
		}
		for _, s := range services.SectionValues {
			if _, err := fmt.Fprintf(w, `<option value="%s">%s</option>
`, esc(s), esc(services.SectionLabels[services.Section(s)])); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `</select>
<input name="concept" list="design-concepts" placeholder="Concepto" required>
<datalist id="design-concepts">
`); err != nil {
			return err
		}
		for _, c := range services.DesignConcepts {
			if _, err := fmt.Fprintf(w, `<option value="%s"></option>
`, esc(c)); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `</datalist>
<input name="description" placeholder="Descripción">
<select name="unit">
`); err != nil {
			return err
		}
		for _, u := range services.UnitOptions {
			if _, err := fmt.Fprintf(w, `<option value="%s">%s</option>
`, esc(u), esc(u)); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</select>
<input name="quantity" type="number" step="any" min="0" value="0">
<input name="unit_price" type="number" step="any" min="0" value="0">
<button type="submit">Agregar</button>
</form>
</div>
`)
		return err
	})
}

// EmptyState renders the dashboard placeholder when no quotation is selected.
func EmptyState() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<section class="empty-state">
<h1>Cotizador</h1>
<p>Seleccione una cotización en el encabezado para comenzar.</p>
</section>
`)
		return err
	})
}
