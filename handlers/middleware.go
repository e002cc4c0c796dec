package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

type contextKey string

// ActiveQuotationKey stores the active quotation record in the request context.
const ActiveQuotationKey contextKey = "activeQuotation"

// ActiveQuotation is the cookie-selected quotation the dashboard renders.
type ActiveQuotation struct {
	ID   string
	Name string
}

// GetActiveQuotation extracts the active quotation from the request context.
func GetActiveQuotation(r *http.Request) *ActiveQuotation {
	if val, ok := r.Context().Value(ActiveQuotationKey).(*ActiveQuotation); ok {
		return val
	}
	return nil
}

// ActiveQuotationMiddleware reads the "active_quotation" cookie, loads the
// quotation record and stores it in the request context so the dashboard and
// page handlers can use it.
func ActiveQuotationMiddleware(app *pocketbase.PocketBase) func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var active *ActiveQuotation

		cookie, err := e.Request.Cookie("active_quotation")
		if err == nil && cookie.Value != "" {
			rec, err := app.FindRecordById("quotations", cookie.Value)
			if err == nil {
				active = &ActiveQuotation{
					ID:   rec.Id,
					Name: rec.GetString("name"),
				}
			} else {
				log.Printf("middleware: active quotation %s not found, clearing cookie", cookie.Value)
				http.SetCookie(e.Response, &http.Cookie{
					Name:   "active_quotation",
					Value:  "",
					Path:   "/",
					MaxAge: -1,
				})
			}
		}

		ctx := context.WithValue(e.Request.Context(), ActiveQuotationKey, active)
		e.Request = e.Request.WithContext(ctx)

		return e.Next()
	}
}

// HandleQuotationSelect sets the active quotation cookie and redirects to the
// dashboard so the whole shell re-renders.
func HandleQuotationSelect(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quotationID := e.Request.PathValue("id")

		if _, err := app.FindRecordById("quotations", quotationID); err != nil {
			return ErrorToast(e, http.StatusNotFound, "Quotation not found")
		}

		http.SetCookie(e.Response, &http.Cookie{
			Name:     "active_quotation",
			Value:    quotationID,
			Path:     "/",
			MaxAge:   60 * 60 * 24 * 30,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})

		SetToast(e, "success", "Quotation selected")

		e.Response.Header().Set("HX-Redirect", "/dashboard")
		return e.String(http.StatusOK, "OK")
	}
}
