package handlers

import (
	"fmt"
	"io"

	json "github.com/goccy/go-json"
	"github.com/pocketbase/pocketbase/core"
)

// jsonError writes a JSON error body with an optional field→message map.
func jsonError(e *core.RequestEvent, statusCode int, message string, fieldErrors map[string]string) error {
	body := map[string]any{"error": message}
	if len(fieldErrors) > 0 {
		body["errors"] = fieldErrors
	}
	return e.JSON(statusCode, body)
}

// decodeJSONBody decodes a JSON request body into dst.
func decodeJSONBody(e *core.RequestEvent, dst any) error {
	data, err := io.ReadAll(e.Request.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}
