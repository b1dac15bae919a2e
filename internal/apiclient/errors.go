package apiclient

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/example/foodyham/internal/apperror"
)

// translate maps a non-2xx collaborator response onto the error taxonomy.
// The message comes from the body's "message" or "error" field.
func translate(status int, body []byte) *apperror.Error {
	msg := bodyMessage(body)

	var e *apperror.Error
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		e = apperror.Validation(orDefault(msg, "Invalid request"))
	case http.StatusUnauthorized:
		e = apperror.Authentication(orDefault(msg, "Authentication required"))
	case http.StatusForbidden:
		e = apperror.Authorization(orDefault(msg, "You do not have permission to do that"))
	case http.StatusNotFound:
		e = apperror.NotFound(orDefault(msg, "Not found"))
	default:
		e = apperror.Communication(msg, fmt.Errorf("unexpected status %d", status))
	}
	e.Status = status
	return e
}

func bodyMessage(body []byte) string {
	var payload struct {
		Message string          `json:"message"`
		Error   json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	// "error" is a string on most routes and an object on some
	var s string
	if json.Unmarshal(payload.Error, &s) == nil {
		return s
	}
	var nested struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(payload.Error, &nested) == nil {
		return nested.Message
	}
	return ""
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
