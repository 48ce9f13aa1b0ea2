// Package httputil provides the JSON response helpers shared by the REST
// handlers and the HTTP middleware.
package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/mmynk/wealthwise/internal/authz"
)

// Error titles used in the "error" field of error bodies.
const (
	TitleUnauthenticated = "Authentication required"
	TitleGroupRequired   = "Group membership required"
	TitlePermission      = "Permission denied"
	TitleValidation      = "Validation failed"
	TitleBadRequest      = "Bad request"
	TitleNotFound        = "Not found"
	TitleMethod          = "Method not allowed"
	TitleInternal        = "Internal server error"
)

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Error              string      `json:"error"`
	Message            string      `json:"message,omitempty"`
	RequiredPermission string      `json:"required_permission,omitempty"`
	Errors             interface{} `json:"errors,omitempty"`
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// WriteError writes an error body with the given status code.
func WriteError(w http.ResponseWriter, status int, body ErrorResponse) {
	if err := WriteJSON(w, status, body); err != nil {
		slog.Debug("Failed to write error response", "error", err)
	}
}

// WriteBadRequest writes a 400 with a message.
func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, ErrorResponse{Error: TitleBadRequest, Message: message})
}

// WriteNotFound writes a 404 with a message.
func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, ErrorResponse{Error: TitleNotFound, Message: message})
}

// WriteInternalError writes a 500. The cause is never sent to the client.
func WriteInternalError(w http.ResponseWriter) {
	WriteError(w, http.StatusInternalServerError, ErrorResponse{Error: TitleInternal})
}

// WriteNoContent writes a successful response with no content (204 No Content)
func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// AuthzResponse maps an authorization error to its 403 body.
// ok is false when err is not an authorization error.
func AuthzResponse(err error) (body ErrorResponse, ok bool) {
	var denied *authz.PermissionDeniedError
	switch {
	case errors.Is(err, authz.ErrUnauthenticated):
		return ErrorResponse{
			Error:   TitleUnauthenticated,
			Message: "Authentication credentials were not provided or are invalid",
		}, true
	case errors.Is(err, authz.ErrGroupRequired):
		return ErrorResponse{
			Error:   TitleGroupRequired,
			Message: "You must belong to a group to access this resource",
		}, true
	case errors.As(err, &denied):
		return ErrorResponse{
			Error:              TitlePermission,
			RequiredPermission: string(denied.Permission),
			Message:            fmt.Sprintf("You need %s permission to perform this action", denied.Permission),
		}, true
	}
	return ErrorResponse{}, false
}

// WriteAuthzError writes the 403 for an authorization error and reports
// whether err was one.
func WriteAuthzError(w http.ResponseWriter, err error) bool {
	body, ok := AuthzResponse(err)
	if !ok {
		return false
	}
	WriteError(w, http.StatusForbidden, body)
	return true
}
