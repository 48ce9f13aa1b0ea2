package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/wealthwise/internal/authz"
)

func TestWriteAuthzError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantTitle string
		wantPerm  string
		wantMsg   string
	}{
		{name: "unauthenticated", err: authz.ErrUnauthenticated, wantTitle: TitleUnauthenticated},
		{name: "no group", err: authz.ErrGroupRequired, wantTitle: TitleGroupRequired},
		{
			name:      "denied",
			err:       fmt.Errorf("wrapped: %w", &authz.PermissionDeniedError{Permission: authz.PermDelete}),
			wantTitle: TitlePermission,
			wantPerm:  "delete",
			wantMsg:   "You need delete permission to perform this action",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			require.True(t, WriteAuthzError(rec, tt.err))
			assert.Equal(t, http.StatusForbidden, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantTitle, body["error"])
			assert.NotEmpty(t, body["message"])
			if tt.wantPerm != "" {
				assert.Equal(t, tt.wantPerm, body["required_permission"])
				assert.Equal(t, tt.wantMsg, body["message"])
			} else {
				assert.NotContains(t, body, "required_permission")
			}
		})
	}

	rec := httptest.NewRecorder()
	assert.False(t, WriteAuthzError(rec, errors.New("boom")))
	assert.Zero(t, rec.Body.Len())
}

func TestWriteInternalError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteInternalError(rec)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error": "Internal server error"}`, rec.Body.String())
}
