package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "kolanalytics/pkg/domain-errors"
)

func TestWriteError(t *testing.T) {
	cases := []struct {
		name        string
		err         error
		status      int
		code        string
		description string
	}{
		{"internal error omits description", dErrors.New(dErrors.CodeInternal, "stats failed"), http.StatusInternalServerError, "internal_error", ""},
		{"validation error includes description", dErrors.New(dErrors.CodeValidation, "invalid sort field"), http.StatusBadRequest, "validation_error", "invalid sort field"},
		{"not found maps to 404", dErrors.New(dErrors.CodeNotFound, "KOL with id '7' not found"), http.StatusNotFound, "not_found", "KOL with id '7' not found"},
		{"rate limit maps to 429", dErrors.New(dErrors.CodeRateLimit, "slow down"), http.StatusTooManyRequests, "rate_limit_exceeded", "slow down"},
		{"wrapped internal error hides cause", dErrors.Wrap(errors.New("disk"), dErrors.CodeInternal, "load failed"), http.StatusInternalServerError, "internal_error", ""},
		{"uncoded error is internal", errors.New("division by zero"), http.StatusInternalServerError, "internal_error", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteError(w, tc.err)

			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

			var body map[string]string
			require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
			assert.Equal(t, tc.code, body["error"])
			if tc.description == "" {
				assert.NotContains(t, body, "error_description")
			} else {
				assert.Equal(t, tc.description, body["error_description"])
			}
		})
	}
}

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()
	WriteJSON(w, http.StatusCreated, map[string]int{"records": 3})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"records":3}`, w.Body.String())
}
