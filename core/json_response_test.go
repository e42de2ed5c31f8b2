package core_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillbridge/stepup/core"
)

func TestWriteJSON(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	core.WriteJSON(rec, http.StatusCreated, map[string]string{"message": "ok"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"message":"ok"}`, rec.Body.String())
}

func TestWriteError(t *testing.T) {
	t.Parallel()

	t.Run("http error carries status and code", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		core.WriteError(rec, core.NewHTTPError(http.StatusNotFound, "MFA_SETUP_NOT_FOUND", "MFA setup not found"))

		assert.Equal(t, http.StatusNotFound, rec.Code)

		var body core.ErrorBody
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "MFA_SETUP_NOT_FOUND", body.Code)
		assert.Equal(t, "MFA setup not found", body.Error)
	})

	t.Run("wrapped http error unwraps", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		wrapped := errors.Join(core.NewHTTPError(http.StatusBadRequest, "VALIDATION_ERROR", "bad input"), errors.New("field detail"))
		core.WriteError(rec, wrapped)

		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var body core.ErrorBody
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "VALIDATION_ERROR", body.Code)
	})

	t.Run("unknown errors become opaque 500s", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		core.WriteError(rec, errors.New("mongo: connection refused"))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)

		var body core.ErrorBody
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "INTERNAL_ERROR", body.Code)
		// Internal failure details never reach the client.
		assert.NotContains(t, body.Error, "mongo")
	})
}

func TestHTTPError(t *testing.T) {
	t.Parallel()

	err := core.NewHTTPError(http.StatusBadRequest, "VALIDATION_ERROR", "missing field")
	assert.Equal(t, "missing field", err.Error())
	assert.Equal(t, http.StatusBadRequest, err.Status)
}
