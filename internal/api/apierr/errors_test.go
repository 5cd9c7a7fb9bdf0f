package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/neontetris/internal/model"
)

func TestStatusMapsSentinels(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{model.ErrSessionNotFound, http.StatusNotFound},
		{model.ErrSnapshotNotFound, http.StatusNotFound},
		{model.ErrUnknownMode, http.StatusBadRequest},
		{model.ErrUnknownCommand, http.StatusBadRequest},
		{model.ErrLevelLocked, http.StatusForbidden},
		{model.ErrGameNotWon, http.StatusConflict},
		{model.ErrGameEnded, http.StatusConflict},
		{model.ErrSessionLimitReached, http.StatusServiceUnavailable},
		{fmt.Errorf("%w: level 99", model.ErrChallengeLevelNotFound), http.StatusNotFound},
		{errors.New("boom"), http.StatusInternalServerError},
		{NewInvalidRequestError("bad"), http.StatusBadRequest},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.status, Status(tc.err), tc.err.Error())
	}
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteError(rec, fmt.Errorf("%w: %d", model.ErrLevelLocked, 4))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, CodeLevelLocked, resp.Error.Code)
}

func TestWriteErrorHidesInternalDetails(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteError(rec, errors.New("redis: connection refused"))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, CodeInternalError, resp.Error.Code)
	assert.NotContains(t, resp.Error.Message, "redis")
}
