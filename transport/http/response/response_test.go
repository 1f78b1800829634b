package response_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"hallseat/shared/failure"
	"hallseat/transport/http/response"

	"github.com/stretchr/testify/assert"
)

func TestWithJSON(t *testing.T) {
	rec := httptest.NewRecorder()

	response.WithJSON(rec, http.StatusOK, map[string]int{"total_rooms": 4})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"data":{"total_rooms":4}}`, rec.Body.String())
}

func TestWithError(t *testing.T) {
	rec := httptest.NewRecorder()
	response.WithError(rec, failure.NotFound("room not found"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"room not found"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	response.WithError(rec, errors.New("db down"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestWithMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	response.WithRequestLimitExceeded(rec)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.JSONEq(t, `{"message":"REQUEST LIMIT EXCEEDED"}`, rec.Body.String())
}

func TestWithFile(t *testing.T) {
	rec := httptest.NewRecorder()
	response.WithFile(rec, "report.xlsx", "application/octet-stream", []byte("xlsx"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="report.xlsx"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "4", rec.Header().Get("Content-Length"))
	assert.Equal(t, "xlsx", rec.Body.String())
}
