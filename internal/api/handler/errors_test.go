package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mindmesh/mindmesh-api/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestRespondError_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", domain.Validationf("invalid project id"), http.StatusBadRequest},
		{"conflict surfaces as 400", domain.Conflictf("invitation has already been responded to"), http.StatusBadRequest},
		{"forbidden", domain.Forbiddenf("only the project owner can delete the project"), http.StatusForbidden},
		{"not found", domain.NotFoundf("project not found"), http.StatusNotFound},
		{"upstream", domain.Upstreamf("generation failed"), http.StatusBadGateway},
		{"unclassified", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			respondError(rec, tt.err)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
