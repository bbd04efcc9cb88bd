package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/Nicole-tabby/study-share-oasis/internal/pkg/apperrors"
)

func runHandleAPIError(err error) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	HandleAPIError(c, err)
	return w
}

func TestHandleAPIErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", apperrors.NewValidationError("title", "Title is required"), http.StatusBadRequest, "VAL_001"},
		{"note not found", apperrors.ErrNoteNotFound, http.StatusNotFound, "RES_001"},
		{"profile not found", apperrors.ErrProfileNotFound, http.StatusNotFound, "RES_001"},
		{"user not found", apperrors.ErrUserNotFound, http.StatusNotFound, "RES_001"},
		{"permission denied", apperrors.ErrPermissionDenied, http.StatusForbidden, "AUTH_008"},
		{"invalid credentials", apperrors.ErrInvalidCredentials, http.StatusUnauthorized, "AUTH_001"},
		{"account disabled", apperrors.ErrAccountDisabled, http.StatusForbidden, "AUTH_008"},
		{"token expired", apperrors.ErrTokenExpired, http.StatusUnauthorized, "AUTH_005"},
		{"token revoked", apperrors.ErrTokenRevoked, http.StatusUnauthorized, "AUTH_004"},
		{"token not found", apperrors.ErrTokenNotFound, http.StatusUnauthorized, "AUTH_006"},
		{"email exists", apperrors.ErrEmailAlreadyExists, http.StatusConflict, "RES_002"},
		{"avatar partial failure", apperrors.ErrAvatarNotApplied, http.StatusInternalServerError, "SRV_004"},
		{"bad request", apperrors.NewBadRequestError("note has no attached file"), http.StatusBadRequest, "RES_003"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "SRV_001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := runHandleAPIError(tt.err)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantCode)
		})
	}
}

func TestHandleAPIErrorValidationCarriesField(t *testing.T) {
	w := runHandleAPIError(apperrors.NewValidationError("email", "Email is required"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"email"`)
	assert.Contains(t, w.Body.String(), "Email is required")
}

func TestHandleAPIErrorWrappedSentinel(t *testing.T) {
	// Services wrap repository errors; the mapping must survive the wrap.
	wrapped := errors.Join(errors.New("query failed"), apperrors.ErrNoteNotFound)
	w := runHandleAPIError(wrapped)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
