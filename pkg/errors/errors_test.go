package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Sentinels(t *testing.T) {
	assert.ErrorIs(t, UserNotFound("alice"), ErrNotFound)
	assert.ErrorIs(t, RoleNotFound("Admin"), ErrNotFound)
	assert.ErrorIs(t, DuplicateUser("alice"), ErrAlreadyExists)
	assert.ErrorIs(t, InvalidCredentials(), ErrUnauthorized)
	assert.ErrorIs(t, PasswordMismatch(), ErrPasswordMismatch)
	assert.ErrorIs(t, StaleRefreshToken(), ErrStaleRefreshToken)
}

func TestWireCode(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{ReportNotFound(42), CodeReportNotFound},
		{UserNotFound("alice"), CodeUserNotFound},
		{DuplicateUser("alice"), CodeDuplicateUser},
		{DuplicateReport("Q3"), CodeDuplicateReport},
		{RoleAlreadyAssigned("alice", "Admin"), CodeRoleAlreadyAssigned},
		{PasswordMismatch(), CodePasswordMismatch},
		{InvalidCredentials(), CodeInvalidCredentials},
		{InvalidToken(errors.New("bad signature")), CodeInvalidToken},
		{StaleRefreshToken(), CodeStaleRefreshToken},
		{DuplicateRole("Admin"), CodeDuplicateRole},
		{RoleNotFound("Ghost"), CodeRoleNotFound},
		{Internal(errors.New("boom")), CodeInternal},
		{errors.New("plain"), CodeInternal},
		{fmt.Errorf("wrapped: %w", DuplicateUser("alice")), CodeDuplicateUser},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.code, WireCode(tc.err), "error: %v", tc.err)
	}
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, HTTPStatus(UserNotFound("alice")))
	assert.Equal(t, http.StatusConflict, HTTPStatus(DuplicateUser("alice")))
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(InvalidCredentials()))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(PasswordMismatch()))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("plain")))
}
