// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Socius Org

package service_test

import (
	"path/filepath"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/socius-org/RedditHarbor/internal/service"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestIdentityService_CurrentUser(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session")
	svc := service.NewIdentityService(path)

	token := signedToken(t, jwt.MapClaims{
		"sub":   "u1",
		"email": "a@example.com",
		"name":  "Alice",
	})
	require.NoError(t, svc.SetSessionToken(token))

	user, err := svc.CurrentUser()
	require.NoError(t, err)
	assert.Equal(t, "u1", user.UserID)
	assert.Equal(t, "a@example.com", user.Email)
	assert.Equal(t, "Alice", user.DisplayName)
}

func TestIdentityService_NoSession(t *testing.T) {
	svc := service.NewIdentityService(filepath.Join(t.TempDir(), "session"))

	_, err := svc.CurrentUser()
	assert.ErrorIs(t, err, service.ErrNoSession)
}

func TestIdentityService_InvalidToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session")
	svc := service.NewIdentityService(path)
	require.NoError(t, svc.SetSessionToken("not-a-jwt"))

	_, err := svc.CurrentUser()
	assert.ErrorIs(t, err, service.ErrSessionInvalid)
}

func TestIdentityService_MissingClaims(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session")
	svc := service.NewIdentityService(path)

	token := signedToken(t, jwt.MapClaims{"sub": "u1"})
	require.NoError(t, svc.SetSessionToken(token))

	_, err := svc.CurrentUser()
	assert.ErrorIs(t, err, service.ErrSessionInvalid)
}

func TestIdentityService_ClearSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session")
	svc := service.NewIdentityService(path)

	token := signedToken(t, jwt.MapClaims{"sub": "u1", "email": "a@example.com"})
	require.NoError(t, svc.SetSessionToken(token))
	require.NoError(t, svc.ClearSession())

	_, err := svc.CurrentUser()
	assert.ErrorIs(t, err, service.ErrNoSession)

	// Clearing twice is not an error.
	assert.NoError(t, svc.ClearSession())
}
