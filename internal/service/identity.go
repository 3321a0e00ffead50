// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Socius Org

package service

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/socius-org/RedditHarbor/models"
)

// sessionClaims are the identity claims carried by the auth provider's
// session token.
type sessionClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Name  string `json:"name"`
}

// identityService reads the researcher's identity from a session token
// stored next to the other client state. The token is issued and signed by
// the auth provider; the client only extracts the identity claims and does
// not verify the signature, since it holds no verification key and grants
// nothing based on the token.
type identityService struct {
	path   string
	parser *jwt.Parser
}

// NewIdentityService returns an [IdentityService] over the session token
// file at path.
func NewIdentityService(path string) IdentityService {
	return &identityService{path: path, parser: jwt.NewParser()}
}

func (s *identityService) CurrentUser() (models.User, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return models.User{}, ErrNoSession
		}
		return models.User{}, fmt.Errorf("read session token: %w", err)
	}

	token := strings.TrimSpace(string(data))
	if token == "" {
		return models.User{}, ErrNoSession
	}

	var claims sessionClaims
	if _, _, err = s.parser.ParseUnverified(token, &claims); err != nil {
		return models.User{}, fmt.Errorf("%w: %v", ErrSessionInvalid, err)
	}
	if claims.Subject == "" || claims.Email == "" {
		return models.User{}, fmt.Errorf("%w: missing identity claims", ErrSessionInvalid)
	}

	return models.User{
		UserID:      claims.Subject,
		Email:       claims.Email,
		DisplayName: claims.Name,
	}, nil
}

func (s *identityService) SetSessionToken(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(token), 0o600); err != nil {
		return fmt.Errorf("write session token: %w", err)
	}
	return nil
}

func (s *identityService) ClearSession() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session token: %w", err)
	}
	return nil
}
