package auth

import (
	"context"
	"fmt"

	"github.com/MuhammadShohagIslam/Graphql-Course-Server/internal/apperror"
	"github.com/MuhammadShohagIslam/Graphql-Course-Server/internal/models"
)

// UserLookup resolves an authenticated email to its user record.
type UserLookup interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// SessionLookup resolves a session id to an email; "" means no session.
type SessionLookup interface {
	Get(ctx context.Context, sessionID string) (string, error)
}

// TokenVerifier turns a bearer token into an identity.
type TokenVerifier interface {
	Verify(token string) (*Identity, error)
}

// Checker implements the authentication check used by resolvers and
// REST middleware.
type Checker struct {
	users    UserLookup
	tokens   TokenVerifier
	sessions SessionLookup
}

func NewChecker(users UserLookup, tokens TokenVerifier, sessions SessionLookup) *Checker {
	return &Checker{users: users, tokens: tokens, sessions: sessions}
}

// CheckAuth returns the user behind the credential in ctx. A bearer token
// takes precedence over a session cookie.
func (c *Checker) CheckAuth(ctx context.Context) (*models.User, error) {
	cred, ok := CredentialFromContext(ctx)
	if !ok {
		return nil, apperror.Unauthenticated("authentication required")
	}

	email, err := c.resolveEmail(ctx, cred)
	if err != nil {
		return nil, err
	}

	user, err := c.users.GetUserByEmail(ctx, email)
	if apperror.Is(err, apperror.CodeNotFound) {
		return nil, apperror.Unauthenticated("user no longer exists")
	}
	if err != nil {
		return nil, fmt.Errorf("auth: load user: %w", err)
	}
	return user, nil
}

// Identify returns the email asserted by the credential without requiring a
// stored user.
func (c *Checker) Identify(ctx context.Context) (string, error) {
	cred, ok := CredentialFromContext(ctx)
	if !ok {
		return "", apperror.Unauthenticated("authentication required")
	}
	return c.resolveEmail(ctx, cred)
}

func (c *Checker) resolveEmail(ctx context.Context, cred Credential) (string, error) {
	if cred.BearerToken != "" {
		id, err := c.tokens.Verify(cred.BearerToken)
		if err != nil {
			return "", apperror.UnauthenticatedWrap("invalid or expired token", err)
		}
		return id.Email, nil
	}

	email, err := c.sessions.Get(ctx, cred.SessionID)
	if err != nil {
		return "", fmt.Errorf("auth: load session: %w", err)
	}
	if email == "" {
		return "", apperror.Unauthenticated("session expired")
	}
	return email, nil
}

// AdminAuthCheck is a guard: it returns user unchanged when the role is
// admin and FORBIDDEN otherwise. Callers must authenticate first.
func AdminAuthCheck(user *models.User) (*models.User, error) {
	if !user.IsAdmin() {
		return nil, apperror.Forbidden("admin access required")
	}
	return user, nil
}
