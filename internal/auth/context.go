package auth

import "context"

type contextKey string

const credentialKey contextKey = "credential"

// Credential is whatever the caller presented; it is verified lazily by
// CheckAuth so public operations never pay for it.
type Credential struct {
	BearerToken string
	SessionID   string
}

func (c Credential) empty() bool {
	return c.BearerToken == "" && c.SessionID == ""
}

func WithCredential(ctx context.Context, c Credential) context.Context {
	return context.WithValue(ctx, credentialKey, c)
}

func CredentialFromContext(ctx context.Context) (Credential, bool) {
	c, ok := ctx.Value(credentialKey).(Credential)
	return c, ok && !c.empty()
}
