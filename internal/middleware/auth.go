package middleware

import (
	"net/http"
	"strings"

	"github.com/MuhammadShohagIslam/Graphql-Course-Server/internal/auth"
	"github.com/MuhammadShohagIslam/Graphql-Course-Server/internal/httpx"
)

// Credentials copies the bearer token and session cookie, when present, into
// the request context. Nothing is verified here; resolvers and RequireAdmin
// call auth.Checker when they need an identity.
func Credentials(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var cred auth.Credential
		if h := r.Header.Get("Authorization"); h != "" {
			if scheme, token, ok := strings.Cut(h, " "); ok && strings.EqualFold(scheme, "Bearer") {
				cred.BearerToken = strings.TrimSpace(token)
			}
		}
		if cookie, err := r.Cookie(auth.SessionCookie); err == nil {
			cred.SessionID = cookie.Value
		}
		next.ServeHTTP(w, r.WithContext(auth.WithCredential(r.Context(), cred)))
	})
}

// RequireAdmin rejects requests whose caller is not an authenticated admin.
// It expects Credentials to run first.
func RequireAdmin(checker *auth.Checker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := checker.CheckAuth(r.Context())
			if err == nil {
				_, err = auth.AdminAuthCheck(user)
			}
			if err != nil {
				httpx.WriteError(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
