package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"

	"github.com/GregMSThompson/drought-monitor/internal/response"
	"github.com/GregMSThompson/drought-monitor/pkg/logger"
)

// tokenVerifier is the part of the Firebase auth client the middleware uses.
type tokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

type Middleware struct {
	Verifier tokenVerifier
}

func NewMiddleware(client *auth.Client) *Middleware {
	return &Middleware{Verifier: client}
}

type uidKey struct{}

// FirebaseAuth admits requests carrying a valid Firebase ID token as a
// bearer token. Rejections use the API's JSON error shape.
func (m *Middleware) FirebaseAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		idToken, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			unauthorized(w, "missing or malformed Authorization header")
			return
		}

		token, err := m.Verifier.VerifyIDToken(r.Context(), idToken)
		if err != nil {
			logger.FromContext(r.Context()).Warn("id token rejected", "error", err)
			unauthorized(w, "invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), uidKey{}, token.UID)
		_, ctx = logger.With(ctx, "uid", token.UID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UID returns the verified caller, empty when auth is disabled.
func UID(ctx context.Context) string {
	uid, _ := ctx.Value(uidKey{}).(string)
	return uid
}

func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(response.ErrorResponse{Code: "unauthorized", Message: message})
}
