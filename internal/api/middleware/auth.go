package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/sgd-labs/docintel/internal/api"
)

// KeyValidator checks a presented bearer token.
type KeyValidator interface {
	ValidateAPIKey(token string) bool
}

// StaticKeyValidator validates tokens against a fixed set from config.
// Comparison is constant-time per key.
type StaticKeyValidator struct {
	keys []string
}

func NewStaticKeyValidator(keys []string) *StaticKeyValidator {
	return &StaticKeyValidator{keys: keys}
}

func (v *StaticKeyValidator) ValidateAPIKey(token string) bool {
	valid := false
	for _, key := range v.keys {
		if subtle.ConstantTimeCompare([]byte(key), []byte(token)) == 1 {
			valid = true
		}
	}
	return valid
}

// APIKeyAuth rejects requests without a valid bearer token.
func APIKeyAuth(validator KeyValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				api.Error(w, http.StatusUnauthorized, "missing authorization header")
				return
			}

			if !strings.HasPrefix(authHeader, "Bearer ") {
				api.Error(w, http.StatusUnauthorized, "invalid authorization format")
				return
			}

			token := strings.TrimPrefix(authHeader, "Bearer ")
			if !validator.ValidateAPIKey(token) {
				api.Error(w, http.StatusUnauthorized, "invalid api key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
