package middleware

import (
	"crypto/subtle"
	"fmt"
	"net/http"

	"phillyevents/internal/utils"
)

// RequireApiKey guards mutating endpoints with a shared key carried in
// the X-Api-Key header.
func RequireApiKey(secret string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get("X-Api-Key")
			if subtle.ConstantTimeCompare([]byte(key), []byte(secret)) != 1 {
				_ = utils.Err(w, http.StatusUnauthorized, fmt.Errorf("invalid api key"))
				return
			}
			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(fn)
	}
}
