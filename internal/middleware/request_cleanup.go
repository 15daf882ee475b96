package middleware

import (
	"io"
	"net/http"
)

// MaxRequestBodyBytes bounds what a client may send. The API is read only, so
// anything larger is a misbehaving client.
const MaxRequestBodyBytes = 64 << 10

// DrainAndCloseRequest caps the request body and drains what is left of it
// once the handler returns, so keep-alive connections can be reused.
func DrainAndCloseRequest() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body == nil || r.Body == http.NoBody {
				next.ServeHTTP(w, r)
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBodyBytes)
			next.ServeHTTP(w, r)
			_, _ = io.Copy(io.Discard, r.Body)
			_ = r.Body.Close()
		})
	}
}
