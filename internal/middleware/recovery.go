package middleware

import (
	"errors"
	"net/http"
	"runtime/debug"

	"github.com/2beens/liftingdiary/internal/auth"
	"github.com/2beens/liftingdiary/internal/telemetry/metrics"

	"github.com/getsentry/sentry-go"
	log "github.com/sirupsen/logrus"
)

// PanicRecovery turns a handler panic into a 500, and reports it to sentry when
// a client is configured. http.ErrAbortHandler is passed through to net/http.
func PanicRecovery(metricsManager *metrics.Manager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(respWriter http.ResponseWriter, req *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}

				userID, _ := auth.UserIDFromContext(req.Context())
				log.WithFields(log.Fields{
					"request_id": respWriter.Header().Get(RequestIDHeader),
					"user_id":    userID,
				}).Errorf("http: panic serving %s: %v\n%s", req.URL.Path, rec, debug.Stack())

				if metricsManager != nil {
					metricsManager.CounterHandleRequestPanic.Inc()
				}

				hub := sentry.GetHubFromContext(req.Context())
				if hub == nil {
					hub = sentry.CurrentHub()
				}
				if hub.Client() != nil {
					hub.RecoverWithContext(req.Context(), rec)
				}

				http.Error(respWriter, "internal error", http.StatusInternalServerError)
			}()

			// handler call
			next.ServeHTTP(respWriter, req)
		})
	}
}
