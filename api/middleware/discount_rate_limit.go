package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/SafinArnob/E-Shop-Management-System/api/responses"
	pkgerrors "github.com/SafinArnob/E-Shop-Management-System/pkg/errors"
	"github.com/SafinArnob/E-Shop-Management-System/pkg/logger"
)

// DiscountRateLimit throttles discount code applications per client. The
// counter key combines the client IP with the authenticated user so a shared
// NAT does not starve everyone at once.
func DiscountRateLimit(window time.Duration, limit int, store rateLimiterStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if window <= 0 || limit <= 0 || store == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			key := fmt.Sprintf("rl:discount:%s:%s", clientIP(r), UserIDFromContext(ctx))
			allowed, count, err := allow(ctx, store, key, window, int64(limit))
			if err != nil {
				responses.WriteError(ctx, nil, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
				return
			}
			if !allowed {
				if logg != nil {
					logCtx := logg.WithFields(ctx, map[string]any{
						"attempts":       count,
						"limit":          limit,
						"window_seconds": int(window.Seconds()),
					})
					logg.Warn(logCtx, "discount.rate_limit.blocked")
				}
				responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many discount attempts"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
