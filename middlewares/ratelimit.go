package middlewares

import (
	"net/http"
	"time"

	"github.com/addwise/authapi/utils"
	"github.com/didip/tollbooth/v6"
	"github.com/didip/tollbooth/v6/limiter"
)

// DefaultIPLookups keys clients by the connection address. Tollbooth uses the
// first lookup that yields a value, so behind a reverse proxy RemoteAddr is
// the proxy and every client shares one bucket; put "X-Forwarded-For" or
// "X-Real-IP" first there.
var DefaultIPLookups = []string{"RemoteAddr", "X-Forwarded-For", "X-Real-IP"}

// RateLimit limits each client IP to max requests per second. A non-positive
// max disables limiting. An empty ipLookups uses DefaultIPLookups.
func RateLimit(max float64, ipLookups []string) func(http.Handler) http.Handler {
	if max <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if len(ipLookups) == 0 {
		ipLookups = DefaultIPLookups
	}
	lmt := tollbooth.NewLimiter(max, &limiter.ExpirableOptions{DefaultExpirationTTL: time.Hour})
	lmt.SetIPLookups(ipLookups)
	lmt.SetMessage(`{"message":"` + utils.GENERIC_RATE_LIMIT_ERROR + `"}`)
	lmt.SetMessageContentType("application/json")
	return func(next http.Handler) http.Handler {
		return tollbooth.LimitHandler(lmt, next)
	}
}
