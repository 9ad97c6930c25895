package middleware

import (
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"

	appErrors "github.com/barangayhub/portal-api/pkg/errors"
	"github.com/barangayhub/portal-api/pkg/response"
)

// LoginRateLimit throttles credential endpoints per client IP. Brute-force
// attempts get a 429 once the window is exhausted.
func LoginRateLimit(rate time.Duration, limit uint) gin.HandlerFunc {
	if rate <= 0 {
		rate = time.Minute
	}
	if limit == 0 {
		limit = 10
	}
	store := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  rate,
		Limit: limit,
	})
	return ratelimit.RateLimiter(store, &ratelimit.Options{
		ErrorHandler: func(c *gin.Context, info ratelimit.Info) {
			response.Error(c, appErrors.ErrRateLimited)
			c.Abort()
		},
		KeyFunc: func(c *gin.Context) string {
			return c.ClientIP()
		},
	})
}
