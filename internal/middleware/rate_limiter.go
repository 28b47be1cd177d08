package middleware

import (
	"fmt"
	"net/http"
	"strconv"

	"shoppos/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// ── Rate limiting ─────────────────────────────────────────────────────────────
// Fixed-window counters per client IP, kept in process memory. Rates use the
// limiter format "<limit>-<period>", e.g. "1000-M" or "5-M".

// Limiters holds the API and credential limiters. Counters live in the
// limiter stores, so one Limiters is built per process and shared by every
// router built on top of it.
type Limiters struct {
	API   gin.HandlerFunc
	Login gin.HandlerFunc
}

// NewLimiters builds both limiters from their formatted rates.
func NewLimiters(apiRate, loginRate string) (Limiters, error) {
	api, err := RateLimiter(apiRate)
	if err != nil {
		return Limiters{}, fmt.Errorf("rate limit %q: %w", apiRate, err)
	}
	login, err := LoginRateLimiter(loginRate)
	if err != nil {
		return Limiters{}, fmt.Errorf("login rate limit %q: %w", loginRate, err)
	}
	return Limiters{API: api, Login: login}, nil
}

// RateLimiter limits every API request per client IP.
func RateLimiter(rate string) (gin.HandlerFunc, error) {
	return newIPLimiter(rate, "too many requests, try again shortly")
}

// LoginRateLimiter limits credential endpoints (login, signup, refresh).
func LoginRateLimiter(rate string) (gin.HandlerFunc, error) {
	return newIPLimiter(rate, "too many login attempts, try again in a minute")
}

func newIPLimiter(formatted, message string) (gin.HandlerFunc, error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, err
	}
	instance := limiter.New(memory.NewStore(), rate)

	return func(c *gin.Context) {
		ctx, err := instance.Get(c.Request.Context(), c.ClientIP())
		if err != nil {
			// Fail open when the store errors.
			log.Warn().Err(err).Msg("rate limiter unavailable")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.FormatInt(ctx.Limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(ctx.Remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(ctx.Reset, 10))

		if ctx.Reached {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(message))
			return
		}
		c.Next()
	}, nil
}
