package middleware

import (
	"context"
	"net/http"

	"motor_rental/internal/logger"
	"motor_rental/internal/repository"

	"github.com/gin-gonic/gin"
)

// ConnSource hands out one database connection per request.
type ConnSource interface {
	Acquire(ctx context.Context) (repository.Querier, func(), error)
}

// ConnScope binds a connection to the request context for the rest of the
// chain and releases it when the chain returns, panics included. When no
// connection can be had, unavailable (or a bare 503) answers the request.
func ConnScope(src ConnSource, unavailable gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		q, release, err := src.Acquire(ctx)
		if err != nil {
			logger.FromContext(ctx).Err(err).Msg("failed to acquire database connection")
			_ = c.Error(err)
			if unavailable != nil {
				unavailable(c)
			} else {
				c.Status(http.StatusServiceUnavailable)
			}
			c.Abort()
			return
		}
		defer release()

		c.Request = c.Request.WithContext(repository.WithQuerier(ctx, q))
		c.Next()
	}
}
