package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/modelgate/admin-api/internal/logger"
	"github.com/modelgate/admin-api/pkg/api"
)

// ErrorHandler converts errors attached by handlers into RFC 9457 problem
// responses.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		if problem, ok := err.(*api.Problem); ok {
			// if there is an internal log attached, log it
			if problem.Log != nil {
				logger.Error("Internal error", zap.Error(problem.Log), zap.String("path", c.Request.URL.Path))
			}

			// RFC 9457 dictates the json is at the root
			c.JSON(problem.Status, problem)
			c.Abort()
			return
		}

		// at this point it's an unknown error, catch-all 500
		logger.Error("Unhandled error", zap.Error(err), zap.String("path", c.Request.URL.Path))

		c.JSON(http.StatusInternalServerError, api.NewProblem(
			http.StatusInternalServerError,
			"Internal Server Error",
			"An unexpected error occurred.",
		))
		c.Abort()
	}
}
