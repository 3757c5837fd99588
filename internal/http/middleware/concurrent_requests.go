package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CapConcurrentRequests limits in-flight requests on a route group; excess
// requests get 429 instead of queueing. Mutating planner routes run with a
// cap of one: two concurrent batch calls against the same world are
// forbidden, and rejecting the second is the contract, not an overload
// fallback.
func CapConcurrentRequests(maxConcurrent int) gin.HandlerFunc {
	semaphore := make(chan struct{}, maxConcurrent)

	return func(c *gin.Context) {
		select {
		case semaphore <- struct{}{}:
			defer func() { <-semaphore }()
			c.Next()
		default:
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"message": "another planning request is in flight",
			})
		}
	}
}
