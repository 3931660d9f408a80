package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// BundleProvider returns the encoded aggregation envelope
type BundleProvider interface {
	Bundle(ctx context.Context) ([]byte, error)
}

// RegisterFeedRoutes serves the aggregated feeds at the root path, which is
// where the dashboard points by default.
func RegisterFeedRoutes(r *gin.Engine, feeds BundleProvider) {
	r.GET("/", handleFeeds(feeds))
}

func handleFeeds(feeds BundleProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := feeds.Bundle(c.Request.Context())
		if err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to aggregate feeds"})
			return
		}
		c.Data(http.StatusOK, "application/json; charset=utf-8", body)
	}
}
