package api

import (
	"github.com/gin-gonic/gin"
)

// Deps are the collaborators the router serves from
type Deps struct {
	Feeds BundleProvider
	Debug bool
}

// NewRouter constructs a Gin engine with registered routes.
func NewRouter(deps Deps) *gin.Engine {
	if deps.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestID())
	r.Use(accessLog())
	r.Use(cors())

	// Register resource routers
	RegisterFeedRoutes(r, deps.Feeds)
	RegisterHealthRoutes(r)
	RegisterMetricsRoutes(r)
	return r
}
