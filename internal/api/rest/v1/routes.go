package v1

import (
	"time"

	"github.com/d1s-utils/hole/internal/domain/objects"
	"github.com/d1s-utils/hole/internal/pkg/logger"
	"github.com/d1s-utils/hole/internal/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// RouteOptions configures the version 1 routes.
type RouteOptions struct {
	// Secret guards every route but raw reads; empty disables the check.
	Secret          string
	FallBackToHTTPS bool
	PollTimeout     time.Duration
	MaxPollTimeout  time.Duration
}

// SetupRoutes sets up all the API routes for version 1.
func SetupRoutes(r *gin.Engine,
	objectService objects.ObjectService,
	groupService objects.GroupService,
	poller EventPoller,
	options RouteOptions,
	logger logger.Logger) {

	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group(BasePath)

	objectHandler := NewObjectHandler(objectService, options.FallBackToHTTPS, logger)
	// raw links are shared with clients that do not hold the secret
	api.GET("/objects/:id/raw", objectHandler.ReadRaw)

	secured := api.Group("", RequireSecret(options.Secret))

	secured.GET("/objects", objectHandler.List)
	secured.POST("/objects", objectHandler.Create)
	secured.GET("/objects/:id", objectHandler.GetByID)
	secured.PUT("/objects/:id", objectHandler.Update)
	secured.PUT("/objects/:id/raw", objectHandler.Overwrite)
	secured.DELETE("/objects/:id", objectHandler.DeleteByID)

	groupHandler := NewGroupHandler(groupService, options.FallBackToHTTPS, logger)
	secured.GET("/groups", groupHandler.List)
	secured.POST("/groups", groupHandler.Create)
	secured.GET("/groups/names", groupHandler.ListNames)
	secured.GET("/groups/:id", groupHandler.GetByRef)
	secured.PUT("/groups/:id", groupHandler.Update)
	secured.DELETE("/groups/:id", groupHandler.DeleteByRef)

	eventHandler := NewEventHandler(poller, options.PollTimeout, options.MaxPollTimeout, logger)
	secured.GET("/lp/:group", eventHandler.Poll)
}
