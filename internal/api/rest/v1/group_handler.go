package v1

import (
	"fmt"
	"net/http"

	"github.com/d1s-utils/hole/internal/domain/objects"
	"github.com/d1s-utils/hole/internal/pkg/httputil"
	"github.com/d1s-utils/hole/internal/pkg/logger"

	"github.com/gin-gonic/gin"
)

// GroupHandler defines the interface for handling storage object group operations
type GroupHandler interface {
	List(ctx *gin.Context)
	ListNames(ctx *gin.Context)
	GetByRef(ctx *gin.Context)
	Create(ctx *gin.Context)
	Update(ctx *gin.Context)
	DeleteByRef(ctx *gin.Context)
}

type groupHandler struct {
	groupService    objects.GroupService
	fallBackToHTTPS bool
	logger          logger.Logger
}

// NewGroupHandler creates a new GroupHandler
func NewGroupHandler(groupService objects.GroupService, fallBackToHTTPS bool, logger logger.Logger) GroupHandler {
	return &groupHandler{
		groupService:    groupService,
		fallBackToHTTPS: fallBackToHTTPS,
		logger:          logger,
	}
}

func (h *groupHandler) List(ctx *gin.Context) {
	groups, err := h.groupService.List(ctx)
	if err != nil {
		respondError(ctx, h.logger, err)
		return
	}

	views := make([]objects.GroupView, len(groups))
	for i, g := range groups {
		views[i] = objects.NewGroupView(g)
	}
	ctx.JSON(http.StatusOK, views)
}

func (h *groupHandler) ListNames(ctx *gin.Context) {
	names, err := h.groupService.ListNames(ctx)
	if err != nil {
		respondError(ctx, h.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, names)
}

// GetByRef handles GET /groups/:id where id may also be a group name
func (h *groupHandler) GetByRef(ctx *gin.Context) {
	group, err := h.groupService.GetByRef(ctx, ctx.Param("id"))
	if err != nil {
		respondError(ctx, h.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, objects.NewGroupView(group))
}

func (h *groupHandler) Create(ctx *gin.Context) {
	var request GroupAlterationRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		badRequest(ctx, fmt.Sprintf("invalid storage object group data: %v", err))
		return
	}

	group, err := h.groupService.Create(ctx, request.ToDomain())
	if err != nil {
		respondError(ctx, h.logger, err)
		return
	}

	ctx.Header("Location", httputil.Location(ctx.Request, h.fallBackToHTTPS, BasePath+"/groups/"+group.ID))
	ctx.JSON(http.StatusCreated, objects.NewGroupView(group))
}

func (h *groupHandler) Update(ctx *gin.Context) {
	var request GroupAlterationRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		badRequest(ctx, fmt.Sprintf("invalid storage object group data: %v", err))
		return
	}

	group, err := h.groupService.Update(ctx, ctx.Param("id"), request.ToDomain())
	if err != nil {
		respondError(ctx, h.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, objects.NewGroupView(group))
}

func (h *groupHandler) DeleteByRef(ctx *gin.Context) {
	if err := h.groupService.DeleteByRef(ctx, ctx.Param("id")); err != nil {
		respondError(ctx, h.logger, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
