package v1

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/d1s-utils/hole/internal/infrastructure/longpoll"
	"github.com/d1s-utils/hole/internal/pkg/logger"

	"github.com/gin-gonic/gin"
)

// EventPoller waits for long-polling events.
type EventPoller interface {
	Poll(ctx context.Context, group, principal string, after uint64) ([]longpoll.Event, uint64, error)
	Cursor() uint64
}

// EventHandler defines the interface for long-polling requests
type EventHandler interface {
	Poll(ctx *gin.Context)
}

type eventHandler struct {
	poller     EventPoller
	timeout    time.Duration
	maxTimeout time.Duration
	logger     logger.Logger
}

// NewEventHandler creates a new EventHandler. timeout applies when a request names
// none and maxTimeout caps what a request may ask for.
func NewEventHandler(poller EventPoller, timeout, maxTimeout time.Duration, logger logger.Logger) EventHandler {
	if maxTimeout < timeout {
		maxTimeout = timeout
	}
	return &eventHandler{
		poller:     poller,
		timeout:    timeout,
		maxTimeout: maxTimeout,
		logger:     logger,
	}
}

// Poll handles GET /lp/:group?principal=&after=&timeout=. Without after, only events
// published after the request arrived are returned.
func (h *eventHandler) Poll(ctx *gin.Context) {
	var after uint64
	if raw := ctx.Query("after"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			badRequest(ctx, fmt.Sprintf("invalid cursor %q", raw))
			return
		}
		after = parsed
	} else {
		after = h.poller.Cursor()
	}

	timeout := h.timeout
	if raw := ctx.Query("timeout"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil || parsed <= 0 {
			badRequest(ctx, fmt.Sprintf("invalid timeout %q", raw))
			return
		}
		timeout = min(parsed, h.maxTimeout)
	}

	pollCtx, cancel := context.WithTimeout(ctx.Request.Context(), timeout)
	defer cancel()

	events, cursor, err := h.poller.Poll(pollCtx, ctx.Param("group"), ctx.Query("principal"), after)
	if err != nil {
		respondError(ctx, h.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, PollResponse{Events: events, Cursor: cursor})
}
