package app

import (
	"context"
	"errors"
	"io"

	"github.com/d1s-utils/hole/internal/domain/objects"
	"github.com/d1s-utils/hole/internal/pkg/logger"
)

// findGroup resolves ref as a group ID first and as a group name second.
func findGroup(ctx context.Context, groups objects.GroupRepository, ref string) (*objects.StorageObjectGroup, error) {
	group, err := groups.GetByID(ctx, ref)
	if err == nil {
		return group, nil
	}
	if !errors.Is(err, objects.ErrGroupNotFound) {
		return nil, err
	}
	return groups.GetByName(ctx, ref)
}

// publish sends an event, logging instead of failing the completed operation.
func publish(ctx context.Context, events objects.EventPublisher, log logger.Logger, group, principal string, data interface{}) {
	if err := events.Publish(ctx, group, principal, data); err != nil {
		log.Warn("failed to publish event", "group", group, "principal", principal, "error", err)
	}
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
