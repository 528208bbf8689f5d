package app

import (
	"context"
	"errors"
	"time"

	"github.com/d1s-utils/hole/internal/domain/objects"
	"github.com/d1s-utils/hole/internal/pkg/logger"
	"github.com/d1s-utils/hole/internal/pkg/metrics"

	"github.com/google/uuid"
)

type groupService struct {
	groupRepository objects.GroupRepository
	metadataService objects.MetadataService
	store           objects.ObjectStore
	locks           objects.LockService
	events          objects.EventPublisher
	logger          logger.Logger
}

// NewGroupService creates a new instance of GroupService
func NewGroupService(
	groupRepository objects.GroupRepository,
	metadataService objects.MetadataService,
	store objects.ObjectStore,
	locks objects.LockService,
	events objects.EventPublisher,
	logger logger.Logger,
) (objects.GroupService, error) {
	return &groupService{
		groupRepository: groupRepository,
		metadataService: metadataService,
		store:           store,
		locks:           locks,
		events:          events,
		logger:          logger,
	}, nil
}

func (s *groupService) GetByRef(ctx context.Context, ref string) (*objects.StorageObjectGroup, error) {
	return findGroup(ctx, s.groupRepository, ref)
}

func (s *groupService) List(ctx context.Context) ([]*objects.StorageObjectGroup, error) {
	return s.groupRepository.List(ctx)
}

func (s *groupService) ListNames(ctx context.Context) ([]string, error) {
	return s.groupRepository.ListNames(ctx)
}

func (s *groupService) Create(ctx context.Context, alteration *objects.GroupAlteration) (*objects.StorageObjectGroup, error) {
	if err := s.checkAlteration(ctx, alteration, ""); err != nil {
		return nil, err
	}

	metadata, err := s.metadataService.Resolve(ctx, alteration.Metadata)
	if err != nil {
		return nil, err
	}

	group := &objects.StorageObjectGroup{
		ID:             uuid.NewString(),
		CreationTime:   time.Now().UTC(),
		Name:           alteration.Name,
		Metadata:       metadata,
		StorageObjects: []*objects.StorageObject{},
	}
	if err := s.groupRepository.Create(ctx, group); err != nil {
		return nil, err
	}

	metrics.GroupOperations.WithLabelValues("create").Inc()
	s.logger.Info("storage object group created", "id", group.ID, "name", group.Name)

	publish(ctx, s.events, s.logger, objects.EventGroupCreated, group.ID, objects.NewGroupView(group))
	return group, nil
}

func (s *groupService) Update(ctx context.Context, ref string, alteration *objects.GroupAlteration) (*objects.StorageObjectGroup, error) {
	group, err := findGroup(ctx, s.groupRepository, ref)
	if err != nil {
		return nil, err
	}

	if err := s.checkAlteration(ctx, alteration, group.ID); err != nil {
		return nil, err
	}

	metadata, err := s.metadataService.Resolve(ctx, alteration.Metadata)
	if err != nil {
		return nil, err
	}

	group.Name = alteration.Name
	group.Metadata = metadata
	if err := s.groupRepository.Update(ctx, group); err != nil {
		return nil, err
	}

	metrics.GroupOperations.WithLabelValues("update").Inc()
	s.logger.Info("storage object group updated", "id", group.ID, "name", group.Name)

	publish(ctx, s.events, s.logger, objects.EventGroupUpdated, group.ID, objects.NewGroupView(group))
	return group, nil
}

// DeleteByRef removes a group with every object in it. The write locks of all
// objects are held until their content is gone.
func (s *groupService) DeleteByRef(ctx context.Context, ref string) error {
	group, err := findGroup(ctx, s.groupRepository, ref)
	if err != nil {
		return err
	}

	var releases []func()
	defer func() {
		for _, release := range releases {
			release()
		}
	}()
	for _, object := range group.StorageObjects {
		release, err := s.locks.Lock(ctx, object.ID)
		if err != nil {
			return err
		}
		releases = append(releases, release)
	}

	if err := s.groupRepository.DeleteByID(ctx, group.ID); err != nil {
		return err
	}

	for _, object := range group.StorageObjects {
		if err := s.store.Delete(ctx, object.ID); err != nil {
			s.logger.Error("failed to delete storage object content", "id", object.ID, "error", err)
		}
	}

	for _, release := range releases {
		release()
	}
	releases = nil
	for _, object := range group.StorageObjects {
		s.locks.Remove(object.ID)
	}

	metrics.GroupOperations.WithLabelValues("delete").Inc()
	s.logger.Info("storage object group deleted", "id", group.ID, "name", group.Name, "objects", len(group.StorageObjects))

	publish(ctx, s.events, s.logger, objects.EventGroupDeleted, group.ID, objects.NewGroupView(group))
	return nil
}

// checkAlteration validates alteration and rejects names held by a group other than self.
func (s *groupService) checkAlteration(ctx context.Context, alteration *objects.GroupAlteration, self string) error {
	if err := alteration.Validate(); err != nil {
		return err
	}
	if err := s.metadataService.Check(alteration.Metadata); err != nil {
		return err
	}

	existing, err := s.groupRepository.GetByName(ctx, alteration.Name)
	switch {
	case err == nil && existing.ID != self:
		return objects.ErrGroupNameTaken
	case err != nil && !errors.Is(err, objects.ErrGroupNotFound):
		return err
	}
	return nil
}
