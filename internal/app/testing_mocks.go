//go:build unit
// +build unit

package app

import (
	"context"

	"github.com/d1s-utils/hole/internal/domain/objects"

	"github.com/stretchr/testify/mock"
)

// MockObjectRepository is a mock implementation of ObjectRepository
type MockObjectRepository struct {
	mock.Mock
}

func (m *MockObjectRepository) Create(ctx context.Context, object *objects.StorageObject) error {
	return m.Called(ctx, object).Error(0)
}

func (m *MockObjectRepository) GetByID(ctx context.Context, id string) (*objects.StorageObject, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*objects.StorageObject), args.Error(1)
}

func (m *MockObjectRepository) List(ctx context.Context, groupID string) ([]*objects.StorageObject, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*objects.StorageObject), args.Error(1)
}

func (m *MockObjectRepository) Update(ctx context.Context, object *objects.StorageObject) error {
	return m.Called(ctx, object).Error(0)
}

func (m *MockObjectRepository) DeleteByID(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockObjectRepository) RecordAccess(ctx context.Context, access *objects.StorageObjectAccess) error {
	return m.Called(ctx, access).Error(0)
}

// MockGroupRepository is a mock implementation of GroupRepository
type MockGroupRepository struct {
	mock.Mock
}

func (m *MockGroupRepository) Create(ctx context.Context, group *objects.StorageObjectGroup) error {
	return m.Called(ctx, group).Error(0)
}

func (m *MockGroupRepository) GetByID(ctx context.Context, id string) (*objects.StorageObjectGroup, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*objects.StorageObjectGroup), args.Error(1)
}

func (m *MockGroupRepository) GetByName(ctx context.Context, name string) (*objects.StorageObjectGroup, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*objects.StorageObjectGroup), args.Error(1)
}

func (m *MockGroupRepository) List(ctx context.Context) ([]*objects.StorageObjectGroup, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*objects.StorageObjectGroup), args.Error(1)
}

func (m *MockGroupRepository) ListNames(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockGroupRepository) Update(ctx context.Context, group *objects.StorageObjectGroup) error {
	return m.Called(ctx, group).Error(0)
}

func (m *MockGroupRepository) DeleteByID(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// MockMetadataRepository is a mock implementation of MetadataRepository
type MockMetadataRepository struct {
	mock.Mock
}

func (m *MockMetadataRepository) FindOrCreate(ctx context.Context, property, value string) (*objects.MetadataProperty, error) {
	args := m.Called(ctx, property, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*objects.MetadataProperty), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, group, principal string, data interface{}) error {
	return m.Called(ctx, group, principal, data).Error(0)
}
