//go:build unit
// +build unit

package v1

import (
	"context"
	"io"

	"github.com/d1s-utils/hole/internal/domain/objects"
	"github.com/d1s-utils/hole/internal/infrastructure/longpoll"

	"github.com/stretchr/testify/mock"
)

// MockObjectService is a mock implementation of ObjectService
type MockObjectService struct {
	mock.Mock
}

func (m *MockObjectService) GetByID(ctx context.Context, id string) (*objects.StorageObject, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*objects.StorageObject), args.Error(1)
}

func (m *MockObjectService) List(ctx context.Context, groupRef string) ([]*objects.StorageObject, error) {
	args := m.Called(ctx, groupRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*objects.StorageObject), args.Error(1)
}

func (m *MockObjectService) Create(ctx context.Context, upload *objects.Upload, groupRef, encryptionKey string) (*objects.StorageObject, error) {
	args := m.Called(ctx, upload, groupRef, encryptionKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*objects.StorageObject), args.Error(1)
}

func (m *MockObjectService) Update(ctx context.Context, id string, update *objects.ObjectUpdate) (*objects.StorageObject, error) {
	args := m.Called(ctx, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*objects.StorageObject), args.Error(1)
}

func (m *MockObjectService) Overwrite(ctx context.Context, id string, upload *objects.Upload, encryptionKey string) (*objects.StorageObject, error) {
	args := m.Called(ctx, id, upload, encryptionKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*objects.StorageObject), args.Error(1)
}

// ReadRaw hands the object and content of its second and third return values to consume
// when the first (error) return value is nil.
func (m *MockObjectService) ReadRaw(ctx context.Context, id, encryptionKey string, consume objects.RawConsumer) error {
	args := m.Called(ctx, id, encryptionKey)
	if err := args.Error(0); err != nil {
		return err
	}
	return consume(args.Get(1).(*objects.StorageObject), args.Get(2).(io.Reader))
}

func (m *MockObjectService) DeleteByID(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// MockGroupService is a mock implementation of GroupService
type MockGroupService struct {
	mock.Mock
}

func (m *MockGroupService) GetByRef(ctx context.Context, ref string) (*objects.StorageObjectGroup, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*objects.StorageObjectGroup), args.Error(1)
}

func (m *MockGroupService) List(ctx context.Context) ([]*objects.StorageObjectGroup, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*objects.StorageObjectGroup), args.Error(1)
}

func (m *MockGroupService) ListNames(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockGroupService) Create(ctx context.Context, alteration *objects.GroupAlteration) (*objects.StorageObjectGroup, error) {
	args := m.Called(ctx, alteration)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*objects.StorageObjectGroup), args.Error(1)
}

func (m *MockGroupService) Update(ctx context.Context, ref string, alteration *objects.GroupAlteration) (*objects.StorageObjectGroup, error) {
	args := m.Called(ctx, ref, alteration)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*objects.StorageObjectGroup), args.Error(1)
}

func (m *MockGroupService) DeleteByRef(ctx context.Context, ref string) error {
	return m.Called(ctx, ref).Error(0)
}

// MockEventPoller is a mock implementation of EventPoller
type MockEventPoller struct {
	mock.Mock
}

func (m *MockEventPoller) Poll(ctx context.Context, group, principal string, after uint64) ([]longpoll.Event, uint64, error) {
	args := m.Called(ctx, group, principal, after)
	if args.Get(0) == nil {
		return nil, args.Get(1).(uint64), args.Error(2)
	}
	return args.Get(0).([]longpoll.Event), args.Get(1).(uint64), args.Error(2)
}

func (m *MockEventPoller) Cursor() uint64 {
	return m.Called().Get(0).(uint64)
}
