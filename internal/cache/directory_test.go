package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"medsched/config"
	"medsched/internal/domain"
	"medsched/internal/repository/mocks"
)

func newDirectory(enabled bool) (*Directory, *mocks.PhysicianRepository, *mocks.LocationRepository) {
	physicians := &mocks.PhysicianRepository{}
	locations := &mocks.LocationRepository{}
	cfg := config.CacheConfig{Enabled: enabled, Size: 16, TTL: time.Minute}
	return NewDirectory(physicians, locations, cfg, zap.NewNop()), physicians, locations
}

func TestDirectoryCachesPhysician(t *testing.T) {
	dir, physicians, _ := newDirectory(true)
	ctx := context.Background()
	physicians.On("GetByID", ctx, int64(1)).Return(&domain.Physician{ID: 1, LastName: "Grey"}, nil).Once()

	for i := 0; i < 3; i++ {
		p, err := dir.GetPhysician(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "Grey", p.LastName)
	}

	physicians.AssertNumberOfCalls(t, "GetByID", 1)
}

func TestDirectoryNotFound(t *testing.T) {
	dir, physicians, locations := newDirectory(true)
	ctx := context.Background()
	physicians.On("GetByID", ctx, int64(9)).Return(nil, nil)
	locations.On("GetByID", ctx, int64(9)).Return(nil, nil)

	_, err := dir.GetPhysician(ctx, 9)
	assert.ErrorIs(t, err, domain.ErrPhysicianNotFound)

	_, err = dir.GetLocation(ctx, 9)
	assert.ErrorIs(t, err, domain.ErrLocationNotFound)

	_, err = dir.GetPhysician(ctx, 9)
	assert.ErrorIs(t, err, domain.ErrPhysicianNotFound)
	physicians.AssertNumberOfCalls(t, "GetByID", 2)
}

func TestDirectoryDoesNotCacheErrors(t *testing.T) {
	dir, physicians, _ := newDirectory(true)
	ctx := context.Background()
	boom := errors.New("connection reset")
	physicians.On("IsAssigned", ctx, int64(1), int64(10)).Return(false, boom).Once()
	physicians.On("IsAssigned", ctx, int64(1), int64(10)).Return(true, nil).Once()

	_, err := dir.IsAssigned(ctx, 1, 10)
	assert.ErrorIs(t, err, boom)

	assigned, err := dir.IsAssigned(ctx, 1, 10)
	require.NoError(t, err)
	assert.True(t, assigned)

	assigned, err = dir.IsAssigned(ctx, 1, 10)
	require.NoError(t, err)
	assert.True(t, assigned)
	physicians.AssertNumberOfCalls(t, "IsAssigned", 2)
}

func TestDirectoryRosterKeyIncludesLocation(t *testing.T) {
	dir, physicians, _ := newDirectory(true)
	ctx := context.Background()
	loc := int64(10)
	physicians.On("ListBySpecialty", ctx, int64(3), (*int64)(nil)).Return([]domain.Physician{{ID: 1}, {ID: 2}}, nil).Once()
	physicians.On("ListBySpecialty", ctx, int64(3), mock.AnythingOfType("*int64")).Return([]domain.Physician{{ID: 2}}, nil).Once()

	all, err := dir.ListBySpecialty(ctx, 3, nil)
	require.NoError(t, err)
	scoped, err := dir.ListBySpecialty(ctx, 3, &loc)
	require.NoError(t, err)
	again, err := dir.ListBySpecialty(ctx, 3, &loc)
	require.NoError(t, err)

	assert.Len(t, all, 2)
	assert.Len(t, scoped, 1)
	assert.Equal(t, scoped, again)
	physicians.AssertNumberOfCalls(t, "ListBySpecialty", 2)
}

func TestDirectoryInvalidatePhysician(t *testing.T) {
	dir, physicians, _ := newDirectory(true)
	ctx := context.Background()
	physicians.On("GetByID", ctx, int64(1)).Return(&domain.Physician{ID: 1, LastName: "Grey"}, nil).Once()
	physicians.On("GetByID", ctx, int64(1)).Return(&domain.Physician{ID: 1, LastName: "Shepherd"}, nil).Once()
	physicians.On("IsAssigned", ctx, int64(1), int64(10)).Return(true, nil).Once()
	physicians.On("IsAssigned", ctx, int64(1), int64(10)).Return(false, nil).Once()

	_, _ = dir.GetPhysician(ctx, 1)
	_, _ = dir.IsAssigned(ctx, 1, 10)

	dir.InvalidatePhysician(1)

	p, err := dir.GetPhysician(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Shepherd", p.LastName)

	assigned, err := dir.IsAssigned(ctx, 1, 10)
	require.NoError(t, err)
	assert.False(t, assigned)
}

func TestDirectoryInvalidateLocation(t *testing.T) {
	dir, _, locations := newDirectory(true)
	ctx := context.Background()
	locations.On("GetByID", ctx, int64(10)).Return(&domain.Location{ID: 10, Name: "Main"}, nil).Once()
	locations.On("GetByID", ctx, int64(10)).Return(&domain.Location{ID: 10, Name: "Main Campus"}, nil).Once()

	_, _ = dir.GetLocation(ctx, 10)
	dir.InvalidateLocation(10)

	l, err := dir.GetLocation(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, "Main Campus", l.Name)
}

func TestDirectoryDisabledPassesThrough(t *testing.T) {
	dir, physicians, _ := newDirectory(false)
	ctx := context.Background()
	physicians.On("GetByID", ctx, int64(1)).Return(&domain.Physician{ID: 1}, nil)

	_, _ = dir.GetPhysician(ctx, 1)
	_, _ = dir.GetPhysician(ctx, 1)
	dir.InvalidatePhysician(1)

	physicians.AssertNumberOfCalls(t, "GetByID", 2)
}
