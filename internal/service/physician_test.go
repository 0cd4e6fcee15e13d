package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"medsched/internal/domain"
	"medsched/internal/repository/mocks"
)

type memStorage struct {
	files   map[string][]byte
	deleted []string
}

func (s *memStorage) UploadFile(_ context.Context, data []byte, filename string) (string, error) {
	if s.files == nil {
		s.files = make(map[string][]byte)
	}
	url := "https://cdn.example.com/physicians/" + filename
	s.files[url] = data
	return url, nil
}

func (s *memStorage) DeleteFile(_ context.Context, fileURL string) error {
	delete(s.files, fileURL)
	s.deleted = append(s.deleted, fileURL)
	return nil
}

type physicianMocks struct {
	physicians  *mocks.PhysicianRepository
	specialties *mocks.SpecialtyRepository
	locations   *mocks.LocationRepository
	directory   *fakeDirectory
	storage     *memStorage
}

func newPhysicianService(withStorage bool) (*PhysicianServiceImpl, physicianMocks) {
	m := physicianMocks{
		physicians:  &mocks.PhysicianRepository{},
		specialties: &mocks.SpecialtyRepository{},
		locations:   &mocks.LocationRepository{},
		directory:   newFakeDirectory(),
	}

	svc := NewPhysicianService(m.physicians, m.specialties, m.locations, m.directory, nil, zap.NewNop())
	if withStorage {
		m.storage = &memStorage{}
		svc = NewPhysicianService(m.physicians, m.specialties, m.locations, m.directory, m.storage, zap.NewNop())
	}
	return svc, m
}

func TestPhysicianCreate(t *testing.T) {
	svc, m := newPhysicianService(false)
	ctx := context.Background()

	m.specialties.On("GetByID", ctx, int64(5)).Return(&domain.Specialty{ID: 5, Name: "Cardiology"}, nil)
	m.physicians.On("Create", ctx, domain.CreatePhysicianDTO{
		FirstName:   "Mary-Jane",
		LastName:    "O'neil",
		SpecialtyID: 5,
		Email:       "mj@clinic.example",
		Phone:       "+15551234567",
		Bio:         "Heart stuff",
	}).Return(int64(12), nil)

	id, err := svc.Create(ctx, domain.CreatePhysicianDTO{
		FirstName:   "mary-JANE",
		LastName:    "o'neil",
		SpecialtyID: 5,
		Email:       "mj@clinic.example",
		Phone:       "+1 (555) 123-4567",
		Bio:         " Heart stuff; ",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(12), id)
	m.physicians.AssertExpectations(t)
}

func TestPhysicianCreateValidation(t *testing.T) {
	svc, m := newPhysicianService(false)
	ctx := context.Background()
	valid := domain.CreatePhysicianDTO{FirstName: "Ada", LastName: "Adams", SpecialtyID: 5, Email: "ada@clinic.example", Phone: "+15551234567"}

	bad := valid
	bad.Email = "not-an-email"
	_, err := svc.Create(ctx, bad)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	bad = valid
	bad.FirstName = "A1"
	_, err = svc.Create(ctx, bad)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	m.specialties.On("GetByID", ctx, int64(5)).Return(nil, nil)
	_, err = svc.Create(ctx, valid)
	assert.ErrorIs(t, err, domain.ErrSpecialtyNotFound)

	m.physicians.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPhysicianUpdateInvalidatesDirectory(t *testing.T) {
	svc, m := newPhysicianService(false)
	ctx := context.Background()

	m.physicians.On("Update", ctx, int64(3), mock.MatchedBy(func(dto domain.UpdatePhysicianDTO) bool {
		return dto.LastName != nil && *dto.LastName == "Baker"
	})).Return(nil)
	m.physicians.On("Update", ctx, int64(4), mock.Anything).Return(domain.ErrPhysicianNotFound)

	require.NoError(t, svc.Update(ctx, 3, domain.UpdatePhysicianDTO{LastName: PointerTo("baker")}))
	assert.ErrorIs(t, svc.Update(ctx, 4, domain.UpdatePhysicianDTO{Bio: PointerTo("x")}), domain.ErrPhysicianNotFound)

	assert.Equal(t, []int64{3}, m.directory.invalidated)
}

func TestPhysicianGetByIDNotFound(t *testing.T) {
	svc, m := newPhysicianService(false)
	m.physicians.On("GetByID", mock.Anything, int64(9)).Return(nil, nil)

	_, err := svc.GetByID(context.Background(), 9)
	assert.ErrorIs(t, err, domain.ErrPhysicianNotFound)
}

func TestPhysicianProfilePhoto(t *testing.T) {
	ctx := context.Background()

	disabled, _ := newPhysicianService(false)
	_, err := disabled.UploadProfilePhoto(ctx, 1, []byte("img"), "me.png")
	assert.ErrorIs(t, err, domain.ErrFileStorageDisabled)

	svc, m := newPhysicianService(true)
	old := "https://cdn.example.com/physicians/old.png"
	m.storage.files = map[string][]byte{old: []byte("old")}
	m.physicians.On("GetByID", ctx, int64(1)).Return(&domain.Physician{ID: 1, ProfilePhotoURL: old}, nil).Once()
	m.physicians.On("UpdatePhotoURL", ctx, int64(1), "https://cdn.example.com/physicians/new.png").Return(nil)

	url, err := svc.UploadProfilePhoto(ctx, 1, []byte("new"), "new.png")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/physicians/new.png", url)
	assert.Equal(t, []string{old}, m.storage.deleted, "the previous photo is removed")

	m.physicians.On("GetByID", ctx, int64(1)).Return(&domain.Physician{ID: 1, ProfilePhotoURL: url}, nil).Once()
	m.physicians.On("UpdatePhotoURL", ctx, int64(1), "").Return(nil)

	require.NoError(t, svc.DeleteProfilePhoto(ctx, 1))
	assert.NotContains(t, m.storage.files, url)
	assert.Equal(t, []int64{1, 1}, m.directory.invalidated)
}

func TestPhysicianAssignLocation(t *testing.T) {
	svc, m := newPhysicianService(false)
	ctx := context.Background()

	m.physicians.On("GetByID", ctx, int64(1)).Return(&domain.Physician{ID: 1}, nil)
	m.locations.On("GetByID", ctx, clinic).Return(&domain.Location{ID: clinic}, nil)
	m.locations.On("GetByID", ctx, int64(99)).Return(nil, nil)
	m.physicians.On("AssignLocation", ctx, int64(1), clinic).Return(nil)
	m.physicians.On("UnassignLocation", ctx, int64(1), clinic).Return(nil)

	require.NoError(t, svc.AssignLocation(ctx, 1, clinic))
	require.NoError(t, svc.UnassignLocation(ctx, 1, clinic))
	assert.ErrorIs(t, svc.AssignLocation(ctx, 1, 99), domain.ErrLocationNotFound)

	m.physicians.AssertNumberOfCalls(t, "AssignLocation", 1)
	assert.Equal(t, []int64{1, 1}, m.directory.invalidated)
}
