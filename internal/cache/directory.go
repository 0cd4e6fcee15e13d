package cache

import (
	"context"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"

	"medsched/config"
	"medsched/internal/domain"
	"medsched/internal/repository"
)

type rosterKey struct {
	specialtyID int64
	locationID  int64
}

type assignmentKey struct {
	physicianID int64
	locationID  int64
}

// Directory answers physician and location lookups for the availability core, keeping
// recent answers for the configured TTL. Computed slots are never cached here.
// Cached values are shared between callers and must not be modified.
type Directory struct {
	physicianRepo repository.PhysicianRepository
	locationRepo  repository.LocationRepository

	enabled     bool
	physicians  *expirable.LRU[int64, domain.Physician]
	locations   *expirable.LRU[int64, domain.Location]
	rosters     *expirable.LRU[rosterKey, []domain.Physician]
	assignments *expirable.LRU[assignmentKey, bool]
	logger      *zap.Logger
}

func NewDirectory(
	physicianRepo repository.PhysicianRepository,
	locationRepo repository.LocationRepository,
	cfg config.CacheConfig,
	logger *zap.Logger,
) *Directory {
	d := &Directory{
		physicianRepo: physicianRepo,
		locationRepo:  locationRepo,
		enabled:       cfg.Enabled && cfg.Size > 0,
		logger:        logger,
	}

	if !d.enabled {
		logger.Info("directory cache is disabled")
		return d
	}

	d.physicians = expirable.NewLRU[int64, domain.Physician](cfg.Size, nil, cfg.TTL)
	d.locations = expirable.NewLRU[int64, domain.Location](cfg.Size, nil, cfg.TTL)
	d.rosters = expirable.NewLRU[rosterKey, []domain.Physician](cfg.Size, nil, cfg.TTL)
	d.assignments = expirable.NewLRU[assignmentKey, bool](cfg.Size, nil, cfg.TTL)

	return d
}

func (d *Directory) GetPhysician(ctx context.Context, id int64) (*domain.Physician, error) {
	if d.enabled {
		if p, ok := d.physicians.Get(id); ok {
			return &p, nil
		}
	}

	p, err := d.physicianRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrPhysicianNotFound
	}

	if d.enabled {
		d.physicians.Add(id, *p)
	}
	return p, nil
}

func (d *Directory) GetLocation(ctx context.Context, id int64) (*domain.Location, error) {
	if d.enabled {
		if l, ok := d.locations.Get(id); ok {
			return &l, nil
		}
	}

	l, err := d.locationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, domain.ErrLocationNotFound
	}

	if d.enabled {
		d.locations.Add(id, *l)
	}
	return l, nil
}

func (d *Directory) ListBySpecialty(ctx context.Context, specialtyID int64, locationID *int64) ([]domain.Physician, error) {
	key := rosterKey{specialtyID: specialtyID}
	if locationID != nil {
		key.locationID = *locationID
	}

	if d.enabled {
		if roster, ok := d.rosters.Get(key); ok {
			return roster, nil
		}
	}

	roster, err := d.physicianRepo.ListBySpecialty(ctx, specialtyID, locationID)
	if err != nil {
		return nil, err
	}

	if d.enabled {
		d.rosters.Add(key, roster)
	}
	return roster, nil
}

func (d *Directory) IsAssigned(ctx context.Context, physicianID, locationID int64) (bool, error) {
	key := assignmentKey{physicianID: physicianID, locationID: locationID}

	if d.enabled {
		if assigned, ok := d.assignments.Get(key); ok {
			return assigned, nil
		}
	}

	assigned, err := d.physicianRepo.IsAssigned(ctx, physicianID, locationID)
	if err != nil {
		return false, err
	}

	if d.enabled {
		d.assignments.Add(key, assigned)
	}
	return assigned, nil
}

// InvalidatePhysician drops the physician and every roster or assignment that may mention it.
func (d *Directory) InvalidatePhysician(id int64) {
	if !d.enabled {
		return
	}
	d.physicians.Remove(id)
	d.rosters.Purge()
	d.assignments.Purge()
	d.logger.Debug("directory cache invalidated", zap.Int64("physician_id", id))
}

func (d *Directory) InvalidateLocation(id int64) {
	if !d.enabled {
		return
	}
	d.locations.Remove(id)
	d.rosters.Purge()
	d.assignments.Purge()
	d.logger.Debug("directory cache invalidated", zap.Int64("location_id", id))
}
