package planning

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/dayflow-app/dayflow-backend/pkg/logger"
	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
)

// ErrPlacementNotFound is returned when a placement does not exist for a day
var ErrPlacementNotFound = errors.New("placement not found")

// PlacementRepositoryInterface is the interface for a PlacementRepository
type PlacementRepositoryInterface interface {
	FindForDay(ctx context.Context, userID string, day string) ([]*Placement, error)
	FindByID(ctx context.Context, userID string, day string, id string) (*Placement, error)
	Add(ctx context.Context, userID string, day string, placement *Placement) error
	AddAll(ctx context.Context, userID string, day string, placements []*Placement) error
	Remove(ctx context.Context, userID string, day string, id string) error
}

// PlacementRepository stores each day's placements in one redis hash per
// user, keyed by placement ID
type PlacementRepository struct {
	DB     *redis.Client
	Logger logger.Interface
}

func placementsKey(userID string, day string) string {
	return fmt.Sprintf("placements:%s:%s", userID, day)
}

// FindForDay returns all placements of a day ordered by start time
func (s PlacementRepository) FindForDay(ctx context.Context, userID string, day string) ([]*Placement, error) {
	entries, err := s.DB.HGetAll(ctx, placementsKey(userID, day)).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "could not load placements for %s on %s", userID, day)
	}

	placements := make([]*Placement, 0, len(entries))
	for _, entry := range entries {
		placement := Placement{}
		if err := json.Unmarshal([]byte(entry), &placement); err != nil {
			return nil, err
		}

		placements = append(placements, &placement)
	}

	sort.Slice(placements, func(i, j int) bool {
		return placements[i].Start.Before(placements[j].Start)
	})

	return placements, nil
}

// FindByID returns a single placement of a day
func (s PlacementRepository) FindByID(ctx context.Context, userID string, day string, id string) (*Placement, error) {
	entry, err := s.DB.HGet(ctx, placementsKey(userID, day), id).Result()
	if err == redis.Nil {
		return nil, ErrPlacementNotFound
	}
	if err != nil {
		return nil, err
	}

	placement := Placement{}
	if err := json.Unmarshal([]byte(entry), &placement); err != nil {
		return nil, err
	}

	return &placement, nil
}

// Add stores a single placement
func (s PlacementRepository) Add(ctx context.Context, userID string, day string, placement *Placement) error {
	binary, err := json.Marshal(placement)
	if err != nil {
		return err
	}

	return s.DB.HSet(ctx, placementsKey(userID, day), placement.ID, binary).Err()
}

// AddAll stores a batch of placements in one round trip
func (s PlacementRepository) AddAll(ctx context.Context, userID string, day string, placements []*Placement) error {
	if len(placements) == 0 {
		return nil
	}

	values := make([]interface{}, 0, len(placements)*2)
	for _, placement := range placements {
		binary, err := json.Marshal(placement)
		if err != nil {
			return err
		}

		values = append(values, placement.ID, binary)
	}

	return s.DB.HSet(ctx, placementsKey(userID, day), values...).Err()
}

// Remove deletes a placement
func (s PlacementRepository) Remove(ctx context.Context, userID string, day string, id string) error {
	removed, err := s.DB.HDel(ctx, placementsKey(userID, day), id).Result()
	if err != nil {
		return err
	}

	if removed == 0 {
		return ErrPlacementNotFound
	}

	return nil
}
