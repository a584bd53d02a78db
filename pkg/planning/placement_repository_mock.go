package planning

import (
	"context"
	"fmt"
	"sort"
)

// MockPlacementRepository is a placement repository for testing
type MockPlacementRepository struct {
	Placements map[string][]*Placement
}

func mockKey(userID string, day string) string {
	return fmt.Sprintf("%s:%s", userID, day)
}

func (r *MockPlacementRepository) FindForDay(_ context.Context, userID string, day string) ([]*Placement, error) {
	placements := append([]*Placement{}, r.Placements[mockKey(userID, day)]...)

	sort.Slice(placements, func(i, j int) bool {
		return placements[i].Start.Before(placements[j].Start)
	})

	return placements, nil
}

func (r *MockPlacementRepository) FindByID(_ context.Context, userID string, day string, id string) (*Placement, error) {
	for _, placement := range r.Placements[mockKey(userID, day)] {
		if placement.ID == id {
			return placement, nil
		}
	}

	return nil, ErrPlacementNotFound
}

func (r *MockPlacementRepository) Add(_ context.Context, userID string, day string, placement *Placement) error {
	if r.Placements == nil {
		r.Placements = map[string][]*Placement{}
	}

	key := mockKey(userID, day)
	r.Placements[key] = append(r.Placements[key], placement)
	return nil
}

func (r *MockPlacementRepository) AddAll(ctx context.Context, userID string, day string, placements []*Placement) error {
	for _, placement := range placements {
		if err := r.Add(ctx, userID, day, placement); err != nil {
			return err
		}
	}

	return nil
}

func (r *MockPlacementRepository) Remove(_ context.Context, userID string, day string, id string) error {
	key := mockKey(userID, day)

	for index, placement := range r.Placements[key] {
		if placement.ID == id {
			r.Placements[key] = append(r.Placements[key][:index], r.Placements[key][index+1:]...)
			return nil
		}
	}

	return ErrPlacementNotFound
}
