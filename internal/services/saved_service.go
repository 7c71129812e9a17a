package services

import (
	"fmt"

	"foodshare/internal/domain"
	"foodshare/internal/repos"
)

// SavedService lets recipients bookmark listings to come back to later.
type SavedService struct {
	Repo *repos.SavedRepo
}

func NewSavedService(r *repos.SavedRepo) *SavedService { return &SavedService{Repo: r} }

func (s *SavedService) Save(actor *domain.User, listingID string) error {
	if actor == nil {
		return fmt.Errorf("save: %w", ErrForbidden)
	}
	return s.Repo.Add(actor.ID, listingID)
}

func (s *SavedService) Unsave(actor *domain.User, listingID string) error {
	if actor == nil {
		return fmt.Errorf("unsave: %w", ErrForbidden)
	}
	return s.Repo.Remove(actor.ID, listingID)
}

func (s *SavedService) List(actor *domain.User) ([]domain.Listing, error) {
	if actor == nil {
		return nil, fmt.Errorf("saved list: %w", ErrForbidden)
	}
	return s.Repo.List(actor.ID)
}
