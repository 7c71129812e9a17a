package repos

import (
	"github.com/jmoiron/sqlx"

	"foodshare/internal/domain"
)

// SavedRepo stores recipient bookmarks of listings they want to come back to.
type SavedRepo struct{ db *sqlx.DB }

func NewSavedRepo(db *sqlx.DB) *SavedRepo { return &SavedRepo{db: db} }

func (r *SavedRepo) Add(userID, listingID string) error {
	_, err := r.db.Exec(`
	  INSERT INTO saved_listings(user_id, listing_id, created_at)
	  VALUES(?, ?, CURRENT_TIMESTAMP)
	  ON CONFLICT(user_id, listing_id) DO NOTHING
	`, userID, listingID)
	return err
}

func (r *SavedRepo) Remove(userID, listingID string) error {
	_, err := r.db.Exec(`DELETE FROM saved_listings WHERE user_id=? AND listing_id=?`, userID, listingID)
	return err
}

// List returns the saved listings that still exist, saved-first order.
func (r *SavedRepo) List(userID string) ([]domain.Listing, error) {
	var out []domain.Listing
	err := r.db.Select(&out, `
	  SELECT l.id, l.name, l.description, l.expiry_date, l.category, l.image_ref,
	         l.quantity, l.status, l.donor_id, l.reserved_by, l.parent_id,
	         l.rating, l.review_comment, l.created_at, COALESCE(l.updated_at,'') AS updated_at
	  FROM saved_listings s
	  JOIN listings l ON l.id = s.listing_id
	  WHERE s.user_id = ?
	  ORDER BY s.created_at DESC, l.id
	`, userID)
	return out, err
}
