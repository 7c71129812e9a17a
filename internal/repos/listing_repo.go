package repos

import (
	"strings"

	"github.com/jmoiron/sqlx"

	"foodshare/internal/domain"
)

type ListingRepo struct{ db *sqlx.DB }

func NewListingRepo(db *sqlx.DB) *ListingRepo { return &ListingRepo{db: db} }

const listingCols = `
  id, name, description, expiry_date, category, image_ref, quantity, status,
  donor_id, reserved_by, parent_id, rating, review_comment,
  created_at, COALESCE(updated_at,'') AS updated_at`

func (r *ListingRepo) Insert(l domain.Listing) error {
	_, err := r.db.Exec(`
	  INSERT INTO listings
	    (id, name, description, expiry_date, category, image_ref, quantity, status,
	     donor_id, reserved_by, parent_id, rating, review_comment, created_at)
	  VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,CURRENT_TIMESTAMP)
	`, l.ID, l.Name, l.Description, l.ExpiryDate, l.Category, l.ImageRef, l.Quantity, l.Status,
		l.DonorID, l.ReservedBy, l.ParentID, l.Rating, l.ReviewComment)
	return err
}

func (r *ListingRepo) Get(id string) (domain.Listing, error) {
	var l domain.Listing
	err := r.db.Get(&l, `SELECT `+listingCols+` FROM listings WHERE id = ?`, id)
	return l, err
}

// ListAvailable returns Available listings whose name contains the given
// substring, case-insensitive. Empty substring matches everything.
func (r *ListingRepo) ListAvailable(nameSub string) ([]domain.Listing, error) {
	var out []domain.Listing
	err := r.db.Select(&out, `
	  SELECT `+listingCols+`
	  FROM listings
	  WHERE status = 'Available' AND LOWER(name) LIKE ?
	  ORDER BY created_at, id
	`, "%"+strings.ToLower(nameSub)+"%")
	return out, err
}

func (r *ListingRepo) ListByReserver(userID string) ([]domain.Listing, error) {
	var out []domain.Listing
	err := r.db.Select(&out, `
	  SELECT `+listingCols+`
	  FROM listings
	  WHERE reserved_by = ?
	  ORDER BY created_at, id
	`, userID)
	return out, err
}

func (r *ListingRepo) ListByDonor(donorID string) ([]domain.Listing, error) {
	var out []domain.Listing
	err := r.db.Select(&out, `
	  SELECT `+listingCols+`
	  FROM listings
	  WHERE donor_id = ?
	  ORDER BY created_at, id
	`, donorID)
	return out, err
}

// ListReviews returns a donor's reviewed listings, newest first. Pending (0)
// and skipped (-1) ratings are excluded.
func (r *ListingRepo) ListReviews(donorID string) ([]domain.Listing, error) {
	var out []domain.Listing
	err := r.db.Select(&out, `
	  SELECT `+listingCols+`
	  FROM listings
	  WHERE donor_id = ? AND rating > 0
	  ORDER BY datetime(COALESCE(updated_at, created_at)) DESC, id
	`, donorID)
	return out, err
}

// ReserveInPlace claims the whole listing for a recipient, but only if it is
// still Available. Returns false when someone else got there first (or the
// status changed), so the caller can report InvalidState instead of
// double-booking.
func (r *ListingRepo) ReserveInPlace(listingID, userID string) (bool, error) {
	res, err := r.db.Exec(`
	  UPDATE listings
	  SET status = 'Reserved', reserved_by = ?, updated_at = CURRENT_TIMESTAMP
	  WHERE id = ? AND status = 'Available'
	`, userID, listingID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n == 1, nil
}

// SplitReserve carves qty units off an Available listing into a new Reserved
// fragment in one transaction. The decrement is conditional on the original
// still being Available with more than qty units, so the original keeps a
// positive remainder and the lineage total is conserved.
func (r *ListingRepo) SplitReserve(orig domain.Listing, fragID, userID string, qty int) (bool, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.Exec(`
	  UPDATE listings
	  SET quantity = quantity - ?, updated_at = CURRENT_TIMESTAMP
	  WHERE id = ? AND status = 'Available' AND quantity > ?
	`, qty, orig.ID, qty)
	if err != nil {
		return false, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return false, nil
	}

	if _, err := tx.Exec(`
	  INSERT INTO listings
	    (id, name, description, expiry_date, category, image_ref, quantity, status,
	     donor_id, reserved_by, parent_id, rating, review_comment, created_at)
	  VALUES (?,?,?,?,?,?,?,'Reserved',?,?,?,0,'',CURRENT_TIMESTAMP)
	`, fragID, orig.Name, orig.Description, orig.ExpiryDate, orig.Category, orig.ImageRef, qty,
		orig.DonorID, userID, orig.ID); err != nil {
		return false, err
	}

	return true, tx.Commit()
}

// MergeIntoParent returns a cancelled fragment's quantity to its parent and
// deletes the fragment, provided the parent still exists and is Available.
// Returns false (and changes nothing) otherwise, so the caller can fall back
// to a self-restock.
func (r *ListingRepo) MergeIntoParent(frag domain.Listing) (bool, error) {
	if !frag.ParentID.Valid {
		return false, nil
	}
	tx, err := r.db.Beginx()
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.Exec(`
	  UPDATE listings
	  SET quantity = quantity + ?, updated_at = CURRENT_TIMESTAMP
	  WHERE id = ? AND status = 'Available'
	`, frag.Quantity, frag.ParentID.String)
	if err != nil {
		return false, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return false, nil
	}

	if _, err := tx.Exec(`DELETE FROM listings WHERE id = ?`, frag.ID); err != nil {
		return false, err
	}

	return true, tx.Commit()
}

// Restock flips a Reserved listing back to Available in place, keeping its
// quantity. Used when there is no parent left to merge into.
func (r *ListingRepo) Restock(listingID string) error {
	_, err := r.db.Exec(`
	  UPDATE listings
	  SET status = 'Available', reserved_by = NULL, updated_at = CURRENT_TIMESTAMP
	  WHERE id = ?
	`, listingID)
	return err
}

// SetPickedUp marks a Reserved listing as PickedUp. Already-PickedUp rows are
// untouched, which keeps the operation idempotent at the SQL level.
func (r *ListingRepo) SetPickedUp(listingID string) error {
	_, err := r.db.Exec(`
	  UPDATE listings
	  SET status = 'PickedUp', updated_at = CURRENT_TIMESTAMP
	  WHERE id = ? AND status = 'Reserved'
	`, listingID)
	return err
}

func (r *ListingRepo) SetReview(listingID string, rating int, comment string) error {
	_, err := r.db.Exec(`
	  UPDATE listings
	  SET rating = ?, review_comment = ?, updated_at = CURRENT_TIMESTAMP
	  WHERE id = ?
	`, rating, comment, listingID)
	return err
}

// SetRating updates the rating alone, leaving the comment as it was.
func (r *ListingRepo) SetRating(listingID string, rating int) error {
	_, err := r.db.Exec(`
	  UPDATE listings
	  SET rating = ?, updated_at = CURRENT_TIMESTAMP
	  WHERE id = ?
	`, rating, listingID)
	return err
}

func (r *ListingRepo) Delete(listingID string) error {
	_, err := r.db.Exec(`DELETE FROM listings WHERE id = ?`, listingID)
	return err
}

// LineageTotal sums quantity across a root listing and its live fragments.
func (r *ListingRepo) LineageTotal(rootID string) (int, error) {
	var total int
	err := r.db.Get(&total, `
	  SELECT COALESCE(SUM(quantity), 0)
	  FROM listings
	  WHERE id = ? OR parent_id = ?
	`, rootID, rootID)
	return total, err
}
