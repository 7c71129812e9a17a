package services

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"foodshare/internal/domain"
	"foodshare/internal/repos"
)

// LedgerService owns every legal state transition of a food listing and the
// quantity bookkeeping across split fragments. The actor is always an explicit
// parameter; the ledger never reads session state.
type LedgerService struct {
	Listings *repos.ListingRepo
}

func NewLedgerService(listings *repos.ListingRepo) *LedgerService {
	return &LedgerService{Listings: listings}
}

type PublishInput struct {
	Name        string
	Description string
	ExpiryDate  string
	Category    string
	ImageRef    string
	Quantity    int
}

// Publish creates a fresh Available listing owned by the donor.
func (s *LedgerService) Publish(donor *domain.User, in PublishInput) (domain.Listing, error) {
	if !donor.IsDonor() {
		return domain.Listing{}, fmt.Errorf("publish: %w", ErrForbidden)
	}
	if in.Name == "" {
		return domain.Listing{}, fmt.Errorf("publish: empty name: %w", ErrInvalidInput)
	}
	if in.Quantity <= 0 {
		return domain.Listing{}, fmt.Errorf("publish: quantity %d: %w", in.Quantity, ErrInvalidInput)
	}

	l := domain.Listing{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Description: in.Description,
		ExpiryDate:  in.ExpiryDate,
		Category:    in.Category,
		ImageRef:    in.ImageRef,
		Quantity:    in.Quantity,
		Status:      domain.StatusAvailable,
		DonorID:     donor.ID,
		Rating:      domain.RatingPending,
	}
	if err := s.Listings.Insert(l); err != nil {
		return domain.Listing{}, err
	}
	return l, nil
}

// Reserve claims requestedQty units of an Available listing for the actor.
// At or above the available quantity the whole listing flips to Reserved in
// place. Below it, a new Reserved fragment is split off and the original keeps
// the remainder. Both paths use conditional updates keyed on the listing still
// being Available, so two racing reservations cannot double-book.
func (s *LedgerService) Reserve(actor *domain.User, listingID string, requestedQty int) (domain.Listing, error) {
	if actor == nil {
		return domain.Listing{}, fmt.Errorf("reserve: %w", ErrForbidden)
	}
	if requestedQty <= 0 {
		return domain.Listing{}, fmt.Errorf("reserve: quantity %d: %w", requestedQty, ErrInvalidInput)
	}

	l, err := s.Listings.Get(listingID)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.Listing{}, fmt.Errorf("reserve %s: %w", listingID, ErrNotFound)
		}
		return domain.Listing{}, err
	}
	if l.Status != domain.StatusAvailable {
		return domain.Listing{}, fmt.Errorf("reserve %s: status %s: %w", listingID, l.Status, ErrInvalidState)
	}

	if requestedQty >= l.Quantity {
		// Full take (or over-request): the listing transitions in place,
		// quantity unchanged.
		ok, err := s.Listings.ReserveInPlace(l.ID, actor.ID)
		if err != nil {
			return domain.Listing{}, err
		}
		if !ok {
			return domain.Listing{}, fmt.Errorf("reserve %s: taken concurrently: %w", listingID, ErrInvalidState)
		}
		return s.Listings.Get(l.ID)
	}

	fragID := uuid.NewString()
	ok, err := s.Listings.SplitReserve(l, fragID, actor.ID, requestedQty)
	if err != nil {
		return domain.Listing{}, err
	}
	if !ok {
		return domain.Listing{}, fmt.Errorf("reserve %s: changed concurrently: %w", listingID, ErrInvalidState)
	}
	return s.Listings.Get(fragID)
}

// Cancel undoes the actor's reservation. A Reserved fragment merges its
// quantity back into its parent when the parent is still Available, and is
// deleted; with no parent to absorb it (full take, or parent since removed)
// the listing itself flips back to Available with its quantity preserved.
// A PickedUp listing is simply deleted from the actor's history — the food is
// gone, nothing to restock.
func (s *LedgerService) Cancel(actor *domain.User, listingID string) error {
	if actor == nil {
		return fmt.Errorf("cancel: %w", ErrForbidden)
	}
	l, err := s.Listings.Get(listingID)
	if err != nil {
		if err == sql.ErrNoRows {
			return fmt.Errorf("cancel %s: %w", listingID, ErrNotFound)
		}
		return err
	}
	if !l.ReservedBy.Valid || l.ReservedBy.String != actor.ID {
		return fmt.Errorf("cancel %s: not the reserver: %w", listingID, ErrForbidden)
	}

	switch l.Status {
	case domain.StatusReserved:
		merged, err := s.Listings.MergeIntoParent(l)
		if err != nil {
			return err
		}
		if !merged {
			return s.Listings.Restock(l.ID)
		}
		return nil
	case domain.StatusPickedUp:
		return s.Listings.Delete(l.ID)
	default:
		return fmt.Errorf("cancel %s: status %s: %w", listingID, l.Status, ErrInvalidState)
	}
}

// MarkPickedUp confirms handover. Only the owning donor may confirm, and
// confirming twice is a no-op.
func (s *LedgerService) MarkPickedUp(donor *domain.User, listingID string) error {
	if !donor.IsDonor() {
		return fmt.Errorf("pickup: %w", ErrForbidden)
	}
	l, err := s.Listings.Get(listingID)
	if err != nil {
		if err == sql.ErrNoRows {
			return fmt.Errorf("pickup %s: %w", listingID, ErrNotFound)
		}
		return err
	}
	if l.DonorID != donor.ID {
		return fmt.Errorf("pickup %s: not the owner: %w", listingID, ErrForbidden)
	}
	switch l.Status {
	case domain.StatusPickedUp:
		return nil
	case domain.StatusReserved:
		return s.Listings.SetPickedUp(l.ID)
	default:
		return fmt.Errorf("pickup %s: status %s: %w", listingID, l.Status, ErrInvalidState)
	}
}

// Delete removes a listing at any status. Owning donor only.
func (s *LedgerService) Delete(donor *domain.User, listingID string) error {
	if !donor.IsDonor() {
		return fmt.Errorf("delete: %w", ErrForbidden)
	}
	l, err := s.Listings.Get(listingID)
	if err != nil {
		if err == sql.ErrNoRows {
			return fmt.Errorf("delete %s: %w", listingID, ErrNotFound)
		}
		return err
	}
	if l.DonorID != donor.ID {
		return fmt.Errorf("delete %s: not the owner: %w", listingID, ErrForbidden)
	}
	return s.Listings.Delete(l.ID)
}

// SubmitReview records a 1..5 rating with a comment. The reserving recipient
// may review only after the donor confirmed pickup.
func (s *LedgerService) SubmitReview(actor *domain.User, listingID string, rating int, comment string) error {
	l, err := s.reviewable(actor, listingID)
	if err != nil {
		return err
	}
	if rating < 1 || rating > 5 {
		return fmt.Errorf("review %s: rating %d: %w", listingID, rating, ErrInvalidInput)
	}
	return s.Listings.SetReview(l.ID, rating, comment)
}

// SkipReview records the skip sentinel, leaving any comment untouched.
func (s *LedgerService) SkipReview(actor *domain.User, listingID string) error {
	l, err := s.reviewable(actor, listingID)
	if err != nil {
		return err
	}
	return s.Listings.SetRating(l.ID, domain.RatingSkipped)
}

func (s *LedgerService) reviewable(actor *domain.User, listingID string) (domain.Listing, error) {
	if actor == nil {
		return domain.Listing{}, fmt.Errorf("review: %w", ErrForbidden)
	}
	l, err := s.Listings.Get(listingID)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.Listing{}, fmt.Errorf("review %s: %w", listingID, ErrNotFound)
		}
		return domain.Listing{}, err
	}
	if !l.ReservedBy.Valid || l.ReservedBy.String != actor.ID {
		return domain.Listing{}, fmt.Errorf("review %s: not the reserver: %w", listingID, ErrForbidden)
	}
	if l.Status != domain.StatusPickedUp {
		return domain.Listing{}, fmt.Errorf("review %s: status %s: %w", listingID, l.Status, ErrInvalidState)
	}
	return l, nil
}

// ListAvailable filters Available listings by a case-insensitive name
// substring; empty matches all.
func (s *LedgerService) ListAvailable(nameSub string) ([]domain.Listing, error) {
	return s.Listings.ListAvailable(nameSub)
}

// ListMine returns everything the actor has reserved, any status. Active
// reservations and pickup history are told apart by status in the templates.
func (s *LedgerService) ListMine(actor *domain.User) ([]domain.Listing, error) {
	if actor == nil {
		return nil, fmt.Errorf("list mine: %w", ErrForbidden)
	}
	return s.Listings.ListByReserver(actor.ID)
}

// ListPublished returns everything the donor has published, any status.
func (s *LedgerService) ListPublished(donor *domain.User) ([]domain.Listing, error) {
	if donor == nil {
		return nil, fmt.Errorf("list published: %w", ErrForbidden)
	}
	return s.Listings.ListByDonor(donor.ID)
}

// ListReviews returns the donor's received reviews, newest first.
func (s *LedgerService) ListReviews(donor *domain.User) ([]domain.Listing, error) {
	if donor == nil {
		return nil, fmt.Errorf("list reviews: %w", ErrForbidden)
	}
	return s.Listings.ListReviews(donor.ID)
}

// Availability maps a listing's remaining quantity to a coarse stock label
// for the JSON availability endpoint.
func (s *LedgerService) Availability(listingID string) (domain.Availability, error) {
	l, err := s.Listings.Get(listingID)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.Availability{Status: "OUT_OF_STOCK"}, nil
		}
		return domain.Availability{}, err
	}
	if l.Status != domain.StatusAvailable {
		return domain.Availability{Status: "OUT_OF_STOCK"}, nil
	}
	status := "OUT_OF_STOCK"
	switch {
	case l.Quantity >= 5:
		status = "IN_STOCK"
	case l.Quantity > 0:
		status = "LOW_STOCK"
	}
	return domain.Availability{Status: status, Qty: l.Quantity}, nil
}
