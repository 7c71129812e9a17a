package domain

import "database/sql"

// Listing statuses. A listing starts Available, moves to Reserved when a
// recipient claims it (in place on a full take, or as a new split fragment
// on a partial take), and to PickedUp once the donor confirms handover.
const (
	StatusAvailable = "Available"
	StatusReserved  = "Reserved"
	StatusPickedUp  = "PickedUp"
)

// Rating sentinels. 1..5 is a submitted review.
const (
	RatingPending = 0
	RatingSkipped = -1
)

type Listing struct {
	ID          string `db:"id"`
	Name        string `db:"name"`
	Description string `db:"description"`
	// Stored as an opaque string, never parsed. Donors type whatever the
	// label says ("2025-12-01", "end of week", ...).
	ExpiryDate string         `db:"expiry_date"`
	Category   string         `db:"category"`
	ImageRef   string         `db:"image_ref"`
	Quantity   int            `db:"quantity"`
	Status     string         `db:"status"`
	DonorID    string         `db:"donor_id"`
	ReservedBy sql.NullString `db:"reserved_by"`
	// ParentID links a split fragment back to the listing it was carved
	// from; NULL for originals and full takes.
	ParentID      sql.NullString `db:"parent_id"`
	Rating        int            `db:"rating"`
	ReviewComment string         `db:"review_comment"`
	CreatedAt     string         `db:"created_at"`
	UpdatedAt     string         `db:"updated_at"`
}

func (l Listing) Reviewed() bool { return l.Rating >= 1 && l.Rating <= 5 }

type Availability struct {
	Status string `json:"status"` // IN_STOCK | LOW_STOCK | OUT_OF_STOCK
	Qty    int    `json:"qty,omitempty"`
}
