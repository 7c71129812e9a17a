package repos

import (
	"log"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}
	if dsn == ":memory:" {
		// each sqlite connection gets its own in-memory database
		db.SetMaxOpenConns(1)
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Demo accounts and listings (idempotent; safe to run every start)
	if err := seedUsers(db); err != nil {
		return nil, err
	}
	if err := seedListings(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Users & Sessions
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL CHECK (role IN ('DONOR','RECIPIENT')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email));

CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,               -- same value as the 'sid' cookie
  user_id TEXT NULL REFERENCES users(id) ON DELETE SET NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  last_seen  TEXT
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);

-- Listings. quantity >= 0: a listing never holds negative stock, and a
-- fragment carries exactly what its reserver asked for.
CREATE TABLE IF NOT EXISTS listings(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  expiry_date TEXT NOT NULL DEFAULT '',
  category TEXT NOT NULL DEFAULT '',
  image_ref TEXT NOT NULL DEFAULT '',
  quantity INTEGER NOT NULL CHECK (quantity >= 0),
  status TEXT NOT NULL DEFAULT 'Available' CHECK (status IN ('Available','Reserved','PickedUp')),
  donor_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  reserved_by TEXT NULL REFERENCES users(id) ON DELETE SET NULL,
  parent_id TEXT NULL,
  rating INTEGER NOT NULL DEFAULT 0,
  review_comment TEXT NOT NULL DEFAULT '',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_listings_status      ON listings(status);
CREATE INDEX IF NOT EXISTS idx_listings_donor       ON listings(donor_id);
CREATE INDEX IF NOT EXISTS idx_listings_reserved_by ON listings(reserved_by);
CREATE INDEX IF NOT EXISTS idx_listings_parent      ON listings(parent_id);
CREATE INDEX IF NOT EXISTS idx_listings_name        ON listings(LOWER(name));

-- Saved listings (recipient bookmarks)
CREATE TABLE IF NOT EXISTS saved_listings(
  user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  listing_id TEXT NOT NULL REFERENCES listings(id) ON DELETE CASCADE,
  created_at TEXT,
  PRIMARY KEY (user_id, listing_id)
);
`
	_, err := db.Exec(schema)
	return err
}

// seedUsers ensures two donors and two recipients exist (idempotent).
func seedUsers(db *sqlx.DB) error {
	type u struct {
		ID, Email, Name, Role, Hash string
	}
	mk := func(id, email, name, role, raw string) u {
		h, _ := bcrypt.GenerateFromPassword([]byte(raw), 12)
		return u{ID: id, Email: email, Name: name, Role: role, Hash: string(h)}
	}

	users := []u{
		mk("u-pantry", "pantry@foodshare.test", "Campus Pantry", "DONOR", "Passw0rd!"),
		mk("u-bistro", "bistro@foodshare.test", "Corner Bistro", "DONOR", "Passw0rd!"),
		mk("u-maya", "maya@foodshare.test", "Maya", "RECIPIENT", "Passw0rd!"),
		mk("u-jonas", "jonas@foodshare.test", "Jonas", "RECIPIENT", "Passw0rd!"),
	}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	for _, x := range users {
		if _, err := tx.Exec(`
			INSERT INTO users(id,email,name,password_hash,role)
			VALUES(?,?,?,?,?)
			ON CONFLICT(email) DO NOTHING
		`, x.ID, x.Email, x.Name, x.Hash, x.Role); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// seedListings inserts a few demo listings if the table is empty.
func seedListings(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM listings`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo listings")

	tx := db.MustBegin()
	tx.MustExec(`INSERT INTO listings(id,name,description,expiry_date,category,image_ref,quantity,donor_id) VALUES
	  ('l-bread-001','Sourdough loaves','Baked this morning, day-old by pickup','2025-11-02','Bakery','listings/l-bread-001/main.jpg',12,'u-bistro'),
	  ('l-soup-001','Minestrone soup (1L tubs)','Frozen, vegetarian','2025-12-15','Prepared','listings/l-soup-001/main.jpg',6,'u-bistro'),
	  ('l-apples-001','Crate of apples','Slightly bruised, fine for sauce','2025-11-10','Produce','',30,'u-pantry')`)

	return tx.Commit()
}
