package services_test

import (
	"testing"

	"foodshare/internal/repos"
	"foodshare/internal/services"
)

func TestSavedListings(t *testing.T) {
	db := memdb(t)
	ledger := services.NewLedgerService(repos.NewListingRepo(db))
	saved := services.NewSavedService(repos.NewSavedRepo(db))

	l := publish(t, ledger, pantry, "Granola jars", 6)

	if err := saved.Save(maya, l.ID); err != nil {
		t.Fatal(err)
	}
	// saving twice is a no-op
	if err := saved.Save(maya, l.ID); err != nil {
		t.Fatal(err)
	}

	got, err := saved.List(maya)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != l.ID {
		t.Fatalf("want one saved listing, got %+v", got)
	}

	if err := saved.Unsave(maya, l.ID); err != nil {
		t.Fatal(err)
	}
	after, err := saved.List(maya)
	if err != nil {
		t.Fatal(err)
	}
	if len(after) != 0 {
		t.Fatalf("bookmark should be gone, got %+v", after)
	}
}
