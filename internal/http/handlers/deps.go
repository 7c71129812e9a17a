package handlers

import (
	"github.com/jmoiron/sqlx"

	"foodshare/internal/config"
	"foodshare/internal/repos"
	"foodshare/internal/services"
)

type Deps struct {
	DashboardHandler    *DashboardHandler
	ListingHandler      *ListingHandler
	ReservationHandler  *ReservationHandler
	ReviewHandler       *ReviewHandler
	AvailabilityHandler *AvailabilityHandler
	SavedHandler        *SavedHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config, auth *services.AuthService) *Deps {
	listingRepo := repos.NewListingRepo(db)
	savedRepo := repos.NewSavedRepo(db)

	ledgerSvc := services.NewLedgerService(listingRepo)
	savedSvc := services.NewSavedService(savedRepo)

	return &Deps{
		DashboardHandler:    &DashboardHandler{Ledger: ledgerSvc, Saved: savedSvc},
		ListingHandler:      &ListingHandler{Ledger: ledgerSvc},
		ReservationHandler:  &ReservationHandler{Ledger: ledgerSvc},
		ReviewHandler:       &ReviewHandler{Ledger: ledgerSvc},
		AvailabilityHandler: &AvailabilityHandler{Ledger: ledgerSvc},
		SavedHandler:        &SavedHandler{Saved: savedSvc},
	}
}
