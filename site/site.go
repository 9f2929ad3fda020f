// Package site holds the HTTP handlers of the public read API and the
// guarded admin write API.
package site

import (
	"net/http"
	"solara/auth"
	"solara/database"
	"solara/media"
	"solara/response"

	"gorm.io/gorm"
)

type Site struct {
	db      *gorm.DB
	posts   *database.Repository[database.Post]
	markets *database.Markets
	issuer  *auth.Issuer
	media   *media.Store
}

func New(db *gorm.DB, issuer *auth.Issuer, store *media.Store) *Site {
	return &Site{
		db:      db,
		posts:   database.NewRepository[database.Post](db),
		markets: database.NewMarkets(db),
		issuer:  issuer,
		media:   store,
	}
}

func (s *Site) Health(w http.ResponseWriter, r *http.Request) {
	sqlDB, err := s.db.DB()
	if err == nil {
		err = sqlDB.PingContext(r.Context())
	}
	if err != nil {
		writeError(w, r, err, "database")
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
