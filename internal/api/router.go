package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/Cheertaboi/ofertas-service/internal/api/handlers"
	"github.com/Cheertaboi/ofertas-service/internal/api/middleware"
)

type Options struct {
	Production bool
	CORSOrigin string
	Version    string
}

// NewRouter builds the HTTP router for the ofertas-service
func NewRouter(svc handlers.OfferService, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS(opts.CORSOrigin))

	offerHandler := handlers.NewOfferHandler(svc, opts.Production)
	systemHandler := handlers.NewSystemHandler(opts.Version)

	r.Route("/offers", func(r chi.Router) {
		r.Get("/", offerHandler.ListOffers)
		r.Post("/", offerHandler.CreateOffers)
		r.Get("/filter-options", offerHandler.FilterOptions)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", offerHandler.GetOffer)
			r.Delete("/", offerHandler.DeleteOffer)
			r.Get("/qr.png", offerHandler.OfferQR)
		})
	})

	// health
	r.Get("/health", systemHandler.Health)
	r.Get("/", systemHandler.Info)

	r.NotFound(systemHandler.NotFound)
	r.MethodNotAllowed(systemHandler.MethodNotAllowed)

	return r
}
