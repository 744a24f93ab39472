package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/morsel-app/morsel-restaurant/pkg/app"
	"github.com/morsel-app/morsel-restaurant/pkg/auth"
	"github.com/morsel-app/morsel-restaurant/services/listing/application/handlers"
	appsvcs "github.com/morsel-app/morsel-restaurant/services/listing/application/services"
	"github.com/morsel-app/morsel-restaurant/services/listing/application/workflows"
)

// ListingRoutes registers listing endpoints on the provided chi router.
func ListingRoutes(r chi.Router, a *app.Application) {
	svcs := appsvcs.New(a)
	if a.Config != nil && a.Config.PublishViaTemporal && a.TemporalClient != nil {
		svcs.Publish.UseWriter(workflows.NewTemporalWriter(a.TemporalClient.Client, a.TemporalClient.TaskQueue))
	}

	r.Get("/tags", handlers.NewGetTagsHandler(svcs).Execute)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(a.Auth, a.SessionStore, a.Logger))
		r.Use(auth.RequireProfile(a.Profiles, a.Logger))
		r.Route("/listings", func(r chi.Router) {
			r.Post("/", handlers.NewPostListingHandler(svcs).Execute)
			r.Get("/", handlers.NewGetListingsHandler(svcs).Execute)
			r.Get("/estimate", handlers.NewGetEstimateHandler(svcs).Execute)
			r.Get("/windows", handlers.NewGetWindowsHandler(svcs).Execute)
		})
	})
}
