package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/morsel-app/morsel-restaurant/pkg/app"
	"github.com/morsel-app/morsel-restaurant/pkg/auth"
	"github.com/morsel-app/morsel-restaurant/pkg/httpx"
	"github.com/morsel-app/morsel-restaurant/services/account/application/handlers"
	appsvcs "github.com/morsel-app/morsel-restaurant/services/account/application/services"
)

// AccountRoutes registers auth and setup endpoints on the provided chi router.
func AccountRoutes(r chi.Router, a *app.Application) {
	svcs := appsvcs.New(a)

	r.Route("/auth", func(r chi.Router) {
		r.With(httpx.AuthRateLimit()).Post("/sign-up", handlers.NewPostSignUpHandler(svcs, a.SessionStore, a.Logger).Execute)
		r.With(httpx.AuthRateLimit()).Post("/sign-in", handlers.NewPostSignInHandler(svcs, a.SessionStore, a.Logger).Execute)
		r.Post("/sign-out", handlers.NewPostSignOutHandler(svcs, a.SessionStore, a.Logger).Execute)
		r.Get("/session", handlers.NewGetSessionHandler(svcs, a.SessionStore).Execute)
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(a.Auth, a.SessionStore, a.Logger))
		r.Use(auth.RequireProfile(a.Profiles, a.Logger))
		r.Get("/setup", handlers.NewGetSetupHandler(svcs).Execute)
		r.Post("/restaurants", handlers.NewPostRestaurantHandler(svcs).Execute)
		r.Post("/locations", handlers.NewPostLocationHandler(svcs).Execute)
	})
}
