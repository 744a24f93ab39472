package services

import (
	"github.com/morsel-app/morsel-restaurant/pkg/app"
	"github.com/morsel-app/morsel-restaurant/services/account/infrastructure/persistence/rowstore"
)

// Services is the application-layer service container for this bounded context.
type Services struct {
	Auth  *AuthService
	Setup *SetupService
}

// New wires the account services with infrastructure from the Application container.
func New(a *app.Application) *Services {
	store := rowstore.NewStore(a.Store)
	return &Services{
		Auth:  NewAuthService(a.Auth, store.Repos().Profiles, a.Logger),
		Setup: NewSetupService(store, a.AppState, a.Locker, a.Logger),
	}
}
