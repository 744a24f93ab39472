package services

import (
	"github.com/morsel-app/morsel-restaurant/pkg/app"
	"github.com/morsel-app/morsel-restaurant/services/listing/infrastructure/persistence/rowstore"
)

// Services is the application-layer service container for this bounded context.
// It wires domain services with their infrastructure implementations.
type Services struct {
	Publish *PublishService
	Query   *QueryService
}

// New wires all listing application services with infrastructure from the Application container.
func New(a *app.Application) *Services {
	store := rowstore.NewStore(a.Store)

	var (
		bus   EventPublisher
		cache ListingReadCache
		inval ListingInvalidator
	)
	if a.EventBus != nil {
		bus = a.EventBus
	}
	if a.ListingCache != nil {
		cache = a.ListingCache
		inval = a.ListingCache
	}

	currency := ""
	if a.Config != nil {
		currency = a.Config.Currency
	}

	return &Services{
		Publish: NewPublishService(PublishDeps{
			Store:       store,
			State:       a.AppState,
			Locker:      a.Locker,
			Idempotency: a.Idempotency,
			Bus:         bus,
			Cache:       inval,
			Metrics:     a.Metrics,
			Logger:      a.Logger,
			Location:    a.Location,
			Currency:    currency,
		}),
		Query: NewQueryService(store.Repos(), a.AppState, cache, bus, a.Logger, a.Location, currency),
	}
}
