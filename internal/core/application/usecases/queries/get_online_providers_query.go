package queries

import (
	"errors"

	"roadside/internal/core/domain/model/kernel"
	"roadside/internal/pkg/guard"
)

// ErrGetOnlineProvidersQueryIsNotConstructed is returned when using an
// improperly initialized GetOnlineProvidersQuery.
var ErrGetOnlineProvidersQueryIsNotConstructed = errors.New(
	"GetOnlineProvidersQuery must be created via NewGetOnlineProvidersQuery constructor")

// GetOnlineProvidersQuery retrieves every approved provider currently online,
// for live fleet views.
type GetOnlineProvidersQuery struct {
	guard guard.ConstructorGuard
}

// NewGetOnlineProvidersQuery creates a query for the online fleet.
func NewGetOnlineProvidersQuery() GetOnlineProvidersQuery {
	return GetOnlineProvidersQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetOnlineProvidersQuery) Validate() error {
	return q.guard.Validate(ErrGetOnlineProvidersQueryIsNotConstructed)
}

// GetOnlineProvidersQueryResponse is one online provider row.
type GetOnlineProvidersQueryResponse struct {
	ID       kernel.UUID
	Name     string
	Role     kernel.Role
	Location *kernel.GeoPoint

	// Reachable reports whether the provider has a push token registered.
	Reachable bool
}
