// Package queries contains read-only operations over the storage model.
// Query handlers bypass the aggregates and read projections straight from
// the database, per the CQRS split.
package queries

import (
	"errors"

	"roadside/internal/core/domain/model/job"
	"roadside/internal/core/domain/model/kernel"
	"roadside/internal/pkg/guard"
)

// ErrGetActiveJobsQueryIsNotConstructed is returned when using an improperly
// initialized GetActiveJobsQuery.
var ErrGetActiveJobsQueryIsNotConstructed = errors.New(
	"GetActiveJobsQuery must be created via NewGetActiveJobsQuery constructor")

// GetActiveJobsQuery retrieves every job that is not in a final state, for
// dispatcher dashboards and monitoring.
type GetActiveJobsQuery struct {
	guard guard.ConstructorGuard
}

// NewGetActiveJobsQuery creates a query for all non-final jobs.
func NewGetActiveJobsQuery() GetActiveJobsQuery {
	return GetActiveJobsQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetActiveJobsQuery) Validate() error {
	return q.guard.Validate(ErrGetActiveJobsQueryIsNotConstructed)
}

// GetActiveJobsQueryResponse is one active job row.
type GetActiveJobsQueryResponse struct {
	ID      kernel.UUID
	Role    kernel.Role
	Status  job.Status
	Pickup  *kernel.GeoPoint
	Problem string

	// BroadcastCount is the total number of dispatch-ledger entries across
	// all rounds.
	BroadcastCount int
}
