// Package http exposes the dispatch engine over a JSON API. The server
// coordinates between HTTP handlers and application use cases; all business
// rules live in the command and query handlers.
package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"roadside/internal/core/application/usecases/commands"
	"roadside/internal/core/application/usecases/queries"
	"roadside/internal/core/domain/model/job"
	"roadside/internal/core/domain/model/kernel"
	"roadside/internal/core/domain/model/provider"
	"roadside/internal/metrics"
	"roadside/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server handles the HTTP API for jobs and providers.
type Server struct {
	// Command handlers
	createJobHandler         commands.CreateJobCommandHandler
	confirmBookingFeeHandler commands.ConfirmBookingFeeCommandHandler
	broadcastJobHandler      commands.BroadcastJobCommandHandler
	acceptJobOfferHandler    commands.AcceptJobOfferCommandHandler
	declineJobOfferHandler   commands.DeclineJobOfferCommandHandler
	registerProviderHandler  commands.RegisterProviderCommandHandler

	// Query handlers
	getActiveJobsHandler      queries.GetActiveJobsQueryHandler
	getOnlineProvidersHandler queries.GetOnlineProvidersQueryHandler
}

// NewServer creates a new HTTP server with the required command and query
// handlers.
func NewServer(
	createJobHandler commands.CreateJobCommandHandler,
	confirmBookingFeeHandler commands.ConfirmBookingFeeCommandHandler,
	broadcastJobHandler commands.BroadcastJobCommandHandler,
	acceptJobOfferHandler commands.AcceptJobOfferCommandHandler,
	declineJobOfferHandler commands.DeclineJobOfferCommandHandler,
	registerProviderHandler commands.RegisterProviderCommandHandler,
	getActiveJobsHandler queries.GetActiveJobsQueryHandler,
	getOnlineProvidersHandler queries.GetOnlineProvidersQueryHandler,
) *Server {
	return &Server{
		createJobHandler:          createJobHandler,
		confirmBookingFeeHandler:  confirmBookingFeeHandler,
		broadcastJobHandler:       broadcastJobHandler,
		acceptJobOfferHandler:     acceptJobOfferHandler,
		declineJobOfferHandler:    declineJobOfferHandler,
		registerProviderHandler:   registerProviderHandler,
		getActiveJobsHandler:      getActiveJobsHandler,
		getOnlineProvidersHandler: getOnlineProvidersHandler,
	}
}

// RegisterRoutes wires the API routes, the health probe and the Prometheus
// endpoint onto the given echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.Use(requestMetrics)

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := e.Group("/api/v1")
	v1.POST("/jobs", s.CreateJob)
	v1.GET("/jobs/active", s.GetActiveJobs)
	v1.POST("/jobs/:id/fee/confirm", s.ConfirmBookingFee)
	v1.POST("/jobs/:id/broadcast", s.BroadcastJob)
	v1.POST("/jobs/:id/accept", s.AcceptJobOffer)
	v1.POST("/jobs/:id/decline", s.DeclineJobOffer)
	v1.POST("/providers", s.RegisterProvider)
	v1.GET("/providers/online", s.GetOnlineProviders)
}

// requestMetrics counts every handled request by route, method and status.
func requestMetrics(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		err := next(c)
		if err != nil {
			c.Error(err)
		}
		metrics.HTTPRequestsTotal.WithLabelValues(
			c.Path(), c.Request().Method, strconv.Itoa(c.Response().Status)).Inc()
		return nil
	}
}

// Point is a coordinate pair in transport form.
type Point struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

// Error is the JSON error body.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// CreateJobRequest is the body of POST /api/v1/jobs.
type CreateJobRequest struct {
	CustomerID string `json:"customer_id"`
	Role       string `json:"role"`

	Pickup  *Point `json:"pickup,omitempty"`
	Dropoff *Point `json:"dropoff,omitempty"`

	PickupAddress  string `json:"pickup_address"`
	DropoffAddress string `json:"dropoff_address"`
	Problem        string `json:"problem"`

	TowTruckType string `json:"tow_truck_type"`
	VehicleType  string `json:"vehicle_type"`
	Category     string `json:"category"`

	BookingFee      float64  `json:"booking_fee"`
	FinalAmount     *float64 `json:"final_amount,omitempty"`
	QuotedAmount    *float64 `json:"quoted_amount,omitempty"`
	EstimatedAmount *float64 `json:"estimated_amount,omitempty"`
}

// CreateJob handles POST /api/v1/jobs - registers a new service job.
func (s *Server) CreateJob(ctx echo.Context) error {
	var req CreateJobRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	customerID, err := kernel.UUIDFromString(req.CustomerID)
	if err != nil {
		return badRequest(ctx, "Invalid customer id: "+err.Error())
	}

	role, err := kernel.ParseRole(req.Role)
	if err != nil {
		return badRequest(ctx, "Invalid role: "+err.Error())
	}

	pickup, err := pointFromRequest(req.Pickup)
	if err != nil {
		return badRequest(ctx, "Invalid pickup point: "+err.Error())
	}

	dropoff, err := pointFromRequest(req.Dropoff)
	if err != nil {
		return badRequest(ctx, "Invalid dropoff point: "+err.Error())
	}

	pricing, err := job.NewPricing(
		req.FinalAmount, req.QuotedAmount, req.EstimatedAmount, req.BookingFee)
	if err != nil {
		return badRequest(ctx, "Invalid pricing: "+err.Error())
	}

	jobID := kernel.NewUUID()
	cmd, err := commands.NewCreateJobCommand(
		jobID,
		customerID,
		role,
		pickup,
		dropoff,
		job.Details{
			PickupAddress:  req.PickupAddress,
			DropoffAddress: req.DropoffAddress,
			Problem:        req.Problem,
		},
		job.Requirements{
			TowTruckType: req.TowTruckType,
			VehicleType:  req.VehicleType,
			Category:     req.Category,
		},
		pricing,
	)
	if err != nil {
		return badRequest(ctx, "Invalid job data: "+err.Error())
	}

	if handleErr := s.createJobHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return writeError(ctx, handleErr)
	}

	return ctx.JSON(http.StatusCreated, map[string]string{"id": jobID.String()})
}

// ConfirmBookingFeeRequest is the optional body of POST
// /api/v1/jobs/:id/fee/confirm. An absent paid_at means "now".
type ConfirmBookingFeeRequest struct {
	PaidAt *time.Time `json:"paid_at,omitempty"`
}

// ConfirmBookingFee handles POST /api/v1/jobs/:id/fee/confirm - marks the
// booking fee as paid.
func (s *Server) ConfirmBookingFee(ctx echo.Context) error {
	jobID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid job id: "+err.Error())
	}

	var req ConfirmBookingFeeRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	paidAt := time.Now().UTC()
	if req.PaidAt != nil {
		paidAt = req.PaidAt.UTC()
	}

	cmd, err := commands.NewConfirmBookingFeeCommand(jobID, paidAt)
	if err != nil {
		return badRequest(ctx, "Invalid confirmation data: "+err.Error())
	}

	if handleErr := s.confirmBookingFeeHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return writeError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// BroadcastJobRequest is the optional body of POST /api/v1/jobs/:id/broadcast.
// A zero limit means the default candidate limit.
type BroadcastJobRequest struct {
	Limit int `json:"limit,omitempty"`
}

// BroadcastJobResponse reports the dispatch outcome.
type BroadcastJobResponse struct {
	Outcome        string `json:"outcome"`
	CandidateCount int    `json:"candidate_count"`
}

// BroadcastJob handles POST /api/v1/jobs/:id/broadcast - runs one dispatch
// attempt for the job. Gate rejections come back as 200 with a non-broadcast
// outcome, matching their nature as business results rather than errors.
func (s *Server) BroadcastJob(ctx echo.Context) error {
	jobID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid job id: "+err.Error())
	}

	var req BroadcastJobRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewBroadcastJobCommand(jobID, req.Limit)
	if err != nil {
		return badRequest(ctx, "Invalid broadcast data: "+err.Error())
	}

	result, err := s.broadcastJobHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, BroadcastJobResponse{
		Outcome:        result.Outcome,
		CandidateCount: result.CandidateCount,
	})
}

// OfferDecisionRequest is the body of the accept and decline endpoints.
type OfferDecisionRequest struct {
	ProviderID string `json:"provider_id"`
}

// AcceptJobOffer handles POST /api/v1/jobs/:id/accept - the provider takes
// the job.
func (s *Server) AcceptJobOffer(ctx echo.Context) error {
	jobID, providerID, err := s.bindOfferDecision(ctx)
	if err != nil {
		return nil //nolint:nilerr //response already written
	}

	cmd, err := commands.NewAcceptJobOfferCommand(jobID, providerID)
	if err != nil {
		return badRequest(ctx, "Invalid acceptance data: "+err.Error())
	}

	if handleErr := s.acceptJobOfferHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return writeError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// DeclineJobOffer handles POST /api/v1/jobs/:id/decline - the provider turns
// the offer down.
func (s *Server) DeclineJobOffer(ctx echo.Context) error {
	jobID, providerID, err := s.bindOfferDecision(ctx)
	if err != nil {
		return nil //nolint:nilerr //response already written
	}

	cmd, err := commands.NewDeclineJobOfferCommand(jobID, providerID)
	if err != nil {
		return badRequest(ctx, "Invalid decline data: "+err.Error())
	}

	if handleErr := s.declineJobOfferHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return writeError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// RegisterProviderRequest is the body of POST /api/v1/providers.
type RegisterProviderRequest struct {
	Name string `json:"name"`
	Role string `json:"role"`

	TowTruckTypes []string `json:"tow_truck_types,omitempty"`
	VehicleTypes  []string `json:"vehicle_types,omitempty"`
	Categories    []string `json:"categories,omitempty"`
}

// RegisterProvider handles POST /api/v1/providers - registers a provider
// account.
func (s *Server) RegisterProvider(ctx echo.Context) error {
	var req RegisterProviderRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	role, err := kernel.ParseRole(req.Role)
	if err != nil {
		return badRequest(ctx, "Invalid role: "+err.Error())
	}

	providerID := kernel.NewUUID()
	cmd, err := commands.NewRegisterProviderCommand(providerID, req.Name, role,
		provider.Capabilities{
			TowTruckTypes: req.TowTruckTypes,
			VehicleTypes:  req.VehicleTypes,
			Categories:    req.Categories,
		})
	if err != nil {
		return badRequest(ctx, "Invalid provider data: "+err.Error())
	}

	if handleErr := s.registerProviderHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return writeError(ctx, handleErr)
	}

	return ctx.JSON(http.StatusCreated, map[string]string{"id": providerID.String()})
}

// ActiveJobResponse is one row of GET /api/v1/jobs/active.
type ActiveJobResponse struct {
	ID             string `json:"id"`
	Role           string `json:"role"`
	Status         string `json:"status"`
	Pickup         *Point `json:"pickup,omitempty"`
	Problem        string `json:"problem,omitempty"`
	BroadcastCount int    `json:"broadcast_count"`
}

// GetActiveJobs handles GET /api/v1/jobs/active - lists every non-final job.
func (s *Server) GetActiveJobs(ctx echo.Context) error {
	query := queries.NewGetActiveJobsQuery()

	jobs, err := s.getActiveJobsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve jobs",
		})
	}

	response := make([]ActiveJobResponse, len(jobs))
	for i, row := range jobs {
		response[i] = ActiveJobResponse{
			ID:             row.ID.String(),
			Role:           row.Role.String(),
			Status:         row.Status.String(),
			Pickup:         pointToResponse(row.Pickup),
			Problem:        row.Problem,
			BroadcastCount: row.BroadcastCount,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// OnlineProviderResponse is one row of GET /api/v1/providers/online.
type OnlineProviderResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	Location  *Point `json:"location,omitempty"`
	Reachable bool   `json:"reachable"`
}

// GetOnlineProviders handles GET /api/v1/providers/online - lists the online
// fleet.
func (s *Server) GetOnlineProviders(ctx echo.Context) error {
	query := queries.NewGetOnlineProvidersQuery()

	providers, err := s.getOnlineProvidersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve providers",
		})
	}

	response := make([]OnlineProviderResponse, len(providers))
	for i, row := range providers {
		response[i] = OnlineProviderResponse{
			ID:        row.ID.String(),
			Name:      row.Name,
			Role:      row.Role.String(),
			Location:  pointToResponse(row.Location),
			Reachable: row.Reachable,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// bindOfferDecision parses the job id path param and provider_id body shared
// by the accept and decline endpoints. On failure the error response is
// already written.
func (s *Server) bindOfferDecision(ctx echo.Context) (kernel.UUID, kernel.UUID, error) {
	jobID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return kernel.UUID{}, kernel.UUID{}, badRequest(ctx, "Invalid job id: "+err.Error())
	}

	var req OfferDecisionRequest
	if err = ctx.Bind(&req); err != nil {
		return kernel.UUID{}, kernel.UUID{}, badRequest(ctx, "Invalid request body")
	}

	providerID, err := kernel.UUIDFromString(req.ProviderID)
	if err != nil {
		return kernel.UUID{}, kernel.UUID{}, badRequest(ctx, "Invalid provider id: "+err.Error())
	}

	return jobID, providerID, nil
}

// writeError maps handler errors onto HTTP statuses: unknown objects are 404,
// rejected state transitions and offers are 409, everything else 500.
func writeError(ctx echo.Context, err error) error {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return ctx.JSON(http.StatusNotFound, Error{
			Code:    http.StatusNotFound,
			Message: err.Error(),
		})
	case errors.Is(err, commands.ErrProviderWasNotOffered),
		errors.Is(err, errs.ErrValueIsInvalid):
		return ctx.JSON(http.StatusConflict, Error{
			Code:    http.StatusConflict,
			Message: err.Error(),
		})
	default:
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: err.Error(),
		})
	}
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, Error{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

func pointFromRequest(p *Point) (*kernel.GeoPoint, error) {
	if p == nil {
		return nil, nil
	}
	point, err := kernel.NewGeoPoint(p.Longitude, p.Latitude)
	if err != nil {
		return nil, err
	}
	return &point, nil
}

func pointToResponse(p *kernel.GeoPoint) *Point {
	if p == nil {
		return nil
	}
	return &Point{Longitude: p.Longitude(), Latitude: p.Latitude()}
}
