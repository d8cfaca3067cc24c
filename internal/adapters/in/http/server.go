package http

import (
	"context"
	"net/http"

	"lotflow/internal/core/application/usecases/commands"
	"lotflow/internal/core/application/usecases/queries"
	"lotflow/internal/generated/servers"

	"github.com/labstack/echo/v4"
)

type (
	CreateOrderHandler interface {
		Handle(ctx context.Context, cmd commands.CreateOrderCommand) error
	}
	ChangeOrderStatusHandler interface {
		Handle(ctx context.Context, cmd commands.ChangeOrderStatusCommand) error
	}
	StartProductionHandler interface {
		Handle(ctx context.Context, cmd commands.StartProductionCommand) (commands.StartProductionResult, error)
	}
	SubmitQualityDecisionHandler interface {
		Handle(
			ctx context.Context,
			cmd commands.SubmitQualityDecisionCommand,
		) (commands.SubmitQualityDecisionResult, error)
	}
	ReassignOverproducedUnitHandler interface {
		Handle(ctx context.Context, cmd commands.ReassignOverproducedUnitCommand) error
	}
	OrderProgressHandler interface {
		Handle(ctx context.Context, q queries.GetOrderProgressQuery) (queries.OrderProgress, error)
	}
	OverproducedUnitsHandler interface {
		Handle(ctx context.Context, q queries.GetOverproducedUnitsQuery) ([]queries.UnitSummary, error)
	}
	StationUnitsHandler interface {
		Handle(ctx context.Context, q queries.GetStationUnitsQuery) ([]queries.UnitSummary, error)
	}
	RecentNotificationsHandler interface {
		Handle(ctx context.Context, q queries.GetRecentNotificationsQuery) ([]queries.NotificationView, error)
	}
)

// Handlers groups the use cases served over HTTP.
type Handlers struct {
	CreateOrder              CreateOrderHandler
	ChangeOrderStatus        ChangeOrderStatusHandler
	StartProduction          StartProductionHandler
	SubmitQualityDecision    SubmitQualityDecisionHandler
	ReassignOverproducedUnit ReassignOverproducedUnitHandler

	OrderProgress       OrderProgressHandler
	OverproducedUnits   OverproducedUnitsHandler
	StationUnits        StationUnitsHandler
	RecentNotifications RecentNotificationsHandler
}

// Server implements servers.ServerInterface on top of the command and query handlers.
type Server struct {
	h Handlers
}

var _ servers.ServerInterface = (*Server)(nil)

func NewServer(handlers Handlers) *Server {
	return &Server{h: handlers}
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var body servers.CreateOrderJSONRequestBody
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewCreateOrderCommand(body.OrderId, body.ItemCode, body.Item, body.PlannedQuantity)
	if err != nil {
		return writeError(ctx, err)
	}
	if err := s.h.CreateOrder.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusCreated)
}

// GetOrderProgress handles GET /api/v1/orders/{orderId}.
func (s *Server) GetOrderProgress(ctx echo.Context, orderID servers.OrderId) error {
	q, err := queries.NewGetOrderProgressQuery(orderID)
	if err != nil {
		return writeError(ctx, err)
	}

	progress, err := s.h.OrderProgress.Handle(ctx.Request().Context(), q)
	if err != nil {
		return writeError(ctx, err)
	}

	response := servers.OrderProgress{
		OrderId:         progress.OrderID,
		ItemCode:        progress.ItemCode,
		Item:            progress.Item,
		PlannedQuantity: progress.PlannedQuantity,
		Status:          progress.Status,
		Stations:        make([]servers.StationProgress, len(progress.Stations)),
	}
	for i, st := range progress.Stations {
		response.Stations[i] = servers.StationProgress{
			Station:   st.Station,
			Started:   st.Started,
			InWork:    st.InWork,
			Held:      st.Held,
			Completed: st.Completed,
			Rejected:  st.Rejected,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// ChangeOrderStatus handles PATCH /api/v1/orders/{orderId}/status.
func (s *Server) ChangeOrderStatus(ctx echo.Context, orderID servers.OrderId) error {
	var body servers.ChangeOrderStatusJSONRequestBody
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewChangeOrderStatusCommand(orderID, string(body.Status))
	if err != nil {
		return writeError(ctx, err)
	}
	if err := s.h.ChangeOrderStatus.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// StartProduction handles POST /api/v1/orders/{orderId}/production.
func (s *Server) StartProduction(ctx echo.Context, orderID servers.OrderId) error {
	var body servers.StartProductionJSONRequestBody
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewStartProductionCommand(orderID, body.Station, body.Count, body.Actor, valueOf(body.Note))
	if err != nil {
		return writeError(ctx, err)
	}

	result, err := s.h.StartProduction.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, servers.ProductionStarted{
		OrderId:      result.OrderID,
		Lots:         nonNil(result.Lots),
		Overproduced: nonNil(result.Overproduced),
		Started:      result.Started,
	})
}

// GetOverproducedUnits handles GET /api/v1/units/overproduced.
func (s *Server) GetOverproducedUnits(ctx echo.Context) error {
	units, err := s.h.OverproducedUnits.Handle(ctx.Request().Context(), queries.NewGetOverproducedUnitsQuery())
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, toUnits(units))
}

// SubmitQualityDecision handles POST /api/v1/units/{lotNumber}/decisions.
func (s *Server) SubmitQualityDecision(ctx echo.Context, lotNumber servers.LotNumber) error {
	var body servers.SubmitQualityDecisionJSONRequestBody
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewSubmitQualityDecisionCommand(
		lotNumber, string(body.Decision), valueOf(body.Reasons), body.Actor, valueOf(body.Notes))
	if err != nil {
		return writeError(ctx, err)
	}

	result, err := s.h.SubmitQualityDecision.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, servers.DecisionOutcome{
		LotNumber:        result.LotNumber,
		Station:          result.Station.String(),
		Stage:            result.Stage.String(),
		Status:           result.Status.String(),
		RoutingUndefined: result.RoutingUndefined,
	})
}

// ReassignOverproducedUnit handles POST /api/v1/units/{lotNumber}/reassignment.
func (s *Server) ReassignOverproducedUnit(ctx echo.Context, lotNumber servers.LotNumber) error {
	var body servers.ReassignOverproducedUnitJSONRequestBody
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewReassignOverproducedUnitCommand(lotNumber, body.OrderId, body.Actor)
	if err != nil {
		return writeError(ctx, err)
	}
	if err := s.h.ReassignOverproducedUnit.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// GetStationUnits handles GET /api/v1/stations/{station}/units.
func (s *Server) GetStationUnits(ctx echo.Context, station string) error {
	q, err := queries.NewGetStationUnitsQuery(station)
	if err != nil {
		return writeError(ctx, err)
	}

	units, err := s.h.StationUnits.Handle(ctx.Request().Context(), q)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, toUnits(units))
}

// GetNotifications handles GET /api/v1/notifications.
func (s *Server) GetNotifications(ctx echo.Context, params servers.GetNotificationsParams) error {
	q, err := queries.NewGetRecentNotificationsQuery(string(valueOf(params.Kind)), valueOf(params.Limit))
	if err != nil {
		return writeError(ctx, err)
	}

	views, err := s.h.RecentNotifications.Handle(ctx.Request().Context(), q)
	if err != nil {
		return writeError(ctx, err)
	}

	response := make([]servers.Notification, len(views))
	for i, v := range views {
		response[i] = servers.Notification{
			Id:           v.ID,
			Kind:         v.Kind,
			Subject:      v.Subject,
			Body:         v.Body,
			RelatedLot:   optional(v.RelatedLot),
			RelatedOrder: optional(v.RelatedOrder),
			CreatedAt:    v.CreatedAt,
		}
	}
	return ctx.JSON(http.StatusOK, response)
}

func toUnits(summaries []queries.UnitSummary) []servers.Unit {
	units := make([]servers.Unit, len(summaries))
	for i, s := range summaries {
		units[i] = servers.Unit{
			LotNumber:        s.LotNumber,
			OrderId:          s.OrderID,
			ItemCode:         s.ItemCode,
			Item:             s.Item,
			OriginStation:    s.OriginStation,
			CurrentStation:   s.CurrentStation,
			LastStation:      optional(s.LastStation),
			Stage:            s.Stage,
			Status:           s.Status,
			IsOverproduction: s.IsOverproduction,
			InspectionResult: optional(s.InspectionResult),
			InspectedAt:      s.InspectedAt,
			CreatedAt:        s.CreatedAt,
		}
	}
	return units
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

// valueOf dereferences an optional request field.
func valueOf[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

// optional leaves empty response fields out of the JSON body.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
