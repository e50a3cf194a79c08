// Package http exposes the order lifecycle over a REST surface plus an
// SSE stream for live tracking. Handlers translate between wire DTOs and
// commands/queries; no business logic lives here.
package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"fooddelivery/internal/adapters/out/broadcast"
	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/application/usecases/queries"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// signatureHeader carries the provider signature on payment callbacks.
const signatureHeader = "X-Signature"

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	placeOrderHandler      commands.PlaceOrderCommandHandler
	updateStatusHandler    commands.UpdateOrderStatusCommandHandler
	assignCourierHandler   commands.AssignCourierCommandHandler
	cancelOrderHandler     commands.CancelOrderCommandHandler
	submitRatingHandler    commands.SubmitRatingCommandHandler
	createIntentHandler    commands.CreatePaymentIntentCommandHandler
	applyCallbackHandler   commands.ApplyPaymentCallbackCommandHandler
	refundPaymentHandler   commands.RefundPaymentCommandHandler
	reportLocationHandler  commands.ReportCourierLocationCommandHandler
	getOrderHandler        queries.GetOrderQueryHandler
	getActiveOrdersHandler queries.GetActiveOrdersQueryHandler
	broadcaster            *broadcast.Broadcaster
}

// NewServer creates the HTTP server with the required command and query
// handlers.
func NewServer(
	placeOrderHandler commands.PlaceOrderCommandHandler,
	updateStatusHandler commands.UpdateOrderStatusCommandHandler,
	assignCourierHandler commands.AssignCourierCommandHandler,
	cancelOrderHandler commands.CancelOrderCommandHandler,
	submitRatingHandler commands.SubmitRatingCommandHandler,
	createIntentHandler commands.CreatePaymentIntentCommandHandler,
	applyCallbackHandler commands.ApplyPaymentCallbackCommandHandler,
	refundPaymentHandler commands.RefundPaymentCommandHandler,
	reportLocationHandler commands.ReportCourierLocationCommandHandler,
	getOrderHandler queries.GetOrderQueryHandler,
	getActiveOrdersHandler queries.GetActiveOrdersQueryHandler,
	broadcaster *broadcast.Broadcaster,
) *Server {
	return &Server{
		placeOrderHandler:      placeOrderHandler,
		updateStatusHandler:    updateStatusHandler,
		assignCourierHandler:   assignCourierHandler,
		cancelOrderHandler:     cancelOrderHandler,
		submitRatingHandler:    submitRatingHandler,
		createIntentHandler:    createIntentHandler,
		applyCallbackHandler:   applyCallbackHandler,
		refundPaymentHandler:   refundPaymentHandler,
		reportLocationHandler:  reportLocationHandler,
		getOrderHandler:        getOrderHandler,
		getActiveOrdersHandler: getActiveOrdersHandler,
		broadcaster:            broadcaster,
	}
}

// RegisterRoutes attaches every endpoint to the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/orders", s.PlaceOrder)
	api.GET("/orders/active", s.GetActiveOrders)
	api.GET("/orders/:id", s.GetOrder)
	api.GET("/orders/:id/events", s.StreamOrderEvents)
	api.POST("/orders/:id/status", s.UpdateOrderStatus)
	api.POST("/orders/:id/assign", s.AssignCourier)
	api.POST("/orders/:id/cancel", s.CancelOrder)
	api.POST("/orders/:id/rating", s.SubmitRating)
	api.POST("/orders/:id/payment/intent", s.CreatePaymentIntent)
	api.POST("/orders/:id/payment/refund", s.RefundPayment)
	api.POST("/payments/:provider/callback", s.HandlePaymentCallback)
	api.POST("/agents/:id/location", s.ReportCourierLocation)

	e.GET("/health", s.Health)
}

type customizationRequest struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

type orderItemRequest struct {
	MenuItemID     string                 `json:"menu_item_id"`
	Quantity       int                    `json:"quantity"`
	Customizations []customizationRequest `json:"customizations"`
}

type placeOrderRequest struct {
	UserID        string             `json:"user_id"`
	RestaurantID  string             `json:"restaurant_id"`
	Items         []orderItemRequest `json:"items"`
	Address       string             `json:"address"`
	Phone         string             `json:"phone"`
	PaymentMethod string             `json:"payment_method"`
	Discount      decimal.Decimal    `json:"discount"`
}

type placeOrderResponse struct {
	ID string `json:"id"`
}

// PlaceOrder handles POST /api/v1/orders.
func (s *Server) PlaceOrder(ctx echo.Context) error {
	var req placeOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "invalid request body",
		})
	}

	userID, err := kernel.UUIDFromString(req.UserID)
	if err != nil {
		return writeError(ctx, err)
	}
	restaurantID, err := kernel.UUIDFromString(req.RestaurantID)
	if err != nil {
		return writeError(ctx, err)
	}
	method, err := order.PaymentMethodFromString(req.PaymentMethod)
	if err != nil {
		return writeError(ctx, err)
	}

	items := make([]commands.OrderItemRequest, 0, len(req.Items))
	for _, item := range req.Items {
		menuItemID, idErr := kernel.UUIDFromString(item.MenuItemID)
		if idErr != nil {
			return writeError(ctx, idErr)
		}
		customizations := make([]order.Customization, 0, len(item.Customizations))
		for _, c := range item.Customizations {
			customizations = append(customizations, order.Customization{Name: c.Name, Price: c.Price})
		}
		items = append(items, commands.OrderItemRequest{
			MenuItemID:     menuItemID,
			Quantity:       item.Quantity,
			Customizations: customizations,
		})
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewPlaceOrderCommand(
		orderID, userID, restaurantID,
		items,
		req.Address, req.Phone,
		method,
		req.Discount,
	)
	if err != nil {
		return writeError(ctx, err)
	}

	if err = s.placeOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, placeOrderResponse{ID: orderID.String()})
}

type updateStatusRequest struct {
	Status string `json:"status"`
	Actor  string `json:"actor"`
	Note   string `json:"note"`
}

// UpdateOrderStatus handles POST /api/v1/orders/:id/status.
func (s *Server) UpdateOrderStatus(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return writeError(ctx, err)
	}

	var req updateStatusRequest
	if err = ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "invalid request body",
		})
	}

	target, err := order.StatusFromString(req.Status)
	if err != nil {
		return writeError(ctx, err)
	}
	actor, err := order.ActorFromString(req.Actor)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewUpdateOrderStatusCommand(orderID, target, actor, req.Note)
	if err != nil {
		return writeError(ctx, err)
	}

	if err = s.updateStatusHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

type assignCourierRequest struct {
	AgentID string `json:"agent_id"`
}

// AssignCourier handles POST /api/v1/orders/:id/assign. The body names the
// courier; automatic matching is the dispatch job's business.
func (s *Server) AssignCourier(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return writeError(ctx, err)
	}

	var req assignCourierRequest
	if err = ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "invalid request body",
		})
	}

	agentID, err := kernel.UUIDFromString(req.AgentID)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewManualAssignCourierCommand(orderID, agentID)
	if err != nil {
		return writeError(ctx, err)
	}

	if err = s.assignCourierHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

type cancelOrderRequest struct {
	Actor  string `json:"actor"`
	Reason string `json:"reason"`
}

// CancelOrder handles POST /api/v1/orders/:id/cancel.
func (s *Server) CancelOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return writeError(ctx, err)
	}

	var req cancelOrderRequest
	if err = ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "invalid request body",
		})
	}

	actor, err := order.ActorFromString(req.Actor)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewCancelOrderCommand(orderID, actor, req.Reason)
	if err != nil {
		return writeError(ctx, err)
	}

	if err = s.cancelOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

type submitRatingRequest struct {
	Food     int    `json:"food"`
	Delivery int    `json:"delivery"`
	Review   string `json:"review"`
}

// SubmitRating handles POST /api/v1/orders/:id/rating.
func (s *Server) SubmitRating(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return writeError(ctx, err)
	}

	var req submitRatingRequest
	if err = ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "invalid request body",
		})
	}

	cmd, err := commands.NewSubmitRatingCommand(orderID, req.Food, req.Delivery, req.Review)
	if err != nil {
		return writeError(ctx, err)
	}

	if err = s.submitRatingHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

type createIntentResponse struct {
	IntentID string `json:"intent_id"`
}

// CreatePaymentIntent handles POST /api/v1/orders/:id/payment/intent.
// Repeating the call while an intent is live returns the same id.
func (s *Server) CreatePaymentIntent(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewCreatePaymentIntentCommand(orderID)
	if err != nil {
		return writeError(ctx, err)
	}

	intentID, err := s.createIntentHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, createIntentResponse{IntentID: intentID})
}

type refundPaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// RefundPayment handles POST /api/v1/orders/:id/payment/refund.
func (s *Server) RefundPayment(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return writeError(ctx, err)
	}

	var req refundPaymentRequest
	if err = ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "invalid request body",
		})
	}

	cmd, err := commands.NewRefundPaymentCommand(orderID, req.Amount)
	if err != nil {
		return writeError(ctx, err)
	}

	if err = s.refundPaymentHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

type callbackAck struct {
	Received bool `json:"received"`
}

// HandlePaymentCallback handles POST /api/v1/payments/:provider/callback.
// The raw body is passed through untouched: signature verification runs
// over exactly the bytes the provider signed.
func (s *Server) HandlePaymentCallback(ctx echo.Context) error {
	payload, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "invalid request body",
		})
	}

	cmd, err := commands.NewApplyPaymentCallbackCommand(
		ctx.Param("provider"),
		payload,
		ctx.Request().Header.Get(signatureHeader),
	)
	if err != nil {
		return writeError(ctx, err)
	}

	if err = s.applyCallbackHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, callbackAck{Received: true})
}

type reportLocationRequest struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// ReportCourierLocation handles POST /api/v1/agents/:id/location.
func (s *Server) ReportCourierLocation(ctx echo.Context) error {
	agentID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return writeError(ctx, err)
	}

	var req reportLocationRequest
	if err = ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "invalid request body",
		})
	}

	cmd, err := commands.NewReportCourierLocationCommand(agentID, req.Lat, req.Lon)
	if err != nil {
		return writeError(ctx, err)
	}

	if err = s.reportLocationHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

type geoPointResponse struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type orderItemResponse struct {
	MenuItemID string          `json:"menu_item_id"`
	Name       string          `json:"name"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
}

type historyEntryResponse struct {
	Status string `json:"status"`
	At     string `json:"at"`
	Note   string `json:"note,omitempty"`
}

type orderResponse struct {
	ID            string                 `json:"id"`
	UserID        string                 `json:"user_id"`
	RestaurantID  string                 `json:"restaurant_id"`
	Status        string                 `json:"status"`
	Address       string                 `json:"address"`
	Phone         string                 `json:"phone"`
	Subtotal      decimal.Decimal        `json:"subtotal"`
	DeliveryFee   decimal.Decimal        `json:"delivery_fee"`
	Tax           decimal.Decimal        `json:"tax"`
	Discount      decimal.Decimal        `json:"discount"`
	Total         decimal.Decimal        `json:"total"`
	PaymentMethod string                 `json:"payment_method"`
	PaymentStatus string                 `json:"payment_status"`
	PaidAt        *string                `json:"paid_at,omitempty"`
	AgentID       *string                `json:"agent_id,omitempty"`
	Location      *geoPointResponse      `json:"current_location,omitempty"`
	RatingOverall *decimal.Decimal       `json:"rating_overall,omitempty"`
	Items         []orderItemResponse    `json:"items"`
	History       []historyEntryResponse `json:"history"`
}

// GetOrder handles GET /api/v1/orders/:id.
func (s *Server) GetOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return writeError(ctx, err)
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return writeError(ctx, err)
	}

	view, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	resp := orderResponse{
		ID:            view.ID.String(),
		UserID:        view.UserID.String(),
		RestaurantID:  view.RestaurantID.String(),
		Status:        view.Status,
		Address:       view.Address,
		Phone:         view.Phone,
		Subtotal:      view.Subtotal,
		DeliveryFee:   view.DeliveryFee,
		Tax:           view.Tax,
		Discount:      view.Discount,
		Total:         view.Total,
		PaymentMethod: view.PaymentMethod,
		PaymentStatus: view.PaymentStatus,
		RatingOverall: view.RatingOverall,
		Items:         make([]orderItemResponse, 0, len(view.Items)),
		History:       make([]historyEntryResponse, 0, len(view.History)),
	}

	if view.PaidAt != nil {
		paidAt := view.PaidAt.Format(timeFormat)
		resp.PaidAt = &paidAt
	}
	if view.AgentID != nil {
		agentID := view.AgentID.String()
		resp.AgentID = &agentID
	}
	if view.CurrentLocation != nil {
		resp.Location = &geoPointResponse{
			Lat: view.CurrentLocation.Lat(),
			Lon: view.CurrentLocation.Lon(),
		}
	}

	for _, item := range view.Items {
		resp.Items = append(resp.Items, orderItemResponse{
			MenuItemID: item.MenuItemID.String(),
			Name:       item.Name,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
		})
	}
	for _, entry := range view.History {
		resp.History = append(resp.History, historyEntryResponse{
			Status: entry.Status,
			At:     entry.At.Format(timeFormat),
			Note:   entry.Note,
		})
	}

	return ctx.JSON(http.StatusOK, resp)
}

type activeOrderResponse struct {
	ID           string          `json:"id"`
	UserID       string          `json:"user_id"`
	RestaurantID string          `json:"restaurant_id"`
	Status       string          `json:"status"`
	Total        decimal.Decimal `json:"total"`
	AgentID      *string         `json:"agent_id,omitempty"`
	PlacedAt     string          `json:"placed_at"`
}

// GetActiveOrders handles GET /api/v1/orders/active.
func (s *Server) GetActiveOrders(ctx echo.Context) error {
	orders, err := s.getActiveOrdersHandler.Handle(ctx.Request().Context(), queries.NewGetActiveOrdersQuery())
	if err != nil {
		return writeError(ctx, err)
	}

	resp := make([]activeOrderResponse, 0, len(orders))
	for _, o := range orders {
		row := activeOrderResponse{
			ID:           o.ID.String(),
			UserID:       o.UserID.String(),
			RestaurantID: o.RestaurantID.String(),
			Status:       o.Status,
			Total:        o.Total,
			PlacedAt:     o.PlacedAt.Format(timeFormat),
		}
		if o.AgentID != nil {
			agentID := o.AgentID.String()
			row.AgentID = &agentID
		}
		resp = append(resp, row)
	}

	return ctx.JSON(http.StatusOK, resp)
}

type trackingEventResponse struct {
	OrderID  string            `json:"order_id"`
	Status   string            `json:"status,omitempty"`
	Location *geoPointResponse `json:"location,omitempty"`
	At       string            `json:"at"`
}

// StreamOrderEvents handles GET /api/v1/orders/:id/events as an SSE
// stream. The stream carries only events published after the subscription
// was made; there is no replay.
func (s *Server) StreamOrderEvents(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return writeError(ctx, err)
	}

	w := ctx.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	w.Flush()

	sub := s.broadcaster.Subscribe(orderID)
	defer s.broadcaster.Unsubscribe(sub)

	for {
		select {
		case <-ctx.Request().Context().Done():
			return nil
		case event, open := <-sub.Events():
			if !open {
				return nil
			}

			body := trackingEventResponse{
				OrderID: event.OrderID.String(),
				Status:  event.Status,
				At:      event.At.Format(timeFormat),
			}
			if event.Location != nil {
				body.Location = &geoPointResponse{
					Lat: event.Location.Lat(),
					Lon: event.Location.Lon(),
				}
			}

			payload, marshalErr := json.Marshal(body)
			if marshalErr != nil {
				continue
			}

			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Kind, payload)
			w.Flush()
		}
	}
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

const timeFormat = "2006-01-02T15:04:05.000Z07:00"
