package queries

import (
	"context"
	"database/sql"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GetOrderQueryHandler assembles the order read model straight from the
// database, bypassing the aggregate.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderQueryHandler creates a handler for single-order queries.
func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle loads the order row, its item snapshot, and its status history.
// Returns errs.ErrObjectNotFound when no order exists with the given id.
func (h GetOrderQueryHandler) Handle(
	ctx context.Context,
	query GetOrderQuery,
) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	resp, err := h.loadOrder(ctx, query.OrderID())
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	resp.Items, err = h.loadItems(ctx, query.OrderID())
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	resp.History, err = h.loadHistory(ctx, query.OrderID())
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	return resp, nil
}

func (h GetOrderQueryHandler) loadOrder(
	ctx context.Context,
	orderID kernel.UUID,
) (GetOrderQueryResponse, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			user_id,
			restaurant_id,
			status,
			address,
			phone,
			subtotal,
			delivery_fee,
			tax,
			discount,
			total,
			payment_method,
			payment_status,
			paid_at,
			agent_id,
			current_lat,
			current_lon,
			rating_overall
		FROM orders
		WHERE id = ?
	`, orderID.String()).Rows()
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return GetOrderQueryResponse{}, err
		}
		return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("order", orderID)
	}

	var resp GetOrderQueryResponse
	var id, userID, restaurantID uuid.UUID
	var agentID uuid.NullUUID
	var paidAt sql.NullTime
	var currentLat, currentLon sql.NullFloat64
	var ratingOverall decimal.NullDecimal

	err = rows.Scan(
		&id,
		&userID,
		&restaurantID,
		&resp.Status,
		&resp.Address,
		&resp.Phone,
		&resp.Subtotal,
		&resp.DeliveryFee,
		&resp.Tax,
		&resp.Discount,
		&resp.Total,
		&resp.PaymentMethod,
		&resp.PaymentStatus,
		&paidAt,
		&agentID,
		&currentLat,
		&currentLon,
		&ratingOverall,
	)
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	if resp.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if resp.UserID, err = kernel.UUIDFromBytes(userID[:]); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if resp.RestaurantID, err = kernel.UUIDFromBytes(restaurantID[:]); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if agentID.Valid {
		aid, idErr := kernel.UUIDFromBytes(agentID.UUID[:])
		if idErr != nil {
			return GetOrderQueryResponse{}, idErr
		}
		resp.AgentID = &aid
	}
	if paidAt.Valid {
		t := paidAt.Time
		resp.PaidAt = &t
	}
	if currentLat.Valid && currentLon.Valid {
		point, geoErr := kernel.NewGeoPoint(currentLat.Float64, currentLon.Float64)
		if geoErr != nil {
			return GetOrderQueryResponse{}, geoErr
		}
		resp.CurrentLocation = &point
	}
	if ratingOverall.Valid {
		overall := ratingOverall.Decimal
		resp.RatingOverall = &overall
	}

	return resp, nil
}

func (h GetOrderQueryHandler) loadItems(
	ctx context.Context,
	orderID kernel.UUID,
) ([]GetOrderQueryItem, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			menu_item_id,
			name,
			quantity,
			unit_price
		FROM order_items
		WHERE order_id = ?
		ORDER BY idx
	`, orderID.String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]GetOrderQueryItem, 0)
	for rows.Next() {
		var item GetOrderQueryItem
		var menuItemID uuid.UUID

		err = rows.Scan(
			&menuItemID,
			&item.Name,
			&item.Quantity,
			&item.UnitPrice,
		)
		if err != nil {
			return nil, err
		}

		if item.MenuItemID, err = kernel.UUIDFromBytes(menuItemID[:]); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (h GetOrderQueryHandler) loadHistory(
	ctx context.Context,
	orderID kernel.UUID,
) ([]GetOrderQueryHistoryEntry, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			status,
			at,
			note
		FROM order_history
		WHERE order_id = ?
		ORDER BY seq
	`, orderID.String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	history := make([]GetOrderQueryHistoryEntry, 0)
	for rows.Next() {
		var entry GetOrderQueryHistoryEntry

		err = rows.Scan(
			&entry.Status,
			&entry.At,
			&entry.Note,
		)
		if err != nil {
			return nil, err
		}
		history = append(history, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return history, nil
}
