// Package orderrepo persists order aggregates. The aggregate maps to three
// tables: the orders row itself, the frozen item snapshot in order_items,
// and the append-only status history in order_history.
package orderrepo

import (
	"encoding/json"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO is the database representation of an order aggregate.
type OrderDTO struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID       uuid.UUID `gorm:"type:uuid;index"`
	RestaurantID uuid.UUID `gorm:"type:uuid;index"`
	Address      string    `gorm:"type:text"`
	Phone        string    `gorm:"type:text"`
	Status       string    `gorm:"type:text;index"`

	Subtotal    decimal.Decimal `gorm:"type:numeric"`
	DeliveryFee decimal.Decimal `gorm:"type:numeric"`
	Tax         decimal.Decimal `gorm:"type:numeric"`
	Discount    decimal.Decimal `gorm:"type:numeric"`
	Total       decimal.Decimal `gorm:"type:numeric"`

	PaymentMethod   string `gorm:"type:text"`
	PaymentStatus   string `gorm:"type:text;index"`
	PaymentIntentID string `gorm:"type:text;index"`
	PaidAt          *time.Time
	RefundedAt      *time.Time
	RefundAmount    decimal.Decimal `gorm:"type:numeric"`

	AgentID     *uuid.UUID `gorm:"type:uuid;index"`
	AssignedAt  *time.Time
	PickedUpAt  *time.Time
	DeliveredAt *time.Time
	CurrentLat  *float64
	CurrentLon  *float64

	RatingFood     *int
	RatingDelivery *int
	RatingOverall  decimal.NullDecimal `gorm:"type:numeric"`
	RatingReview   *string             `gorm:"type:text"`
	RatedAt        *time.Time

	CancelledBy  *string `gorm:"type:text"`
	CancelReason *string `gorm:"type:text"`
	CancelledAt  *time.Time

	Version int

	Items   []OrderItemDTO    `gorm:"foreignKey:OrderID;references:ID"`
	History []OrderHistoryDTO `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName overrides GORM's default naming to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// OrderItemDTO is one line of the frozen item snapshot. Rows are written
// once at order creation and never updated.
type OrderItemDTO struct {
	OrderID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Idx            int       `gorm:"primaryKey"`
	MenuItemID     uuid.UUID `gorm:"type:uuid"`
	Name           string    `gorm:"type:text"`
	Quantity       int
	UnitPrice      decimal.Decimal `gorm:"type:numeric"`
	Customizations string          `gorm:"type:text"`
}

// TableName overrides GORM's default naming to use "order_items".
func (OrderItemDTO) TableName() string {
	return "order_items"
}

// OrderHistoryDTO is one recorded fulfillment transition. The (order_id,
// seq) key makes history appends idempotent under retried writes.
type OrderHistoryDTO struct {
	OrderID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Seq     int       `gorm:"primaryKey"`
	Status  string    `gorm:"type:text"`
	At      time.Time
	Note    string `gorm:"type:text"`
}

// TableName overrides GORM's default naming to use "order_history".
func (OrderHistoryDTO) TableName() string {
	return "order_history"
}

type customizationDTO struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// fromDomain converts an order aggregate to its database representation.
// The Version field carries the aggregate's current version unchanged; the
// repository bumps it on update.
func fromDomain(aggregate *order.Order) (OrderDTO, error) {
	dto := OrderDTO{
		ID:           aggregate.ID().Bytes(),
		UserID:       aggregate.UserID().Bytes(),
		RestaurantID: aggregate.RestaurantID().Bytes(),
		Address:      aggregate.Address(),
		Phone:        aggregate.Phone(),
		Status:       aggregate.Status().String(),

		Subtotal:    aggregate.Pricing().Subtotal(),
		DeliveryFee: aggregate.Pricing().DeliveryFee(),
		Tax:         aggregate.Pricing().Tax(),
		Discount:    aggregate.Pricing().Discount(),
		Total:       aggregate.Pricing().Total(),

		PaymentMethod:   aggregate.Payment().Method().String(),
		PaymentStatus:   aggregate.Payment().Status().String(),
		PaymentIntentID: aggregate.Payment().IntentID(),
		PaidAt:          aggregate.Payment().PaidAt(),
		RefundedAt:      aggregate.Payment().RefundedAt(),
		RefundAmount:    aggregate.Payment().RefundAmount(),

		AssignedAt:  aggregate.Delivery().AssignedAt(),
		PickedUpAt:  aggregate.Delivery().PickedUpAt(),
		DeliveredAt: aggregate.Delivery().DeliveredAt(),

		Version: aggregate.Version(),
	}

	if agentID := aggregate.Delivery().AgentID(); agentID != nil {
		raw := agentID.Bytes()
		dto.AgentID = &raw
	}
	if location := aggregate.Delivery().CurrentLocation(); location != nil {
		lat, lon := location.Lat(), location.Lon()
		dto.CurrentLat = &lat
		dto.CurrentLon = &lon
	}

	if rating := aggregate.Rating(); rating != nil {
		food, delivery := rating.Food(), rating.Delivery()
		review := rating.Review()
		at := rating.At()
		dto.RatingFood = &food
		dto.RatingDelivery = &delivery
		dto.RatingOverall = decimal.NullDecimal{Decimal: rating.Overall(), Valid: true}
		dto.RatingReview = &review
		dto.RatedAt = &at
	}

	if cancellation := aggregate.Cancellation(); cancellation != nil {
		actor := cancellation.Actor.String()
		reason := cancellation.Reason
		at := cancellation.At
		dto.CancelledBy = &actor
		dto.CancelReason = &reason
		dto.CancelledAt = &at
	}

	for idx, item := range aggregate.Items() {
		itemDTO, err := itemFromDomain(aggregate.ID().Bytes(), idx, item)
		if err != nil {
			return OrderDTO{}, err
		}
		dto.Items = append(dto.Items, itemDTO)
	}

	for seq, change := range aggregate.History() {
		dto.History = append(dto.History, OrderHistoryDTO{
			OrderID: aggregate.ID().Bytes(),
			Seq:     seq,
			Status:  change.Status.String(),
			At:      change.At,
			Note:    change.Note,
		})
	}

	return dto, nil
}

func itemFromDomain(orderID uuid.UUID, idx int, item order.Item) (OrderItemDTO, error) {
	customizations := make([]customizationDTO, 0, len(item.Customizations()))
	for _, c := range item.Customizations() {
		customizations = append(customizations, customizationDTO{Name: c.Name, Price: c.Price})
	}
	serialized, err := json.Marshal(customizations)
	if err != nil {
		return OrderItemDTO{}, err
	}

	return OrderItemDTO{
		OrderID:        orderID,
		Idx:            idx,
		MenuItemID:     item.MenuItemID().Bytes(),
		Name:           item.Name(),
		Quantity:       item.Quantity(),
		UnitPrice:      item.UnitPrice(),
		Customizations: string(serialized),
	}, nil
}

// toDomain reconstructs the complete order aggregate, including both status
// tracks, the item snapshot and the history, using RestoreOrder.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	userID, err := kernel.UUIDFromBytes(dto.UserID[:])
	if err != nil {
		return nil, err
	}
	restaurantID, err := kernel.UUIDFromBytes(dto.RestaurantID[:])
	if err != nil {
		return nil, err
	}

	status, err := order.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	items, err := itemsToDomain(dto.Items)
	if err != nil {
		return nil, err
	}

	history := make([]order.StatusChange, 0, len(dto.History))
	for _, entry := range dto.History {
		entryStatus, statusErr := order.StatusFromString(entry.Status)
		if statusErr != nil {
			return nil, statusErr
		}
		history = append(history, order.StatusChange{
			Status: entryStatus,
			At:     entry.At,
			Note:   entry.Note,
		})
	}

	pricing, err := order.RestorePricing(dto.Subtotal, dto.DeliveryFee, dto.Tax, dto.Discount, dto.Total)
	if err != nil {
		return nil, err
	}

	payment, err := paymentToDomain(dto)
	if err != nil {
		return nil, err
	}

	delivery, err := deliveryToDomain(dto)
	if err != nil {
		return nil, err
	}

	rating, err := ratingToDomain(dto)
	if err != nil {
		return nil, err
	}

	cancellation, err := cancellationToDomain(dto)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(order.RestoreOrderParams{
		ID:           id,
		UserID:       userID,
		RestaurantID: restaurantID,
		Items:        items,
		Pricing:      pricing,
		Address:      dto.Address,
		Phone:        dto.Phone,
		Status:       status,
		History:      history,
		Payment:      payment,
		Delivery:     delivery,
		Rating:       rating,
		Cancellation: cancellation,
		Version:      dto.Version,
	})
}

func itemsToDomain(dtos []OrderItemDTO) ([]order.Item, error) {
	items := make([]order.Item, 0, len(dtos))
	for _, dto := range dtos {
		menuItemID, err := kernel.UUIDFromBytes(dto.MenuItemID[:])
		if err != nil {
			return nil, err
		}

		var customizationDTOs []customizationDTO
		if dto.Customizations != "" {
			if err = json.Unmarshal([]byte(dto.Customizations), &customizationDTOs); err != nil {
				return nil, err
			}
		}
		customizations := make([]order.Customization, 0, len(customizationDTOs))
		for _, c := range customizationDTOs {
			customizations = append(customizations, order.Customization{Name: c.Name, Price: c.Price})
		}

		item, err := order.NewItem(menuItemID, dto.Name, dto.Quantity, dto.UnitPrice, customizations)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func paymentToDomain(dto OrderDTO) (order.Payment, error) {
	method, err := order.PaymentMethodFromString(dto.PaymentMethod)
	if err != nil {
		return order.Payment{}, err
	}
	status, err := order.PaymentStatusFromString(dto.PaymentStatus)
	if err != nil {
		return order.Payment{}, err
	}

	return order.RestorePayment(order.RestorePaymentParams{
		Method:       method,
		Status:       status,
		IntentID:     dto.PaymentIntentID,
		PaidAt:       dto.PaidAt,
		RefundedAt:   dto.RefundedAt,
		RefundAmount: dto.RefundAmount,
	})
}

func deliveryToDomain(dto OrderDTO) (order.Delivery, error) {
	params := order.RestoreDeliveryParams{
		AssignedAt:  dto.AssignedAt,
		PickedUpAt:  dto.PickedUpAt,
		DeliveredAt: dto.DeliveredAt,
	}

	if dto.AgentID != nil {
		agentID, err := kernel.UUIDFromBytes((*dto.AgentID)[:])
		if err != nil {
			return order.Delivery{}, err
		}
		params.AgentID = &agentID
	}
	if dto.CurrentLat != nil && dto.CurrentLon != nil {
		location, err := kernel.NewGeoPoint(*dto.CurrentLat, *dto.CurrentLon)
		if err != nil {
			return order.Delivery{}, err
		}
		params.CurrentLocation = &location
	}

	return order.RestoreDelivery(params), nil
}

func ratingToDomain(dto OrderDTO) (*order.Rating, error) {
	if dto.RatingFood == nil || dto.RatingDelivery == nil || dto.RatedAt == nil {
		return nil, nil
	}

	review := ""
	if dto.RatingReview != nil {
		review = *dto.RatingReview
	}

	rating, err := order.NewRating(*dto.RatingFood, *dto.RatingDelivery, review, *dto.RatedAt)
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

func cancellationToDomain(dto OrderDTO) (*order.Cancellation, error) {
	if dto.CancelledBy == nil || dto.CancelledAt == nil {
		return nil, nil
	}

	actor, err := order.ActorFromString(*dto.CancelledBy)
	if err != nil {
		return nil, err
	}

	reason := ""
	if dto.CancelReason != nil {
		reason = *dto.CancelReason
	}

	return &order.Cancellation{
		Reason: reason,
		Actor:  actor,
		At:     *dto.CancelledAt,
	}, nil
}
