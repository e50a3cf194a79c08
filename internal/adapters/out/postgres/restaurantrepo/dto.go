// Package restaurantrepo persists restaurant aggregates.
package restaurantrepo

import (
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/restaurant"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RestaurantDTO is the database representation of a restaurant aggregate.
type RestaurantDTO struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name             string    `gorm:"type:text"`
	Lat              float64
	Lon              float64
	DeliveryFee      decimal.Decimal `gorm:"type:numeric"`
	MinOrderAmount   decimal.Decimal `gorm:"type:numeric"`
	TaxPercent       decimal.Decimal `gorm:"type:numeric"`
	EstimatedMinutes int
	RatingAvg        decimal.Decimal `gorm:"type:numeric"`
	RatingCount      int
	Version          int
}

// TableName overrides GORM's default naming to use "restaurants".
func (RestaurantDTO) TableName() string {
	return "restaurants"
}

// fromDomain converts a restaurant aggregate to its database representation.
func fromDomain(aggregate *restaurant.Restaurant) RestaurantDTO {
	return RestaurantDTO{
		ID:               aggregate.ID().Bytes(),
		Name:             aggregate.Name(),
		Lat:              aggregate.Location().Lat(),
		Lon:              aggregate.Location().Lon(),
		DeliveryFee:      aggregate.DeliveryFee(),
		MinOrderAmount:   aggregate.MinOrderAmount(),
		TaxPercent:       aggregate.TaxPercent(),
		EstimatedMinutes: aggregate.EstimatedMinutes(),
		RatingAvg:        aggregate.RatingAvg(),
		RatingCount:      aggregate.RatingCount(),
		Version:          aggregate.Version(),
	}
}

// toDomain reconstructs the restaurant aggregate using RestoreRestaurant.
func toDomain(dto RestaurantDTO) (*restaurant.Restaurant, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	location, err := kernel.NewGeoPoint(dto.Lat, dto.Lon)
	if err != nil {
		return nil, err
	}

	return restaurant.RestoreRestaurant(restaurant.RestoreRestaurantParams{
		ID:               id,
		Name:             dto.Name,
		Location:         location,
		DeliveryFee:      dto.DeliveryFee,
		MinOrderAmount:   dto.MinOrderAmount,
		TaxPercent:       dto.TaxPercent,
		EstimatedMinutes: dto.EstimatedMinutes,
		RatingAvg:        dto.RatingAvg,
		RatingCount:      dto.RatingCount,
		Version:          dto.Version,
	})
}
