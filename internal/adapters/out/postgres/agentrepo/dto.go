// Package agentrepo persists delivery agent aggregates.
package agentrepo

import (
	"time"

	"fooddelivery/internal/core/domain/model/agent"
	"fooddelivery/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AgentDTO is the database representation of a delivery agent aggregate.
type AgentDTO struct {
	ID                  uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID              uuid.UUID  `gorm:"type:uuid;index"`
	State               string     `gorm:"type:text;index"`
	ActiveOrderID       *uuid.UUID `gorm:"type:uuid;index"`
	Earnings            decimal.Decimal `gorm:"type:numeric"`
	CompletedDeliveries int
	TotalDeliveries     int
	LastLat             *float64
	LastLon             *float64
	LastSeenAt          *time.Time
	Version             int
}

// TableName overrides GORM's default naming to use "agents".
func (AgentDTO) TableName() string {
	return "agents"
}

// fromDomain converts an agent aggregate to its database representation.
func fromDomain(aggregate *agent.Agent) AgentDTO {
	dto := AgentDTO{
		ID:                  aggregate.ID().Bytes(),
		UserID:              aggregate.UserID().Bytes(),
		State:               aggregate.State().String(),
		Earnings:            aggregate.Earnings(),
		CompletedDeliveries: aggregate.CompletedDeliveries(),
		TotalDeliveries:     aggregate.TotalDeliveries(),
		LastSeenAt:          aggregate.LastSeenAt(),
		Version:             aggregate.Version(),
	}

	if activeOrder := aggregate.ActiveOrder(); activeOrder != nil {
		raw := activeOrder.Bytes()
		dto.ActiveOrderID = &raw
	}
	if location := aggregate.LastLocation(); location != nil {
		lat, lon := location.Lat(), location.Lon()
		dto.LastLat = &lat
		dto.LastLon = &lon
	}

	return dto
}

// toDomain reconstructs the agent aggregate using RestoreAgent.
func toDomain(dto AgentDTO) (*agent.Agent, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	userID, err := kernel.UUIDFromBytes(dto.UserID[:])
	if err != nil {
		return nil, err
	}
	state, err := agent.StateFromString(dto.State)
	if err != nil {
		return nil, err
	}

	params := agent.RestoreAgentParams{
		ID:                  id,
		UserID:              userID,
		State:               state,
		Earnings:            dto.Earnings,
		CompletedDeliveries: dto.CompletedDeliveries,
		TotalDeliveries:     dto.TotalDeliveries,
		LastSeenAt:          dto.LastSeenAt,
		Version:             dto.Version,
	}

	if dto.ActiveOrderID != nil {
		activeOrder, orderErr := kernel.UUIDFromBytes((*dto.ActiveOrderID)[:])
		if orderErr != nil {
			return nil, orderErr
		}
		params.ActiveOrder = &activeOrder
	}
	if dto.LastLat != nil && dto.LastLon != nil {
		location, geoErr := kernel.NewGeoPoint(*dto.LastLat, *dto.LastLon)
		if geoErr != nil {
			return nil, geoErr
		}
		params.LastLocation = &location
	}

	return agent.RestoreAgent(params)
}
