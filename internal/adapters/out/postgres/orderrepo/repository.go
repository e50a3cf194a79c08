package orderrepo

import (
	"context"
	"errors"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order to the database, including its item snapshot and
// the seeded first history entry.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}
	dto.Version = aggregate.Version() + 1

	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing order. The write is a compare-and-swap on the
// version column; when a concurrent writer got there first the update
// matches zero rows and the caller must reload and retry.
//
// History rows are appended with ON CONFLICT DO NOTHING on (order_id, seq),
// which makes a retried write converge instead of duplicating entries.
// Item rows are frozen at creation and never touched here.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}
	dto.Version = aggregate.Version() + 1

	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ? AND version = ?", dto.ID, aggregate.Version()).
		Select("*").
		Omit("id").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewVersionIsInvalidErrorWithCause("order")
	}

	if len(dto.History) > 0 {
		history := dto.History
		appendResult := r.db.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&history)
		if appendResult.Error != nil {
			return appendResult.Error
		}
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an order by ID with its items and history.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	err := r.preloaded(ctx).First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByPaymentIntent retrieves the order holding the given payment intent.
func (r *GormOrderRepository) GetByPaymentIntent(ctx context.Context, intentID string) (*order.Order, error) {
	if intentID == "" {
		return nil, errs.NewValueIsRequiredError("intentID")
	}

	var dto OrderDTO
	err := r.preloaded(ctx).First(&dto, "payment_intent_id = ?", intentID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", intentID)
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetFirstPendingUnassigned retrieves the oldest dispatchable order: one
// that is pending or confirmed with no courier bound to it. Placement time
// comes from the seeded first history entry.
func (r *GormOrderRepository) GetFirstPendingUnassigned(ctx context.Context) (*order.Order, error) {
	var dto OrderDTO
	err := r.preloaded(ctx).
		Joins("JOIN order_history h ON h.order_id = orders.id AND h.seq = 0").
		Where("orders.status IN (?, ?) AND orders.agent_id IS NULL",
			order.StatusPending.String(), order.StatusConfirmed.String()).
		Order("h.at").
		First(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", "first pending unassigned")
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetRatedOveralls returns the overall score of every rated order placed
// against the given restaurant.
func (r *GormOrderRepository) GetRatedOveralls(ctx context.Context, restaurantID kernel.UUID) ([]decimal.Decimal, error) {
	if err := restaurantID.Validate(); err != nil {
		return nil, err
	}

	rows, err := r.db.WithContext(ctx).Raw(`
		SELECT rating_overall
		FROM orders
		WHERE restaurant_id = ? AND rating_overall IS NOT NULL
	`, restaurantID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	overalls := make([]decimal.Decimal, 0)
	for rows.Next() {
		var overall decimal.Decimal
		if err = rows.Scan(&overall); err != nil {
			return nil, err
		}
		overalls = append(overalls, overall)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return overalls, nil
}

func (r *GormOrderRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("idx") }).
		Preload("History", func(db *gorm.DB) *gorm.DB { return db.Order("seq") })
}
