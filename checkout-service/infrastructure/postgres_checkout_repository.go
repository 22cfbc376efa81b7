package infrastructure

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/draftea/checkout-system/checkout-service/domain"
	"github.com/draftea/checkout-system/shared/events"
	"github.com/draftea/checkout-system/shared/models"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

// ErrVersionConflict is returned when a checkout was changed concurrently
var ErrVersionConflict = errors.New("checkout version conflict")

// PostgresCheckoutRepository implements CheckoutRepository using PostgreSQL.
// Pending domain events are appended to checkout_events in the same
// transaction as the checkout row.
type PostgresCheckoutRepository struct {
	db *sqlx.DB
}

// NewPostgresCheckoutRepository creates a new PostgresCheckoutRepository
func NewPostgresCheckoutRepository(db *sqlx.DB) *PostgresCheckoutRepository {
	return &PostgresCheckoutRepository{db: db}
}

// postgresCheckout represents checkout in database
type postgresCheckout struct {
	ID                   string    `db:"id"`
	IsEmbedded           bool      `db:"is_embedded"`
	IsUsingMultiShipping bool      `db:"is_using_multi_shipping"`
	PaymentProviderRadio string    `db:"payment_provider_radio"`
	CreatedAt            time.Time `db:"created_at"`
	UpdatedAt            time.Time `db:"updated_at"`
	Version              int       `db:"version"`
	OldVersion           int       `db:"old_version"`
}

// postgresCheckoutEvent represents a recorded checkout event in database
type postgresCheckoutEvent struct {
	ID            string    `db:"id"`
	CheckoutID    string    `db:"checkout_id"`
	EventType     string    `db:"event_type"`
	Version       string    `db:"version"`
	Data          []byte    `db:"data"`
	Metadata      []byte    `db:"metadata"`
	Timestamp     time.Time `db:"timestamp"`
	CorrelationID string    `db:"correlation_id"`
}

// Save inserts or updates the checkout, guarded by its version, and records
// its pending events
func (r *PostgresCheckoutRepository) Save(ctx context.Context, checkout *domain.Checkout) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	query := `
		INSERT INTO checkouts (
			id, is_embedded, is_using_multi_shipping, payment_provider_radio,
			created_at, updated_at, version
		) VALUES (
			:id, :is_embedded, :is_using_multi_shipping, :payment_provider_radio,
			:created_at, :updated_at, :version
		)
		ON CONFLICT (id) DO UPDATE
		SET payment_provider_radio = EXCLUDED.payment_provider_radio,
			updated_at = EXCLUDED.updated_at,
			version = EXCLUDED.version
		WHERE checkouts.version = :old_version`

	result, err := tx.NamedExecContext(ctx, query, r.toPostgres(checkout))
	if err != nil {
		return errors.Wrap(err, "failed to save checkout")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to read affected rows")
	}
	if affected == 0 {
		return errors.Wrapf(ErrVersionConflict, "checkout %s at version %d", checkout.ID, checkout.Version)
	}

	for _, event := range checkout.Events() {
		pgEvent, err := toPostgresEvent(checkout.ID, event)
		if err != nil {
			return errors.Wrap(err, "failed to convert event")
		}

		eventQuery := `
			INSERT INTO checkout_events (
				id, checkout_id, event_type, version, data, metadata,
				timestamp, correlation_id
			) VALUES (
				:id, :checkout_id, :event_type, :version, :data, :metadata,
				:timestamp, :correlation_id
			)`

		if _, err := tx.NamedExecContext(ctx, eventQuery, pgEvent); err != nil {
			return errors.Wrap(err, "failed to insert checkout event")
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}

	return nil
}

// FindByID finds a checkout by ID
func (r *PostgresCheckoutRepository) FindByID(ctx context.Context, id models.ID) (*domain.Checkout, error) {
	query := `
		SELECT id, is_embedded, is_using_multi_shipping, payment_provider_radio,
			   created_at, updated_at, version
		FROM checkouts
		WHERE id = $1`

	var pgCheckout postgresCheckout
	err := r.db.GetContext(ctx, &pgCheckout, query, id.String())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCheckoutNotFound
		}
		return nil, errors.Wrap(err, "failed to find checkout")
	}

	return r.toDomain(&pgCheckout)
}

// toPostgres converts domain checkout to postgres model
func (r *PostgresCheckoutRepository) toPostgres(checkout *domain.Checkout) *postgresCheckout {
	return &postgresCheckout{
		ID:                   checkout.ID.String(),
		IsEmbedded:           checkout.IsEmbedded,
		IsUsingMultiShipping: checkout.IsUsingMultiShipping,
		PaymentProviderRadio: checkout.PaymentProviderRadio,
		CreatedAt:            checkout.Timestamps.CreatedAt,
		UpdatedAt:            checkout.Timestamps.UpdatedAt,
		Version:              checkout.Version.Int(),
		OldVersion:           checkout.Version.Int() - 1, // Optimistic locking
	}
}

// toDomain converts postgres model to domain checkout
func (r *PostgresCheckoutRepository) toDomain(pgCheckout *postgresCheckout) (*domain.Checkout, error) {
	id, err := models.NewID(pgCheckout.ID)
	if err != nil {
		return nil, errors.Wrap(err, "invalid checkout ID")
	}

	return &domain.Checkout{
		ID:                   id,
		IsEmbedded:           pgCheckout.IsEmbedded,
		IsUsingMultiShipping: pgCheckout.IsUsingMultiShipping,
		PaymentProviderRadio: pgCheckout.PaymentProviderRadio,
		Timestamps: models.Timestamps{
			CreatedAt: pgCheckout.CreatedAt,
			UpdatedAt: pgCheckout.UpdatedAt,
		},
		Version: models.Version(pgCheckout.Version),
	}, nil
}

// toPostgresEvent converts a domain event to its postgres model
func toPostgresEvent(checkoutID models.ID, event *events.Event) (*postgresCheckoutEvent, error) {
	data, err := event.MarshalPayload()
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal event data")
	}

	metadata, err := json.Marshal(event.Metadata)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal event metadata")
	}

	return &postgresCheckoutEvent{
		ID:            event.ID.String(),
		CheckoutID:    checkoutID.String(),
		EventType:     event.EventType,
		Version:       event.Version,
		Data:          data,
		Metadata:      metadata,
		Timestamp:     event.Timestamp,
		CorrelationID: event.CorrelationID.String(),
	}, nil
}
