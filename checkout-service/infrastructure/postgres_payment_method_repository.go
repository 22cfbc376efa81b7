package infrastructure

import (
	"context"
	"encoding/json"

	"github.com/draftea/checkout-system/checkout-service/domain"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
)

// PostgresPaymentMethodRepository implements PaymentMethodRepository using PostgreSQL
type PostgresPaymentMethodRepository struct {
	db *sqlx.DB
}

// NewPostgresPaymentMethodRepository creates a new PostgresPaymentMethodRepository
func NewPostgresPaymentMethodRepository(db *sqlx.DB) *PostgresPaymentMethodRepository {
	return &PostgresPaymentMethodRepository{db: db}
}

// postgresPaymentMethod represents payment method in database. Gateway is
// stored as an empty string when absent so (id, gateway) can be the key.
type postgresPaymentMethod struct {
	ID                     string         `db:"id"`
	Gateway                string         `db:"gateway"`
	Method                 string         `db:"method"`
	Type                   string         `db:"type"`
	LogoURL                string         `db:"logo_url"`
	Config                 []byte         `db:"config"`
	SupportedCards         pq.StringArray `db:"supported_cards"`
	InitializationStrategy []byte         `db:"initialization_strategy"`
	ClientToken            string         `db:"client_token"`
	SortOrder              int            `db:"sort_order"`
}

// FindAll returns the catalogue in display order
func (r *PostgresPaymentMethodRepository) FindAll(ctx context.Context) ([]*domain.PaymentMethod, error) {
	query := `
		SELECT id, gateway, method, type, logo_url, config, supported_cards,
			   initialization_strategy, client_token, sort_order
		FROM payment_methods
		ORDER BY sort_order, position`

	var pgMethods []postgresPaymentMethod
	if err := r.db.SelectContext(ctx, &pgMethods, query); err != nil {
		return nil, errors.Wrap(err, "failed to find payment methods")
	}

	methods := make([]*domain.PaymentMethod, 0, len(pgMethods))
	for i := range pgMethods {
		method, err := toDomainPaymentMethod(&pgMethods[i])
		if err != nil {
			return nil, err
		}
		methods = append(methods, method)
	}

	return methods, nil
}

// ReplaceAll swaps the catalogue in one transaction. Input order is kept
// as the tie breaker for equal sort orders.
func (r *PostgresPaymentMethodRepository) ReplaceAll(ctx context.Context, methods []*domain.PaymentMethod) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM payment_methods`); err != nil {
		return errors.Wrap(err, "failed to clear payment methods")
	}

	query := `
		INSERT INTO payment_methods (
			id, gateway, method, type, logo_url, config, supported_cards,
			initialization_strategy, client_token, sort_order, position
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		)
		ON CONFLICT (id, gateway) DO NOTHING`

	for position, method := range methods {
		pgMethod, err := toPostgresPaymentMethod(method)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, query,
			pgMethod.ID, pgMethod.Gateway, pgMethod.Method, pgMethod.Type, pgMethod.LogoURL,
			pgMethod.Config, pq.Array([]string(pgMethod.SupportedCards)), pgMethod.InitializationStrategy,
			pgMethod.ClientToken, pgMethod.SortOrder, position,
		)
		if err != nil {
			return errors.Wrapf(err, "failed to insert payment method %s", method.Key())
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}

	return nil
}

// toPostgresPaymentMethod converts domain payment method to postgres model
func toPostgresPaymentMethod(method *domain.PaymentMethod) (*postgresPaymentMethod, error) {
	config, err := json.Marshal(method.Config)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal payment method config")
	}

	strategy, err := json.Marshal(method.InitializationStrategy)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal initialization strategy")
	}

	supportedCards := method.SupportedCards
	if supportedCards == nil {
		supportedCards = []string{}
	}

	return &postgresPaymentMethod{
		ID:                     method.ID,
		Gateway:                method.Gateway,
		Method:                 method.Method,
		Type:                   method.Type,
		LogoURL:                method.LogoURL,
		Config:                 config,
		SupportedCards:         pq.StringArray(supportedCards),
		InitializationStrategy: strategy,
		ClientToken:            method.ClientToken,
		SortOrder:              method.SortOrder,
	}, nil
}

// toDomainPaymentMethod converts postgres model to domain payment method
func toDomainPaymentMethod(pgMethod *postgresPaymentMethod) (*domain.PaymentMethod, error) {
	method := &domain.PaymentMethod{
		ID:             pgMethod.ID,
		Gateway:        pgMethod.Gateway,
		Method:         pgMethod.Method,
		Type:           pgMethod.Type,
		LogoURL:        pgMethod.LogoURL,
		SupportedCards: []string(pgMethod.SupportedCards),
		ClientToken:    pgMethod.ClientToken,
		SortOrder:      pgMethod.SortOrder,
	}

	if len(pgMethod.Config) > 0 {
		if err := json.Unmarshal(pgMethod.Config, &method.Config); err != nil {
			return nil, errors.Wrapf(err, "invalid config for payment method %s", method.Key())
		}
	}

	if len(pgMethod.InitializationStrategy) > 0 {
		if err := json.Unmarshal(pgMethod.InitializationStrategy, &method.InitializationStrategy); err != nil {
			return nil, errors.Wrapf(err, "invalid initialization strategy for payment method %s", method.Key())
		}
	}

	return method, nil
}
