package config

import (
	"context"
	"fmt"

	"github.com/draftea/checkout-system/checkout-service/application"
	"github.com/draftea/checkout-system/checkout-service/handlers"
	"github.com/draftea/checkout-system/checkout-service/infrastructure"
	sharedinfra "github.com/draftea/checkout-system/shared/infrastructure"
	"github.com/draftea/checkout-system/shared/telemetry"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

type Dependencies struct {
	// Database
	DB *sqlx.DB

	// Repositories
	CheckoutRepository      *infrastructure.PostgresCheckoutRepository
	PaymentMethodRepository *infrastructure.PostgresPaymentMethodRepository

	// Use Cases
	CreateCheckout      *application.CreateCheckout
	GetCheckout         *application.GetCheckout
	ListPaymentMethods  *application.ListPaymentMethods
	SelectPaymentMethod *application.SelectPaymentMethod
	SyncPaymentMethods  *application.SyncPaymentMethods

	// HTTP Handlers
	CheckoutHandlers *handlers.CheckoutHandlers

	// Event Handlers
	CheckoutEventHandlers *handlers.CheckoutEventHandlers

	// Infrastructure
	EventPublisher  *sharedinfra.SNSEventPublisher
	EventSubscriber *sharedinfra.SQSEventSubscriber

	// Telemetry
	Telemetry         *telemetry.Telemetry
	TelemetryShutdown func()
}

func BuildDependencies(ctx context.Context, config *Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{}

	// Initialize telemetry first
	telConfig := telemetry.CheckoutServiceConfig.
		WithServiceName(config.ServiceName).
		WithOTLPEndpoint(config.Telemetry.OTLPEndpoint)
	deps.Telemetry = telemetry.NewTelemetry(telConfig)

	if config.Telemetry.Enabled {
		tel, telemetryShutdown, err := telemetry.InitTelemetry(ctx, telConfig)
		if err != nil {
			// Continue without exporters rather than failing
			logger.Warn("failed to initialize telemetry", zap.Error(err))
		} else {
			deps.Telemetry = tel
			deps.TelemetryShutdown = telemetryShutdown
		}
	}

	// Initialize database
	db, err := sqlx.ConnectContext(ctx, "postgres", config.GetDatabaseURL())
	if err != nil {
		deps.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	deps.DB = db

	// Initialize AWS infrastructure
	awsOpts := sharedinfra.AWSOptions{
		Region:          config.AWS.Region,
		AccessKeyID:     config.AWS.AccessKeyID,
		SecretAccessKey: config.AWS.SecretAccessKey,
		EndpointSNS:     config.AWS.EndpointSNS,
		EndpointSQS:     config.AWS.EndpointSQS,
	}

	awsConfig, err := sharedinfra.LoadAWSConfig(ctx, awsOpts)
	if err != nil {
		deps.Close()
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	deps.EventPublisher = sharedinfra.NewSNSEventPublisherFromConfig(awsConfig, awsOpts, config.AWS.SNSTopicArn)
	deps.EventSubscriber = sharedinfra.NewSQSEventSubscriberFromConfig(awsConfig, awsOpts, config.AWS.SQSQueueURL, logger,
		sharedinfra.WithWorkers(config.Subscriber.Workers),
		sharedinfra.WithVisibilityTimeout(config.Subscriber.VisibilityTimeout),
		sharedinfra.WithWaitTimeSeconds(config.Subscriber.WaitTimeSeconds),
	)

	// Initialize repositories
	deps.CheckoutRepository = infrastructure.NewPostgresCheckoutRepository(db)
	deps.PaymentMethodRepository = infrastructure.NewPostgresPaymentMethodRepository(db)

	// Initialize use cases
	deps.CreateCheckout = application.NewCreateCheckout(deps.CheckoutRepository, deps.EventPublisher)
	deps.GetCheckout = application.NewGetCheckout(deps.CheckoutRepository)
	deps.ListPaymentMethods = application.NewListPaymentMethods(deps.CheckoutRepository, deps.PaymentMethodRepository)
	deps.SelectPaymentMethod = application.NewSelectPaymentMethod(deps.CheckoutRepository, deps.PaymentMethodRepository, deps.EventPublisher)
	deps.SyncPaymentMethods = application.NewSyncPaymentMethods(deps.PaymentMethodRepository)

	// Initialize handlers
	deps.CheckoutHandlers = handlers.NewCheckoutHandlers(deps.CreateCheckout, deps.GetCheckout, deps.ListPaymentMethods, deps.SelectPaymentMethod)
	deps.CheckoutEventHandlers = handlers.NewCheckoutEventHandlers(deps.SyncPaymentMethods)

	return deps, nil
}

// Close closes all dependencies
func (d *Dependencies) Close() error {
	var errs []error

	if d.EventSubscriber != nil {
		if err := d.EventSubscriber.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close event subscriber: %w", err))
		}
	}

	if d.EventPublisher != nil {
		if err := d.EventPublisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close event publisher: %w", err))
		}
	}

	if d.DB != nil {
		if err := d.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	if d.TelemetryShutdown != nil {
		d.TelemetryShutdown()
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors closing dependencies: %v", errs)
	}

	return nil
}
