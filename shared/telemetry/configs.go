package telemetry

// Config holds telemetry configuration for a service
type Config struct {
	ServiceName    string
	ServiceVersion string
	OTLPEndpoint   string
}

var (
	// CheckoutServiceConfig is the telemetry configuration for the checkout service
	CheckoutServiceConfig = Config{
		ServiceName:    "checkout-service",
		ServiceVersion: "1.0.0",
	}

	// DefaultConfig is used when no telemetry was injected into the context
	DefaultConfig = Config{
		ServiceName:    "unknown-service",
		ServiceVersion: "1.0.0",
	}
)

// WithOTLPEndpoint sets the OTLP endpoint for a config
func (c Config) WithOTLPEndpoint(endpoint string) Config {
	c.OTLPEndpoint = endpoint
	return c
}

// WithServiceName overrides the service name for a config
func (c Config) WithServiceName(name string) Config {
	c.ServiceName = name
	return c
}
