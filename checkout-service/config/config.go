package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	ServiceName string     `mapstructure:"service_name"`
	Env         string     `mapstructure:"env"`
	Port        string     `mapstructure:"port"`
	Database    Database   `mapstructure:"database"`
	AWS         AWS        `mapstructure:"aws"`
	Subscriber  Subscriber `mapstructure:"subscriber"`
	Telemetry   Telemetry  `mapstructure:"telemetry"`
	Log         Log        `mapstructure:"log"`
}

type Database struct {
	URL      string `mapstructure:"url"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
	SSLMode  string `mapstructure:"ssl_mode"`
}

type AWS struct {
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	Region          string `mapstructure:"region"`
	EndpointSNS     string `mapstructure:"endpoint_sns"`
	EndpointSQS     string `mapstructure:"endpoint_sqs"`
	SNSTopicArn     string `mapstructure:"sns_topic_arn"`
	SQSQueueURL     string `mapstructure:"sqs_queue_url"`
}

// Subscriber tunes the SQS consumer
type Subscriber struct {
	Enabled           bool  `mapstructure:"enabled"`
	Workers           int   `mapstructure:"workers"`
	VisibilityTimeout int32 `mapstructure:"visibility_timeout"`
	WaitTimeSeconds   int32 `mapstructure:"wait_time_seconds"`
}

type Telemetry struct {
	Enabled      bool   `mapstructure:"enabled"`
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
}

type Log struct {
	Level string `mapstructure:"level"`
}

// ReadConfig reads the JSON config named after ENVIRONMENT (local by
// default) from this package's directory. CHECKOUT_ prefixed variables
// override any key, e.g. CHECKOUT_DATABASE_HOST.
func ReadConfig() (*Config, error) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return nil, fmt.Errorf("unable to get current file")
	}

	v := viper.New()
	v.SetConfigName(getConfigName())
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Dir(filename))

	// Allow environment variables to override config
	v.SetEnvPrefix("CHECKOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}

func getConfigName() string {
	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		return "local"
	}
	return env
}

func setDefaults(v *viper.Viper) {
	// Service defaults
	v.SetDefault("service_name", "checkout-service")
	v.SetDefault("env", "local")
	v.SetDefault("port", "8080")

	// Database defaults
	v.SetDefault("database.url", os.Getenv("DATABASE_URL"))
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.database", "checkout_system")
	v.SetDefault("database.ssl_mode", "disable")

	// AWS defaults
	v.SetDefault("aws.access_key_id", "test")
	v.SetDefault("aws.secret_access_key", "test")
	v.SetDefault("aws.region", "us-east-1")
	v.SetDefault("aws.endpoint_sns", "")
	v.SetDefault("aws.endpoint_sqs", "")
	v.SetDefault("aws.sns_topic_arn", "arn:aws:sns:us-east-1:000000000000:checkout-events")
	v.SetDefault("aws.sqs_queue_url", "http://localhost:4566/000000000000/checkout-events")

	v.SetDefault("subscriber.enabled", true)
	v.SetDefault("subscriber.workers", 10)
	v.SetDefault("subscriber.visibility_timeout", 30)
	v.SetDefault("subscriber.wait_time_seconds", 20)

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.otlp_endpoint", "localhost:4318")

	v.SetDefault("log.level", "info")
}

// GetDatabaseURL constructs database URL from config
func (c *Config) GetDatabaseURL() string {
	if c.Database.URL != "" {
		return c.Database.URL
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}
