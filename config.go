package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"sportsstore/database"
	"sportsstore/sender"
	"sportsstore/services"

	aws_pkg "sportsstore/pkg/aws"
)

const (
	BackendPostgres = "postgres"
	BackendDynamoDB = "dynamodb"
	BackendMongo    = "mongo"
	BackendMemory   = "memory"

	dbSecretName  = "sportsstore/DB_CREDENTIALS"
	jwtSecretName = "sportsstore/JWT_SECRET"
)

// Config holds all environment variables for the storefront.
type Config struct {
	Port   string
	AppEnv string

	CatalogBackend string // postgres, dynamodb, mongo or memory
	Postgres       database.PostgresConfig
	MongoURI       string
	MongoDB        string
	DynamoTable    string
	PageSize       int

	RedisURL      string // empty keeps carts in memory
	CartTTL       time.Duration
	SessionCookie string

	EventPublishers     []string // kafka, sns, sqs, rabbitmq
	KafkaBrokers        []string
	KafkaOrdersTopic    string
	OrderSNSTopicArn    string
	OrderSQSQueueURL    string
	RabbitMQURL         string
	RabbitMQOrdersQueue string

	Email services.EmailSettings

	JWTSecret           string
	TrustGatewayHeaders bool // honour X-User-Role from a fronting gateway
	AllowedOrigins      []string
	RateLimitPerMinute  int
	CloudWatchEnabled   bool
	CloudWatchNamespace string
	UseSecrets          bool
}

// LoadConfig loads environment variables into Config and validates them.
// If AWS_USE_SECRETS=true, database credentials and the JWT secret are read
// from Secrets Manager, falling back to env vars on failure.
func LoadConfig() (*Config, error) {
	email := services.DefaultEmailSettings()
	email.MailTo = getEnv("EMAIL_MAIL_TO", email.MailTo)
	email.MailFrom = getEnv("EMAIL_MAIL_FROM", email.MailFrom)
	email.UseSSL = getEnvBool("EMAIL_USE_SSL", email.UseSSL)
	email.Username = getEnv("EMAIL_USERNAME", email.Username)
	email.Password = getEnv("EMAIL_PASSWORD", email.Password)
	email.ServerName = getEnv("EMAIL_SERVER_NAME", email.ServerName)
	email.ServerPort = getEnvInt("EMAIL_SERVER_PORT", email.ServerPort)
	email.WriteAsFile = getEnvBool("EMAIL_WRITE_AS_FILE", email.WriteAsFile)
	email.FileLocation = getEnv("EMAIL_FILE_LOCATION", email.FileLocation)

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		AppEnv:         getEnv("APP_ENV", "development"),
		CatalogBackend: strings.ToLower(getEnv("CATALOG_BACKEND", BackendMemory)),
		Postgres: database.PostgresConfig{
			Host:     os.Getenv("POSTGRES_HOST"),
			Port:     getEnv("POSTGRES_PORT", "5432"),
			User:     os.Getenv("POSTGRES_USER"),
			Password: os.Getenv("POSTGRES_PASSWORD"),
			DBName:   os.Getenv("POSTGRES_DB"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
			TimeZone: getEnv("POSTGRES_TIMEZONE", "UTC"),
		},
		MongoURI:            getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:             getEnv("MONGO_DB", "sportsstore"),
		DynamoTable:         getEnv("DYNAMODB_PRODUCTS_TABLE", "Products"),
		PageSize:            getEnvInt("PAGE_SIZE", services.DefaultPageSize),
		RedisURL:            os.Getenv("REDIS_URL"),
		CartTTL:             time.Duration(getEnvInt("CART_TTL_HOURS", 72)) * time.Hour,
		SessionCookie:       getEnv("SESSION_COOKIE", "sportsstore_session"),
		EventPublishers:     splitList(strings.ToLower(os.Getenv("EVENT_PUBLISHERS"))),
		KafkaBrokers:        splitList(getEnv("KAFKA_BROKERS", "localhost:9092")),
		KafkaOrdersTopic:    getEnv("KAFKA_ORDERS_TOPIC", "orders.submitted"),
		OrderSNSTopicArn:    os.Getenv("ORDER_SNS_TOPIC_ARN"),
		OrderSQSQueueURL:    os.Getenv("ORDER_SQS_QUEUE_URL"),
		RabbitMQURL:         os.Getenv("RABBITMQ_URL"),
		RabbitMQOrdersQueue: getEnv("RABBITMQ_ORDERS_QUEUE", "orders.submitted"),
		Email:               email,
		JWTSecret:           os.Getenv("JWT_SECRET"),
		TrustGatewayHeaders: getEnvBool("TRUST_GATEWAY_HEADERS", false),
		AllowedOrigins:      splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		RateLimitPerMinute:  getEnvInt("RATE_LIMIT_PER_MINUTE", 300),
		CloudWatchEnabled:   getEnvBool("CLOUDWATCH_ENABLED", false),
		CloudWatchNamespace: getEnv("CLOUDWATCH_NAMESPACE", "SportsStore"),
		UseSecrets:          getEnvBool("AWS_USE_SECRETS", false),
	}

	if cfg.UseSecrets {
		if awsCfg, err := aws_pkg.LoadAWSConfig(context.Background()); err == nil {
			applySecrets(context.Background(), cfg, aws_pkg.NewSecretsClient(awsCfg))
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the selected backends have what they need.
func (c *Config) Validate() error {
	switch c.CatalogBackend {
	case BackendPostgres:
		if c.Postgres.Host == "" {
			return fmt.Errorf("POSTGRES_HOST is required")
		}
		if c.Postgres.User == "" {
			return fmt.Errorf("POSTGRES_USER is required")
		}
		if c.Postgres.DBName == "" {
			return fmt.Errorf("POSTGRES_DB is required")
		}
	case BackendDynamoDB, BackendMongo, BackendMemory:
	default:
		return fmt.Errorf("unknown CATALOG_BACKEND %q", c.CatalogBackend)
	}

	for _, p := range c.EventPublishers {
		switch p {
		case "kafka":
			if len(c.KafkaBrokers) == 0 {
				return fmt.Errorf("KAFKA_BROKERS is required for the kafka publisher")
			}
		case "sns":
			if c.OrderSNSTopicArn == "" {
				return fmt.Errorf("ORDER_SNS_TOPIC_ARN is required for the sns publisher")
			}
		case "sqs":
			if c.OrderSQSQueueURL == "" {
				return fmt.Errorf("ORDER_SQS_QUEUE_URL is required for the sqs publisher")
			}
		case "rabbitmq":
			if c.RabbitMQURL == "" {
				return fmt.Errorf("RABBITMQ_URL is required for the rabbitmq publisher")
			}
		default:
			return fmt.Errorf("unknown event publisher %q", p)
		}
	}

	if c.Email.WriteAsFile && c.Email.FileLocation == "" {
		return fmt.Errorf("EMAIL_FILE_LOCATION is required when EMAIL_WRITE_AS_FILE is set")
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("PAGE_SIZE must be positive")
	}
	return nil
}

// UsesAWS reports whether any configured component talks to AWS.
func (c *Config) UsesAWS() bool {
	if c.CatalogBackend == BackendDynamoDB || c.CloudWatchEnabled {
		return true
	}
	if c.Email.WriteAsFile && sender.IsS3Location(c.Email.FileLocation) {
		return true
	}
	for _, p := range c.EventPublishers {
		if p == "sns" || p == "sqs" {
			return true
		}
	}
	return false
}

type secretMapGetter interface {
	GetSecretMap(ctx context.Context, name string) (map[string]string, error)
	GetSecret(ctx context.Context, name string) (string, error)
}

func applySecrets(ctx context.Context, cfg *Config, sm secretMapGetter) {
	if creds, err := sm.GetSecretMap(ctx, dbSecretName); err == nil {
		if v := creds["username"]; v != "" {
			cfg.Postgres.User = v
		}
		if v := creds["password"]; v != "" {
			cfg.Postgres.Password = v
		}
		if v := creds["host"]; v != "" {
			cfg.Postgres.Host = v
		}
	}
	if jwt, err := sm.GetSecret(ctx, jwtSecretName); err == nil && jwt != "" {
		cfg.JWTSecret = jwt
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
