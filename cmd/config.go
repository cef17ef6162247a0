package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/joho/godotenv"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

var ErrUnknownStorage = errors.New("storage must be memory or postgres")

// Config is loaded from PHARMACY_* environment variables, flags and an optional
// config.yaml. A .env file in the working directory is applied first when present.
type Config struct {
	HTTPPort string `default:"8080" usage:"HTTP listen port"`
	LogLevel string `default:"info" usage:"debug, info, warn or error"`
	Storage  string `default:"memory" usage:"memory or postgres"`
	Database DatabaseConfig
	Policy   PolicyConfig
	Jobs     JobsConfig
	Kafka    KafkaConfig
}

type DatabaseConfig struct {
	Host     string `default:"localhost"`
	Port     string `default:"5432"`
	User     string `default:"postgres"`
	Password string `default:""`
	Name     string `default:"pharmacy"`
	SslMode  string `default:"disable"`
}

// DSN is the libpq connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SslMode)
}

type PolicyConfig struct {
	OfferTimeout time.Duration `default:"5m" usage:"how long a courier has to accept an offer"`
	DisputeGrace time.Duration `default:"30m" usage:"how long an arrival may wait for the patient"`
}

type JobsConfig struct {
	Enabled      bool   `default:"true" usage:"run the offer expiry and dispute sweeps"`
	OfferExpiry  string `default:"@every 30s" usage:"cron schedule of the offer expiry sweep"`
	DisputeSweep string `default:"@every 1m" usage:"cron schedule of the dispute sweep"`
}

// KafkaConfig enables the Kafka transport when Brokers is set; otherwise
// notifications are written to the log.
type KafkaConfig struct {
	Brokers []string `usage:"comma separated broker addresses"`
	Topic   string   `default:"pharmacy.notifications"`
}

func LoadConfig() (Config, error) {
	return LoadConfigFrom(os.Args[1:])
}

// LoadConfigFrom is LoadConfig with explicit command line arguments.
func LoadConfigFrom(args []string) (Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix:  "PHARMACY",
		FlagPrefix: "pharmacy",
		Args:       args,
		Files:      []string{"config.yaml", "/etc/pharmacy/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.Storage != StorageMemory && c.Storage != StoragePostgres {
		return fmt.Errorf("%w, got %q", ErrUnknownStorage, c.Storage)
	}
	if c.HTTPPort == "" {
		return errors.New("http port is required")
	}
	return nil
}
