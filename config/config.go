package config

import (
	"flag"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rookgm/paygateway/internal/models"
	"os"
	"strings"
	"sync"
)

const (
	defaultRunAddress  = ":8080"
	defaultDatabaseDSN = ""
	defaultLogLevel    = "debug"
	defaultPaymentURL  = ""
	defaultStoreURL    = ""
	defaultCurrencies  = "MYR"
	defaultKafkaTopic  = "payment-events"
)

type Config struct {
	RunAddr     string `validate:"required"`
	DatabaseDSN string
	LogLevel    string `validate:"oneof=debug info warn error dpanic panic fatal"`
	// merchant credentials issued by the processor
	ClientID  string `validate:"required"`
	SecretKey string `validate:"required"`
	// processor page accepting payment requests
	PaymentURL string `validate:"required,url"`
	// storefront base URL customers are redirected back to
	StoreURL     string   `validate:"required,url"`
	Currencies   []string `validate:"min=1,dive,len=3,alpha"`
	KafkaBrokers []string
	KafkaTopic   string
}

var (
	once      sync.Once
	singleton *Config
)

// New returns new Config. It parses .env file, command line and environment variables only once.
func New() (*Config, error) {
	once.Do(func() {
		// .env is optional
		_ = godotenv.Load()

		singleton = load(flag.CommandLine, os.Args[1:])
	})

	return singleton, nil
}

func load(fs *flag.FlagSet, args []string) *Config {
	cfg := Config{}

	var currencies, brokers string

	// initialize flags
	fs.StringVar(&cfg.RunAddr, "a", defaultRunAddress, "payment gateway server address")
	fs.StringVar(&cfg.DatabaseDSN, "d", defaultDatabaseDSN, "database DSN, orders are kept in memory if empty")
	fs.StringVar(&cfg.LogLevel, "l", defaultLogLevel, "log level")
	fs.StringVar(&cfg.ClientID, "c", "", "merchant client id")
	fs.StringVar(&cfg.SecretKey, "k", "", "merchant secret key")
	fs.StringVar(&cfg.PaymentURL, "p", defaultPaymentURL, "processor payment page URL")
	fs.StringVar(&cfg.StoreURL, "s", defaultStoreURL, "storefront base URL")
	fs.StringVar(&currencies, "currencies", defaultCurrencies, "comma separated currencies accepted by processor")
	fs.StringVar(&brokers, "b", "", "comma separated Kafka brokers, events are not published if empty")
	fs.StringVar(&cfg.KafkaTopic, "t", defaultKafkaTopic, "Kafka topic for payment events")

	// errors are handled by flag set policy
	_ = fs.Parse(args)

	// if environment variable is set, then using it
	if runAddrEnv := os.Getenv("RUN_ADDRESS"); runAddrEnv != "" {
		cfg.RunAddr = runAddrEnv
	}
	if dataBaseURIEnv := os.Getenv("DATABASE_URI"); dataBaseURIEnv != "" {
		cfg.DatabaseDSN = dataBaseURIEnv
	}
	if logLevelEnv := os.Getenv("LOG_LEVEL"); logLevelEnv != "" {
		cfg.LogLevel = logLevelEnv
	}
	if clientIDEnv := os.Getenv("CLIENT_ID"); clientIDEnv != "" {
		cfg.ClientID = clientIDEnv
	}
	if secretKeyEnv := os.Getenv("SECRET_KEY"); secretKeyEnv != "" {
		cfg.SecretKey = secretKeyEnv
	}
	if paymentURLEnv := os.Getenv("PAYMENT_URL"); paymentURLEnv != "" {
		cfg.PaymentURL = paymentURLEnv
	}
	if storeURLEnv := os.Getenv("STORE_URL"); storeURLEnv != "" {
		cfg.StoreURL = storeURLEnv
	}
	if currenciesEnv := os.Getenv("ALLOWED_CURRENCIES"); currenciesEnv != "" {
		currencies = currenciesEnv
	}
	if brokersEnv := os.Getenv("KAFKA_BROKERS"); brokersEnv != "" {
		brokers = brokersEnv
	}
	if topicEnv := os.Getenv("KAFKA_TOPIC"); topicEnv != "" {
		cfg.KafkaTopic = topicEnv
	}

	cfg.Currencies = splitList(strings.ToUpper(currencies))
	cfg.KafkaBrokers = splitList(brokers)

	return &cfg
}

// Validate checks that gateway can run with the config
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

// Credentials returns merchant credentials
func (c *Config) Credentials() models.Credentials {
	return models.Credentials{
		ClientID:  c.ClientID,
		SecretKey: c.SecretKey,
	}
}

func splitList(s string) []string {
	var list []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			list = append(list, item)
		}
	}
	return list
}
