package config

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
	"github.com/joho/godotenv"
)

const defaultAddr = "0.0.0.0:8080"

// Config holds the complete application configuration, loadable from
// environment variables (AUCTION_ prefix), a .env file, or YAML config files.
type Config struct {
	Addr            string        `default:"0.0.0.0:8080" usage:"API server listen address"`
	LogLevel        string        `default:"info" usage:"Log level (debug, info, warn, error)"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum graceful shutdown duration"`
	Mongo           MongoConfig
	Redis           RedisConfig
	Stripe          StripeConfig
	Twilio          TwilioConfig
	Cloudinary      CloudinaryConfig
	CORS            CORSConfig
}

type MongoConfig struct {
	URI      string        `usage:"MongoDB connection URI (AUCTION_MONGO_URI or MONGO_URI)"`
	Database string        `default:"auctionmart" usage:"MongoDB database name"`
	Timeout  time.Duration `default:"10s" usage:"Connect and ping timeout"`
}

type RedisConfig struct {
	URL string `usage:"Redis URL for realtime events (AUCTION_REDIS_URL or REDIS_URL)"`
}

type StripeConfig struct {
	Secret   string `usage:"Stripe secret key (AUCTION_STRIPE_SECRET or STRIPE_SECRET)"`
	Currency string `default:"inr" usage:"Currency of payment intents"`
}

// TwilioConfig controls bid notifications. Admin phone numbers are stored
// without a country code; CountryPrefix is prepended when sending.
type TwilioConfig struct {
	AccountSID    string `usage:"Twilio account SID"`
	AuthToken     string `usage:"Twilio auth token"`
	From          string `default:"+13203346165" usage:"Sender phone number"`
	CountryPrefix string `default:"+91" usage:"Prefix added to admin phone numbers"`
}

type CloudinaryConfig struct {
	CloudName string `usage:"Cloudinary cloud name"`
	APIKey    string `usage:"Cloudinary API key"`
	APISecret string `usage:"Cloudinary API secret"`
}

type CORSConfig struct {
	Origins []string `default:"*" usage:"Allowed CORS and websocket origins"`
}

// Load reads .env (if present), then environment variables and YAML config
// files, and applies platform defaults.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "load .env")
	}

	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "AUCTION",
		SkipFlags: true,
		Files:     []string{"config.yaml", "/etc/auction/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Mongo.URI == "" {
		return errors.New("mongo URI is required: set AUCTION_MONGO_URI or MONGO_URI")
	}
	if c.Redis.URL == "" {
		return errors.New("redis URL is required: set AUCTION_REDIS_URL or REDIS_URL")
	}
	return nil
}

// applyPlatformDefaults maps the conventional unprefixed variables used by
// hosting platforms and plain .env files.
func (c *Config) applyPlatformDefaults() {
	fallback := func(dst *string, env string) {
		if *dst == "" {
			*dst = os.Getenv(env)
		}
	}
	fallback(&c.Mongo.URI, "MONGO_URI")
	fallback(&c.Redis.URL, "REDIS_URL")
	fallback(&c.Stripe.Secret, "STRIPE_SECRET")
	fallback(&c.Twilio.AccountSID, "TWILIO_ACCOUNT_SID")
	fallback(&c.Twilio.AuthToken, "TWILIO_AUTH_TOKEN")
	fallback(&c.Cloudinary.CloudName, "CLOUDINARY_CLOUD_NAME")
	fallback(&c.Cloudinary.APIKey, "CLOUDINARY_API_KEY")
	fallback(&c.Cloudinary.APISecret, "CLOUDINARY_API_SECRET")

	if port := os.Getenv("PORT"); port != "" && c.Addr == defaultAddr {
		c.Addr = "0.0.0.0:" + port
	}
}
