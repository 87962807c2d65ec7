package conf

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   Server   `mapstructure:"server"`
	Postgres Postgres `mapstructure:"postgres"`
	Redis    Redis    `mapstructure:"redis"`
	AMQP     AMQP     `mapstructure:"amqp"`
	Auth     Auth     `mapstructure:"auth"`
	RefData  RefData  `mapstructure:"refdata"`
	Ledger   Ledger   `mapstructure:"ledger"`
}

type Server struct {
	Addr           string   `mapstructure:"addr"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	// Join attempts allowed per user per minute.
	JoinRatePerMinute int `mapstructure:"join_rate_per_minute"`
}

type Postgres struct {
	DSN string `mapstructure:"dsn"`
}

// Redis is optional; an empty Addr starts an embedded redis.
type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AMQP is optional; an empty URL disables the match result consumer.
type AMQP struct {
	URL      string `mapstructure:"url"`
	Exchange string `mapstructure:"exchange"`
}

type Auth struct {
	Secret   string        `mapstructure:"secret"`
	TokenTTL time.Duration `mapstructure:"token_ttl"`
	// Mail ids that sign up as admins and may record match results.
	Admins []string `mapstructure:"admins"`
}

type RefData struct {
	SeedFile     string        `mapstructure:"seed_file"`
	SyncInterval time.Duration `mapstructure:"sync_interval"`
}

type Ledger struct {
	Slot string `mapstructure:"slot"`
}

// Load reads conf.yaml from path. A missing file is not an error: defaults and
// POOLS_* environment variables are used instead (POOLS_REDIS_ADDR, ...).
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("conf")
	v.SetConfigType("yaml")
	v.AddConfigPath(path)

	v.SetEnvPrefix("pools")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}

	if c.Auth.Secret == "" {
		return nil, errors.New("auth.secret must be set")
	}

	return &c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173"})
	v.SetDefault("server.join_rate_per_minute", 10)
	v.SetDefault("postgres.dsn", "")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("amqp.url", "")
	v.SetDefault("amqp.exchange", "match_results")
	v.SetDefault("auth.secret", "")
	v.SetDefault("auth.token_ttl", 72*time.Hour)
	v.SetDefault("auth.admins", []string{})
	v.SetDefault("refdata.seed_file", "")
	v.SetDefault("refdata.sync_interval", 15*time.Minute)
	v.SetDefault("ledger.slot", "cricket-betting-storage")
}
