package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	configFileEnvName = "SHOP_CONFIG_FILE"
	envPrefix         = "SHOP"
)

type topics struct {
	CatalogEvents string `mapstructure:"catalog_events"`
}

type brokerTLS struct {
	CA   string `mapstructure:"ca"`
	Cert string `mapstructure:"cert"`
	Key  string `mapstructure:"key"`
}

// Enabled reports whether every file of the mutual TLS setup is set.
func (t brokerTLS) Enabled() bool {
	return t.CA != "" && t.Cert != "" && t.Key != ""
}

type broker struct {
	SeedBrokers        []string      `mapstructure:"seed_brokers"`
	SchemaRegistryURLs []string      `mapstructure:"schema_registry_urls"`
	Topics             topics        `mapstructure:"topics"`
	TLS                brokerTLS     `mapstructure:"tls"`
	PublishTimeout     time.Duration `mapstructure:"publish_timeout"`
}

// Enabled reports whether catalog events are published.
func (b broker) Enabled() bool {
	return len(b.SeedBrokers) != 0
}

type session struct {
	CookieName  string        `mapstructure:"cookie_name"`
	AuthKey     string        `mapstructure:"auth_key"`
	IdleTimeout time.Duration `mapstructure:"idle_timeout"`
	Secure      bool          `mapstructure:"secure"`
}

type image struct {
	Width   int `mapstructure:"width"`
	Height  int `mapstructure:"height"`
	Quality int `mapstructure:"quality"`
}

type Config struct {
	LogLevel           slog.Level    `mapstructure:"log_level"`
	HTTPServerAddr     string        `mapstructure:"http_server_addr"`
	HTTPRequestTimeout time.Duration `mapstructure:"http_request_timeout"`
	SQLDriver          string        `mapstructure:"sql_driver"`
	SQLDB              string        `mapstructure:"sql_db"`
	SQLAutoMigrate     bool          `mapstructure:"sql_auto_migrate"`
	BcryptCost         int           `mapstructure:"bcrypt_cost"`
	Session            session       `mapstructure:"session"`
	Image              image         `mapstructure:"image"`
	Broker             broker        `mapstructure:"broker"`
}

var defaults = map[string]any{
	"log_level":                    "INFO",
	"http_server_addr":             ":8000",
	"http_request_timeout":         "5s",
	"sql_driver":                   "sqlite3",
	"sql_db":                       "shop.db",
	"sql_auto_migrate":             true,
	"bcrypt_cost":                  10,
	"session.cookie_name":          "storefront_session",
	"session.auth_key":             "",
	"session.idle_timeout":         "30m",
	"session.secure":               false,
	"image.width":                  600,
	"image.height":                 600,
	"image.quality":                90,
	"broker.seed_brokers":          []string{},
	"broker.schema_registry_urls":  []string{},
	"broker.topics.catalog_events": "catalog_events",
	"broker.publish_timeout":       "2s",
	"broker.tls.ca":                "",
	"broker.tls.cert":              "",
	"broker.tls.key":               "",
}

// Load reads the config file named by --config or SHOP_CONFIG_FILE.
// Every key can be overridden by a SHOP_ prefixed env var,
// e.g. SHOP_SESSION_AUTH_KEY.
func Load() Config {
	cfg, err := LoadFile(getConfigFilepath())
	if err != nil {
		die(err)
	}
	return cfg
}

// LoadFile reads path. An empty path means defaults and env only.
func LoadFile(path string) (Config, error) {
	const op = "config.LoadFile"

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("%s: %w", op, err)
		}
	}

	var cfg Config
	err := v.UnmarshalExact(&cfg, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.TextUnmarshallerHookFunc(),
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", op, err)
	}

	return cfg, nil
}

func getConfigFilepath() string {
	cmdLine := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	cmdLine.ParseErrorsWhitelist.UnknownFlags = true
	arg := cmdLine.String("config", "", "config file")
	_ = cmdLine.Parse(os.Args[1:])
	env, ok := os.LookupEnv(configFileEnvName)
	if ok {
		return env
	}
	return *arg
}

func die(err error) {
	fmt.Printf("failed to load config file: %v\n", err)
	os.Exit(2)
}

func (c Config) Print() {
	tamplate := `
	General:
	LogLevel=%q
	HTTPServerAddr=%q
	HTTPRequestTimeout=%s
	SQLDriver=%q
	SQLDB=%q
	SQLAutoMigrate=%t

	Session:
	CookieName=%q
	AuthKey=%q
	IdleTimeout=%s

	Image:
	Size=%dx%d
	Quality=%d

	BrokerConfig:
	SeedBrokers=%q
	SchemaRegistryURLs=%q
	TLS=%t
	PublishTimeout=%s
	Topics:
		CatalogEvents=%q

`
	fmt.Println("Loaded config:")
	fmt.Printf(
		strings.TrimLeft(tamplate, "\n"),
		c.LogLevel,
		c.HTTPServerAddr,
		c.HTTPRequestTimeout,
		c.SQLDriver,
		maskDSN(c.SQLDB),
		c.SQLAutoMigrate,
		c.Session.CookieName,
		mask(c.Session.AuthKey),
		c.Session.IdleTimeout,
		c.Image.Width, c.Image.Height,
		c.Image.Quality,
		c.Broker.SeedBrokers,
		c.Broker.SchemaRegistryURLs,
		c.Broker.TLS.Enabled(),
		c.Broker.PublishTimeout,
		c.Broker.Topics.CatalogEvents,
	)
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return "***"
}

// maskDSN hides the password of a URL dsn.
func maskDSN(dsn string) string {
	scheme, rest, ok := strings.Cut(dsn, "://")
	if !ok {
		return dsn
	}
	userinfo, host, ok := strings.Cut(rest, "@")
	if !ok {
		return dsn
	}
	user, _, hasPassword := strings.Cut(userinfo, ":")
	if !hasPassword {
		return dsn
	}
	return scheme + "://" + user + ":***@" + host
}
