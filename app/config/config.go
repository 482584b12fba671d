package config

import (
	"flag"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/frabrice/Emodocar-web/pkg/log"
)

const (
	defaultConfigPath = "./configs/config.yaml"

	defaultRestAddr        = ":8000"
	defaultDashboardPath   = "/dashboard"
	defaultBackendTimeout  = 30 * time.Second
	defaultPageLimit       = 5
	defaultReconcileDelay  = 2 * time.Second
	defaultVerifyCooldown  = 30 * time.Second
	defaultVehicleCacheTTL = 5 * time.Minute
	defaultNotificationTTL = 5 * time.Second
)

type Backend struct {
	BasePath string        `mapstructure:"basePath"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

func (b *Backend) Validate() error {
	if b.BasePath == "" {
		return errors.New("you must provide a base path for the marketplace backend")
	}

	return nil
}

type Wallet struct {
	Currencies     []string      `mapstructure:"currencies"`
	PageLimit      uint64        `mapstructure:"pageLimit"`
	ReconcileDelay time.Duration `mapstructure:"reconcileDelay"`
	VerifyCooldown time.Duration `mapstructure:"verifyCooldown"`
}

func (w *Wallet) Validate() error {
	if len(w.Currencies) == 0 {
		return errors.New("you must provide at least one deposit currency")
	}

	if w.PageLimit == 0 {
		return errors.New("you must provide a positive wallet page limit")
	}

	return nil
}

type Secrets struct {
	Token string `mapstructure:"token"`
}

func (s *Secrets) Validate() error {
	if s.Token == "" {
		return errors.New("you must provide a token secret in a config")
	}
	return nil
}

type Console struct {
	// BaseURL is the externally visible address of this console; the
	// payment gateway redirects the browser back to it.
	BaseURL       string `mapstructure:"baseUrl"`
	DashboardPath string `mapstructure:"dashboardPath"`
}

func (c *Console) Validate() error {
	if c.BaseURL == "" {
		return errors.New("you must provide the console base url")
	}
	return nil
}

type Caching struct {
	VehicleTTL      time.Duration `mapstructure:"vehicleTTL"`
	NotificationTTL time.Duration `mapstructure:"notificationTTL"`
}

type Config struct {
	RestAddr string     `mapstructure:"restAddr"`
	Backend  Backend    `mapstructure:"backend"`
	Wallet   Wallet     `mapstructure:"wallet"`
	Console  Console    `mapstructure:"console"`
	Caching  Caching    `mapstructure:"caching"`
	Secrets  Secrets    `mapstructure:"secrets"`
	Logging  log.Config `mapstructure:"log"`
}

func Parse() (*Config, error) {
	configPath := flag.String("config", defaultConfigPath, "configuration file path")
	flag.Parse()

	// set reasonable defaults
	viper.SetDefault("restAddr", defaultRestAddr)
	viper.SetDefault("backend.timeout", defaultBackendTimeout)
	viper.SetDefault("wallet.currencies", []string{"RWF", "USD"})
	viper.SetDefault("wallet.pageLimit", defaultPageLimit)
	viper.SetDefault("wallet.reconcileDelay", defaultReconcileDelay)
	viper.SetDefault("wallet.verifyCooldown", defaultVerifyCooldown)
	viper.SetDefault("console.dashboardPath", defaultDashboardPath)
	viper.SetDefault("caching.vehicleTTL", defaultVehicleCacheTTL)
	viper.SetDefault("caching.notificationTTL", defaultNotificationTTL)

	// read a config file
	viper.SetConfigFile(*configPath)
	if err := viper.ReadInConfig(); err != nil {
		return nil, errors.Wrap(err, "failed to read a file")
	}

	// unmarshal to a config struct
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal a config")
	}

	// ensure the backend config is valid
	if err := cfg.Backend.Validate(); err != nil {
		return nil, err
	}

	// ensure wallet settings are provided
	if err := cfg.Wallet.Validate(); err != nil {
		return nil, err
	}

	// ensure the console is reachable from the gateway
	if err := cfg.Console.Validate(); err != nil {
		return nil, err
	}

	// ensure secrets are provided
	if err := cfg.Secrets.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
