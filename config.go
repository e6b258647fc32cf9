package tradebook

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// smtpPasswordEnv keeps the mail credential out of the config file.
const smtpPasswordEnv = "TRADEBOOK_SMTP_PASSWORD"

// SMTPConfig locates the outgoing mail server. The password is read from
// the environment, never from the file.
type SMTPConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// Password returns the SMTP password from the environment.
func (s SMTPConfig) Password() string { return os.Getenv(smtpPasswordEnv) }

// Config holds the file locations and report settings.
type Config struct {
	TradesFile    string     `yaml:"trades_file"`
	HoldingsFile  string     `yaml:"holdings_file"`
	PricesFile    string     `yaml:"prices_file"`
	ArtifactsDir  string     `yaml:"artifacts_dir"`
	Benchmark     string     `yaml:"benchmark"`
	Exclusions    []string   `yaml:"exclusions"`
	LossThreshold float64    `yaml:"loss_threshold"`
	MoveThreshold float64    `yaml:"move_threshold"`
	SMTP          SMTPConfig `yaml:"smtp"`
}

// DefaultConfig returns the settings used when no config file exists.
func DefaultConfig() Config {
	return Config{
		TradesFile:    "trades.csv",
		HoldingsFile:  "starting_positions.csv",
		PricesFile:    "prices.csv",
		ArtifactsDir:  "artifacts",
		Benchmark:     "VTI",
		LossThreshold: 0.8,
		MoveThreshold: 0.05,
	}
}

// LoadConfig reads the YAML config at 'path' over the defaults. A missing
// file yields the defaults. Environment variables from a .env file next to
// the working directory are loaded first, if one exists.
func LoadConfig(path string) (Config, error) {
	_ = godotenv.Load() // a missing .env file is fine

	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("cannot parse config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadEngine builds the engine from the files named by the config.
func LoadEngine(cfg Config) (*Engine, error) {
	trades, err := LoadTrades(cfg.TradesFile)
	if err != nil {
		return nil, err
	}
	holdings, err := LoadHoldings(cfg.HoldingsFile)
	if err != nil {
		return nil, err
	}
	series, err := LoadPrices(cfg.PricesFile)
	if err != nil {
		return nil, err
	}
	return &Engine{
		Trades:     trades,
		Holdings:   holdings,
		Series:     series,
		Exclusions: cfg.Exclusions,
	}, nil
}
