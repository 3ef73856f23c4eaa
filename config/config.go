// Package config loads the application configuration from a YAML file,
// falling back to production defaults for anything left unset.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/cyliang3/kursi-prices/internal/entity"
	"github.com/cyliang3/kursi-prices/internal/services/pricing"
)

const (
	defaultDataDir      = "data"
	defaultHistoryDir   = "data/history"
	defaultSchedule     = "0 9 * * *"
	defaultAgentAPIBase = "https://api.manus.im"
	defaultTaskTimeout  = 10 * time.Minute
	defaultPollInterval = 15 * time.Second

	// Scraped parallel-market CNY/NGN tends to run high; production pins
	// the leg manually. "auto" in the config disables the pin.
	defaultCnyNgnOverride = "216"
)

// Config is the validated application configuration.
type Config struct {
	DataDir      string
	HistoryDir   string
	Schedule     string
	AgentAPIBase string
	TaskTimeout  time.Duration
	PollInterval time.Duration

	// CnyNgnOverride pins the CNY/NGN leg when non-nil.
	CnyNgnOverride *decimal.Decimal

	Pricing pricing.Params
}

// configTmp mirrors the YAML file; decimals arrive as strings.
type configTmp struct {
	DataDir      string `yaml:"data_dir,omitempty"`
	HistoryDir   string `yaml:"history_dir,omitempty"`
	Schedule     string `yaml:"schedule,omitempty"`
	AgentAPIBase string `yaml:"agent_api_base,omitempty"`
	TaskTimeout  string `yaml:"task_timeout,omitempty"`
	PollInterval string `yaml:"poll_interval,omitempty"`

	CnyNgnOverride string `yaml:"cny_ngn_override,omitempty"`

	VATRate                 string    `yaml:"vat_rate,omitempty"`
	LogisticsCostSeaNGN     string    `yaml:"logistics_cost_sea_ngn,omitempty"`
	ColtanAirCostUSD        string    `yaml:"coltan_air_cost_usd,omitempty"`
	SpodumeneDiscount       string    `yaml:"spodumene_discount,omitempty"`
	LepidoliteDiscount      string    `yaml:"lepidolite_discount,omitempty"`
	LepidoliteOreRatio      string    `yaml:"lepidolite_ore_ratio,omitempty"`
	LepidoliteProcessingCNY string    `yaml:"lepidolite_processing_cost_cny,omitempty"`
	ClampNegativeFOB        *[]string `yaml:"clamp_negative_fob,omitempty"`
}

// Default returns the configuration used when no file is provided.
func Default() Config {
	override := decimal.RequireFromString(defaultCnyNgnOverride)
	return Config{
		DataDir:        defaultDataDir,
		HistoryDir:     defaultHistoryDir,
		Schedule:       defaultSchedule,
		AgentAPIBase:   defaultAgentAPIBase,
		TaskTimeout:    defaultTaskTimeout,
		PollInterval:   defaultPollInterval,
		CnyNgnOverride: &override,
		Pricing:        pricing.DefaultParams(),
	}
}

// Load reads and validates the YAML config at path.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var tmp configTmp
	if err := yaml.Unmarshal(raw, &tmp); err != nil {
		return Config{}, fmt.Errorf("parse yaml config: %w", err)
	}
	return fromTmp(tmp)
}

func fromTmp(tmp configTmp) (Config, error) {
	cfg := Default()

	if tmp.DataDir != "" {
		cfg.DataDir = tmp.DataDir
	}
	if tmp.HistoryDir != "" {
		cfg.HistoryDir = tmp.HistoryDir
	}
	if tmp.Schedule != "" {
		cfg.Schedule = tmp.Schedule
	}
	if tmp.AgentAPIBase != "" {
		cfg.AgentAPIBase = tmp.AgentAPIBase
	}
	if tmp.TaskTimeout != "" {
		d, err := time.ParseDuration(tmp.TaskTimeout)
		if err != nil {
			return Config{}, fmt.Errorf("incorrect 'task_timeout' param in yaml config: %w", err)
		}
		cfg.TaskTimeout = d
	}
	if tmp.PollInterval != "" {
		d, err := time.ParseDuration(tmp.PollInterval)
		if err != nil {
			return Config{}, fmt.Errorf("incorrect 'poll_interval' param in yaml config: %w", err)
		}
		cfg.PollInterval = d
	}

	switch strings.ToLower(strings.TrimSpace(tmp.CnyNgnOverride)) {
	case "":
		// keep default pin
	case "auto":
		cfg.CnyNgnOverride = nil
	default:
		override, err := decimal.NewFromString(tmp.CnyNgnOverride)
		if err != nil {
			return Config{}, fmt.Errorf("incorrect 'cny_ngn_override' param (number or \"auto\" expected): %w", err)
		}
		cfg.CnyNgnOverride = &override
	}

	if err := applyDecimal(&cfg.Pricing.VATRate, tmp.VATRate, "vat_rate"); err != nil {
		return Config{}, err
	}
	if err := applyDecimal(&cfg.Pricing.SeaLogisticsNGN, tmp.LogisticsCostSeaNGN, "logistics_cost_sea_ngn"); err != nil {
		return Config{}, err
	}
	if err := applyDecimal(&cfg.Pricing.ColtanAirCostUSD, tmp.ColtanAirCostUSD, "coltan_air_cost_usd"); err != nil {
		return Config{}, err
	}
	if err := applyDecimal(&cfg.Pricing.SpodumeneDiscount, tmp.SpodumeneDiscount, "spodumene_discount"); err != nil {
		return Config{}, err
	}
	if err := applyDecimal(&cfg.Pricing.LepidoliteDiscount, tmp.LepidoliteDiscount, "lepidolite_discount"); err != nil {
		return Config{}, err
	}
	if err := applyDecimal(&cfg.Pricing.LepidoliteOreRatio, tmp.LepidoliteOreRatio, "lepidolite_ore_ratio"); err != nil {
		return Config{}, err
	}
	if err := applyDecimal(&cfg.Pricing.LepidoliteProcessingCNY, tmp.LepidoliteProcessingCNY, "lepidolite_processing_cost_cny"); err != nil {
		return Config{}, err
	}

	if tmp.ClampNegativeFOB != nil {
		clamp := make(map[entity.Commodity]bool, len(*tmp.ClampNegativeFOB))
		for _, name := range *tmp.ClampNegativeFOB {
			clamp[entity.Commodity(name)] = true
		}
		cfg.Pricing.ClampNegativeFOB = clamp
	}

	if cfg.Pricing.VATRate.LessThanOrEqual(decimal.NewFromInt(1)) {
		return Config{}, fmt.Errorf("vat_rate must be a divisor greater than 1, got %s", cfg.Pricing.VATRate)
	}
	return cfg, nil
}

func applyDecimal(dst *decimal.Decimal, raw, name string) error {
	if raw == "" {
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return fmt.Errorf("incorrect '%s' param in yaml config (must be a decimal): %w", name, err)
	}
	*dst = d
	return nil
}
