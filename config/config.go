package config

import (
	"fmt"

	"lending/core"

	configUtil "github.com/fox-one/pkg/config"
	"github.com/shopspring/decimal"
)

const (
	defaultCacheTTL     = 10
	defaultPullInterval = 60

	defaultAccrueInterval = 300
	defaultScanInterval   = 30
)

var defaultCloseFactor = decimal.NewFromFloat(0.5)

// Load load config file, env vars prefixed with LENDING override the file
func Load(configFile string, config *core.Config) error {
	if configFile != "" {
		configUtil.AutomaticLoadEnv("LENDING")
		if err := configUtil.LoadYaml(configFile, config); err != nil {
			return err
		}
	}

	defaultProtocol(&config.Protocol)
	defaultOracle(&config.Oracle)
	defaultWorker(&config.Worker)
	return validate(config)
}

func defaultProtocol(p *core.Protocol) {
	if p.CloseFactor.IsZero() {
		p.CloseFactor = defaultCloseFactor
	}

	if p.RepayPolicy == "" {
		p.RepayPolicy = core.RepayPolicyCap
	}
}

func defaultOracle(o *core.Oracle) {
	if o.CacheTTL == 0 {
		o.CacheTTL = defaultCacheTTL
	}

	if o.PullInterval <= 0 {
		o.PullInterval = defaultPullInterval
	}
}

func defaultWorker(w *core.Worker) {
	if w.AccrueInterval <= 0 {
		w.AccrueInterval = defaultAccrueInterval
	}

	if w.ScanInterval <= 0 {
		w.ScanInterval = defaultScanInterval
	}
}

func validate(config *core.Config) error {
	if cf := config.Protocol.CloseFactor; !cf.IsPositive() || cf.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("protocol.close_factor %s not in (0, 1]: %w", cf, core.ErrInvalidConfig)
	}

	switch config.Protocol.RepayPolicy {
	case core.RepayPolicyCap, core.RepayPolicyReject:
	default:
		return fmt.Errorf("protocol.repay_policy %q: %w", config.Protocol.RepayPolicy, core.ErrInvalidConfig)
	}

	for _, m := range config.Markets {
		if _, err := m.MarketConfig(); err != nil {
			return fmt.Errorf("markets.%s: %w", m.AssetID, err)
		}
	}

	return nil
}
