package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// BillingConfig carries the jurisdiction-dependent knobs that used to be
// hard-coded: the tax rate, the invoice number template and the default
// payment term.
type BillingConfig struct {
	TaxRate               float64 `mapstructure:"taxRate"`
	InvoiceNumberTemplate string  `mapstructure:"invoiceNumberTemplate"`
	DueInDays             int     `mapstructure:"dueInDays"`
}

func DefaultBillingConfig() BillingConfig {
	return BillingConfig{
		TaxRate:               0.10,
		InvoiceNumberTemplate: "INV-{YYYY}-{SEQ3}",
		DueInDays:             14,
	}
}

// BillingConfigHolder serves the current billing config and hot-reloads it
// when billing.yml changes on disk.
type BillingConfigHolder struct {
	current atomic.Value // holds BillingConfig
}

func NewBillingConfigHolder() (*BillingConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("billing")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/lancekit")
	v.AddConfigPath(".")

	v.SetEnvPrefix("LANCEKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultBillingConfig()
	v.SetDefault("billing.taxRate", defaults.TaxRate)
	v.SetDefault("billing.invoiceNumberTemplate", defaults.InvoiceNumberTemplate)
	v.SetDefault("billing.dueInDays", defaults.DueInDays)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg BillingConfig
	if err := v.UnmarshalKey("billing", &cfg); err != nil {
		return nil, err
	}
	if err := validateBillingConfig(cfg); err != nil {
		return nil, err
	}

	holder := &BillingConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated BillingConfig
		if err := v.UnmarshalKey("billing", &updated); err != nil {
			log.Printf("[billing-config] reload failed: %v", err)
			return
		}
		if err := validateBillingConfig(updated); err != nil {
			log.Printf("[billing-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[billing-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

// NewStaticBillingConfigHolder pins a config without file watching. Test use.
func NewStaticBillingConfigHolder(cfg BillingConfig) *BillingConfigHolder {
	holder := &BillingConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func (h *BillingConfigHolder) Get() BillingConfig {
	return h.current.Load().(BillingConfig)
}

func validateBillingConfig(cfg BillingConfig) error {
	if cfg.TaxRate < 0 || cfg.TaxRate >= 1 {
		return errors.New("billing.taxRate must be in [0, 1)")
	}
	if strings.TrimSpace(cfg.InvoiceNumberTemplate) == "" {
		return errors.New("billing.invoiceNumberTemplate cannot be empty")
	}
	if cfg.DueInDays <= 0 {
		return errors.New("billing.dueInDays must be positive")
	}
	return nil
}
