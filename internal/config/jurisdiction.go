package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// JurisdictionConfig carries operator-maintained extensions to the built-in
// state-code table used by the free-text place-of-supply matcher.
// Aliases map 2-letter codes to the state name they should resolve to.
type JurisdictionConfig struct {
	Aliases map[string]string `mapstructure:"aliases"`
}

func DefaultJurisdictionConfig() JurisdictionConfig {
	return JurisdictionConfig{Aliases: map[string]string{}}
}

// JurisdictionConfigHolder exposes the current jurisdiction config and hot
// reloads it when the backing file changes.
type JurisdictionConfigHolder struct {
	current atomic.Value // holds JurisdictionConfig
}

func NewJurisdictionConfigHolder() (*JurisdictionConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("jurisdiction")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/ledgerline") // System config
	v.AddConfigPath(".")               // Current directory (dev mode)

	v.SetEnvPrefix("LEDGERLINE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	holder := &JurisdictionConfigHolder{}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		holder.current.Store(DefaultJurisdictionConfig())
		return holder, nil
	}

	var cfg JurisdictionConfig
	if err := v.UnmarshalKey("jurisdiction", &cfg); err != nil {
		return nil, err
	}
	cfg = normalizeJurisdictionConfig(cfg)
	if err := validateJurisdictionConfig(cfg); err != nil {
		return nil, err
	}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated JurisdictionConfig
		if err := v.UnmarshalKey("jurisdiction", &updated); err != nil {
			log.Printf("[jurisdiction-config] reload failed: %v", err)
			return
		}
		updated = normalizeJurisdictionConfig(updated)
		if err := validateJurisdictionConfig(updated); err != nil {
			log.Printf("[jurisdiction-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[jurisdiction-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

func (h *JurisdictionConfigHolder) Get() JurisdictionConfig {
	return h.current.Load().(JurisdictionConfig)
}

// NewStaticJurisdictionConfigHolder returns a holder pinned to the given
// config. Tests and embedders without a config file use this.
func NewStaticJurisdictionConfigHolder(cfg JurisdictionConfig) *JurisdictionConfigHolder {
	holder := &JurisdictionConfigHolder{}
	holder.current.Store(normalizeJurisdictionConfig(cfg))
	return holder
}

func normalizeJurisdictionConfig(cfg JurisdictionConfig) JurisdictionConfig {
	aliases := make(map[string]string, len(cfg.Aliases))
	for code, name := range cfg.Aliases {
		aliases[strings.ToLower(strings.TrimSpace(code))] = strings.ToLower(strings.TrimSpace(name))
	}
	cfg.Aliases = aliases
	return cfg
}

func validateJurisdictionConfig(cfg JurisdictionConfig) error {
	for code, name := range cfg.Aliases {
		if len(code) != 2 {
			return errors.New("jurisdiction.aliases keys must be 2-letter codes")
		}
		if name == "" {
			return errors.New("jurisdiction.aliases values cannot be empty")
		}
	}
	return nil
}
