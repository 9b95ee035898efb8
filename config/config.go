// Package config loads txbuild settings from the environment and an optional
// .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/joho/godotenv"

	"github.com/islishude/bitcoin-txbuilder/builder"
	"github.com/islishude/bitcoin-txbuilder/fee"
)

const (
	EnvNetwork    = "TXB_NETWORK"
	EnvFee        = "TXB_FEE"
	EnvFeeRate    = "TXB_FEE_RATE"
	EnvDust       = "TXB_DUST"
	EnvPrivateKey = "TXB_PRIVATE_KEY"
	EnvLogLevel   = "TXB_LOG_LEVEL"
)

// Config holds the txbuild settings. Flags override its values.
type Config struct {
	Network    *chaincfg.Params
	Fee        uint64
	FeeRate    uint64
	Dust       uint64
	PrivateKey string
	LogLevel   string
}

// Default returns the settings used when nothing is configured.
func Default() *Config {
	return &Config{
		Network:  &chaincfg.TestNet3Params,
		Fee:      fee.DefaultFee,
		Dust:     builder.DefaultDustThreshold,
		LogLevel: "info",
	}
}

// Load reads the given .env files (".env" when none) and then the process
// environment. A missing .env file is not an error; variables already set in
// the environment win over the file.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load env file: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function such as os.Getenv.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := Default()

	if v := getenv(EnvNetwork); v != "" {
		netwk, err := ParseNetwork(v)
		if err != nil {
			return nil, err
		}
		cfg.Network = netwk
	}

	for _, f := range []struct {
		env string
		dst *uint64
	}{
		{EnvFee, &cfg.Fee},
		{EnvFeeRate, &cfg.FeeRate},
		{EnvDust, &cfg.Dust},
	} {
		v := getenv(f.env)
		if v == "" {
			continue
		}
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.env, err)
		}
		*f.dst = n
	}

	cfg.PrivateKey = getenv(EnvPrivateKey)
	if v := getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	return cfg, nil
}

// FeePolicy returns the rate policy when a rate is set, otherwise a flat fee.
func (c *Config) FeePolicy() fee.Policy {
	if c.FeeRate > 0 {
		return fee.Rate{SatPerByte: c.FeeRate}
	}
	return fee.Fixed(c.Fee)
}

// Options converts the config to builder options.
func (c *Config) Options() []builder.Option {
	return []builder.Option{
		builder.WithNetwork(c.Network),
		builder.WithFeePolicy(c.FeePolicy()),
		builder.WithDustThreshold(c.Dust),
	}
}

// ParseNetwork maps a network name to its parameters.
func ParseNetwork(name string) (*chaincfg.Params, error) {
	switch strings.ToLower(name) {
	case "mainnet", "main":
		return &chaincfg.MainNetParams, nil
	case "testnet", "testnet3", "test":
		return &chaincfg.TestNet3Params, nil
	case "regtest", "regression":
		return &chaincfg.RegressionNetParams, nil
	case "signet":
		return &chaincfg.SigNetParams, nil
	}
	return nil, fmt.Errorf("unknown network %q", name)
}

// MaskSecret hides all but the edges of a secret for display.
func MaskSecret(secret string) string {
	if len(secret) <= 4 {
		return "****"
	}
	return secret[:2] + "****" + secret[len(secret)-2:]
}
