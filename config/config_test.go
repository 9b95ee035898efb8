package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/islishude/bitcoin-txbuilder/fee"
)

func env(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(env(nil))
	require.NoError(t, err)
	assert.Equal(t, &chaincfg.TestNet3Params, cfg.Network)
	assert.Equal(t, uint64(1000), cfg.Fee)
	assert.Equal(t, uint64(546), cfg.Dust)
	assert.Equal(t, fee.Fixed(1000), cfg.FeePolicy())
	assert.Len(t, cfg.Options(), 3)
}

func TestFromEnv(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{
		EnvNetwork:    "mainnet",
		EnvFee:        "2000",
		EnvFeeRate:    "5",
		EnvDust:       "1000",
		EnvPrivateKey: "abcd",
		EnvLogLevel:   "debug",
	}))
	require.NoError(t, err)
	assert.Equal(t, &chaincfg.MainNetParams, cfg.Network)
	assert.Equal(t, uint64(2000), cfg.Fee)
	assert.Equal(t, uint64(1000), cfg.Dust)
	assert.Equal(t, "abcd", cfg.PrivateKey)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, fee.Rate{SatPerByte: 5}, cfg.FeePolicy())
}

func TestFromEnvInvalid(t *testing.T) {
	_, err := FromEnv(env(map[string]string{EnvNetwork: "moonnet"}))
	assert.Error(t, err)

	_, err = FromEnv(env(map[string]string{EnvFee: "-1"}))
	assert.ErrorContains(t, err, EnvFee)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("TXB_NETWORK=regtest\nTXB_DUST=10\n"), 0o600))

	t.Setenv(EnvNetwork, "")
	t.Setenv(EnvDust, "")
	os.Unsetenv(EnvNetwork)
	os.Unsetenv(EnvDust)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, &chaincfg.RegressionNetParams, cfg.Network)
	assert.Equal(t, uint64(10), cfg.Dust)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.NoError(t, err)
}

func TestParseNetwork(t *testing.T) {
	for name, want := range map[string]*chaincfg.Params{
		"mainnet":  &chaincfg.MainNetParams,
		"TestNet3": &chaincfg.TestNet3Params,
		"regtest":  &chaincfg.RegressionNetParams,
		"signet":   &chaincfg.SigNetParams,
	} {
		got, err := ParseNetwork(name)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "****", MaskSecret("abc"))
	assert.Equal(t, "1e****dd", MaskSecret("1e99423add"))
}
