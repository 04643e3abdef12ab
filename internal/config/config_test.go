package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polkaforge/polkaforge/backend/internal/service/wallet"
)

var configKeys = []string{
	"PORT", "SHUTDOWN_TIMEOUT_SECONDS", "CORS_ALLOWED_ORIGINS",
	"LOG_LEVEL", "LOG_PRETTY",
	"CHAT_REPLY_DELAY_MS", "CHAT_RATE_PER_SEC", "CHAT_RATE_BURST", "CHAT_SESSION_TTL_MINUTES",
	"WALLET_EXTENSION_ENABLED", "WALLET_CHAIN_ENABLED", "WALLET_RPC_URL",
	"WALLET_RPC_TIMEOUT_SECONDS", "WALLET_STORE_PATH",
	"JOBS_SUBMIT_DELAY_MS", "UPLOAD_TICK_MS", "UPLOAD_MINT_DELAY_MS",
	"DASHBOARD_CLONE_DELAY_MS", "DASHBOARD_FORK_DELAY_MS",
}

// clearEnv blanks every key; empty values read as unset except WALLET_ACCOUNTS,
// which must be truly absent and is therefore left to each test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Log.Pretty)

	assert.Equal(t, 1500*time.Millisecond, cfg.Chat.ReplyDelay)
	assert.Equal(t, 30*time.Minute, cfg.Chat.SessionTTL)
	assert.Equal(t, 5, cfg.Chat.RateBurst)

	assert.True(t, cfg.Wallet.ExtensionInstalled)
	assert.True(t, cfg.Wallet.ChainEnabled)
	assert.Equal(t, "wss://rpc.polkadot.io", cfg.Wallet.RPCURL)
	assert.Equal(t, 10*time.Second, cfg.Wallet.RPCTimeout)
	assert.Equal(t, "data/wallet.db", cfg.Wallet.StorePath)

	assert.Equal(t, 2*time.Second, cfg.Jobs.SubmitDelay)
	assert.Equal(t, 2*time.Second, cfg.Dashboard.CloneDelay)
	assert.Equal(t, 1500*time.Millisecond, cfg.Dashboard.ForkDelay)
	assert.Equal(t, 200*time.Millisecond, cfg.Upload.Tick)
	assert.Equal(t, 2*time.Second, cfg.Upload.MintDelay)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "127.0.0.1:9000")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000, https://polkaforge.dev")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_PRETTY", "true")
	t.Setenv("CHAT_REPLY_DELAY_MS", "0")
	t.Setenv("CHAT_RATE_PER_SEC", "0.5")
	t.Setenv("CHAT_RATE_BURST", "2")
	t.Setenv("WALLET_ACCOUNTS", "Alice="+wallet.DemoAddress+",Bob=5FHneW46xGXgs5mUiveU4sbTyGBzmstUspZC92UhjJM694ty")
	t.Setenv("WALLET_CHAIN_ENABLED", "false")
	t.Setenv("WALLET_RPC_TIMEOUT_SECONDS", "3")
	t.Setenv("UPLOAD_TICK_MS", "10")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, []string{"http://localhost:3000", "https://polkaforge.dev"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.Pretty)
	assert.Zero(t, cfg.Chat.ReplyDelay)
	assert.Equal(t, 0.5, cfg.Chat.RatePerSecond)
	assert.Equal(t, 2, cfg.Chat.RateBurst)
	require.Len(t, cfg.Wallet.Accounts, 2)
	assert.Equal(t, "Bob", cfg.Wallet.Accounts[1].Name)
	assert.False(t, cfg.Wallet.ChainEnabled)
	assert.Equal(t, 3*time.Second, cfg.Wallet.RPCTimeout)
	assert.Equal(t, 10*time.Millisecond, cfg.Upload.Tick)
}

func TestLoadPortWithoutColon(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
}

func TestExplicitlyEmptyAccounts(t *testing.T) {
	clearEnv(t)
	t.Setenv("WALLET_ACCOUNTS", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.Wallet.ExtensionInstalled)
	assert.Empty(t, cfg.Wallet.Accounts)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"PORT":                 "80 80",
		"LOG_PRETTY":           "sometimes",
		"CHAT_REPLY_DELAY_MS":  "-1",
		"CHAT_RATE_PER_SEC":    "0",
		"CHAT_RATE_BURST":      "zero",
		"WALLET_ACCOUNTS":      "Alice=",
		"JOBS_SUBMIT_DELAY_MS": "soon",
		"UPLOAD_TICK_MS":       "0",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadDashboardDelays(t *testing.T) {
	clearEnv(t)
	t.Setenv("DASHBOARD_CLONE_DELAY_MS", "10")
	t.Setenv("DASHBOARD_FORK_DELAY_MS", "0")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Millisecond, cfg.Dashboard.CloneDelay)
	assert.Equal(t, time.Duration(0), cfg.Dashboard.ForkDelay)

	t.Setenv("DASHBOARD_FORK_DELAY_MS", "-5")
	_, err = Load()
	assert.Error(t, err)
}
