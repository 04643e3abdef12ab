package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/polkaforge/polkaforge/backend/internal/service/chat"
	"github.com/polkaforge/polkaforge/backend/internal/service/dashboard"
	"github.com/polkaforge/polkaforge/backend/internal/service/upload"
	"github.com/polkaforge/polkaforge/backend/internal/service/wallet"
	"github.com/polkaforge/polkaforge/backend/internal/service/wallet/substrate"
)

// Config aggregates the whole service configuration.
type Config struct {
	Server    ServerConfig
	Log       LogConfig
	Chat      ChatConfig
	Wallet    WalletConfig
	Jobs      JobsConfig
	Upload    upload.Config
	Dashboard dashboard.Config
}

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	log, err := loadLogConfig()
	if err != nil {
		return nil, err
	}

	chatCfg, err := loadChatConfig()
	if err != nil {
		return nil, err
	}

	walletCfg, err := loadWalletConfig()
	if err != nil {
		return nil, err
	}

	jobs, err := loadJobsConfig()
	if err != nil {
		return nil, err
	}

	uploadCfg, err := loadUploadConfig()
	if err != nil {
		return nil, err
	}

	dashboardCfg, err := loadDashboardConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:    server,
		Log:       log,
		Chat:      chatCfg,
		Wallet:    walletCfg,
		Jobs:      jobs,
		Upload:    uploadCfg,
		Dashboard: dashboardCfg,
	}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr            string
	AllowedOrigins  []string
	ShutdownTimeout time.Duration
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	var addr string
	switch {
	case strings.Contains(port, ":"):
		// ":8080" and "127.0.0.1:8080" are used as given.
		addr = port
	case strings.Contains(port, " "):
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	default:
		addr = ":" + port
	}

	shutdown, err := parseDurationEnv("SHUTDOWN_TIMEOUT_SECONDS", time.Second, 10*time.Second)
	if err != nil {
		return ServerConfig{}, err
	}

	return ServerConfig{
		Addr:            addr,
		AllowedOrigins:  splitList(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "*")),
		ShutdownTimeout: shutdown,
	}, nil
}

// LogConfig describes the logger.
type LogConfig struct {
	Level  string
	Pretty bool
}

func loadLogConfig() (LogConfig, error) {
	pretty, err := parseBoolEnv("LOG_PRETTY", false)
	if err != nil {
		return LogConfig{}, err
	}
	return LogConfig{
		Level:  getEnvOrDefault("LOG_LEVEL", "info"),
		Pretty: pretty,
	}, nil
}

// ChatConfig describes the simulated assistant.
type ChatConfig struct {
	chat.Config
	JanitorInterval time.Duration
}

func loadChatConfig() (ChatConfig, error) {
	cfg := chat.DefaultConfig()

	delay, err := parseDurationEnv("CHAT_REPLY_DELAY_MS", time.Millisecond, cfg.ReplyDelay)
	if err != nil {
		return ChatConfig{}, err
	}
	cfg.ReplyDelay = delay

	rate, err := parseOptionalFloatEnv("CHAT_RATE_PER_SEC")
	if err != nil {
		return ChatConfig{}, err
	}
	if rate != nil {
		if *rate <= 0 {
			return ChatConfig{}, fmt.Errorf("CHAT_RATE_PER_SEC must be positive, got %v", *rate)
		}
		cfg.RatePerSecond = *rate
	}

	burst, err := parseOptionalIntEnv("CHAT_RATE_BURST")
	if err != nil {
		return ChatConfig{}, err
	}
	if burst != nil {
		if *burst < 1 {
			return ChatConfig{}, fmt.Errorf("CHAT_RATE_BURST must be at least 1, got %d", *burst)
		}
		cfg.RateBurst = *burst
	}

	ttl, err := parseDurationEnv("CHAT_SESSION_TTL_MINUTES", time.Minute, cfg.SessionTTL)
	if err != nil {
		return ChatConfig{}, err
	}
	cfg.SessionTTL = ttl

	return ChatConfig{Config: cfg, JanitorInterval: time.Minute}, nil
}

// WalletConfig describes the wallet provider and chain access.
type WalletConfig struct {
	ExtensionInstalled bool
	Accounts           []wallet.Account
	ChainEnabled       bool
	RPCURL             string
	RPCTimeout         time.Duration
	StorePath          string
}

func loadWalletConfig() (WalletConfig, error) {
	installed, err := parseBoolEnv("WALLET_EXTENSION_ENABLED", true)
	if err != nil {
		return WalletConfig{}, err
	}

	// an explicitly empty WALLET_ACCOUNTS means an extension with no accounts
	raw, ok := os.LookupEnv("WALLET_ACCOUNTS")
	if !ok {
		raw = "Alice=" + wallet.DemoAddress
	}
	accounts, err := wallet.ParseAccounts(raw)
	if err != nil {
		return WalletConfig{}, fmt.Errorf("invalid WALLET_ACCOUNTS: %w", err)
	}

	chainEnabled, err := parseBoolEnv("WALLET_CHAIN_ENABLED", true)
	if err != nil {
		return WalletConfig{}, err
	}

	timeout, err := parseDurationEnv("WALLET_RPC_TIMEOUT_SECONDS", time.Second, 10*time.Second)
	if err != nil {
		return WalletConfig{}, err
	}

	return WalletConfig{
		ExtensionInstalled: installed,
		Accounts:           accounts,
		ChainEnabled:       chainEnabled,
		RPCURL:             getEnvOrDefault("WALLET_RPC_URL", substrate.DefaultEndpoint),
		RPCTimeout:         timeout,
		StorePath:          getEnvOrDefault("WALLET_STORE_PATH", "data/wallet.db"),
	}, nil
}

// JobsConfig describes the job board.
type JobsConfig struct {
	SubmitDelay time.Duration
}

func loadJobsConfig() (JobsConfig, error) {
	delay, err := parseDurationEnv("JOBS_SUBMIT_DELAY_MS", time.Millisecond, 2*time.Second)
	if err != nil {
		return JobsConfig{}, err
	}
	return JobsConfig{SubmitDelay: delay}, nil
}

func loadDashboardConfig() (dashboard.Config, error) {
	cfg := dashboard.DefaultConfig()

	clone, err := parseDurationEnv("DASHBOARD_CLONE_DELAY_MS", time.Millisecond, cfg.CloneDelay)
	if err != nil {
		return dashboard.Config{}, err
	}
	fork, err := parseDurationEnv("DASHBOARD_FORK_DELAY_MS", time.Millisecond, cfg.ForkDelay)
	if err != nil {
		return dashboard.Config{}, err
	}
	return dashboard.Config{CloneDelay: clone, ForkDelay: fork}, nil
}

func loadUploadConfig() (upload.Config, error) {
	cfg := upload.DefaultConfig()

	tick, err := parseDurationEnv("UPLOAD_TICK_MS", time.Millisecond, cfg.Tick)
	if err != nil {
		return upload.Config{}, err
	}
	mint, err := parseDurationEnv("UPLOAD_MINT_DELAY_MS", time.Millisecond, cfg.MintDelay)
	if err != nil {
		return upload.Config{}, err
	}

	if tick == 0 {
		return upload.Config{}, fmt.Errorf("UPLOAD_TICK_MS must be positive")
	}
	cfg.Tick = tick
	cfg.MintDelay = mint
	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

// parseDurationEnv reads a non-negative integer count of unit.
func parseDurationEnv(key string, unit, defaultValue time.Duration) (time.Duration, error) {
	n, err := parseOptionalIntEnv(key)
	if err != nil {
		return 0, err
	}
	if n == nil {
		return defaultValue, nil
	}
	if *n < 0 {
		return 0, fmt.Errorf("invalid %s value %d: must not be negative", key, *n)
	}
	return time.Duration(*n) * unit, nil
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
