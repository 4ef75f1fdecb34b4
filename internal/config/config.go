package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"fds/pkg/fds"
)

const (
	defaultDBName = "fds.db"
	defaultPort   = 8000
)

const (
	envDataDir = "FDS_DATA_DIR"
	envDBPath  = "FDS_DB_PATH"
	envPort    = "FDS_PORT"
	envHost    = "FDS_HOST"

	envDrawdownWarning  = "FDS_RISK_DRAWDOWN_WARNING"
	envDrawdownCritical = "FDS_RISK_DRAWDOWN_CRITICAL"
	envExposureWarning  = "FDS_RISK_EXPOSURE_WARNING"
	envExposureCritical = "FDS_RISK_EXPOSURE_CRITICAL"
)

// UserConfig is the persisted on-disk configuration.
type UserConfig struct {
	DBName  string `json:"db_name"`
	DataDir string `json:"data_dir"`

	DrawdownWarningPct  float64 `json:"drawdown_warning_pct"`
	DrawdownCriticalPct float64 `json:"drawdown_critical_pct"`
	ExposureWarningPct  float64 `json:"exposure_warning_pct"`
	ExposureCriticalPct float64 `json:"exposure_critical_pct"`
}

var runtimeDataDir string
var runtimePort = defaultPort

func SetRuntimeDataDir(dir string) {
	runtimeDataDir = dir
}

func SetRuntimePort(port int) {
	if port > 0 {
		runtimePort = port
	}
}

func GetRuntimePort() int {
	if env := strings.TrimSpace(os.Getenv(envPort)); env != "" {
		if port, err := strconv.Atoi(env); err == nil && port > 0 {
			return port
		}
	}
	return runtimePort
}

func GetHost() string {
	if host := strings.TrimSpace(os.Getenv(envHost)); host != "" {
		return host
	}
	return "127.0.0.1"
}

func appConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return "", homeErr
		}
		return filepath.Join(home, ".config", "fds"), nil
	}
	return filepath.Join(configDir, "fds"), nil
}

func appConfigPath() (string, error) {
	dir, err := appConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

func defaultUserConfig() UserConfig {
	params := fds.DefaultRiskParams()
	return UserConfig{
		DBName:              defaultDBName,
		DrawdownWarningPct:  params.DrawdownWarningPct,
		DrawdownCriticalPct: params.DrawdownCriticalPct,
		ExposureWarningPct:  params.ExposureWarningPct,
		ExposureCriticalPct: params.ExposureCriticalPct,
	}
}

// LoadUserConfig reads config.json from the app config directory, falling
// back to defaults when the file is missing or unreadable.
func LoadUserConfig() UserConfig {
	cfg := defaultUserConfig()
	configPath, err := appConfigPath()
	if err != nil {
		return cfg
	}
	file, err := os.Open(configPath)
	if err != nil {
		return cfg
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return defaultUserConfig()
	}
	if cfg.DBName == "" {
		cfg.DBName = defaultDBName
	}
	return cfg
}

// SaveUserConfig writes the configuration to the app config directory.
func SaveUserConfig(cfg UserConfig) error {
	path, err := appConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// GetDataDir resolves the data directory, creating it if needed. Precedence:
// runtime flag, FDS_DATA_DIR, persisted config, app config directory.
func GetDataDir() (string, error) {
	candidates := []string{
		runtimeDataDir,
		strings.TrimSpace(os.Getenv(envDataDir)),
		LoadUserConfig().DataDir,
	}
	for _, dir := range candidates {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", err
		}
		return dir, nil
	}
	defaultDir, err := appConfigDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(defaultDir, 0o755); err != nil {
		return "", err
	}
	return defaultDir, nil
}

// GetDBPath resolves the sqlite file path. FDS_DB_PATH wins outright.
func GetDBPath() (string, error) {
	if envPath := strings.TrimSpace(os.Getenv(envDBPath)); envPath != "" {
		return envPath, nil
	}
	cfg := LoadUserConfig()
	dataDir, err := GetDataDir()
	if err != nil {
		return "", err
	}
	name := cfg.DBName
	if name == "" {
		name = defaultDBName
	}
	return filepath.Join(dataDir, name), nil
}

// RiskParams builds risk thresholds from the persisted config with
// environment overrides applied on top.
func RiskParams() fds.RiskParams {
	cfg := LoadUserConfig()
	params := fds.RiskParams{
		DrawdownWarningPct:  cfg.DrawdownWarningPct,
		DrawdownCriticalPct: cfg.DrawdownCriticalPct,
		ExposureWarningPct:  cfg.ExposureWarningPct,
		ExposureCriticalPct: cfg.ExposureCriticalPct,
	}
	applyEnvFloat(envDrawdownWarning, &params.DrawdownWarningPct)
	applyEnvFloat(envDrawdownCritical, &params.DrawdownCriticalPct)
	applyEnvFloat(envExposureWarning, &params.ExposureWarningPct)
	applyEnvFloat(envExposureCritical, &params.ExposureCriticalPct)
	if params.Validate() != nil {
		return fds.DefaultRiskParams()
	}
	return params
}

func applyEnvFloat(name string, target *float64) {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return
	}
	if parsed, err := strconv.ParseFloat(value, 64); err == nil {
		*target = parsed
	}
}
