package config

import (
	"path/filepath"
	"testing"

	"fds/pkg/fds"
)

func isolateConfigDir(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	return home
}

func TestRuntimePort(t *testing.T) {
	orig := runtimePort
	defer SetRuntimePort(orig)
	t.Setenv(envPort, "")

	SetRuntimePort(0)
	if got := GetRuntimePort(); got != orig {
		t.Fatalf("expected port to remain %d, got %d", orig, got)
	}

	SetRuntimePort(9090)
	if got := GetRuntimePort(); got != 9090 {
		t.Fatalf("expected port 9090, got %d", got)
	}

	t.Setenv(envPort, "7070")
	if got := GetRuntimePort(); got != 7070 {
		t.Fatalf("expected env port 7070, got %d", got)
	}

	t.Setenv(envPort, "not-a-port")
	if got := GetRuntimePort(); got != 9090 {
		t.Fatalf("expected fallback port 9090, got %d", got)
	}
}

func TestGetHost(t *testing.T) {
	t.Setenv(envHost, "")
	if got := GetHost(); got != "127.0.0.1" {
		t.Fatalf("expected loopback default, got %q", got)
	}
	t.Setenv(envHost, "0.0.0.0")
	if got := GetHost(); got != "0.0.0.0" {
		t.Fatalf("expected env host, got %q", got)
	}
}

func TestRuntimeDataDirAndEnv(t *testing.T) {
	isolateConfigDir(t)
	SetRuntimeDataDir("")
	defer SetRuntimeDataDir("")

	tmp := t.TempDir()
	SetRuntimeDataDir(tmp)
	dir, err := GetDataDir()
	if err != nil {
		t.Fatalf("GetDataDir: %v", err)
	}
	if dir != tmp {
		t.Fatalf("expected runtime dir %q, got %q", tmp, dir)
	}

	SetRuntimeDataDir("")
	tmpEnv := filepath.Join(t.TempDir(), "data")
	t.Setenv(envDataDir, tmpEnv)
	dir, err = GetDataDir()
	if err != nil {
		t.Fatalf("GetDataDir env: %v", err)
	}
	if dir != tmpEnv {
		t.Fatalf("expected env dir %q, got %q", tmpEnv, dir)
	}
}

func TestGetDBPathEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.sqlite")
	t.Setenv(envDBPath, path)
	got, err := GetDBPath()
	if err != nil {
		t.Fatalf("GetDBPath: %v", err)
	}
	if got != path {
		t.Fatalf("expected %q, got %q", path, got)
	}
}

func TestLoadSaveConfig(t *testing.T) {
	home := isolateConfigDir(t)

	loaded := LoadUserConfig()
	if loaded.DBName != defaultDBName {
		t.Fatalf("expected default db name, got %q", loaded.DBName)
	}
	defaults := fds.DefaultRiskParams()
	if loaded.DrawdownCriticalPct != defaults.DrawdownCriticalPct {
		t.Fatalf("expected default drawdown critical, got %v", loaded.DrawdownCriticalPct)
	}

	cfg := UserConfig{
		DBName:              "my.db",
		DataDir:             filepath.Join(home, "data"),
		DrawdownWarningPct:  2,
		DrawdownCriticalPct: 4,
		ExposureWarningPct:  30,
		ExposureCriticalPct: 45,
	}
	if err := SaveUserConfig(cfg); err != nil {
		t.Fatalf("SaveUserConfig: %v", err)
	}

	loaded = LoadUserConfig()
	if loaded.DBName != cfg.DBName || loaded.DataDir != cfg.DataDir {
		t.Fatalf("loaded config mismatch: %+v", loaded)
	}
	if loaded.DrawdownCriticalPct != 4 || loaded.ExposureWarningPct != 30 {
		t.Fatalf("loaded thresholds mismatch: %+v", loaded)
	}
}

func TestGetDataDirFromConfig(t *testing.T) {
	isolateConfigDir(t)
	SetRuntimeDataDir("")
	t.Setenv(envDataDir, "")

	customDir := filepath.Join(t.TempDir(), "data")
	cfg := defaultUserConfig()
	cfg.DataDir = customDir
	if err := SaveUserConfig(cfg); err != nil {
		t.Fatalf("SaveUserConfig: %v", err)
	}
	dir, err := GetDataDir()
	if err != nil {
		t.Fatalf("GetDataDir: %v", err)
	}
	if dir != customDir {
		t.Fatalf("expected data dir %q, got %q", customDir, dir)
	}
}

func TestGetDBPathFromConfig(t *testing.T) {
	home := isolateConfigDir(t)
	SetRuntimeDataDir("")
	t.Setenv(envDataDir, "")
	t.Setenv(envDBPath, "")

	cfg := defaultUserConfig()
	cfg.DBName = "config.db"
	cfg.DataDir = filepath.Join(home, "data")
	if err := SaveUserConfig(cfg); err != nil {
		t.Fatalf("SaveUserConfig: %v", err)
	}
	path, err := GetDBPath()
	if err != nil {
		t.Fatalf("GetDBPath: %v", err)
	}
	if path != filepath.Join(cfg.DataDir, cfg.DBName) {
		t.Fatalf("expected db path %q, got %q", filepath.Join(cfg.DataDir, cfg.DBName), path)
	}
}

func TestRiskParamsEnvOverride(t *testing.T) {
	isolateConfigDir(t)

	t.Setenv(envDrawdownWarning, "2.5")
	t.Setenv(envDrawdownCritical, "6")
	params := RiskParams()
	if params.DrawdownWarningPct != 2.5 || params.DrawdownCriticalPct != 6 {
		t.Fatalf("expected env thresholds, got %+v", params)
	}
	defaults := fds.DefaultRiskParams()
	if params.ExposureWarningPct != defaults.ExposureWarningPct {
		t.Fatalf("expected default exposure warning, got %v", params.ExposureWarningPct)
	}
}

func TestRiskParamsInvalidFallsBack(t *testing.T) {
	isolateConfigDir(t)

	// Warning above critical is rejected wholesale.
	t.Setenv(envDrawdownWarning, "10")
	t.Setenv(envDrawdownCritical, "5")
	params := RiskParams()
	if params != fds.DefaultRiskParams() {
		t.Fatalf("expected default params, got %+v", params)
	}
}
