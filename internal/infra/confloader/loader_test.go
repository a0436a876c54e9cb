package confloader

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

type testConfig struct {
	Server struct {
		TLS struct {
			Addr     string `koanf:"addr"`
			CertFile string `koanf:"cert_file"`
			Reload   bool   `koanf:"reload"`
		} `koanf:"tls"`
		Timeouts struct {
			Read time.Duration `koanf:"read"`
		} `koanf:"timeouts"`
	} `koanf:"server"`
	Log struct {
		Level string `koanf:"level"`
	} `koanf:"log"`
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func TestNewLoader(t *testing.T) {
	l := NewLoader()
	if l.envPrefix != DefaultEnvPrefix {
		t.Errorf("envPrefix = %q, want %q", l.envPrefix, DefaultEnvPrefix)
	}

	l = NewLoader(WithEnvPrefix("TEST_"), WithConfigFile("/path/to/config.yaml"))
	if l.envPrefix != "TEST_" {
		t.Errorf("envPrefix = %q, want TEST_", l.envPrefix)
	}
	if l.FilePath() != "/path/to/config.yaml" {
		t.Errorf("FilePath() = %q", l.FilePath())
	}
}

func TestLoader_Load_File(t *testing.T) {
	path := writeConfig(t, `
server:
  tls:
    addr: ":8443"
    cert_file: "/etc/tls/fullchain.pem"
    reload: true
  timeouts:
    read: 15s
log:
  level: debug
`)

	var cfg testConfig
	if err := NewLoader(WithConfigFile(path)).Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.TLS.Addr != ":8443" {
		t.Errorf("Addr = %q", cfg.Server.TLS.Addr)
	}
	if cfg.Server.TLS.CertFile != "/etc/tls/fullchain.pem" {
		t.Errorf("CertFile = %q", cfg.Server.TLS.CertFile)
	}
	if !cfg.Server.TLS.Reload {
		t.Error("Reload should be true")
	}
	if cfg.Server.Timeouts.Read != 15*time.Second {
		t.Errorf("Read = %v, want 15s", cfg.Server.Timeouts.Read)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Level = %q", cfg.Log.Level)
	}
}

func TestLoader_Load_KeepsDefaults(t *testing.T) {
	path := writeConfig(t, "log:\n  level: warn\n")

	var cfg testConfig
	cfg.Server.TLS.Addr = ":443"
	if err := NewLoader(WithConfigFile(path)).Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.TLS.Addr != ":443" {
		t.Errorf("default overwritten: Addr = %q", cfg.Server.TLS.Addr)
	}
}

func TestLoader_LoadFile_NotFound(t *testing.T) {
	if err := NewLoader().LoadFile("/nonexistent/config.yaml"); err == nil {
		t.Error("LoadFile() should return error for nonexistent file")
	}
}

func TestLoader_LoadEnv_NestedKeys(t *testing.T) {
	t.Setenv("STATICWEB_SERVER__TLS__CERT_FILE", "/from/env.pem")
	t.Setenv("STATICWEB_LOG__LEVEL", "error")

	var cfg testConfig
	if err := NewLoader().Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.TLS.CertFile != "/from/env.pem" {
		t.Errorf("CertFile = %q, want /from/env.pem", cfg.Server.TLS.CertFile)
	}
	if cfg.Log.Level != "error" {
		t.Errorf("Level = %q, want error", cfg.Log.Level)
	}
}

func TestLoader_Load_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "server:\n  tls:\n    addr: \"from-file:443\"\n")
	t.Setenv("STATICWEB_SERVER__TLS__ADDR", "from-env:8443")

	var cfg testConfig
	if err := NewLoader(WithConfigFile(path)).Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.TLS.Addr != "from-env:8443" {
		t.Errorf("Addr = %q, want from-env:8443 (env should override file)", cfg.Server.TLS.Addr)
	}
}

func TestLoader_LoadMap(t *testing.T) {
	l := NewLoader()
	if err := l.LoadMap(map[string]any{
		"server.tls.addr": "localhost:3443",
		"log.level":       "debug",
	}); err != nil {
		t.Fatalf("LoadMap() error = %v", err)
	}

	if got := l.String("server.tls.addr"); got != "localhost:3443" {
		t.Errorf("server.tls.addr = %q", got)
	}

	var cfg testConfig
	if err := l.Unmarshal(&cfg); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if cfg.Server.TLS.Addr != "localhost:3443" {
		t.Errorf("Addr = %q", cfg.Server.TLS.Addr)
	}
	if len(l.Keys()) < 2 {
		t.Errorf("Keys() = %v", l.Keys())
	}
}

func TestMapProvider_ReadBytes(t *testing.T) {
	if _, err := mapProvider(nil).ReadBytes(); err == nil {
		t.Error("ReadBytes should fail")
	}
}

func TestSplitKey(t *testing.T) {
	got := splitKey("a.b.c")
	if len(got) != 3 || got[0] != "a" || got[2] != "c" {
		t.Errorf("splitKey = %v", got)
	}
	if got := splitKey("single"); len(got) != 1 || got[0] != "single" {
		t.Errorf("splitKey(single) = %v", got)
	}
}
