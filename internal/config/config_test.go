package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func validConfig() Config {
	cfg := Config{
		HTTP:     HTTPConfig{Port: 8080},
		Database: DatabaseConfig{Addrs: []string{"localhost:6379"}},
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	if cfg.HTTP.Port != 8080 || cfg.HTTP.ReadTimeoutSec != 10 || cfg.HTTP.WriteTimeoutSec != 30 {
		t.Errorf("http defaults = %+v", cfg.HTTP)
	}
	if cfg.Database.Driver != DriverValkey || cfg.Database.ReadinessTimeout != 10 {
		t.Errorf("database defaults = %+v", cfg.Database)
	}
	r := cfg.Retrieval
	if r.Dimensions != 384 || r.DefaultTopK != 5 || r.MaxTopK != 50 || r.PoolFactor != 2 {
		t.Errorf("retrieval defaults = %+v", r)
	}
	if *r.SimilarityFloor != 0.15 || *r.KeywordThreshold != 3 {
		t.Errorf("floor/threshold = %v/%v", *r.SimilarityFloor, *r.KeywordThreshold)
	}
	if *r.StrongKeywordWeight != 0.75 || *r.StrongSimilarityWeight != 0.25 ||
		*r.WeakKeywordWeight != 0.3 || *r.WeakSimilarityWeight != 0.7 {
		t.Error("unexpected weight defaults")
	}
	if cfg.Responder.Provider != ResponderTemplate || cfg.Responder.MaxTokens != 300 {
		t.Errorf("responder defaults = %+v", cfg.Responder)
	}
	if cfg.Storage.KeyPrefix != "mindsync:" {
		t.Errorf("KeyPrefix = %q", cfg.Storage.KeyPrefix)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	zero := 0.0
	cfg := Config{
		HTTP:      HTTPConfig{Port: 9090, ReadTimeoutSec: 3},
		Database:  DatabaseConfig{Driver: DriverMemory},
		Retrieval: RetrievalConfig{DefaultTopK: 7, SimilarityFloor: &zero},
		Storage:   StorageConfig{KeyPrefix: "custom:"},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.Port != 9090 || cfg.HTTP.ReadTimeoutSec != 3 {
		t.Errorf("http = %+v", cfg.HTTP)
	}
	if cfg.Database.Driver != DriverMemory {
		t.Errorf("Driver = %q", cfg.Database.Driver)
	}
	if cfg.Retrieval.DefaultTopK != 7 {
		t.Errorf("DefaultTopK = %d", cfg.Retrieval.DefaultTopK)
	}
	if *cfg.Retrieval.SimilarityFloor != 0 {
		t.Errorf("explicit zero floor was overridden: %v", *cfg.Retrieval.SimilarityFloor)
	}
	if cfg.Storage.KeyPrefix != "custom:" {
		t.Errorf("KeyPrefix = %q", cfg.Storage.KeyPrefix)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"invalid port", func(c *Config) { c.HTTP.Port = 70000 }, "http.port"},
		{"missing addrs", func(c *Config) { c.Database.Addrs = nil }, "database.addrs is required"},
		{"memory needs no addrs", func(c *Config) {
			c.Database.Driver = DriverMemory
			c.Database.Addrs = nil
		}, ""},
		{"unknown driver", func(c *Config) { c.Database.Driver = "postgres" }, "database.driver"},
		{"max below default", func(c *Config) { c.Retrieval.MaxTopK = 2 }, "max_top_k"},
		{"floor out of range", func(c *Config) {
			f := 1.5
			c.Retrieval.SimilarityFloor = &f
		}, "similarity_floor"},
		{"openai without key", func(c *Config) { c.Responder.Provider = ResponderOpenAI }, "responder.api_key"},
		{"openai with key", func(c *Config) {
			c.Responder.Provider = ResponderOpenAI
			c.Responder.APIKey = "k"
		}, ""},
		{"unknown responder", func(c *Config) { c.Responder.Provider = "llama" }, "responder.provider"},
		{"negative rate", func(c *Config) { c.Responder.RatePerSec = -1 }, "rate_per_sec"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("err = %v, want substring %q", err, tc.wantErr)
			}
		})
	}
}

func TestValidate_JoinsErrors(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = -1
	cfg.Database.Addrs = nil

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "http.port") || !strings.Contains(err.Error(), "database.addrs") {
		t.Errorf("err = %v, want both problems reported", err)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("MS_TEST_ADDR", "valkey:6379")
	t.Setenv("MS_TEST_EMPTY", "")

	in := "a: ${MS_TEST_ADDR}\nb: ${MS_TEST_MISSING:-fallback}\nc: ${MS_TEST_EMPTY:-x}\nd: ${MS_TEST_MISSING}"
	want := "a: valkey:6379\nb: fallback\nc: x\nd: "
	if got := string(expandEnvVars([]byte(in))); got != want {
		t.Errorf("expandEnvVars =\n%q\nwant\n%q", got, want)
	}
}

func TestParse(t *testing.T) {
	t.Setenv("MS_TEST_PORT", "9000")
	data := []byte(`
http:
  port: ${MS_TEST_PORT}
database:
  driver: memory
retrieval:
  similarity_floor: 0
  default_top_k: 3
responder:
  provider: template
auth:
  api_keys: ["k1", "k2"]
`)
	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTP.Port != 9000 {
		t.Errorf("Port = %d", cfg.HTTP.Port)
	}
	if *cfg.Retrieval.SimilarityFloor != 0 || cfg.Retrieval.DefaultTopK != 3 || cfg.Retrieval.MaxTopK != 50 {
		t.Errorf("retrieval = %+v", cfg.Retrieval)
	}
	if len(cfg.Auth.APIKeys) != 2 {
		t.Errorf("APIKeys = %v", cfg.Auth.APIKeys)
	}
}

func TestParse_Invalid(t *testing.T) {
	if _, err := Parse([]byte("http: [")); err == nil || !strings.Contains(err.Error(), "failed to parse config") {
		t.Errorf("malformed yaml: err = %v", err)
	}
	if _, err := Parse([]byte("database:\n  driver: valkey\n")); err == nil || !strings.Contains(err.Error(), "invalid config") {
		t.Errorf("missing addrs: err = %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.yaml")
	if err := os.WriteFile(path, []byte("database:\n  driver: memory\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Database.Driver != DriverMemory {
		t.Errorf("Driver = %q", cfg.Database.Driver)
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoad_Local(t *testing.T) {
	t.Setenv("DB_DRIVER", "memory")
	cfg, err := Load("local")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Database.Driver != DriverMemory || cfg.Responder.Provider != ResponderTemplate {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("ENV", "")
	if got := GetEnv(); got != "local" {
		t.Errorf("GetEnv() = %q, want local", got)
	}
	t.Setenv("ENV", "prod")
	if got := GetEnv(); got != "prod" {
		t.Errorf("GetEnv() = %q, want prod", got)
	}
}
