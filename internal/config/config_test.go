package config

import "testing"

func validConfig() Config {
	return Config{
		HTTP:   HTTPConfig{Port: 8080},
		Corpus: CorpusConfig{Path: "data/qa_data.csv"},
		Embedding: EmbeddingConfig{
			APIKey: "test-key",
			Model:  "test-model",
		},
	}
}

func TestValidate_OK(t *testing.T) {
	cfg := validConfig()
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "missing port", mutate: func(c *Config) { c.HTTP.Port = 0 }},
		{name: "port out of range", mutate: func(c *Config) { c.HTTP.Port = 70000 }},
		{name: "missing corpus path", mutate: func(c *Config) { c.Corpus.Path = "" }},
		{name: "missing api key", mutate: func(c *Config) { c.Embedding.APIKey = "" }},
		{name: "missing model", mutate: func(c *Config) { c.Embedding.Model = "" }},
		{name: "threshold above one", mutate: func(c *Config) { c.Retrieval.ScoreThreshold = 1.5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.ApplyDefaults()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := validConfig()
	cfg.ApplyDefaults()

	if cfg.Retrieval.ScoreThreshold != 0.5 {
		t.Errorf("score_threshold = %g, want 0.5", cfg.Retrieval.ScoreThreshold)
	}
	if cfg.Retrieval.PageSize != 10 {
		t.Errorf("page_size = %d, want 10", cfg.Retrieval.PageSize)
	}
	if cfg.HTTP.ReadTimeoutSec != 10 || cfg.HTTP.WriteTimeoutSec != 10 {
		t.Errorf("http timeouts = %d/%d, want 10/10",
			cfg.HTTP.ReadTimeoutSec, cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.Embedding.BatchSize != 64 {
		t.Errorf("batch_size = %d, want 64", cfg.Embedding.BatchSize)
	}
	if cfg.Session.TTLMin != 30 {
		t.Errorf("session ttl = %d, want 30", cfg.Session.TTLMin)
	}
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := validConfig()
	cfg.Retrieval.ScoreThreshold = 0.7
	cfg.Retrieval.PageSize = 5
	cfg.ApplyDefaults()

	if cfg.Retrieval.ScoreThreshold != 0.7 {
		t.Errorf("score_threshold = %g, want 0.7", cfg.Retrieval.ScoreThreshold)
	}
	if cfg.Retrieval.PageSize != 5 {
		t.Errorf("page_size = %d, want 5", cfg.Retrieval.PageSize)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("FAQDEX_TEST_KEY", "secret")

	got := string(expandEnvVars([]byte("api_key: ${FAQDEX_TEST_KEY}")))
	if got != "api_key: secret" {
		t.Errorf("expanded = %q", got)
	}

	got = string(expandEnvVars([]byte("model: ${FAQDEX_UNSET:-fallback}")))
	if got != "model: fallback" {
		t.Errorf("expanded = %q", got)
	}
}
