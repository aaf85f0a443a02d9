package sgv

//unit tests

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReplaceHost(t *testing.T) {
	newUrl, err := ReplaceHost("https://appointment.vaccine.gov.sg/api/v1", "localhost:8080")
	if err != nil {
		t.Errorf("Expected nil error, got %v", err)
		return
	}
	if newUrl != "https://localhost:8080/api/v1" {
		t.Errorf("Expected https://localhost:8080/api/v1, got %s", newUrl)
		return
	}

	_, err = ReplaceHost("not-a-url", "localhost")
	if err == nil {
		t.Errorf("Expected error, got nil")
		return
	}
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.ApiUrl != RouteBase {
		t.Errorf("Expected default api url %s, got %s", RouteBase, config.ApiUrl)
		return
	}
	if config.Timeout != EndpointDefaultTimeout {
		t.Errorf("Expected default timeout %d, got %d", EndpointDefaultTimeout, config.Timeout)
		return
	}
	if config.PollInterval != DefaultPollInterval {
		t.Errorf("Expected default poll interval %d, got %d", DefaultPollInterval, config.PollInterval)
		return
	}
}

const testConfigYAML = `debug: false
api_url: "https://example.com/api/v1"
timeout: 5
cache_ttl: 30
poll_interval: 120
dump_output: true
dump_dir: "./out"
`

func TestNewConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "sg-vaccines.yaml")
	if err := os.WriteFile(configPath, []byte(testConfigYAML), 0644); err != nil {
		panic(err)
	}

	config, err := NewConfig(configPath)
	if err != nil {
		t.Errorf("Expected nil error, got %v", err)
		return
	}

	if config.ApiUrl != "https://example.com/api/v1" {
		t.Errorf("Expected api url from file, got %s", config.ApiUrl)
		return
	}
	if config.Timeout != 5 {
		t.Errorf("Expected timeout 5, got %d", config.Timeout)
		return
	}
	if config.CacheTTL != 30 {
		t.Errorf("Expected cache ttl 30, got %d", config.CacheTTL)
		return
	}
	if !config.DumpOutput || config.DumpDir != "./out" {
		t.Errorf("Expected dump config from file, got %v %s", config.DumpOutput, config.DumpDir)
		return
	}
}

func TestNewConfigHostOverride(t *testing.T) {
	os.Setenv(ApiHostEnvName, "localhost:9999")
	defer os.Unsetenv(ApiHostEnvName)

	config, err := applyEnvOverrides(DefaultConfig())
	if err != nil {
		t.Errorf("Expected nil error, got %v", err)
		return
	}

	if config.ApiUrl != "https://localhost:9999/api/v1" {
		t.Errorf("Expected host override applied, got %s", config.ApiUrl)
		return
	}
}
