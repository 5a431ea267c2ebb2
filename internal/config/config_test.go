package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func resetGlobalConfig() {
	globalConfig = &Config{
		MetadataPlugin:   DefaultMetadataPlugin,
		BlobPlugin:       DefaultBlobPlugin,
		DatabasePath:     ".agora",
		BindAddr:         "0.0.0.0",
		ApiListenAddress: ":3000",
		CorsOrigin:       "",
		ShutdownTimeout:  DefaultShutdownTimeout,
		MetricsPort:      8081,
		Tracing:          false,
		TracingStdout:    false,
	}
}

func TestLoad_CompareFullStruct(t *testing.T) {
	resetGlobalConfig()
	yamlContent := `
metadataPlugin: "sqlite"
blobPlugin: "badger"
databasePath: "/var/lib/agora"
bindAddr: "127.0.0.1"
apiListenAddress: ":8080"
corsOrigin: "*"
shutdownTimeout: "10s"
metricsPort: 9000
tracing: true
`

	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "test-agora.yaml")

	err := os.WriteFile(tmpFile, []byte(yamlContent), 0644)
	if err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	expected := &Config{
		MetadataPlugin:   "sqlite",
		BlobPlugin:       "badger",
		DatabasePath:     "/var/lib/agora",
		BindAddr:         "127.0.0.1",
		ApiListenAddress: ":8080",
		CorsOrigin:       "*",
		ShutdownTimeout:  "10s",
		MetricsPort:      9000,
		Tracing:          true,
		TracingStdout:    false,
	}

	actual, err := LoadConfig(tmpFile)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if !reflect.DeepEqual(actual, expected) {
		t.Errorf(
			"Loaded config does not match expected.\nActual: %+v\nExpected: %+v",
			actual,
			expected,
		)
	}
}

func TestLoad_WithoutConfigFile_UsesDefaults(t *testing.T) {
	resetGlobalConfig()

	// Without config file
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	// Expected is the original default values from globalConfig
	expected := &Config{
		MetadataPlugin:   DefaultMetadataPlugin,
		BlobPlugin:       DefaultBlobPlugin,
		DatabasePath:     ".agora",
		BindAddr:         "0.0.0.0",
		ApiListenAddress: ":3000",
		CorsOrigin:       "",
		ShutdownTimeout:  DefaultShutdownTimeout,
		MetricsPort:      8081,
		Tracing:          false,
		TracingStdout:    false,
	}

	if !reflect.DeepEqual(cfg, expected) {
		t.Errorf(
			"config mismatch without file:\nExpected: %+v\nGot:      %+v",
			expected,
			cfg,
		)
	}
}

func TestLoad_ConfigSectionOverlay(t *testing.T) {
	resetGlobalConfig()

	// Values under a top-level config section overlay the defaults
	yamlContent := `
config:
  apiListenAddress: ":4000"
  corsOrigin: "https://wallet.example.com"
`

	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "test-section.yaml")

	err := os.WriteFile(tmpFile, []byte(yamlContent), 0644)
	if err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadConfig(tmpFile)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if cfg.ApiListenAddress != ":4000" {
		t.Errorf(
			"expected ApiListenAddress to be :4000, got: %s",
			cfg.ApiListenAddress,
		)
	}
	if cfg.CorsOrigin != "https://wallet.example.com" {
		t.Errorf("expected CorsOrigin override, got: %s", cfg.CorsOrigin)
	}
	// Untouched values keep their defaults
	if cfg.DatabasePath != ".agora" {
		t.Errorf("expected default DatabasePath, got: %s", cfg.DatabasePath)
	}
}

func TestLoad_DatabasePluginSection(t *testing.T) {
	resetGlobalConfig()

	// The database section can switch the plugin in use
	yamlContent := `
database:
  metadata:
    plugin: sqlite
  blob:
    plugin: badger
`

	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "test-plugins.yaml")

	err := os.WriteFile(tmpFile, []byte(yamlContent), 0644)
	if err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadConfig(tmpFile)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if cfg.MetadataPlugin != "sqlite" {
		t.Errorf("expected sqlite metadata plugin, got: %s", cfg.MetadataPlugin)
	}
	if cfg.BlobPlugin != "badger" {
		t.Errorf("expected badger blob plugin, got: %s", cfg.BlobPlugin)
	}
}
