// Copyright 2026 Agora Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"fmt"
	"maps"
	"os"
	"path/filepath"

	"github.com/Gohlub/agora/database/plugin"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

type ctxKey string

const configContextKey ctxKey = "agora.config"

const DefaultShutdownTimeout = "30s"

func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configContextKey, cfg)
}

func FromContext(ctx context.Context) *Config {
	cfg, ok := ctx.Value(configContextKey).(*Config)
	if !ok {
		return nil
	}
	return cfg
}

const (
	DefaultBlobPlugin     = "badger"
	DefaultMetadataPlugin = "sqlite"
)

type tempConfig struct {
	Config   *Config                   `yaml:"config,omitempty"`
	Database *databaseConfig           `yaml:"database,omitempty"`
	Blob     map[string]map[string]any `yaml:"blob,omitempty"`
	Metadata map[string]map[string]any `yaml:"metadata,omitempty"`
}

type databaseConfig struct {
	Blob     map[string]any `yaml:"blob,omitempty"`
	Metadata map[string]any `yaml:"metadata,omitempty"`
}

type Config struct {
	MetadataPlugin   string `yaml:"metadataPlugin"   envconfig:"AGORA_DATABASE_METADATA_PLUGIN"`
	BlobPlugin       string `yaml:"blobPlugin"       envconfig:"AGORA_DATABASE_BLOB_PLUGIN"`
	DatabasePath     string `yaml:"databasePath"                                               split_words:"true"`
	BindAddr         string `yaml:"bindAddr"                                                   split_words:"true"`
	ApiListenAddress string `yaml:"apiListenAddress" envconfig:"AGORA_API_LISTEN_ADDRESS"`
	CorsOrigin       string `yaml:"corsOrigin"                                                 split_words:"true"`
	ShutdownTimeout  string `yaml:"shutdownTimeout"                                            split_words:"true"`
	MetricsPort      uint   `yaml:"metricsPort"                                                split_words:"true"`
	Tracing          bool   `yaml:"tracing"`
	TracingStdout    bool   `yaml:"tracingStdout"                                              split_words:"true"`
}

var globalConfig = &Config{
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

func LoadConfig(configFile string) (*Config, error) {
	// Load config file as YAML if provided
	if configFile == "" {
		// Check for config file in this path: ~/.agora/agora.yaml
		if homeDir, err := os.UserHomeDir(); err == nil {
			userPath := filepath.Join(homeDir, ".agora", "agora.yaml")
			if _, err := os.Stat(userPath); err == nil {
				configFile = userPath
			}
		}

		// Try to check for /etc/agora/agora.yaml if still not found
		if configFile == "" {
			systemPath := "/etc/agora/agora.yaml"
			if _, err := os.Stat(systemPath); err == nil {
				configFile = systemPath
			}
		}
	}

	if configFile != "" {
		buf, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}

		// First unmarshal into temp config to handle plugin sections
		var tempCfg tempConfig
		err = yaml.Unmarshal(buf, &tempCfg)
		if err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}

		// If config section exists, use it for main config
		if tempCfg.Config != nil {
			// Overlay config values onto existing defaults
			configBytes, err := yaml.Marshal(tempCfg.Config)
			if err != nil {
				return nil, fmt.Errorf("error re-marshalling config: %w", err)
			}
			err = yaml.Unmarshal(configBytes, globalConfig)
			if err != nil {
				return nil, fmt.Errorf("error parsing config section: %w", err)
			}
		} else {
			// Otherwise unmarshal the whole file as main config
			err = yaml.Unmarshal(buf, globalConfig)
			if err != nil {
				return nil, fmt.Errorf("error parsing config file: %w", err)
			}
		}

		// Process plugin configurations
		pluginConfig := make(map[string]map[string]map[string]any)
		if tempCfg.Blob != nil {
			pluginConfig["blob"] = tempCfg.Blob
		}
		if tempCfg.Metadata != nil {
			pluginConfig["metadata"] = tempCfg.Metadata
		}
		// Handle database section if present
		if tempCfg.Database != nil {
			if tempCfg.Database.Blob != nil {
				mergePluginSection(
					pluginConfig,
					"blob",
					tempCfg.Database.Blob,
					&globalConfig.BlobPlugin,
				)
			}
			if tempCfg.Database.Metadata != nil {
				mergePluginSection(
					pluginConfig,
					"metadata",
					tempCfg.Database.Metadata,
					&globalConfig.MetadataPlugin,
				)
			}
		}
		if len(pluginConfig) > 0 {
			err = plugin.ProcessConfig(pluginConfig)
			if err != nil {
				return nil, fmt.Errorf(
					"error processing plugin config: %w",
					err,
				)
			}
		}
	}
	// Process environment variables
	err := envconfig.Process("agora", globalConfig)
	if err != nil {
		return nil, fmt.Errorf("error processing environment: %+w", err)
	}

	// Process plugin environment variables
	err = plugin.ProcessEnvVars()
	if err != nil {
		return nil, fmt.Errorf(
			"error processing plugin environment variables: %w",
			err,
		)
	}

	return globalConfig, nil
}

// mergePluginSection folds one database.<type> config section into the
// plugin config map, extracting an optional plugin name override.
func mergePluginSection(
	pluginConfig map[string]map[string]map[string]any,
	typeName string,
	section map[string]any,
	pluginName *string,
) {
	// Extract plugin name if specified
	if pluginVal, exists := section["plugin"]; exists {
		if name, ok := pluginVal.(string); ok {
			*pluginName = name
			delete(section, "plugin")
		}
	}
	// Build plugin config map
	sectionConfig := make(map[string]map[string]any)
	for k, v := range section {
		if val, ok := v.(map[string]any); ok {
			sectionConfig[k] = val
		} else if val, ok := v.(map[any]any); ok {
			// Convert map[any]any to map[string]any
			stringAnyMap := make(map[string]any)
			for vk, vv := range val {
				if keyStr, ok := vk.(string); ok {
					stringAnyMap[keyStr] = vv
				}
			}
			sectionConfig[k] = stringAnyMap
		} else {
			// Log skipped non-map config entries
			fmt.Fprintf(
				os.Stderr,
				"warning: skipping %s config entry %q: expected map, got %T\n",
				typeName,
				k,
				v,
			)
		}
	}
	// Merge with existing config instead of overwriting
	if pluginConfig[typeName] == nil {
		pluginConfig[typeName] = sectionConfig
	} else {
		maps.Copy(pluginConfig[typeName], sectionConfig)
	}
}

func GetConfig() *Config {
	return globalConfig
}
