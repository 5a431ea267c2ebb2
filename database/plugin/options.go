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

package plugin

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

// optionFlagName builds the command line flag name for a plugin option,
// e.g. blob-badger-data-dir
func optionFlagName(entry PluginEntry, opt PluginOption) string {
	return fmt.Sprintf(
		"%s-%s-%s",
		PluginTypeName(entry.Type),
		entry.Name,
		opt.Name,
	)
}

// optionEnvVar builds the environment variable name for a plugin
// option, e.g. AGORA_BLOB_BADGER_DATA_DIR
func optionEnvVar(entry PluginEntry, opt PluginOption) string {
	name := fmt.Sprintf(
		"AGORA_%s_%s_%s",
		PluginTypeName(entry.Type),
		entry.Name,
		opt.Name,
	)
	return strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
}

// PopulateCmdlineOptions adds a flag for every registered plugin option
// to the given flag set, bound directly to the plugin's option storage
func PopulateCmdlineOptions(fs *pflag.FlagSet) error {
	pluginEntriesMu.Lock()
	defer pluginEntriesMu.Unlock()
	for _, entry := range pluginEntries {
		for _, opt := range entry.Options {
			flagName := optionFlagName(entry, opt)
			switch opt.Type {
			case PluginOptionTypeString:
				dest, ok := opt.Dest.(*string)
				if !ok {
					return fmt.Errorf(
						"option %s: expected *string destination",
						flagName,
					)
				}
				defaultValue, _ := opt.DefaultValue.(string)
				fs.StringVar(dest, flagName, defaultValue, opt.Description)
			case PluginOptionTypeBool:
				dest, ok := opt.Dest.(*bool)
				if !ok {
					return fmt.Errorf(
						"option %s: expected *bool destination",
						flagName,
					)
				}
				defaultValue, _ := opt.DefaultValue.(bool)
				fs.BoolVar(dest, flagName, defaultValue, opt.Description)
			case PluginOptionTypeUint:
				dest, ok := opt.Dest.(*uint64)
				if !ok {
					return fmt.Errorf(
						"option %s: expected *uint64 destination",
						flagName,
					)
				}
				defaultValue, _ := opt.DefaultValue.(uint64)
				fs.Uint64Var(dest, flagName, defaultValue, opt.Description)
			default:
				return fmt.Errorf(
					"option %s: unknown option type %d",
					flagName,
					opt.Type,
				)
			}
		}
	}
	return nil
}

// ProcessConfig applies plugin option values from a parsed config file.
// The outer map is keyed by plugin type name, then plugin name, then
// option name.
func ProcessConfig(
	pluginConfig map[string]map[string]map[string]any,
) error {
	for typeName, plugins := range pluginConfig {
		var pluginType PluginType
		switch typeName {
		case "blob":
			pluginType = PluginTypeBlob
		case "metadata":
			pluginType = PluginTypeMetadata
		default:
			return fmt.Errorf("unknown plugin type: %s", typeName)
		}
		for pluginName, opts := range plugins {
			for optName, value := range opts {
				if err := SetPluginOption(
					pluginType,
					pluginName,
					optName,
					value,
				); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// ProcessEnvVars applies plugin option values from the environment
func ProcessEnvVars() error {
	pluginEntriesMu.Lock()
	defer pluginEntriesMu.Unlock()
	for _, entry := range pluginEntries {
		for _, opt := range entry.Options {
			envVal, ok := os.LookupEnv(optionEnvVar(entry, opt))
			if !ok {
				continue
			}
			switch opt.Type {
			case PluginOptionTypeString:
				if err := opt.set(envVal); err != nil {
					return err
				}
			case PluginOptionTypeBool:
				boolVal, err := strconv.ParseBool(envVal)
				if err != nil {
					return fmt.Errorf(
						"invalid value for %s: %w",
						optionEnvVar(entry, opt),
						err,
					)
				}
				if err := opt.set(boolVal); err != nil {
					return err
				}
			case PluginOptionTypeUint:
				uintVal, err := strconv.ParseUint(envVal, 10, 64)
				if err != nil {
					return fmt.Errorf(
						"invalid value for %s: %w",
						optionEnvVar(entry, opt),
						err,
					)
				}
				if err := opt.set(uintVal); err != nil {
					return err
				}
			default:
				return fmt.Errorf(
					"unknown plugin option type %d for option %s",
					opt.Type,
					opt.Name,
				)
			}
		}
	}
	return nil
}
