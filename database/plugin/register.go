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

import "sync"

type PluginType int

const (
	PluginTypeBlob PluginType = iota
	PluginTypeMetadata
)

// PluginTypeName returns a human-readable name for a plugin type
func PluginTypeName(pluginType PluginType) string {
	switch pluginType {
	case PluginTypeBlob:
		return "blob"
	case PluginTypeMetadata:
		return "metadata"
	default:
		return "unknown"
	}
}

type PluginOptionType int

const (
	PluginOptionTypeString PluginOptionType = iota
	PluginOptionTypeBool
	PluginOptionTypeUint
)

// PluginOption describes a configurable option for a plugin. Dest must
// be a pointer to the plugin's package-level option storage.
type PluginOption struct {
	Dest         any
	DefaultValue any
	Name         string
	Description  string
	Type         PluginOptionType
}

// PluginEntry describes a registered plugin
type PluginEntry struct {
	NewFromOptionsFunc func() Plugin
	Name               string
	Description        string
	Options            []PluginOption
	Type               PluginType
}

var (
	pluginEntries   []PluginEntry
	pluginEntriesMu sync.Mutex
)

// Register adds a plugin to the registry. This is normally called from
// an init() in the plugin's package.
func Register(entry PluginEntry) {
	pluginEntriesMu.Lock()
	defer pluginEntriesMu.Unlock()
	pluginEntries = append(pluginEntries, entry)
}

// GetPlugin creates a plugin instance from the registered entry with
// the matching type and name
func GetPlugin(pluginType PluginType, pluginName string) Plugin {
	pluginEntriesMu.Lock()
	defer pluginEntriesMu.Unlock()
	for _, entry := range pluginEntries {
		if entry.Type == pluginType && entry.Name == pluginName {
			return entry.NewFromOptionsFunc()
		}
	}
	return nil
}

// GetPlugins returns the registered plugin entries for a type
func GetPlugins(pluginType PluginType) []PluginEntry {
	pluginEntriesMu.Lock()
	defer pluginEntriesMu.Unlock()
	ret := []PluginEntry{}
	for _, entry := range pluginEntries {
		if entry.Type == pluginType {
			ret = append(ret, entry)
		}
	}
	return ret
}
