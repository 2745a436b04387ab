package config

import (
	"fmt"
	"sort"
)

// KeyInfo describes a config key for display purposes.
type KeyInfo struct {
	Key    string
	EnvVar string
	Value  string
}

// ShowAll returns all config key/value pairs from the current config,
// sorted by key.
func ShowAll(cfg Config) []KeyInfo {
	result := make([]KeyInfo, 0, len(specs))
	for _, s := range specs {
		result = append(result, KeyInfo{
			Key:    s.key,
			EnvVar: s.env,
			Value:  fmt.Sprintf("%v", s.extract(cfg)),
		})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Key < result[j].Key })
	return result
}

// SetKey writes a config key to the file backend. The raw string is
// stored as-is; type checking happens at the next Load.
func SetKey(key, value string) error {
	for _, s := range specs {
		if s.key == key {
			return newFileBackend(configFilePath()).SetString(key, value)
		}
	}
	return fmt.Errorf("unknown config key %q", key)
}

// UnsetKey removes a config key from the file backend, reverting it to
// its default.
func UnsetKey(key string) error {
	for _, s := range specs {
		if s.key == key {
			return newFileBackend(configFilePath()).Delete(key)
		}
	}
	return fmt.Errorf("unknown config key %q", key)
}
