package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// Validator normalizes value or rejects it. A rejected value is replaced
// by the key's default and reported as a warning.
type Validator func(key, value, defaultValue string) (string, error)

var (
	validatorsMu sync.RWMutex
	validators   = map[string]Validator{}
)

// RegisterValidator attaches v to key. Registering a key twice panics.
func RegisterValidator(key string, v Validator) {
	validatorsMu.Lock()
	defer validatorsMu.Unlock()
	if _, dup := validators[key]; dup {
		panic("config: validator already registered for " + key)
	}
	validators[key] = v
}

func getValidator(key string) Validator {
	validatorsMu.RLock()
	defer validatorsMu.RUnlock()
	return validators[key]
}

// IntAtLeast accepts integers >= min.
func IntAtLeast(min int) Validator {
	return func(_, value, defaultValue string) (string, error) {
		if value == "" {
			return defaultValue, nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return "", fmt.Errorf("%q is not an integer", value)
		}
		if n < min {
			return "", fmt.Errorf("%d is below %d", n, min)
		}
		return strconv.Itoa(n), nil
	}
}

// OneOf accepts the listed values, case-insensitively.
func OneOf(allowed ...string) Validator {
	set := make(map[string]bool, len(allowed))
	for _, a := range allowed {
		set[a] = true
	}
	sorted := append([]string(nil), allowed...)
	sort.Strings(sorted)
	return func(_, value, defaultValue string) (string, error) {
		if value == "" {
			return defaultValue, nil
		}
		v := strings.ToLower(strings.TrimSpace(value))
		if !set[v] {
			return "", fmt.Errorf("%q must be one of %s", value, strings.Join(sorted, ", "))
		}
		return v, nil
	}
}

// Bool accepts 1/0, true/false, yes/no and on/off and stores true or false.
func Bool() Validator {
	return func(_, value, defaultValue string) (string, error) {
		if value == "" {
			return defaultValue, nil
		}
		v := normalizeBool(value)
		if v == "" {
			return "", fmt.Errorf("%q is not a boolean", value)
		}
		return v, nil
	}
}

func initValidators() {
	for _, k := range []string{"script_timeout_ms", "word_wrap", "logging_max_files", "logging_max_size_mb"} {
		RegisterValidator(k, IntAtLeast(1))
	}
	RegisterValidator("step_delay_ms", IntAtLeast(0))
	RegisterValidator("storage_backend", OneOf("memory", "sqlite", "bolt"))
	RegisterValidator("markdown_style", OneOf("auto", "dark", "light", "notty"))
	RegisterValidator("logging_level", OneOf("debug", "info", "warn", "error"))
	for _, k := range []string{"logging_enabled", "debug", "quiet"} {
		RegisterValidator(k, Bool())
	}
}

// normalizeBool maps the accepted spellings to "true" or "false", anything
// else to "".
func normalizeBool(v string) string {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return "true"
	case "0", "false", "no", "off":
		return "false"
	}
	return ""
}
