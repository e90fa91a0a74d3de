// Package config loads questterm settings. Values come from built-in
// defaults, the TOML file and QUESTTERM_* environment variables, in that
// order of precedence (environment wins).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/cristianoliveira/questterm/internal/colors"
	"github.com/pelletier/go-toml/v2"
)

const (
	FileModeDir  os.FileMode = 0o755
	FileModeFile os.FileMode = 0o644

	// EnvPrefix prefixes every environment override, e.g. QUESTTERM_STORAGE_BACKEND.
	EnvPrefix = "QUESTTERM_"

	fileName = "config.toml"
)

// setting describes one setting and how it is documented in the sample file.
type setting struct {
	Name    string
	Default func(dirs xdgDirs) string
	Help    string
}

type xdgDirs struct {
	config string
	state  string
}

func fixed(v string) func(xdgDirs) string { return func(xdgDirs) string { return v } }

// settings lists every known setting in sample file order.
var settings = []setting{
	{"config_dir", func(d xdgDirs) string { return d.config }, "directory holding this file"},
	{"state_dir", func(d xdgDirs) string { return d.state }, "saved edits, level progress and logs"},
	{"content_dir", func(d xdgDirs) string { return filepath.Join(d.config, "consoles") }, "console bundles on disk; the built-in ones are used when missing"},
	{"console_name", fixed("intro"), "console opened on start"},
	{"storage_backend", fixed("sqlite"), "memory, sqlite or bolt"},
	{"step_delay_ms", fixed("400"), "pause between timed steps, 0 disables it"},
	{"script_timeout_ms", fixed("2000"), "longest a content script may run"},
	{"markdown_style", fixed("auto"), "auto, dark, light or notty"},
	{"word_wrap", fixed("100"), "transcript width"},
	{"logging_enabled", fixed("false"), ""},
	{"logging_level", fixed("info"), "debug, info, warn or error"},
	{"logging_max_files", fixed("10"), "rotated log files to keep"},
	{"logging_max_size_mb", fixed("5"), ""},
	{"debug", fixed("false"), ""},
	{"quiet", fixed("false"), ""},
}

// env names that steer loading and never become settings.
var reservedEnv = map[string]bool{"config_path": true, "debug_colors": true, "force_color": true}

var (
	mu       sync.RWMutex
	values   map[string]string
	defaults map[string]string
)

func init() {
	initValidators()
}

// Load rebuilds the configuration from scratch and writes a sample file
// when none exists yet.
func Load() {
	mu.Lock()
	defer mu.Unlock()

	dirs := resolveXDG()
	values = make(map[string]string, len(settings))
	defaults = make(map[string]string, len(settings))
	for _, k := range settings {
		v := k.Default(dirs)
		values[k.Name] = v
		defaults[k.Name] = v
	}

	env := readEnv()
	merge(env)
	if path := filePath(); path != "" {
		merge(readFile(path))
	}
	merge(env)
	validate()
	followConfigDir(env)
	writeSample()
}

func resolveXDG() xdgDirs {
	home, _ := os.UserHomeDir()
	cfg := os.Getenv("XDG_CONFIG_HOME")
	if cfg == "" {
		cfg = filepath.Join(home, ".config")
	}
	state := os.Getenv("XDG_STATE_HOME")
	if state == "" {
		state = filepath.Join(home, ".local", "state")
	}
	return xdgDirs{config: filepath.Join(cfg, "questterm"), state: filepath.Join(state, "questterm")}
}

func merge(src map[string]string) {
	for k, v := range src {
		values[k] = v
	}
}

func readEnv() map[string]string {
	out := map[string]string{}
	for _, kv := range os.Environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, EnvPrefix) {
			continue
		}
		key := strings.ToLower(strings.TrimPrefix(name, EnvPrefix))
		if reservedEnv[key] {
			continue
		}
		out[key] = value
	}
	return out
}

// filePath is QUESTTERM_CONFIG_PATH or the config.toml in config_dir, if present.
func filePath() string {
	if p := os.Getenv(EnvPrefix + "CONFIG_PATH"); p != "" {
		return p
	}
	p := filepath.Join(values["config_dir"], fileName)
	if _, err := os.Stat(p); err != nil {
		return ""
	}
	return p
}

func readFile(path string) map[string]string {
	data, err := os.ReadFile(path)
	if err != nil {
		colors.Debug(fmt.Sprintf("unable to read config file %s: %v", path, err))
		return nil
	}
	if !strings.EqualFold(filepath.Ext(path), ".toml") {
		colors.Debug("ignoring non-TOML config file " + path)
		return nil
	}
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		colors.Warning(fmt.Sprintf("unable to parse config file %s: %v", path, err))
		return nil
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		s, ok := coerceConfigValue(v)
		if !ok {
			colors.Warning(fmt.Sprintf("unsupported config value type for %s: %T", k, v))
			continue
		}
		out[strings.ToLower(k)] = s
	}
	return out
}

// coerceConfigValue flattens a decoded TOML scalar into its string form.
func coerceConfigValue(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(v), true
	}
	return "", false
}

func validate() {
	for key, value := range values {
		check := getValidator(key)
		if check == nil {
			continue
		}
		fallback := defaults[key]
		normalized, err := check(key, value, fallback)
		if err != nil {
			colors.Warning(fmt.Sprintf("validation error for %s: %v, using default: %s", key, err, fallback))
			normalized = fallback
		}
		values[key] = normalized
	}
}

// followConfigDir moves content_dir under an overridden config_dir unless
// content_dir was set itself.
func followConfigDir(env map[string]string) {
	if _, set := env["content_dir"]; set || values["content_dir"] != defaults["content_dir"] {
		return
	}
	if dir := values["config_dir"]; dir != "" {
		values["content_dir"] = filepath.Join(dir, "consoles")
	}
}

// writeSample documents every key with its default, commented out.
func writeSample() {
	dir := values["config_dir"]
	if dir == "" {
		return
	}
	path := filepath.Join(dir, fileName)
	if _, err := os.Stat(path); err == nil {
		return
	}
	if err := os.MkdirAll(dir, FileModeDir); err != nil {
		colors.Debug(fmt.Sprintf("unable to create config dir %s: %v", dir, err))
		return
	}

	var b strings.Builder
	b.WriteString("# questterm configuration (TOML).\n# Uncomment a line to change it.\n")
	for _, k := range settings {
		line, err := toml.Marshal(map[string]any{k.Name: typed(defaults[k.Name])})
		if err != nil {
			colors.Warning(fmt.Sprintf("unable to marshal sample value %s: %v", k.Name, err))
			return
		}
		b.WriteString("\n")
		if k.Help != "" {
			b.WriteString("# " + k.Help + "\n")
		}
		b.WriteString("# " + string(line))
	}
	if err := os.WriteFile(path, []byte(b.String()), FileModeFile); err != nil {
		colors.Warning(fmt.Sprintf("unable to write sample config to %s: %v", path, err))
	}
}

func typed(v string) any {
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	if b, err := strconv.ParseBool(v); err == nil {
		return b
	}
	return v
}

// Set overrides a value for the rest of the process, e.g. from a CLI flag.
func Set(key, value string) {
	mu.Lock()
	defer mu.Unlock()
	if values == nil {
		values = make(map[string]string)
	}
	values[key] = value
}

// Get returns the value of key, or fallback when it is unset.
func Get(key, fallback string) string {
	mu.RLock()
	defer mu.RUnlock()
	if v, ok := values[key]; ok {
		return v
	}
	return fallback
}

func GetInt(key string, fallback int) int {
	n, err := strconv.Atoi(Get(key, ""))
	if err != nil {
		return fallback
	}
	return n
}

func GetBool(key string, fallback bool) bool {
	switch normalizeBool(Get(key, "")) {
	case "true":
		return true
	case "false":
		return false
	}
	return fallback
}
