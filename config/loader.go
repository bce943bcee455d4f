package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix marks environment variables that override file values,
// e.g. OAUTHREST_OAUTH_CONSUMER_KEY sets oauth.consumer_key.
const EnvPrefix = "OAUTHREST"

// FileSystem abstracts the file lookups the loader performs.
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

// OSFileSystem implements FileSystem on the real filesystem.
type OSFileSystem struct{}

func (OSFileSystem) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func (OSFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

// Files are the config and env files a load will read.
type Files struct {
	ConfigFile string
	EnvFile    string
}

// Resolver finds config and env files in standard locations.
type Resolver struct {
	FileSystem FileSystem
}

// Resolve returns explicit paths when given and searches otherwise.
func (r *Resolver) Resolve(app string, lc LoaderConfig) Files {
	files := Files{ConfigFile: lc.ConfigFile, EnvFile: lc.EnvFile}
	if files.ConfigFile == "" {
		files.ConfigFile = r.first(configCandidates(app))
	}
	if files.EnvFile == "" {
		files.EnvFile = r.first(envCandidates(app))
	}
	return files
}

func (r *Resolver) first(paths []string) string {
	for _, p := range paths {
		if r.FileSystem.Exists(p) {
			return p
		}
	}
	return ""
}

func configCandidates(app string) []string {
	var paths []string
	for _, name := range []string{app + ".yml", app + ".yaml", "config.yml", "config.yaml"} {
		paths = append(paths, "./"+name, "./config/"+name, fmt.Sprintf("./cmd/%s/%s", app, name))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, fmt.Sprintf("%s/.config/%s/config.yml", home, app))
	}
	return paths
}

func envCandidates(app string) []string {
	return []string{
		fmt.Sprintf("./.env.%s", app),
		"./.env",
		fmt.Sprintf("./cmd/%s/.env", app),
		"./config/.env",
	}
}

// LoaderConfig holds the loader's dependencies and file overrides.
type LoaderConfig struct {
	FileSystem FileSystem
	ConfigFile string
	EnvFile    string
	Defaults   map[string]any
}

// LoaderOption customizes LoadConfig.
type LoaderOption func(*LoaderConfig)

// WithFileSystem replaces the filesystem used for lookups.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithConfigFile reads path instead of searching. A missing explicit file is an error.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile loads path instead of searching for a .env file.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// WithDefault sets a value used when neither file nor environment provide one.
func WithDefault(key string, value any) LoaderOption {
	return func(lc *LoaderConfig) {
		if lc.Defaults == nil {
			lc.Defaults = map[string]any{}
		}
		lc.Defaults[key] = value
	}
}

// LoadConfig reads the YAML config, then a .env file, then EnvPrefix
// environment variables, and unmarshals the result into cfg. Later sources win.
func LoadConfig(app string, cfg any, opts ...LoaderOption) error {
	var lc LoaderConfig
	for _, opt := range opts {
		opt(&lc)
	}
	if lc.FileSystem == nil {
		lc.FileSystem = OSFileSystem{}
	}
	explicit := lc.ConfigFile != ""

	files := (&Resolver{FileSystem: lc.FileSystem}).Resolve(app, lc)

	v := viper.New()
	for k, val := range lc.Defaults {
		v.SetDefault(k, val)
	}

	if files.ConfigFile != "" {
		if !lc.FileSystem.Exists(files.ConfigFile) {
			if explicit {
				return fmt.Errorf("config: file %s not found", files.ConfigFile)
			}
		} else {
			v.SetConfigFile(files.ConfigFile)
			if err := v.ReadInConfig(); err != nil {
				return fmt.Errorf("config: read %s: %w", files.ConfigFile, err)
			}
		}
	}

	if files.EnvFile != "" && lc.FileSystem.Exists(files.EnvFile) {
		if err := lc.FileSystem.LoadEnv(files.EnvFile); err != nil {
			return fmt.Errorf("config: load %s: %w", files.EnvFile, err)
		}
	}
	bindEnv(v, os.Environ())

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("config: unmarshal for %s: %w", app, err)
	}
	return nil
}

// bindEnv sets every EnvPrefix variable under each nested key it could name.
func bindEnv(v *viper.Viper, environ []string) {
	prefix := EnvPrefix + "_"
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, prefix) {
			continue
		}
		for _, variant := range keyVariants(strings.TrimPrefix(key, prefix)) {
			v.Set(variant, value)
		}
	}
}

// keyVariants expands an env suffix into the dotted keys it may address.
// Sections nest at most two deep, so CLIENT_RATE_LIMIT_BURST yields
// client.rate_limit_burst, client.rate.limit_burst, client.rate_limit.burst
// and so on; keys with no matching field are ignored by Unmarshal.
//
//	OAUTH_CONSUMER_KEY -> oauth_consumer_key, oauth.consumer_key, oauth.consumer.key, oauth_consumer.key
func keyVariants(envKey string) []string {
	parts := strings.Split(strings.ToLower(envKey), "_")
	if len(parts) == 1 {
		return parts
	}

	seen := map[string]bool{}
	var out []string
	add := func(s string) {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}

	add(strings.Join(parts, "_"))
	for i := 1; i < len(parts); i++ {
		head := strings.Join(parts[:i], "_")
		add(head + "." + strings.Join(parts[i:], "_"))
		for j := i + 1; j < len(parts); j++ {
			add(head + "." + strings.Join(parts[i:j], "_") + "." + strings.Join(parts[j:], "_"))
		}
	}
	return out
}
