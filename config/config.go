package config

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/grovetools/refactor/errors"
)

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// configNames are the recognized project config file names, in lookup
// order within a directory.
var configNames = []string{
	"refactor.yml",
	"refactor.yaml",
	".refactor.yml",
	".refactor.yaml",
	"refactor.toml",
}

// overrideNames are local override files merged over everything else.
var overrideNames = []string{
	"refactor.override.yml",
	"refactor.override.yaml",
	".refactor.override.yml",
	".refactor.override.yaml",
}

// Load reads and parses a single configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigNotFound(path)
		}
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to read config file").
			WithDetail("path", path)
	}

	cfg, err := parseConfig(data, path)
	if err != nil {
		return nil, err
	}

	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigValidation, "semantic validation failed")
	}
	return cfg, nil
}

// LoadDefault finds and loads the configuration with hierarchical merging
// starting from the current working directory. A missing project config
// is not an error: the defaults (plus any global config) apply.
func LoadDefault() (*Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to get current directory")
	}
	return LoadFrom(cwd)
}

// LoadFrom loads configuration with hierarchical merging:
// 1. Global config (~/.config/grove/refactor.yml) - base layer
// 2. Project config (refactor.yml, found upward from startDir)
// 3. Local override (refactor.override.yml) - overrides all
func LoadFrom(startDir string) (*Config, error) {
	var finalConfig *Config

	// 1. Global config is optional.
	if globalPath := getXDGConfigPath(); globalPath != "" {
		if _, err := os.Stat(globalPath); err == nil {
			if data, err := os.ReadFile(globalPath); err == nil {
				if globalConfig, err := parseConfig(data, globalPath); err == nil {
					finalConfig = globalConfig
				}
			}
		}
	}

	// 2. Project config is optional too; this tool must work out of the
	// box inside any repository.
	projectPath, findErr := FindConfigFile(startDir)
	if findErr == nil {
		data, err := os.ReadFile(projectPath)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to read project config").
				WithDetail("path", projectPath)
		}
		projectConfig, err := parseConfig(data, projectPath)
		if err != nil {
			return nil, err
		}
		if finalConfig == nil {
			finalConfig = projectConfig
		} else {
			finalConfig = mergeConfigs(finalConfig, projectConfig)
		}
	}

	if finalConfig == nil {
		finalConfig = &Config{}
	}

	// 3. Override files live next to the project config.
	overrideDir := startDir
	if findErr == nil {
		overrideDir = filepath.Dir(projectPath)
	}
	for _, name := range overrideNames {
		overridePath := filepath.Join(overrideDir, name)
		if _, err := os.Stat(overridePath); err != nil {
			continue
		}
		data, err := os.ReadFile(overridePath)
		if err != nil {
			continue
		}
		overrideConfig, err := parseConfig(data, overridePath)
		if err != nil {
			continue
		}
		finalConfig = mergeConfigs(finalConfig, overrideConfig)
	}

	finalConfig.SetDefaults()
	if err := finalConfig.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigValidation, "semantic validation failed")
	}
	return finalConfig, nil
}

// parseConfig parses a single file's bytes, expanding ${VAR} references
// and validating against the generated schema. TOML or YAML is chosen by
// file extension.
func parseConfig(data []byte, path string) (*Config, error) {
	expanded := expandEnvVars(string(data))

	var cfg Config
	if strings.HasSuffix(path, ".toml") {
		var all map[string]interface{}
		if err := toml.Unmarshal([]byte(expanded), &all); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse TOML configuration").
				WithDetail("path", path)
		}
		if section, ok := all["refactor"]; ok {
			decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
				Result:  &cfg.Refactor,
				TagName: "toml",
			})
			if err != nil {
				return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to create decoder")
			}
			if err := decoder.Decode(section); err != nil {
				return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to decode refactor section").
					WithDetail("path", path)
			}
			delete(all, "refactor")
		}
		if len(all) > 0 {
			cfg.Extensions = all
		}
	} else {
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse YAML configuration").
				WithDetail("path", path)
		}
	}

	validator, err := NewValidator()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to create validator")
	}
	if err := validator.Validate(&cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigValidation, "schema validation failed").
			WithDetail("path", path)
	}

	return &cfg, nil
}

// FindConfigFile searches for a refactor configuration file from
// startDir up to the filesystem root, then in the XDG config directory.
func FindConfigFile(startDir string) (string, error) {
	dir := startDir
	for {
		for _, name := range configNames {
			path := filepath.Join(dir, name)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	if xdgConfigPath := getXDGConfigPath(); xdgConfigPath != "" {
		if info, err := os.Stat(xdgConfigPath); err == nil && !info.IsDir() {
			return xdgConfigPath, nil
		}
	}

	return "", errors.ConfigNotFound(startDir).WithDetail("searchPath", startDir)
}

// expandEnvVars replaces ${VAR} with environment variable values
func expandEnvVars(content string) string {
	return envVarRegex.ReplaceAllStringFunc(content, func(match string) string {
		varName := envVarRegex.FindStringSubmatch(match)[1]

		// Handle default values: ${VAR:-default}
		parts := strings.SplitN(varName, ":-", 2)
		varName = parts[0]
		defaultValue := ""
		if len(parts) > 1 {
			defaultValue = parts[1]
		}

		if value := os.Getenv(varName); value != "" {
			return value
		}

		return defaultValue
	})
}

// getXDGConfigPath returns the XDG config path shared by grove tools.
func getXDGConfigPath() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "grove", "refactor.yml")
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".config", "grove", "refactor.yml")
	}

	return ""
}

// isConfigFile reports whether the base name of path is one of the
// recognized configuration or override files.
func isConfigFile(path string) bool {
	base := filepath.Base(path)
	for _, name := range configNames {
		if base == name {
			return true
		}
	}
	for _, name := range overrideNames {
		if base == name {
			return true
		}
	}
	return false
}
