package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	// HTTP Server
	Port string

	// Env selects the database location policy: development keeps the
	// store next to the working directory, production uses the
	// platform's per-user application-data directory.
	Env string

	// Database
	DBPath string

	// DataDir is where rendered PDF reports are written, under
	// per-purpose subdirectories. Defaults to the database directory.
	DataDir string

	// TemplateDir optionally overrides the embedded report templates.
	TemplateDir string

	// Company identity printed in report headers.
	CompanyName    string
	CompanyPhone   string
	CompanyAddress string
}

func Load() *Config {
	env := getEnv("FATOORA_ENV", EnvDevelopment)

	cfg := &Config{
		Port:        getEnv("FATOORA_PORT", "8090"),
		Env:         env,
		DBPath:      getEnv("FATOORA_DB_PATH", defaultDBPath(env)),
		TemplateDir: getEnv("FATOORA_TEMPLATE_DIR", ""),

		CompanyName:    getEnv("FATOORA_COMPANY_NAME", "Fatoora"),
		CompanyPhone:   getEnv("FATOORA_COMPANY_PHONE", ""),
		CompanyAddress: getEnv("FATOORA_COMPANY_ADDRESS", ""),
	}
	cfg.DataDir = getEnv("FATOORA_DATA_DIR", filepath.Dir(cfg.DBPath))

	return cfg
}

// defaultDBPath picks the store location per environment: a local
// ./data directory during development, the per-user application-data
// directory in production.
func defaultDBPath(env string) string {
	if env == EnvProduction {
		if dir, err := os.UserConfigDir(); err == nil {
			return filepath.Join(dir, "fatoora", "fatoora.db")
		}
	}
	return filepath.Join("data", "fatoora.db")
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.Env != EnvDevelopment && c.Env != EnvProduction {
		errors = append(errors, fmt.Sprintf("invalid environment '%s': must be '%s' or '%s'", c.Env, EnvDevelopment, EnvProduction))
	}

	if c.DBPath == "" {
		errors = append(errors, "database path cannot be empty")
	}

	if c.DataDir == "" {
		errors = append(errors, "data directory cannot be empty")
	}

	// Validate template override directory if provided
	if c.TemplateDir != "" {
		if info, err := os.Stat(c.TemplateDir); err != nil {
			errors = append(errors, fmt.Sprintf("template directory does not exist: %s", c.TemplateDir))
		} else if !info.IsDir() {
			errors = append(errors, fmt.Sprintf("template path is not a directory: %s", c.TemplateDir))
		}
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
