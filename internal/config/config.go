package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables that override the config file
const (
	EnvDatabaseDriver = "ROSTER_DATABASE_DRIVER"
	EnvDatabaseDSN    = "ROSTER_DATABASE_DSN"
)

// DatabaseConfig selects the store backing the member directory and weights
type DatabaseConfig struct {
	Driver string `yaml:"driver" validate:"required,oneof=sqlite postgres"`
	DSN    string `yaml:"dsn" validate:"required"`
}

// RoleConfig defines one role of a duty slot, in fill order
type RoleConfig struct {
	Code          string   `yaml:"code" validate:"required,max=4"`
	Name          string   `yaml:"name" validate:"required"`
	CrossPenalize []string `yaml:"crossPenalize,omitempty"`
}

// WeightsConfig holds the weight ledger constants
type WeightsConfig struct {
	Default          int `yaml:"default" validate:"gt=0"`
	PrimaryPenalty   int `yaml:"primaryPenalty" validate:"gte=0"`
	CrossPenalty     int `yaml:"crossPenalty" validate:"gte=0"`
	CollisionPenalty int `yaml:"collisionPenalty" validate:"gt=0"`
	Replenish        int `yaml:"replenish" validate:"gte=0"`
}

// RepairConfig bounds the repetition repair engine
type RepairConfig struct {
	MaxPasses      int `yaml:"maxPasses" validate:"gte=1,lte=100"`
	AdjacencyWeeks int `yaml:"adjacencyWeeks" validate:"gte=1,lte=4"`
}

// OutputConfig controls exported files
type OutputConfig struct {
	Directory string   `yaml:"directory" validate:"required"`
	Formats   []string `yaml:"formats" validate:"dive,oneof=csv pdf"`
}

// SheetsConfig enables publishing to Google Sheets
type SheetsConfig struct {
	SpreadsheetID string `yaml:"spreadsheetID,omitempty"`
}

// MetricsConfig enables writing run metrics in the node exporter textfile format
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty"`
}

// Config represents the application configuration
type Config struct {
	Database  DatabaseConfig `yaml:"database"`
	Roles     []RoleConfig   `yaml:"roles" validate:"min=2,max=3,dive"`
	Timeslots []string       `yaml:"timeslots" validate:"len=3,dive,required"`
	Weights   WeightsConfig  `yaml:"weights"`
	Repair    RepairConfig   `yaml:"repair"`
	FillOrder string         `yaml:"fillOrder" validate:"oneof=calendar scarcity"`
	Output    OutputConfig   `yaml:"output"`
	Sheets    SheetsConfig   `yaml:"sheets,omitempty"`
	Metrics   MetricsConfig  `yaml:"metrics,omitempty"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Default returns the configuration used for any field the file leaves out
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{Driver: "sqlite", DSN: "roster.db"},
		Roles: []RoleConfig{
			{Code: "B", Name: "Bible Reading", CrossPenalize: []string{"R"}},
			{Code: "R", Name: "Reading", CrossPenalize: []string{"B"}},
			{Code: "I", Name: "Incense"},
		},
		Timeslots: []string{"6:00 am", "7:30 am", "5:00 pm"},
		Weights: WeightsConfig{
			Default:          100,
			PrimaryPenalty:   10,
			CrossPenalty:     5,
			CollisionPenalty: 10,
			Replenish:        20,
		},
		Repair:    RepairConfig{MaxPasses: 20, AdjacencyWeeks: 4},
		FillOrder: "calendar",
		Output:    OutputConfig{Directory: "output", Formats: []string{"csv"}},
	}
}

// LoadWithEnv loads .env files, then roster_config.<env>.yaml (or
// roster_config.yaml) from the current directory or the home directory.
// A missing config file falls back to Default.
func LoadWithEnv(env string) (*Config, error) {
	if err := loadDotEnv(env); err != nil {
		return nil, err
	}

	configPath, err := findConfigFile(env)
	if errors.Is(err, fs.ErrNotExist) {
		cfg := Default()
		applyEnvOverrides(cfg)
		if err := Validate(cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration struct and the role cross references
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	codes := make([]string, 0, len(cfg.Roles))
	for _, role := range cfg.Roles {
		if slices.Contains(codes, role.Code) {
			return fmt.Errorf("duplicate role code %q", role.Code)
		}
		codes = append(codes, role.Code)
	}

	for _, role := range cfg.Roles {
		for _, other := range role.CrossPenalize {
			if other == role.Code {
				return fmt.Errorf("role %q cannot cross-penalize itself", role.Code)
			}
			if !slices.Contains(codes, other) {
				return fmt.Errorf("role %q cross-penalizes unknown role %q", role.Code, other)
			}
		}
	}

	return nil
}

// applyEnvOverrides lets the environment replace the database settings
func applyEnvOverrides(cfg *Config) {
	if driver := os.Getenv(EnvDatabaseDriver); driver != "" {
		cfg.Database.Driver = driver
	}
	if dsn := os.Getenv(EnvDatabaseDSN); dsn != "" {
		cfg.Database.DSN = dsn
	}
}

// loadDotEnv loads .env.<env> then .env. Variables already set are kept.
func loadDotEnv(env string) error {
	files := []string{".env"}
	if env != "" {
		files = []string{".env." + env, ".env"}
	}

	for _, file := range files {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			return fmt.Errorf("failed to load %s: %w", file, err)
		}
	}
	return nil
}

// findConfigFile returns roster_config.<env>.yaml (or roster_config.yaml)
// from the current directory or the home directory
func findConfigFile(env string) (string, error) {
	name := "roster_config.yaml"
	if env != "" {
		name = "roster_config." + env + ".yaml"
	}

	for _, dir := range searchDirs() {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return "", fmt.Errorf("%s not found in current directory or home directory: %w", name, fs.ErrNotExist)
}
