// Package config loads the planning-run configuration: horizon, break
// window, solver bounds and data file locations.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
)

// DataFiles locates the entity CSV inputs.
type DataFiles struct {
	Rooms    string `mapstructure:"rooms" validate:"required"`
	Teachers string `mapstructure:"teachers" validate:"required"`
	Groups   string `mapstructure:"groups" validate:"required"`
	Courses  string `mapstructure:"courses" validate:"required"`
}

// Outputs locates the export targets; an empty path skips that export.
type Outputs struct {
	ICS string `mapstructure:"ics"`
	CSV string `mapstructure:"csv"`
}

// Config is the whole configuration surface of one planning run. Weeks lists
// explicit ISO week numbers; empty means every week touched by Year/Month.
type Config struct {
	Year     int      `mapstructure:"year" validate:"required"`
	Month    int      `mapstructure:"month" validate:"min=1,max=12"`
	Weeks    []int    `mapstructure:"weeks"`
	Holidays []string `mapstructure:"holidays"`
	From     string   `mapstructure:"from"`
	To       string   `mapstructure:"to"`

	BreakStart int `mapstructure:"breakStart" validate:"min=0"`
	BreakEnd   int `mapstructure:"breakEnd" validate:"gtefield=BreakStart"`

	BudgetSeconds int `mapstructure:"budgetSeconds" validate:"min=0"`
	Workers       int `mapstructure:"workers" validate:"min=0"`
	MaxClauses    int `mapstructure:"maxClauses" validate:"min=0"`

	Data   DataFiles `mapstructure:"data"`
	Output Outputs   `mapstructure:"output"`
}

// Default carries the documented defaults: a 12:00-14:00 break window on the
// half-hour grid, a two hour solve budget, auto-sized workers.
func Default() Config {
	return Config{
		Month:         1,
		BreakStart:    8,
		BreakEnd:      12,
		BudgetSeconds: 7200,
	}
}

// FromJSON decodes a configuration file over the defaults.
func FromJSON(file string) (Config, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return Config{}, err
	}

	var raw map[string]any
	if err := json.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("cannot parse %s: %w", file, err)
	}

	cfg := Default()
	if err := mapstructure.Decode(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("cannot decode %s: %w", file, err)
	}
	return cfg, nil
}

// ApplyEnv overlays environment overrides, loading a .env file first when one
// is present.
func (c *Config) ApplyEnv() {
	_ = godotenv.Load()

	if v, err := strconv.Atoi(os.Getenv("EDT_BUDGET_SECONDS")); err == nil {
		c.BudgetSeconds = v
	}
	if v, err := strconv.Atoi(os.Getenv("EDT_WORKERS")); err == nil {
		c.Workers = v
	}
	if v, err := strconv.Atoi(os.Getenv("EDT_MAX_CLAUSES")); err == nil {
		c.MaxClauses = v
	}
}

func (c Config) Validate() error {
	return validator.New().Struct(c)
}

func (c Config) Budget() time.Duration {
	return time.Duration(c.BudgetSeconds) * time.Second
}
