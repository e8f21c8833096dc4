/*
Package config loads server configuration from the environment.

SOURCES (later wins):
  1. Built-in defaults
  2. .env file in the working directory (optional)
  3. Process environment
  4. Command-line flags (applied by cmd/server)

KEYS:
  APP_PORT                  HTTP port (8080)
  APP_ENV                   development | production
  LOG_LEVEL                 debug | info | warn | error (info)
  DB_DRIVER                 sqlite | postgres (sqlite)
  SQLITE_PATH               SQLite file or ":memory:" (payroll.db)
  DATABASE_URL              PostgreSQL DSN, required when DB_DRIVER=postgres
  PAYROLL_TZ                IANA zone shift times are read in (UTC)
  HOURS_PER_DAY             Hourly = daily / this (8)
  STANDARD_MINUTES_PER_DAY  Daily-equivalent pro-rating base (630)
  DAYS_PER_MONTH            Monthly and semi-monthly conversion base (26)
  OT_MULTIPLIER             Weight of OT minutes in pay (1)
  SCHEDULER_ENABLED         Record payroll runs at cut-offs (false)
  SCHEDULER_INTERVAL        How often the scheduler checks (1h)
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/erwinmanzano2020/Agui-sub001/payroll"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Payroll   PayrollConfig
	Scheduler SchedulerConfig
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
}

type DatabaseConfig struct {
	Driver     string
	SQLitePath string
	URL        string
}

// PayrollConfig holds the engine's conversion constants.
type PayrollConfig struct {
	TimeZone              string
	HoursPerDay           decimal.Decimal
	StandardMinutesPerDay int
	DaysPerMonth          decimal.Decimal
	OvertimeMultiplier    decimal.Decimal
}

type SchedulerConfig struct {
	Enabled  bool
	Interval time.Duration
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Load reads .env (if present) and the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() (*Config, error) {
	config := &Config{}

	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}
	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	config.Database = DatabaseConfig{
		Driver:     strings.ToLower(getEnv("DB_DRIVER", DriverSQLite)),
		SQLitePath: getEnv("SQLITE_PATH", "payroll.db"),
		URL:        getEnv("DATABASE_URL", ""),
	}

	hoursPerDay, err := getDecimal("HOURS_PER_DAY", "8")
	if err != nil {
		return nil, err
	}
	standardMinutes, err := strconv.Atoi(getEnv("STANDARD_MINUTES_PER_DAY", strconv.Itoa(payroll.DefaultStandardMinutesPerDay)))
	if err != nil {
		return nil, fmt.Errorf("invalid STANDARD_MINUTES_PER_DAY: %w", err)
	}
	daysPerMonth, err := getDecimal("DAYS_PER_MONTH", "26")
	if err != nil {
		return nil, err
	}
	otMultiplier, err := getDecimal("OT_MULTIPLIER", "1")
	if err != nil {
		return nil, err
	}
	config.Payroll = PayrollConfig{
		TimeZone:              getEnv("PAYROLL_TZ", "UTC"),
		HoursPerDay:           hoursPerDay,
		StandardMinutesPerDay: standardMinutes,
		DaysPerMonth:          daysPerMonth,
		OvertimeMultiplier:    otMultiplier,
	}

	enabled, err := strconv.ParseBool(getEnv("SCHEDULER_ENABLED", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid SCHEDULER_ENABLED: %w", err)
	}
	interval, err := time.ParseDuration(getEnv("SCHEDULER_INTERVAL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid SCHEDULER_INTERVAL: %w", err)
	}
	config.Scheduler = SchedulerConfig{Enabled: enabled, Interval: interval}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverSQLite:
	case DriverPostgres:
		if c.Database.URL == "" {
			return errors.New("DATABASE_URL is required when DB_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("invalid DB_DRIVER %q (use sqlite or postgres)", c.Database.Driver)
	}
	if !c.Payroll.HoursPerDay.IsPositive() {
		return errors.New("HOURS_PER_DAY must be positive")
	}
	if c.Payroll.StandardMinutesPerDay <= 0 {
		return errors.New("STANDARD_MINUTES_PER_DAY must be positive")
	}
	if !c.Payroll.DaysPerMonth.IsPositive() {
		return errors.New("DAYS_PER_MONTH must be positive")
	}
	if !c.Payroll.OvertimeMultiplier.IsPositive() {
		return errors.New("OT_MULTIPLIER must be positive")
	}
	if c.Scheduler.Interval <= 0 {
		return errors.New("SCHEDULER_INTERVAL must be positive")
	}
	return nil
}

// Location loads the payroll time zone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Payroll.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid PAYROLL_TZ %q: %w", c.Payroll.TimeZone, err)
	}
	return loc, nil
}

// Settings returns the engine settings carried by the config.
func (c *Config) Settings() payroll.Settings {
	return payroll.Settings{
		HoursPerDay:           c.Payroll.HoursPerDay,
		StandardMinutesPerDay: c.Payroll.StandardMinutesPerDay,
		DaysPerMonth:          c.Payroll.DaysPerMonth,
		OvertimeMultiplier:    c.Payroll.OvertimeMultiplier,
	}
}

// SlogLevel maps LOG_LEVEL onto a slog level; unknown values mean info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.App.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getDecimal(key, defaultValue string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(getEnv(key, defaultValue))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
