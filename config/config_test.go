package config_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erwinmanzano2020/Agui-sub001/config"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{"APP_PORT", "APP_ENV", "LOG_LEVEL", "DB_DRIVER", "SQLITE_PATH", "DATABASE_URL",
		"PAYROLL_TZ", "HOURS_PER_DAY", "STANDARD_MINUTES_PER_DAY", "DAYS_PER_MONTH", "OT_MULTIPLIER",
		"SCHEDULER_ENABLED", "SCHEDULER_INTERVAL"} {
		t.Setenv(key, "")
	}

	cfg, err := config.FromEnv()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, config.DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "payroll.db", cfg.Database.SQLitePath)
	assert.Equal(t, 630, cfg.Payroll.StandardMinutesPerDay)
	assert.True(t, cfg.Payroll.HoursPerDay.Equal(decimal.NewFromInt(8)))
	assert.False(t, cfg.Scheduler.Enabled)
	assert.Equal(t, time.Hour, cfg.Scheduler.Interval)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("DATABASE_URL", "postgres://payroll@localhost/payroll")
	t.Setenv("PAYROLL_TZ", "Asia/Manila")
	t.Setenv("HOURS_PER_DAY", "10")
	t.Setenv("OT_MULTIPLIER", "1.25")
	t.Setenv("SCHEDULER_ENABLED", "true")
	t.Setenv("SCHEDULER_INTERVAL", "15m")

	cfg, err := config.FromEnv()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.App.Port)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	assert.Equal(t, config.DriverPostgres, cfg.Database.Driver)
	assert.True(t, cfg.Scheduler.Enabled)
	assert.Equal(t, 15*time.Minute, cfg.Scheduler.Interval)

	settings := cfg.Settings()
	assert.True(t, settings.HoursPerDay.Equal(decimal.NewFromInt(10)))
	assert.True(t, settings.OvertimeMultiplier.Equal(decimal.RequireFromString("1.25")))

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Manila", loc.String())
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"APP_PORT", "http"},
		{"DB_DRIVER", "mysql"},
		{"HOURS_PER_DAY", "0"},
		{"HOURS_PER_DAY", "eight"},
		{"STANDARD_MINUTES_PER_DAY", "-1"},
		{"DAYS_PER_MONTH", "0"},
		{"OT_MULTIPLIER", "-1"},
		{"SCHEDULER_ENABLED", "sometimes"},
		{"SCHEDULER_INTERVAL", "hourly"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := config.FromEnv()
			assert.Error(t, err)
		})
	}
}

func TestFromEnv_PostgresRequiresURL(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "")

	_, err := config.FromEnv()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLocation_Unknown(t *testing.T) {
	cfg := &config.Config{Payroll: config.PayrollConfig{TimeZone: "Mars/Olympus"}}

	_, err := cfg.Location()

	assert.Error(t, err)
}
