package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/lgrando1/leo-tracker/internal/models"
	"github.com/lgrando1/leo-tracker/internal/reference"
	"github.com/spf13/viper"
)

type Config struct {
	DatabaseURL        string
	DatabasePath       string
	Port               string
	LogLevel           slog.Level
	Location           *time.Location
	Target             models.DailyTarget
	WeightGoal         models.WeightGoal
	ProjectionDays     int
	HistoryDays        int
	AccessToken        string
	ReferenceEncodings []string
}

// DSN is the Postgres URL when one is configured, otherwise the SQLite path.
func (config Config) DSN() string {
	if config.DatabaseURL != "" {
		return config.DatabaseURL
	}
	return config.DatabasePath
}

var defaults = map[string]interface{}{
	"database_path":       "./data/leo-tracker.db",
	"port":                "8080",
	"log_level":           "info",
	"timezone":            "America/Sao_Paulo",
	"target_kcal":         1650.0,
	"target_protein_g":    110.0,
	"target_carb_g":       200.0,
	"target_fat_g":        50.0,
	"target_weight_kg":    120.0,
	"weekly_rate_kg":      0.8,
	"projection_days":     30,
	"history_days":        30,
	"reference_encodings": strings.Join(reference.DefaultEncodings, ","),
}

// Load reads .env if present, then the environment, then CONFIG_FILE if
// set. Environment values win over the file.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("loading .env: %w", err)
	}

	settings := viper.New()
	for key, value := range defaults {
		settings.SetDefault(key, value)
	}
	settings.AutomaticEnv()

	if file := settings.GetString("config_file"); file != "" {
		settings.SetConfigFile(file)
		if err := settings.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file %s: %w", file, err)
		}
	}

	return fromSettings(settings)
}

func fromSettings(settings *viper.Viper) (Config, error) {
	config := Config{
		DatabaseURL:  settings.GetString("database_url"),
		DatabasePath: settings.GetString("database_path"),
		Port:         settings.GetString("port"),
		Target: models.DailyTarget{
			Kcal:     settings.GetFloat64("target_kcal"),
			ProteinG: settings.GetFloat64("target_protein_g"),
			CarbG:    settings.GetFloat64("target_carb_g"),
			FatG:     settings.GetFloat64("target_fat_g"),
		},
		WeightGoal: models.WeightGoal{
			TargetKg:     settings.GetFloat64("target_weight_kg"),
			WeeklyRateKg: settings.GetFloat64("weekly_rate_kg"),
		},
		ProjectionDays: settings.GetInt("projection_days"),
		HistoryDays:    settings.GetInt("history_days"),
		AccessToken:    settings.GetString("access_token"),
	}

	if err := config.LogLevel.UnmarshalText([]byte(settings.GetString("log_level"))); err != nil {
		return Config{}, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	location, err := time.LoadLocation(settings.GetString("timezone"))
	if err != nil {
		return Config{}, fmt.Errorf("TIMEZONE: %w", err)
	}
	config.Location = location

	for _, name := range stringList(settings, "reference_encodings") {
		canonical, ok := reference.CanonicalEncoding(name)
		if !ok {
			return Config{}, fmt.Errorf("REFERENCE_ENCODINGS: unsupported encoding %q", name)
		}
		config.ReferenceEncodings = append(config.ReferenceEncodings, canonical)
	}
	if len(config.ReferenceEncodings) == 0 {
		return Config{}, fmt.Errorf("REFERENCE_ENCODINGS must name at least one encoding")
	}

	positive := map[string]float64{
		"TARGET_KCAL":      config.Target.Kcal,
		"TARGET_PROTEIN_G": config.Target.ProteinG,
		"TARGET_CARB_G":    config.Target.CarbG,
		"TARGET_FAT_G":     config.Target.FatG,
		"TARGET_WEIGHT_KG": config.WeightGoal.TargetKg,
		"PROJECTION_DAYS":  float64(config.ProjectionDays),
		"HISTORY_DAYS":     float64(config.HistoryDays),
	}
	for key, value := range positive {
		if value <= 0 {
			return Config{}, fmt.Errorf("%s must be positive", key)
		}
	}
	if config.WeightGoal.WeeklyRateKg < 0 {
		return Config{}, fmt.Errorf("WEEKLY_RATE_KG must not be negative")
	}
	if config.DSN() == "" {
		return Config{}, fmt.Errorf("DATABASE_URL or DATABASE_PATH is required")
	}

	return config, nil
}

// stringList accepts a comma separated string from the environment or a
// list from a config file.
func stringList(settings *viper.Viper, key string) []string {
	var values []string
	switch raw := settings.Get(key).(type) {
	case string:
		values = strings.Split(raw, ",")
	default:
		values = settings.GetStringSlice(key)
	}

	var cleaned []string
	for _, value := range values {
		if value = strings.TrimSpace(value); value != "" {
			cleaned = append(cleaned, value)
		}
	}
	return cleaned
}
