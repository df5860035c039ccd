package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type CloudStorageConfig struct {
	Provider   string `mapstructure:"provider"`
	Region     string `mapstructure:"region"`
	BucketName string `mapstructure:"bucket_name"`
}

type Config struct {
	Seed             int       `mapstructure:"seed"`
	Weeks            int       `mapstructure:"weeks"`
	Users            int       `mapstructure:"users"`
	FavoritesPerUser int       `mapstructure:"favorites_per_user"`
	StartDate        time.Time `mapstructure:"start_date"`
	MinMainCourses   int       `mapstructure:"min_main_courses"`

	// output
	OutputFormat      string             `mapstructure:"output_format"`
	OutputPath        string             `mapstructure:"output_path"`
	OutputFolder      string             `mapstructure:"output_folder"`
	OutputDestination string             `mapstructure:"output_destination"`
	CloudStorage      CloudStorageConfig `mapstructure:"cloud_storage"`
	KafkaEnabled      bool               `mapstructure:"kafka_enabled"`
	KafkaBrokerList   string             `mapstructure:"kafka_broker_list"`
	KafkaTopicPrefix  string             `mapstructure:"kafka_topic_prefix"`
	SessionTimeoutMs  int                `mapstructure:"session_timeout_ms"`

	// storage and coordination
	DatabaseURL string        `mapstructure:"database_url"`
	RedisAddr   string        `mapstructure:"redis_addr"`
	LockTTL     time.Duration `mapstructure:"lock_ttl"`
	MetricsAddr string        `mapstructure:"metrics_addr"`

	// logging
	LogLevel       string `mapstructure:"log_level"`
	LogFormat      string `mapstructure:"log_format"`
	LogDevelopment bool   `mapstructure:"log_development"`

	// defaults applied to synthetic users
	MaxPrepTimeWeeknight    int     `mapstructure:"max_prep_time_weeknight"`
	MaxPrepTimeWeekend      int     `mapstructure:"max_prep_time_weekend"`
	SkillLevel              string  `mapstructure:"skill_level"`
	AvoidConsecutiveComplex bool    `mapstructure:"avoid_consecutive_complex"`
	CuisineVarietyWeight    float64 `mapstructure:"cuisine_variety_weight"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("seed", 42)
	v.SetDefault("weeks", 1)
	v.SetDefault("users", 10)
	v.SetDefault("favorites_per_user", 40)
	v.SetDefault("min_main_courses", 0)
	v.SetDefault("output_format", "console")
	v.SetDefault("output_path", "")
	v.SetDefault("output_folder", "mealplans")
	v.SetDefault("output_destination", "local")
	v.SetDefault("kafka_enabled", false)
	v.SetDefault("kafka_broker_list", "localhost:9092")
	v.SetDefault("kafka_topic_prefix", "mealplanner")
	v.SetDefault("lock_ttl", "30s")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("max_prep_time_weeknight", DefaultMaxPrepTimeWeeknight)
	v.SetDefault("max_prep_time_weekend", DefaultMaxPrepTimeWeekend)
	v.SetDefault("skill_level", string(DefaultSkillLevel))
	v.SetDefault("avoid_consecutive_complex", true)
	v.SetDefault("cuisine_variety_weight", DefaultCuisineVarietyWeight)
}

// LoadConfig reads configuration from an optional file, MEALPLANNER_* environment
// variables and whatever flags were bound to v. A missing default config file is not an error.
func LoadConfig(v *viper.Viper, cfgFile string) (*Config, error) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("mealplanner")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("mealplanner")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	decoderConfigOption := viper.DecoderConfigOption(func(config *mapstructure.DecoderConfig) {
		config.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			config.DecodeHook,
			mapstructure.StringToTimeHookFunc(time.RFC3339),
		)
	})
	if err := v.Unmarshal(&config, decoderConfigOption); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	if config.Weeks < 1 {
		return nil, fmt.Errorf("weeks must be at least 1, got %d", config.Weeks)
	}
	if config.StartDate.IsZero() {
		config.StartDate = time.Now()
	}

	return &config, nil
}

// DefaultUserPreferences builds the preferences applied to users that have none stored.
func (cfg *Config) DefaultUserPreferences() UserPreferences {
	return UserPreferences{
		MaxPrepTimeWeeknight:    cfg.MaxPrepTimeWeeknight,
		MaxPrepTimeWeekend:      cfg.MaxPrepTimeWeekend,
		SkillLevel:              SkillLevel(strings.ToLower(cfg.SkillLevel)),
		AvoidConsecutiveComplex: cfg.AvoidConsecutiveComplex,
		CuisineVarietyWeight:    cfg.CuisineVarietyWeight,
	}
}
