package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store  StoreConfig  `yaml:"store" mapstructure:"store"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
	Engine EngineConfig `yaml:"engine" mapstructure:"engine"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port           int     `yaml:"port" mapstructure:"port"`
	RequestsPerSec float64 `yaml:"requests_per_sec" mapstructure:"requests_per_sec"`
	Burst          int     `yaml:"burst" mapstructure:"burst"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// EngineConfig holds the tunable constants of the matching engine. Defaults
// live in the engine package; none of these values are load-bearing beyond
// ranking behavior.
type EngineConfig struct {
	// Match scorer signal contributions.
	TypeMatchBonus        int `yaml:"type_match_bonus" mapstructure:"type_match_bonus"`
	PriceFitBonus         int `yaml:"price_fit_bonus" mapstructure:"price_fit_bonus"`
	ValueBonus            int `yaml:"value_bonus" mapstructure:"value_bonus"`
	FlavorBase            int `yaml:"flavor_base" mapstructure:"flavor_base"`
	FlavorSlope           int `yaml:"flavor_slope" mapstructure:"flavor_slope"`
	FlavorReasonThreshold int `yaml:"flavor_reason_threshold" mapstructure:"flavor_reason_threshold"`
	TanninPenalty         int `yaml:"tannin_penalty" mapstructure:"tannin_penalty"`
	HighTanninThreshold   int `yaml:"high_tannin_threshold" mapstructure:"high_tannin_threshold"`
	FavoriteBonus         int `yaml:"favorite_bonus" mapstructure:"favorite_bonus"`
	JournalBonus          int `yaml:"journal_bonus" mapstructure:"journal_bonus"`
	FeaturedBonus         int `yaml:"featured_bonus" mapstructure:"featured_bonus"`
	SimilarBonus          int `yaml:"similar_bonus" mapstructure:"similar_bonus"`

	// Dish pairing.
	ExactMatchScore   int     `yaml:"exact_match_score" mapstructure:"exact_match_score"`
	PartialMatchScore int     `yaml:"partial_match_score" mapstructure:"partial_match_score"`
	MultiMatchStep    int     `yaml:"multi_match_step" mapstructure:"multi_match_step"`
	MultiMatchCap     int     `yaml:"multi_match_cap" mapstructure:"multi_match_cap"`
	FlavorFitWeight   float64 `yaml:"flavor_fit_weight" mapstructure:"flavor_fit_weight"`
	FlavorOnlyStep    int     `yaml:"flavor_only_step" mapstructure:"flavor_only_step"`
	FlavorOnlyCap     int     `yaml:"flavor_only_cap" mapstructure:"flavor_only_cap"`

	// Ranking and selection.
	MinScore       int `yaml:"min_score" mapstructure:"min_score"`
	RecommendLimit int `yaml:"recommend_limit" mapstructure:"recommend_limit"`
	TopPicksLimit  int `yaml:"top_picks_limit" mapstructure:"top_picks_limit"`
	PairingLimit   int `yaml:"pairing_limit" mapstructure:"pairing_limit"`

	// Preference learning.
	MaxPreferredTypes  int     `yaml:"max_preferred_types" mapstructure:"max_preferred_types"`
	LearnedPriceSpread float64 `yaml:"learned_price_spread" mapstructure:"learned_price_spread"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("CELLAR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "cellar.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.requests_per_sec", 20)
	v.SetDefault("server.burst", 40)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
