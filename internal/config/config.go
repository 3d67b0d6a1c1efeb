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
	Files  FilesConfig  `yaml:"files" mapstructure:"files"`
	Store  StoreConfig  `yaml:"store" mapstructure:"store"`
	Lookup LookupConfig `yaml:"lookup" mapstructure:"lookup"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// FilesConfig names the createmap input files.
type FilesConfig struct {
	Logs      string `yaml:"logs" mapstructure:"logs"`
	Createmap string `yaml:"createmap" mapstructure:"createmap"`
}

// StoreConfig configures the eperson database read by sync.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	Table       string `yaml:"table" mapstructure:"table"`
	IDColumn    string `yaml:"id_column" mapstructure:"id_column"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns"`
}

// LookupConfig configures the purge-window lookup.
type LookupConfig struct {
	GraceMonths int `yaml:"grace_months" mapstructure:"grace_months"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("CREATEMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("files.logs", "eperson-create-from-logs.tsv")
	v.SetDefault("files.createmap", "eperson-createmap.tsv")
	v.SetDefault("store.driver", "postgres")
	v.SetDefault("store.database_url", "")
	v.SetDefault("store.table", "eperson")
	v.SetDefault("store.id_column", "eperson_id")
	v.SetDefault("store.max_conns", 0)
	v.SetDefault("store.min_conns", 0)
	v.SetDefault("lookup.grace_months", 3)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

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

// Validate checks the settings a command mode depends on.
func (c *Config) Validate(mode string) error {
	var problems []string

	switch mode {
	case "rebuild":
		if c.Files.Logs == "" {
			problems = append(problems, "files.logs is required")
		}
		if c.Files.Createmap == "" {
			problems = append(problems, "files.createmap is required")
		}
	case "lookup":
		if c.Files.Createmap == "" {
			problems = append(problems, "files.createmap is required")
		}
		if c.Lookup.GraceMonths < 0 {
			problems = append(problems, "lookup.grace_months must be >= 0")
		}
	case "sync":
		if c.Files.Createmap == "" {
			problems = append(problems, "files.createmap is required")
		}
		if c.Store.Driver != "postgres" && c.Store.Driver != "sqlite" {
			problems = append(problems, "store.driver must be postgres or sqlite")
		}
		if c.Store.DatabaseURL == "" {
			problems = append(problems, "store.database_url is required")
		}
		if c.Store.Table == "" || c.Store.IDColumn == "" {
			problems = append(problems, "store.table and store.id_column are required")
		}
		if c.Store.MinConns > c.Store.MaxConns && c.Store.MaxConns > 0 {
			problems = append(problems, "store.min_conns must not exceed store.max_conns")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(problems) > 0 {
		return eris.Errorf("config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger. Both formats write to
// stderr so stdout stays reserved for command output.
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
	zapCfg.OutputPaths = []string{"stderr"}
	zapCfg.ErrorOutputPaths = []string{"stderr"}

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
