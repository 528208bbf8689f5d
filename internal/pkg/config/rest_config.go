package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to environment variables overriding file settings,
// e.g. HOLE_STORAGE_ROOT overrides storage.root.
const EnvPrefix = "HOLE"

// ServerSettings configures the HTTP listener.
type ServerSettings struct {
	Port string `mapstructure:"port" validate:"required,numeric"`
	// FallBackToHTTPS forces https in generated Location headers, for deployments behind a TLS terminating proxy.
	FallBackToHTTPS    bool  `mapstructure:"fall_back_to_https"`
	MaxMultipartMemory int64 `mapstructure:"max_multipart_memory" validate:"min=1"`
}

// SecuritySettings holds the shared secret guarding the API. An empty secret disables the check.
type SecuritySettings struct {
	Secret string `mapstructure:"secret"`
}

// LongPollingSettings configures the event hub.
type LongPollingSettings struct {
	Retention      int           `mapstructure:"retention" validate:"min=1,max=10000"`
	PollTimeout    time.Duration `mapstructure:"poll_timeout" validate:"min=1s"`
	MaxPollTimeout time.Duration `mapstructure:"max_poll_timeout" validate:"gtefield=PollTimeout"`
	NatsURL        string        `mapstructure:"nats_url" validate:"omitempty,url"`
	SubjectPrefix  string        `mapstructure:"subject_prefix" validate:"required"`
}

// LockSettings configures per-object locking.
type LockSettings struct {
	Timeout       time.Duration `mapstructure:"timeout" validate:"min=1ms"`
	SweepSchedule string        `mapstructure:"sweep_schedule"`
}

// RestConfig is the complete configuration of the hole server.
type RestConfig struct {
	Server      ServerSettings      `mapstructure:"server"`
	Logger      LoggerSettings      `mapstructure:"logger"`
	Database    DatabaseSettings    `mapstructure:"database"`
	Storage     StorageSettings     `mapstructure:"storage"`
	Security    SecuritySettings    `mapstructure:"security"`
	LongPolling LongPollingSettings `mapstructure:"long_polling"`
	Locks       LockSettings        `mapstructure:"locks"`
}

// Validate checks the whole configuration, including the nested settings' own rules
func (c *RestConfig) Validate() error {
	validate := validator.New()

	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("validation failed for RestConfig: %w", err)
	}

	if err := c.Logger.Validate(); err != nil {
		return err
	}

	return nil
}

// InitializeRestConfig reads the YAML file at path (skipped when path is empty),
// applies HOLE_* environment overrides and defaults, and validates the result.
func InitializeRestConfig(path string) (*RestConfig, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg RestConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.fall_back_to_https", false)
	v.SetDefault("server.max_multipart_memory", 32<<20)

	v.SetDefault("logger.log_level", LogLevelInfo)
	v.SetDefault("logger.log_type", LogTypeConsole)
	v.SetDefault("logger.format", LogFormatText)
	v.SetDefault("logger.service", "hole")
	v.SetDefault("logger.file_path", "")
	v.SetDefault("logger.max_size", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 28)

	v.SetDefault("database.type", MysqlDbType)
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.name", "")

	v.SetDefault("storage.backend", FilesystemStorageBackend)
	v.SetDefault("storage.root", "")
	v.SetDefault("storage.connection_string", "")
	v.SetDefault("storage.container_name", "")
	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.region", "")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.access_key_id", "")
	v.SetDefault("storage.secret_access_key", "")
	v.SetDefault("storage.prefix", "")

	v.SetDefault("security.secret", "")

	v.SetDefault("long_polling.retention", 100)
	v.SetDefault("long_polling.poll_timeout", 30*time.Second)
	v.SetDefault("long_polling.max_poll_timeout", 2*time.Minute)
	v.SetDefault("long_polling.nats_url", "")
	v.SetDefault("long_polling.subject_prefix", "hole.lp")

	v.SetDefault("locks.timeout", 10*time.Second)
	v.SetDefault("locks.sweep_schedule", "@every 10m")
}
