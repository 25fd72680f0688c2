package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type HttpApiConfig struct {
	Host  string `mapstructure:"host"`
	Port  int    `mapstructure:"port"`
	Debug bool   `mapstructure:"debug"`
}

type CanvasConfig struct {
	SurfaceWidth  int `mapstructure:"surface_width"`
	SurfaceHeight int `mapstructure:"surface_height"`
}

type FillConfig struct {
	Mode     string `mapstructure:"mode"` // local | remote
	Endpoint string `mapstructure:"endpoint"`
	Token    string `mapstructure:"token"`
}

type AuditConfig struct {
	Backend string `mapstructure:"backend"` // file | kafka

	FilePath string `mapstructure:"file_path"`
	LockPath string `mapstructure:"lock_path"`

	KafkaEndpoint       string `mapstructure:"kafka_endpoint"`
	KafkaTopic          string `mapstructure:"kafka_topic"`
	KafkaTrustStorePath string `mapstructure:"kafka_truststore_path"`
	ProducerCredentials string `mapstructure:"producer_credentials"` // username:password
	ConsumerCredentials string `mapstructure:"consumer_credentials"` // username:password
}

type Config struct {
	StateDBDSN      string `mapstructure:"state_dbdsn"`
	TemplatesDir    string `mapstructure:"templates_dir"`
	JWTSecret       string `mapstructure:"jwt_secret"`
	TokenTTLMinutes int    `mapstructure:"token_ttl_minutes"`
	AppCacheSize    int    `mapstructure:"app_cache_size"`

	HttpApiConfig *HttpApiConfig `mapstructure:"http_api_config"`
	CanvasConfig  *CanvasConfig  `mapstructure:"canvas_config"`
	FillConfig    *FillConfig    `mapstructure:"fill_config"`
	AuditConfig   *AuditConfig   `mapstructure:"audit_config"`
}

const (
	FillModeLocal  = "local"
	FillModeRemote = "remote"

	AuditBackendFile  = "file"
	AuditBackendKafka = "kafka"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("state_dbdsn", "./consentd_state")
	v.SetDefault("templates_dir", "./templates")
	v.SetDefault("token_ttl_minutes", 60)
	v.SetDefault("app_cache_size", 256)

	v.SetDefault("http_api_config.host", "localhost")
	v.SetDefault("http_api_config.port", 8080)
	v.SetDefault("http_api_config.debug", false)

	v.SetDefault("canvas_config.surface_width", 600)
	v.SetDefault("canvas_config.surface_height", 300)

	v.SetDefault("fill_config.mode", FillModeLocal)

	v.SetDefault("audit_config.backend", AuditBackendFile)
	v.SetDefault("audit_config.file_path", "./consentd_audit.log")
	v.SetDefault("audit_config.lock_path", "/tmp/consentd_audit_lock")
	v.SetDefault("audit_config.kafka_topic", "consent_audit")
}

// Load reads the YAML config file and unmarshals it over the defaults.
// An empty path yields the defaults only.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}
