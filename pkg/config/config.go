package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

var ErrConfigNotFound = errors.New("config file not found")

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Models     ModelsConfig     `mapstructure:"models"`
	Placement  PlacementConfig  `mapstructure:"placement"`
	Classifier ClassifierConfig `mapstructure:"classifier"`
	Detection  DetectionConfig  `mapstructure:"detection"`
	WebSocket  WebSocketConfig  `mapstructure:"websocket"`
}

type ServerConfig struct {
	Host        string        `mapstructure:"host"`
	Port        int           `mapstructure:"port"`
	MetricsPort int           `mapstructure:"metrics_port"`
	BodyLimit   int           `mapstructure:"body_limit"`
	ReadTimeout time.Duration `mapstructure:"read_timeout"`
	SecretKey   string        `mapstructure:"secret_key"`
}

type MetricsConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	EnableLatency     bool `mapstructure:"enable_latency"`
	EnableInference   bool `mapstructure:"enable_inference"`
	EnablePerRoute    bool `mapstructure:"enable_per_route"`
	EnableConnections bool `mapstructure:"enable_connections"`
}

type AuthConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	TLS      bool   `mapstructure:"tls"`
}

type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	TTL     time.Duration `mapstructure:"ttl"`
}

type ModelsConfig struct {
	Surprisal     ModelConfig `mapstructure:"surprisal"`
	DualAlignment ModelConfig `mapstructure:"dual_alignment"`
}

// ModelConfig points at one language model sidecar.
type ModelConfig struct {
	Name               string          `mapstructure:"name"`
	Transport          Transport       `mapstructure:"transport"`
	BaseURL            string          `mapstructure:"base_url"`
	Token              string          `mapstructure:"token"`
	Device             string          `mapstructure:"device"`
	MaxLength          int             `mapstructure:"max_length"`
	Timeout            time.Duration   `mapstructure:"timeout"`
	BreakerMaxFailures uint32          `mapstructure:"breaker_max_failures"`
	BreakerTimeout     time.Duration   `mapstructure:"breaker_timeout"`
	TLS                ClientTLSConfig `mapstructure:"tls"`
	OAuth              OAuthConfig     `mapstructure:"oauth"`
}

// OAuthConfig enables client_credentials tokens for a sidecar. Leaving
// TokenURL empty keeps the static Token.
type OAuthConfig struct {
	TokenURL     string   `mapstructure:"token_url"`
	ClientID     string   `mapstructure:"client_id"`
	ClientSecret string   `mapstructure:"client_secret"`
	UseBasicAuth bool     `mapstructure:"use_basic_auth"`
	Scopes       []string `mapstructure:"scopes"`
	Audience     string   `mapstructure:"audience"`
}

type PlacementConfig struct {
	Mode PlacementMode `mapstructure:"mode"`
	// Device used by both models when Mode is single.
	SharedDevice string `mapstructure:"shared_device"`
}

type ClassifierConfig struct {
	ArtifactPath     string `mapstructure:"artifact_path"`
	SHA256           string `mapstructure:"sha256"`
	ExpectedFeatures int    `mapstructure:"expected_features"`
	StrictNames      bool   `mapstructure:"strict_names"`
}

type ThresholdsConfig struct {
	LikelyAI   float64 `mapstructure:"likely_ai"`
	PossiblyAI float64 `mapstructure:"possibly_ai"`
}

type DetectionConfig struct {
	MinWords       int              `mapstructure:"min_words"`
	Prompt         string           `mapstructure:"prompt"`
	Thresholds     ThresholdsConfig `mapstructure:"thresholds"`
	MaxConcurrency int              `mapstructure:"max_concurrency"`
	Timeout        time.Duration    `mapstructure:"timeout"`
}

type WebSocketConfig struct {
	MaxConnections int           `mapstructure:"max_connections"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
}

var globalConfig Config

// Load reads config.yaml from configPath, ./config or the working directory
// and overlays environment variables (server.port -> SERVER_PORT). A missing
// file is reported with ErrConfigNotFound but defaults and the environment
// are still applied.
func Load(configPath string) error {
	cfg, err := loadConfigFile(configPath, "config")
	if cfg != nil {
		globalConfig = *cfg
	}
	return err
}

func loadConfigFile(configPath, fileName string) (*Config, error) {
	v := viper.New()
	v.SetConfigName(fileName)
	v.SetConfigType("yaml")
	if configPath != "" {
		v.AddConfigPath(configPath)
	}
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaultValues(v)

	var notFound error
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file %s.yaml: %w", fileName, err)
		}
		notFound = fmt.Errorf("%w: %s.yaml, using defaults and environment variables", ErrConfigNotFound, fileName)
	}

	var out Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&out, hook); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s config: %w", fileName, err)
	}
	applyPlacement(&out)

	if err := out.Validate(); err != nil {
		return nil, err
	}
	return &out, notFound
}

// setDefaultValues registers every key so environment overrides apply even
// when the key is absent from the file.
func setDefaultValues(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.metrics_port", 9090)
	v.SetDefault("server.body_limit", 1024*1024)
	v.SetDefault("server.read_timeout", "60s")
	v.SetDefault("server.secret_key", "")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.enable_latency", true)
	v.SetDefault("metrics.enable_inference", true)
	v.SetDefault("metrics.enable_per_route", false)
	v.SetDefault("metrics.enable_connections", false)

	v.SetDefault("auth.enabled", false)

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.tls", false)

	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.ttl", "24h")

	for key, model := range map[string]struct {
		name      string
		url       string
		device    string
		maxLength int
	}{
		"models.surprisal":      {"surprisal", "http://localhost:8001", "cuda:0", 1024},
		"models.dual_alignment": {"dual_alignment", "http://localhost:8002", "cuda:1", 2000},
	} {
		v.SetDefault(key+".name", model.name)
		v.SetDefault(key+".transport", string(TransportHTTP))
		v.SetDefault(key+".base_url", model.url)
		v.SetDefault(key+".token", "")
		v.SetDefault(key+".device", model.device)
		v.SetDefault(key+".max_length", model.maxLength)
		v.SetDefault(key+".timeout", "60s")
		v.SetDefault(key+".breaker_max_failures", 5)
		v.SetDefault(key+".breaker_timeout", "30s")
		v.SetDefault(key+".tls.disabled", true)
		v.SetDefault(key+".oauth.token_url", "")
		v.SetDefault(key+".oauth.client_id", "")
		v.SetDefault(key+".oauth.client_secret", "")
		v.SetDefault(key+".oauth.use_basic_auth", false)
		v.SetDefault(key+".oauth.scopes", []string{})
		v.SetDefault(key+".oauth.audience", "")
	}

	v.SetDefault("placement.mode", string(PlacementDual))
	v.SetDefault("placement.shared_device", "cuda:0")

	v.SetDefault("classifier.artifact_path", "models/diveye_biscope_xgb.json")
	v.SetDefault("classifier.sha256", "")
	v.SetDefault("classifier.expected_features", 83)
	v.SetDefault("classifier.strict_names", false)

	v.SetDefault("detection.min_words", 15)
	v.SetDefault("detection.prompt", "Complete the following text: ")
	v.SetDefault("detection.thresholds.likely_ai", 0.7)
	v.SetDefault("detection.thresholds.possibly_ai", 0.5)
	v.SetDefault("detection.max_concurrency", 4)
	v.SetDefault("detection.timeout", "120s")

	v.SetDefault("websocket.max_connections", 64)
	v.SetDefault("websocket.idle_timeout", "5m")
}

// applyPlacement pins both models to the shared device in single mode.
func applyPlacement(cfg *Config) {
	if cfg.Placement.Mode != PlacementSingle {
		return
	}
	cfg.Models.Surprisal.Device = cfg.Placement.SharedDevice
	cfg.Models.DualAlignment.Device = cfg.Placement.SharedDevice
}

func (c *Config) Validate() error {
	var errs []error
	if c.Detection.MinWords < 1 {
		errs = append(errs, fmt.Errorf("detection.min_words must be positive"))
	}
	t := c.Detection.Thresholds
	if t.PossiblyAI < 0 || t.LikelyAI > 1 || t.PossiblyAI > t.LikelyAI {
		errs = append(errs, fmt.Errorf("detection.thresholds must satisfy 0 <= possibly_ai <= likely_ai <= 1"))
	}
	if c.Classifier.ArtifactPath == "" {
		errs = append(errs, fmt.Errorf("classifier.artifact_path is required"))
	}
	for name, m := range map[string]ModelConfig{
		"models.surprisal":      c.Models.Surprisal,
		"models.dual_alignment": c.Models.DualAlignment,
	} {
		if m.BaseURL == "" {
			errs = append(errs, fmt.Errorf("%s.base_url is required", name))
		}
		if m.OAuth.TokenURL != "" && m.OAuth.ClientID == "" {
			errs = append(errs, fmt.Errorf("%s.oauth.client_id is required with a token_url", name))
		}
		if m.MaxLength < 0 {
			errs = append(errs, fmt.Errorf("%s.max_length must not be negative", name))
		}
	}
	if c.Auth.Enabled && c.Server.SecretKey == "" {
		errs = append(errs, fmt.Errorf("server.secret_key is required when auth is enabled"))
	}
	return errors.Join(errs...)
}

func GetConfig() *Config {
	return &globalConfig
}
