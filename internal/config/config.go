// Package config assembles the runtime configuration of the builder, the
// worker and the API server.
//
// Values are layered: defaults, then an optional YAML file, then the
// environment. The result is validated before use.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/jerusalem-70-ad/jad-builder/internal/util"
	"github.com/jerusalem-70-ad/jad-builder/pkg/loader"
	"github.com/jerusalem-70-ad/jad-builder/pkg/loader/web"
	"github.com/jerusalem-70-ad/jad-builder/pkg/logger"
)

// DefaultFile is read from the working directory when no path is given.
const DefaultFile = "jad.yaml"

const (
	SourceIO  = "io"
	SourceWeb = "web"
	SourceS3  = "s3"
)

type Config struct {
	Dataset  DatasetConfig  `yaml:"dataset"`
	Output   OutputConfig   `yaml:"output"`
	Graph    GraphConfig    `yaml:"graph"`
	Database DatabaseConfig `yaml:"database"`
	S3       S3Config       `yaml:"s3"`
	Queue    QueueConfig    `yaml:"queue"`
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
}

type DatasetConfig struct {
	Source     string           `yaml:"source" validate:"oneof=io web s3"`
	Dir        string           `yaml:"dir" validate:"required_if=Source io"`
	BaseURL    string           `yaml:"base_url" validate:"required_if=Source web,omitempty,url"`
	Bucket     string           `yaml:"bucket" validate:"required_if=Source s3"`
	Prefix     string           `yaml:"prefix"`
	MaxRetries int              `yaml:"max_retries" validate:"gte=1"`
	Files      loader.FileNames `yaml:"files"`
}

type OutputConfig struct {
	Dir    string `yaml:"dir" validate:"required"`
	Pretty bool   `yaml:"pretty"`
}

type GraphConfig struct {
	// MaxDepth bounds both traversals; 0 means unbounded.
	MaxDepth    int `yaml:"max_depth" validate:"gte=0"`
	Parallelism int `yaml:"parallelism" validate:"gte=0"`
}

type DatabaseConfig struct {
	URL     string `yaml:"url" validate:"omitempty,url"`
	Migrate bool   `yaml:"migrate"`
}

func (d DatabaseConfig) Enabled() bool { return d.URL != "" }

// S3Config holds the object storage credentials shared by the s3 dataset
// source and the output publisher. Publishing is enabled by Bucket.
type S3Config struct {
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint" validate:"omitempty,url"`
	AccessKey string `yaml:"-"`
	SecretKey string `yaml:"-"`
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
	Prune     bool   `yaml:"prune"`
}

func (s S3Config) Enabled() bool { return s.Bucket != "" }

type QueueConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port" validate:"gte=0,lte=65535"`
	User     string `yaml:"user"`
	Password string `yaml:"-"`
}

func (q QueueConfig) Enabled() bool { return q.Host != "" }

// URL returns the AMQP connection URL.
func (q QueueConfig) URL() string {
	u := url.URL{
		Scheme: "amqp",
		User:   url.UserPassword(q.User, q.Password),
		Host:   q.Host + ":" + strconv.Itoa(q.Port),
		Path:   "/",
	}
	return u.String()
}

type ServerConfig struct {
	Port      int    `yaml:"port" validate:"gte=1,lte=65535"`
	CacheSize int    `yaml:"cache_size" validate:"gte=1"`
	APIKey    string `yaml:"-"`
}

type LogConfig struct {
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn error fatal"`
	Debug bool   `yaml:"debug"`
}

func Default() *Config {
	return &Config{
		Dataset: DatasetConfig{
			Source:     SourceIO,
			Dir:        "data",
			BaseURL:    web.DefaultBaseURL,
			MaxRetries: 3,
			Files:      loader.DefaultFileNames(),
		},
		Output: OutputConfig{Dir: "public/data"},
		Queue:  QueueConfig{Port: 5672},
		Server: ServerConfig{Port: 8080, CacheSize: 1024},
		Log:    LogConfig{Level: "info"},
	}
}

// Load builds the configuration. An explicit path must exist; without one,
// DefaultFile is used when present.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	if err := cfg.mergeFile(path); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		logger.Debug("[Config] No config file found", "path", path)
	} else {
		logger.Debug("[Config] Loaded config file", "path", path)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Dataset.Source = util.GetEnvString("DATASET_SOURCE", c.Dataset.Source)
	c.Dataset.Dir = util.GetEnvString("DATASET_DIR", c.Dataset.Dir)
	c.Dataset.BaseURL = util.GetEnvString("DATASET_BASE_URL", c.Dataset.BaseURL)
	c.Dataset.Bucket = util.GetEnvString("DATASET_BUCKET", c.Dataset.Bucket)
	c.Dataset.Prefix = util.GetEnvString("DATASET_PREFIX", c.Dataset.Prefix)
	c.Dataset.MaxRetries = util.GetEnvInt("DATASET_MAX_RETRIES", c.Dataset.MaxRetries)

	c.Output.Dir = util.GetEnvString("OUTPUT_DIR", c.Output.Dir)
	c.Output.Pretty = util.GetEnvBool("OUTPUT_PRETTY", c.Output.Pretty)

	c.Graph.MaxDepth = util.GetEnvInt("GRAPH_MAX_DEPTH", c.Graph.MaxDepth)
	c.Graph.Parallelism = util.GetEnvInt("GRAPH_PARALLELISM", c.Graph.Parallelism)

	c.Database.URL = util.GetEnvString("DATABASE_URL", c.Database.URL)
	c.Database.Migrate = util.GetEnvBool("DATABASE_MIGRATE", c.Database.Migrate)

	c.S3.Region = util.GetEnvString("AWS_REGION", c.S3.Region)
	c.S3.Endpoint = util.GetEnvString("AWS_ENDPOINT", c.S3.Endpoint)
	c.S3.AccessKey = util.GetEnvString("AWS_ACCESS_KEY", c.S3.AccessKey)
	c.S3.SecretKey = util.GetEnvString("AWS_SECRET_KEY", c.S3.SecretKey)
	c.S3.Bucket = util.GetEnvString("AWS_BUCKET", c.S3.Bucket)
	c.S3.Prefix = util.GetEnvString("AWS_PREFIX", c.S3.Prefix)
	c.S3.Prune = util.GetEnvBool("AWS_PRUNE", c.S3.Prune)

	c.Queue.Host = util.GetEnvString("RABBITMQ_HOST", c.Queue.Host)
	c.Queue.Port = util.GetEnvInt("RABBITMQ_PORT", c.Queue.Port)
	c.Queue.User = util.GetEnvString("RABBITMQ_USER", c.Queue.User)
	c.Queue.Password = util.GetEnvString("RABBITMQ_PASSWORD", c.Queue.Password)

	c.Server.Port = util.GetEnvInt("PORT", c.Server.Port)
	c.Server.CacheSize = util.GetEnvInt("CACHE_SIZE", c.Server.CacheSize)
	c.Server.APIKey = util.GetEnvString("API_KEY", c.Server.APIKey)

	c.Log.Level = util.GetEnvString("LOG_LEVEL", c.Log.Level)
	c.Log.Debug = util.GetEnvBool("DEBUG", c.Log.Debug)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
