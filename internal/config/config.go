package config

import (
	"flag"
	"log"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env        string     `yaml:"env" env:"ENV" env-default:"production"`
	PGSQL      PGSQL      `yaml:"pgsql" env-required:"true"`
	MinIO      MinIO      `yaml:"minio" env-required:"true"`
	Redis      Redis      `yaml:"redis" env-required:"true"`
	Media      Media      `yaml:"media"`
	HTTPServer HTTPServer `yaml:"http_server" env-required:"true"`
	Sweeper    Sweeper    `yaml:"sweeper"`
}

type HTTPServer struct {
	Address string `yaml:"address" env-default:"localhost:8080"`
}

type PGSQL struct {
	Host     string `yaml:"host" env-default:"localhost"`
	Port     string `yaml:"port" env-default:"5432"`
	User     string `yaml:"user" env-default:"postgres"`
	Password string `yaml:"password" env-default:"password"`
	DBName   string `yaml:"dbname" env-default:"submissions_db"`
	SSLMode  string `yaml:"sslmode" env-default:"disable"`
}

type MinIO struct {
	Endpoint        string `yaml:"endpoint" env-default:"localhost:9000"`
	AccessKeyID     string `yaml:"access_key_id" env:"MINIO_ACCESS_KEY_ID"`
	SecretAccessKey string `yaml:"secret_access_key" env:"MINIO_SECRET_ACCESS_KEY"`
	BucketName      string `yaml:"bucket_name" env-default:"submissions"`
	UseSSL          bool   `yaml:"use_ssl" env-default:"false"`
}

type Redis struct {
	Address  string `yaml:"address" env-default:"localhost:6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env-default:"0"`
}

type Media struct {
	// MaxUploadBytes bounds the in-memory size of one multipart request.
	MaxUploadBytes int64 `yaml:"max_upload_bytes" env-default:"52428800"`
	// MaxFilesPerKind caps the number of photo and video parts each.
	MaxFilesPerKind int `yaml:"max_files_per_kind" env-default:"10"`
	// UploadConcurrency caps in-flight object store uploads per batch.
	UploadConcurrency int `yaml:"upload_concurrency" env-default:"4"`
	// SubmitPerMinute is the per-client rate limit on form submissions.
	SubmitPerMinute int64 `yaml:"submit_per_minute" env-default:"10"`
}

type Sweeper struct {
	IntervalMinutes    int `yaml:"interval_minutes" env-default:"60"`
	GracePeriodMinutes int `yaml:"grace_period_minutes" env-default:"120"`
}

func MustLoad() *Config {
	var configPath string

	configPath = os.Getenv("CONFIG_PATH")

	if configPath == "" {
		flags := flag.String("config", "", "Path to config file")
		flag.Parse()
		configPath = *flags

		if configPath == "" {
			log.Fatal("config path must be provided")
		}
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("config file does not exist at path: %s", configPath)
	}

	var cfg Config

	err := cleanenv.ReadConfig(configPath, &cfg)

	if err != nil {
		log.Fatalf("failed to read config: %s", err)
	}

	return &cfg
}
