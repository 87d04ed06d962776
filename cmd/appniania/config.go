package main

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/joel172001/appniania/internal/logger"
)

const (
	defaultListenAddr   = "localhost:8000"
	defaultLoggingLevel = logger.LevelInfo
	defaultEnvironment  = logger.EnvProduction
	defaultS3Region     = "ap-southeast-1"
)

type Config struct {
	// Default logging level
	LogLevel string

	// Address on which the service will be run
	ListenAddr string

	// Database to connect to
	DatabaseDSN string

	// Secret key
	// Some internal parts (like signing JWT tokens) uses symmetric encryption, so this key is used for that purpose
	SecretKey string

	// Bearer token that guards the accrual trigger endpoint.
	// Empty means the endpoint is open.
	JobToken string

	// RunScheduler enables the in-process daily accrual cron
	RunScheduler bool

	// Object store for identity documents
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3Endpoint  string

	// Environment
	Environment string
}

func NewConfig() *Config {
	return &Config{
		LogLevel:     defaultLoggingLevel,
		ListenAddr:   defaultListenAddr,
		Environment:  defaultEnvironment,
		RunScheduler: true,
		S3Region:     defaultS3Region,
	}
}

// Load variable from '.env' file (should be located at working directory)
func (c *Config) LoadDotEnv(getwd func() (string, error)) error {
	wd, err := getwd()
	if err != nil {
		return err
	}

	envMap, err := godotenv.Read(filepath.Join(wd, ".env"))

	switch {
	case err == nil:
		c.LoadEnv(func(key string) string {
			return envMap[key]
		})
		return nil
	case errors.Is(err, os.ErrNotExist):
		return nil
	default:
		return err
	}
}

func (c *Config) LoadEnv(getenv func(string) string) {
	// Set option to value if it not empty
	setString := func(o *string) func(value string) {
		return func(value string) {
			if value != "" {
				*o = value
			}
		}
	}
	setBool := func(o *bool) func(value string) {
		return func(value string) {
			switch value {
			case "true", "1", "yes":
				*o = true
			case "false", "0", "no":
				*o = false
			}
		}
	}

	envMap := map[string]func(string){
		"RUN_ADDRESS":   setString(&c.ListenAddr),
		"DATABASE_URI":  setString(&c.DatabaseDSN),
		"SECRET_KEY":    setString(&c.SecretKey),
		"JOB_TOKEN":     setString(&c.JobToken),
		"RUN_SCHEDULER": setBool(&c.RunScheduler),
		"LOG_LEVEL":     setString(&c.LogLevel),
		"ENVIRONMENT":   setString(&c.Environment),
		"S3_REGION":     setString(&c.S3Region),
		"S3_BUCKET":     setString(&c.S3Bucket),
		"S3_ACCESS_KEY": setString(&c.S3AccessKey),
		"S3_SECRET_KEY": setString(&c.S3SecretKey),
		"S3_ENDPOINT":   setString(&c.S3Endpoint),
	}

	for key, parseFn := range envMap {
		parseFn(getenv(key))
	}
}

func (c *Config) ParseFlags(args []string) error {
	fs := pflag.NewFlagSet("appniania", pflag.ContinueOnError)

	fs.StringVarP(&c.ListenAddr, "address", "a", c.ListenAddr, "Server listen address")
	fs.StringVarP(&c.DatabaseDSN, "database", "d", c.DatabaseDSN, "Database connection string")
	fs.StringVarP(&c.SecretKey, "secret-key", "s", c.SecretKey, "Secret key")
	fs.StringVarP(&c.LogLevel, "log-level", "l", c.LogLevel, "Logging level (debug, info, warn, error)")
	fs.StringVarP(&c.Environment, "environment", "e", c.Environment, "Environment (dev, prod)")
	fs.StringVar(&c.JobToken, "job-token", c.JobToken, "Bearer token for the accrual trigger endpoint")
	fs.BoolVar(&c.RunScheduler, "scheduler", c.RunScheduler, "Run the daily accrual scheduler in process")

	return fs.Parse(args)
}
