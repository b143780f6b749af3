package main

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/sarcolor/backend/internal/logger"
)

const (
	defaultListenAddr     = "localhost:8000"
	defaultLoggingLevel   = logger.LevelInfo
	defaultEnvironment    = logger.EnvProduction
	defaultAlgorithm      = "HS256"
	defaultAccessTTLMins  = 30
	defaultRefreshTTLDays = 7
)

type Config struct {
	// Default logging level
	LogLevel string

	// Environment (dev, prod)
	Environment string

	// Address on which the service will be run
	ListenAddr string

	// Database to connect to
	DatabaseDSN string

	// Secret key to sign token payloads
	// Must be identical across all instances of a fleet sharing tokens
	SecretKey string

	// JWT signing algorithm identifier
	Algorithm string

	// Token lifetimes
	AccessTokenTTLMinutes int
	RefreshTokenTTLDays   int

	// Allowed CORS origins, empty means allow all
	CORSOrigins []string
}

func NewConfig() *Config {
	return &Config{
		LogLevel:              defaultLoggingLevel,
		Environment:           defaultEnvironment,
		ListenAddr:            defaultListenAddr,
		Algorithm:             defaultAlgorithm,
		AccessTokenTTLMinutes: defaultAccessTTLMins,
		RefreshTokenTTLDays:   defaultRefreshTTLDays,
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
	setInt := func(o *int) func(value string) {
		return func(value string) {
			if parsed, err := strconv.Atoi(value); err == nil {
				*o = parsed
			}
		}
	}
	setStrings := func(o *[]string) func(value string) {
		return func(value string) {
			if value == "" {
				return
			}
			var origins []string
			for _, origin := range strings.Split(value, ",") {
				if origin = strings.TrimSpace(origin); origin != "" {
					origins = append(origins, origin)
				}
			}
			*o = origins
		}
	}

	envMap := map[string]func(string){
		"RUN_ADDRESS":                 setString(&c.ListenAddr),
		"DATABASE_URI":                setString(&c.DatabaseDSN),
		"SECRET_KEY":                  setString(&c.SecretKey),
		"ALGORITHM":                   setString(&c.Algorithm),
		"ACCESS_TOKEN_EXPIRE_MINUTES": setInt(&c.AccessTokenTTLMinutes),
		"REFRESH_TOKEN_EXPIRE_DAYS":   setInt(&c.RefreshTokenTTLDays),
		"LOG_LEVEL":                   setString(&c.LogLevel),
		"ENVIRONMENT":                 setString(&c.Environment),
		"CORS_ORIGINS":                setStrings(&c.CORSOrigins),
	}

	for key, parseFn := range envMap {
		parseFn(getenv(key))
	}
}

func (c *Config) ParseFlags(args []string) error {
	fs := pflag.NewFlagSet("backend", pflag.ContinueOnError)

	fs.StringVarP(&c.ListenAddr, "address", "a", c.ListenAddr, "Server listen address")
	fs.StringVarP(&c.DatabaseDSN, "database", "d", c.DatabaseDSN, "Database connection string")
	fs.StringVarP(&c.SecretKey, "secret-key", "s", c.SecretKey, "Secret key")
	fs.StringVar(&c.Algorithm, "algorithm", c.Algorithm, "JWT signing algorithm")
	fs.IntVar(&c.AccessTokenTTLMinutes, "access-ttl", c.AccessTokenTTLMinutes, "Access token lifetime in minutes")
	fs.IntVar(&c.RefreshTokenTTLDays, "refresh-ttl", c.RefreshTokenTTLDays, "Refresh token lifetime in days")
	fs.StringVarP(&c.LogLevel, "log-level", "l", c.LogLevel, "Logging level (debug, info, warn, error)")
	fs.StringVarP(&c.Environment, "environment", "e", c.Environment, "Environment (dev, prod)")
	fs.StringSliceVar(&c.CORSOrigins, "cors-origins", c.CORSOrigins, "Allowed CORS origins, empty allows all")

	return fs.Parse(args)
}
