package cliparse

import (
	"errors"
	"flag"
	"os"
	"strconv"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
	HostKeySalt  string
	VoteRetries  int
}

// ParseFlags validates flags, falling back to environment variables.
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("livepoll", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.IntVar(&cfg.VoteRetries, "vote-retries", 0, "Transaction retry budget for vote casting")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.HostKeySalt, "host-salt", "", "Host key salt (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3525 // default
		}
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, errors.New("database type must be sqlite or postgres")
	}

	if cfg.VoteRetries == 0 {
		if retryStr := os.Getenv("VOTE_RETRIES"); retryStr != "" {
			retries, err := strconv.Atoi(retryStr)
			if err != nil || retries < 1 {
				return Config{}, errors.New("invalid VOTE_RETRIES env variable")
			}
			cfg.VoteRetries = retries
		} else {
			cfg.VoteRetries = 3
		}
	}

	// Secrets - MUST be provided
	if cfg.HostKeySalt == "" {
		cfg.HostKeySalt = os.Getenv("HOST_KEY_SALT")
	}
	if cfg.HostKeySalt == "" {
		return Config{}, errors.New("HOST_KEY_SALT required")
	}

	return cfg, nil
}
