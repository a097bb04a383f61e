package config

import (
	"os"
	"strconv"
)

type Config struct {
	PostgresAddress  string
	PostgresPort     string
	PostgresDB       string
	PostgresUsername string
	PostgresPassword string

	// Detection engine tuning.
	RenewalLookaheadDays   int
	UnusualSpendMultiplier float64
	BaselineWindowDays     int
}

func ProcessEnvironmentVariables() (*Config, error) {
	// In all cases the default behavior should be for the docker compose setup
	env := Config{
		PostgresAddress:  "localhost",
		PostgresPort:     "5433",
		PostgresDB:       "postgres",
		PostgresUsername: "postgres",
		PostgresPassword: "testpassword",

		RenewalLookaheadDays:   30,
		UnusualSpendMultiplier: 2.0,
		BaselineWindowDays:     90,
	}

	envPostgresAddress := os.Getenv("POSTGRES_ADDRESS")
	envPostgresPort := os.Getenv("POSTGRES_PORT")
	envPostgresDB := os.Getenv("POSTGRES_DB")
	envPostgresUsername := os.Getenv("POSTGRES_USERNAME")
	envPostgresPassword := os.Getenv("POSTGRES_PASSWORD")

	if len(envPostgresAddress) != 0 {
		env.PostgresAddress = envPostgresAddress
	}

	if len(envPostgresPort) != 0 {
		env.PostgresPort = envPostgresPort
	}

	if len(envPostgresDB) != 0 {
		env.PostgresDB = envPostgresDB
	}

	if len(envPostgresUsername) != 0 {
		env.PostgresUsername = envPostgresUsername
	}

	if len(envPostgresPassword) != 0 {
		env.PostgresPassword = envPostgresPassword
	}

	if v := os.Getenv("RENEWAL_LOOKAHEAD_DAYS"); len(v) != 0 {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return nil, err
		}
		env.RenewalLookaheadDays = parsed
	}

	if v := os.Getenv("UNUSUAL_SPEND_MULTIPLIER"); len(v) != 0 {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, err
		}
		env.UnusualSpendMultiplier = parsed
	}

	if v := os.Getenv("BASELINE_WINDOW_DAYS"); len(v) != 0 {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return nil, err
		}
		env.BaselineWindowDays = parsed
	}

	return &env, nil
}
