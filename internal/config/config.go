package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port            int
	ComputingPower  int
	OrchestratorURL string
	PollInterval    time.Duration
	TaskLease       time.Duration
	OpDurations     map[string]time.Duration
}

// Load reads the optional .env file and then the process environment.
func Load() (Config, error) {
	return LoadFile(".env")
}

// LoadFile is Load with an explicit env file. A missing file is not an
// error; variables already set in the environment win over the file.
func LoadFile(path string) (Config, error) {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", path, err)
	}
	return FromEnv()
}

func FromEnv() (Config, error) {
	computingPower, err := envInt("COMPUTING_POWER", 2, 1)
	if err != nil {
		return Config{}, err
	}

	return Config{
		Port:            getEnvInt("PORT", 8080, 1),
		ComputingPower:  computingPower,
		OrchestratorURL: getEnvString("ORCHESTRATOR_URL", "http://localhost:8080"),
		PollInterval:    getEnvMillis("AGENT_POLL_MS", 1000),
		TaskLease:       getEnvMillis("TASK_LEASE_MS", 60000),
		OpDurations: map[string]time.Duration{
			"+": getEnvMillis("TIME_ADDITION_MS", 0),
			"-": getEnvMillis("TIME_SUBTRACTION_MS", 0),
			"*": getEnvMillis("TIME_MULTIPLICATIONS_MS", 0),
			"/": getEnvMillis("TIME_DIVISIONS_MS", 0),
		},
	}, nil
}

func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// envInt reads key as an integer no smaller than min. An unset or empty
// variable yields def.
func envInt(key string, def, min int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return def, nil
	}
	v, err := strconv.Atoi(val)
	if err != nil || v < min {
		return 0, fmt.Errorf("invalid %s value %q", key, val)
	}
	return v, nil
}

// getEnvInt is envInt for settings that fall back to def when malformed.
func getEnvInt(key string, def, min int) int {
	v, err := envInt(key, def, min)
	if err != nil {
		return def
	}
	return v
}

func getEnvMillis(key string, def int) time.Duration {
	return time.Duration(getEnvInt(key, def, 0)) * time.Millisecond
}

func getEnvString(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultValue
}
