package config

import (
	"os"
	"strconv"
)

// Config holds process-level settings read from the environment.
type Config struct {
	AppPort        string
	DBDriver       string
	DBDSN          string
	DBLogLevel     string
	RedisAddr      string
	RedisPassword  string
	JWTSecret      string
	JWTExpiresMin  int
	SeedConfigFile string
	SeedEnv        Environment
	Serve          bool
}

func Load() Config {
	expires, _ := strconv.Atoi(get("JWT_EXPIRES_MIN", "60"))
	serve, _ := strconv.ParseBool(get("SEED_SERVE", "false"))
	return Config{
		AppPort:        get("APP_PORT", "8080"),
		DBDriver:       get("DB_DRIVER", "postgres"),
		DBDSN:          must("DB_DSN"),
		DBLogLevel:     get("DB_LOG", "warn"),
		RedisAddr:      get("REDIS_ADDR", ""),
		RedisPassword:  get("REDIS_PASSWORD", ""),
		JWTSecret:      get("JWT_SECRET", ""),
		JWTExpiresMin:  expires,
		SeedConfigFile: get("SEED_CONFIG_FILE", ""),
		SeedEnv:        Environment(get("SEED_ENV", string(EnvDevelopment))),
		Serve:          serve,
	}
}

func get(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		panic("missing env: " + k)
	}
	return v
}
