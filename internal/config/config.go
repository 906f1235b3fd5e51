package config // package config loads application configuration from environment variables

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Integrations keeps the settings of the remote document store and the
// generative-AI client.  Neither client is constructed; the values are only
// carried so that a missing key can be reported at startup.
type Integrations struct {
	APIKey             string // API_KEY
	FirestoreProjectID string // FIRESTORE_PROJECT_ID
}

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.
type Config struct {
	Env      string // application environment (e.g. "dev", "prod")
	Port     string // HTTP port to listen on
	LogLevel string // debug, info, warn or error

	DBUser string // database username
	DBPass string // database password (optional)
	DBHost string // database host address; empty disables admin auth
	DBPort string // database port number
	DBName string // database name

	JWTSecret      string // secret used to sign JWTs
	AccessTTLMin   int    // access token time-to-live in minutes
	RefreshTTLDays int    // refresh token time-to-live in days
	BcryptCost     int    // bcrypt cost for password hashing
	AdminEmail     string // bootstrap owner account, created when missing
	AdminPassword  string

	ScheduleStart string         // first visible minute of the board, HH:MM
	ScheduleEnd   string         // end of the board, HH:MM
	Location      *time.Location // studio time zone
	CORSOrigins   []string       // allowed dashboard origins
	RosterCron    string         // cron spec of the daily roster job
	AMQPURL       string         // RabbitMQ URL; empty selects the no-op publisher
	ActivityLog   string         // file the event consumer appends to
	SeedEnabled   bool           // start with the bundled sample data

	Integrations Integrations
}

// AuthEnabled reports whether the admin account store is configured.
func (c Config) AuthEnabled() bool { return c.DBHost != "" }

// Load reads an optional dotenv file (APP_DOTENV, default .env) and then the
// environment.  Variables already set in the environment win over the file.
func Load() (Config, error) {
	if err := godotenv.Load(getenv("APP_DOTENV", ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load dotenv: %w", err)
	}

	tzName := getenv("STUDIO_TZ", "Europe/Madrid")
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return Config{}, fmt.Errorf("invalid STUDIO_TZ %q: %w", tzName, err)
	}

	cfg := Config{
		Env:      getenv("APP_ENV", "dev"),
		Port:     getenv("APP_PORT", "8080"),
		LogLevel: getenv("LOG_LEVEL", "info"),

		DBUser: getenv("DB_USER", "root"),
		DBPass: os.Getenv("DB_PASS"),
		DBHost: os.Getenv("DB_HOST"),
		DBPort: getenv("DB_PORT", "3306"),
		DBName: getenv("DB_NAME", "dance_studio"),

		JWTSecret:      os.Getenv("JWT_SECRET"),
		AccessTTLMin:   envInt("ACCESS_TOKEN_TTL_MIN", 15),
		RefreshTTLDays: envInt("REFRESH_TOKEN_TTL_DAYS", 7),
		BcryptCost:     envInt("BCRYPT_COST", 12),
		AdminEmail:     os.Getenv("ADMIN_EMAIL"),
		AdminPassword:  os.Getenv("ADMIN_PASSWORD"),

		ScheduleStart: getenv("SCHEDULE_START", "09:00"),
		ScheduleEnd:   getenv("SCHEDULE_END", "22:00"),
		Location:      loc,
		CORSOrigins:   splitList(getenv("CORS_ORIGINS", "*")),
		RosterCron:    getenv("ROSTER_CRON", "0 7 * * *"),
		AMQPURL:       getenv("RABBITMQ_URL", os.Getenv("AMQP_URL")),
		ActivityLog:   getenv("ACTIVITY_LOG", "logs/activity.log"),
		SeedEnabled:   envBool("SEED_ENABLED", true),

		Integrations: Integrations{
			APIKey:             os.Getenv("API_KEY"),
			FirestoreProjectID: os.Getenv("FIRESTORE_PROJECT_ID"),
		},
	}

	if cfg.AuthEnabled() && cfg.JWTSecret == "" {
		return Config{}, errors.New("missing required env var: JWT_SECRET (required when DB_HOST is set)")
	}
	if cfg.AccessTTLMin < 1 || cfg.RefreshTTLDays < 1 {
		return Config{}, errors.New("token TTLs must be positive")
	}
	return cfg, nil
}

func splitList(s string) []string {
	out := []string{}
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
