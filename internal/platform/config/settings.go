// internal/platform/config/settings.go
package config

import (
	"context"
	"errors"
	"log"
	"os"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/joho/godotenv"
)

// Settings is env-resolved runtime configuration (normalized once).
// It intentionally contains only values, no external clients.
//
// Policy:
// - Apply defaults to keep local runs working with zero setup.
// - Keep normalization (trim, defaulting) here.
// - Hard validation stays in Validate.
type Settings struct {
	Port string

	// DatabaseURL wins when set; otherwise DatabaseURLSecret names a
	// Secret Manager version holding the DSN (Cloud Run deployments).
	DatabaseURL       string
	DatabaseURLSecret string

	// RedisAddr is optional; empty disables the catalog cache.
	RedisAddr string

	// CartBackend selects the session-cart store: "memory" (default)
	// or "firestore".
	CartBackend        string
	FirestoreProjectID string

	AllowedOrigin string

	// Mail is optional; empty SendGridAPIKey disables order
	// notifications.
	SendGridAPIKey string
	OrderMailFrom  string
	OrderMailTo    string
}

// LoadEnv loads .env.local when running locally, then resolves
// Settings from the environment.
func LoadEnv() *Settings {
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "local" {
		if err := godotenv.Load(".env.local"); err != nil {
			log.Printf("[config] .env.local not loaded: %v (relying on system env)", err)
		} else {
			log.Println("[config] loaded .env.local")
		}
	}

	s := &Settings{
		Port:               getenvDefault("PORT", "8080"),
		DatabaseURL:        getenvTrim("DATABASE_URL"),
		DatabaseURLSecret:  getenvTrim("DATABASE_URL_SECRET"),
		RedisAddr:          getenvTrim("REDIS_ADDR"),
		CartBackend:        strings.ToLower(getenvDefault("CART_BACKEND", "memory")),
		FirestoreProjectID: getenvDefault("FIRESTORE_PROJECT_ID", getenvTrim("GCP_PROJECT_ID")),
		AllowedOrigin:      getenvTrim("ALLOWED_ORIGIN"),
		SendGridAPIKey:     getenvTrim("SENDGRID_API_KEY"),
		OrderMailFrom:      getenvTrim("ORDER_MAIL_FROM"),
		OrderMailTo:        getenvTrim("ORDER_MAIL_TO"),
	}
	return s
}

// Validate returns hard configuration errors plus soft warnings the
// caller can log.
func (s *Settings) Validate() ([]string, error) {
	var warns []string

	if s.DatabaseURL == "" && s.DatabaseURLSecret == "" {
		return warns, errors.New("config: DATABASE_URL or DATABASE_URL_SECRET is required")
	}

	switch s.CartBackend {
	case "memory":
		// ok
	case "firestore":
		if s.FirestoreProjectID == "" {
			return warns, errors.New("config: CART_BACKEND=firestore requires FIRESTORE_PROJECT_ID")
		}
	default:
		return warns, errors.New("config: CART_BACKEND must be memory or firestore")
	}

	if s.RedisAddr == "" {
		warns = append(warns, "REDIS_ADDR is empty (catalog cache disabled)")
	}
	if s.SendGridAPIKey == "" {
		warns = append(warns, "SENDGRID_API_KEY is empty (order notifications disabled)")
	} else if s.OrderMailFrom == "" || s.OrderMailTo == "" {
		warns = append(warns, "ORDER_MAIL_FROM/ORDER_MAIL_TO missing (order notifications disabled)")
	}

	return warns, nil
}

// ResolveDatabaseURL returns the DSN, fetching it from Secret Manager
// when DATABASE_URL is not set directly.
// DatabaseURLSecret is a full version resource name:
//
//	projects/<project>/secrets/<secret>/versions/latest
func (s *Settings) ResolveDatabaseURL(ctx context.Context) (string, error) {
	if s.DatabaseURL != "" {
		return s.DatabaseURL, nil
	}

	name := strings.TrimSpace(s.DatabaseURLSecret)
	if name == "" {
		return "", errors.New("config: no database url source configured")
	}

	sm, err := secretmanager.NewClient(ctx)
	if err != nil {
		return "", errors.New("config: secretmanager client: " + err.Error())
	}
	defer sm.Close()

	resp, err := sm.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: name})
	if err != nil {
		return "", errors.New("config: AccessSecretVersion failed (" + name + "): " + err.Error())
	}
	if resp == nil || resp.Payload == nil {
		return "", errors.New("config: empty secret payload (" + name + ")")
	}

	return strings.TrimSpace(string(resp.Payload.Data)), nil
}

func getenvTrim(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func getenvDefault(key, def string) string {
	if v := getenvTrim(key); v != "" {
		return v
	}
	return def
}
