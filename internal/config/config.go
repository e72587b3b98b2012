// Package config collects every externally supplied setting in one place:
// database coordinates, JWT secret, the administrator allow-list, proof
// bucket coordinates, and the department's payment account details.
package config

import (
	"fmt"
	"os"
	"strings"
)

// PaymentAccount is the out-of-band transfer destination shown to students
// on the payment step. Payment itself happens entirely outside the system.
type PaymentAccount struct {
	AccountName   string `json:"account_name"`
	AccountNumber string `json:"account_number"`
	BankName      string `json:"bank_name"`
}

type Config struct {
	Port string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	JWTSecret []byte

	// AdminLogins is the allow-list of login identifiers (matric numbers or
	// usernames) granted admin access. Checked server-side, never inferred
	// from client state.
	AdminLogins []string

	// EmailDomain is appended to normalized matric numbers to satisfy the
	// identity layer's address-shaped identifier requirement.
	EmailDomain string

	StorageURL    string
	StorageBucket string
	StorageKey    string

	Payment PaymentAccount

	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFrom       string
}

// Load reads configuration from the environment. Call godotenv.Load first
// if a .env file should be honored.
func Load() (*Config, error) {
	cfg := &Config{
		Port:       getenv("PORT", "8080"),
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     getenv("DB_PORT", "5432"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBSSLMode:  getenv("DB_SSLMODE", "disable"),

		JWTSecret: []byte(os.Getenv("JWT_SECRET")),

		EmailDomain: getenv("EMAIL_DOMAIN", "fpe.edu"),

		StorageURL:    strings.TrimRight(os.Getenv("STORAGE_URL"), "/"),
		StorageBucket: getenv("STORAGE_BUCKET", "proofs"),
		StorageKey:    os.Getenv("STORAGE_KEY"),

		Payment: PaymentAccount{
			AccountName:   os.Getenv("PAYMENT_ACCOUNT_NAME"),
			AccountNumber: os.Getenv("PAYMENT_ACCOUNT_NUMBER"),
			BankName:      os.Getenv("PAYMENT_BANK_NAME"),
		},

		TwilioAccountSID: os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:  os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioFrom:       os.Getenv("TWILIO_FROM"),
	}

	for _, id := range strings.Split(os.Getenv("ADMIN_LOGINS"), ",") {
		id = strings.ToLower(strings.TrimSpace(id))
		if id != "" {
			cfg.AdminLogins = append(cfg.AdminLogins, id)
		}
	}

	if len(cfg.JWTSecret) == 0 {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

// IsAdmin reports whether the given login identifier is allow-listed as an
// administrator. Exact match after lowercasing, per the allow-list model.
func (c *Config) IsAdmin(loginID string) bool {
	loginID = strings.ToLower(strings.TrimSpace(loginID))
	for _, id := range c.AdminLogins {
		if id == loginID {
			return true
		}
	}
	return false
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
