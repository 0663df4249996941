package config

import (
	"os"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Server captures process-level configuration. FromEnv keeps main lean.
type Server struct {
	Addr        string
	DatabaseURL string
	Redis       RedisConfig
	Auth        AuthConfig
	Audit       AuditConfig
}

// AuthConfig points at the hosted auth provider and carries the reserved
// administrator identity.
type AuthConfig struct {
	// ProviderURL is the base URL of the hosted auth service. Empty disables
	// remote auth entirely (sessions resolve to Visitor unless the local
	// fallback marker grants Admin).
	ProviderURL string
	// PublishableKey is sent as the provider's api key header.
	PublishableKey string
	// AdminEmail is the reserved administrator address. Sign-ups with this
	// address are rejected and sessions holding it are always Admin.
	AdminEmail string
	// AdminBypassHash is the bcrypt hash of the fixed bypass password. The
	// bypass grants a local-only Admin session when the remote provider
	// rejects or cannot be reached. A fixed credential pair is a known
	// liability carried over from the original deployment; it stays
	// env-configurable so production can rotate or disable it.
	AdminBypassHash string
	// DevBypass is true when AdminBypassHash came from the built-in
	// development default rather than the environment.
	DevBypass bool
	// RequestTimeout bounds every call to the remote provider.
	RequestTimeout time.Duration
	// PollInterval is how often the provider is polled for remote session
	// changes. Zero disables polling.
	PollInterval time.Duration
}

type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type AuditConfig struct {
	Brokers []string
	Topic   string
	Buffer  int
}

// devBypassPassword is the fixed pair shipped by the first deployment.
// Development only; set MOTORLANE_ADMIN_BYPASS_HASH to rotate or disable.
const devBypassPassword = "admin123"

func devBypassHash() string {
	h, err := bcrypt.GenerateFromPassword([]byte(devBypassPassword), bcrypt.DefaultCost)
	if err != nil {
		return ""
	}
	return string(h)
}

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	addr := os.Getenv("MOTORLANE_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	adminEmail := os.Getenv("MOTORLANE_ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@facilitadorcar.pt"
	}
	bypassHash := os.Getenv("MOTORLANE_ADMIN_BYPASS_HASH")
	devBypass := bypassHash == ""
	if devBypass {
		bypassHash = devBypassHash()
	}

	topic := os.Getenv("MOTORLANE_AUDIT_TOPIC")
	if topic == "" {
		topic = "motorlane.audit"
	}

	var brokers []string
	if v := os.Getenv("MOTORLANE_KAFKA_BROKERS"); v != "" {
		for _, b := range strings.Split(v, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
	}

	return Server{
		Addr:        addr,
		DatabaseURL: os.Getenv("MOTORLANE_DATABASE_URL"),
		Redis: RedisConfig{
			URL:          os.Getenv("MOTORLANE_REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Auth: AuthConfig{
			ProviderURL:     os.Getenv("MOTORLANE_AUTH_URL"),
			PublishableKey:  os.Getenv("MOTORLANE_AUTH_KEY"),
			AdminEmail:      adminEmail,
			AdminBypassHash: bypassHash,
			DevBypass:       devBypass,
			RequestTimeout:  10 * time.Second,
			PollInterval:    30 * time.Second,
		},
		Audit: AuditConfig{
			Brokers: brokers,
			Topic:   topic,
			Buffer:  256,
		},
	}
}
