package config

import (
	"time"

	"github.com/salarkhan2003/OLTECH-AI/internal/logger"
)

// Defaults applied by validate when a setting is left empty.
const (
	DefaultSessionExpiry = 24 * time.Hour
	DefaultURLExpiry     = 7 * 24 * time.Hour
	MaxURLExpiry         = 7 * 24 * time.Hour // S3 presigned URL limit
	DefaultPurgeInterval = 5 * time.Minute
	DefaultMaxUploadSize = 50 << 20
)

// Blob store drivers.
const (
	StorageMinio  = "minio"
	StorageMemory = "memory"
)

// Session settings.
type Session struct {
	ExpiryTime time.Duration
}

// RateLimit limits requests per client IP.
type RateLimit struct {
	Enabled   bool
	PerMinute int
	Burst     int
}

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	Title     string
	Webserver Webserver
	Storage   Storage
	Auth      Auth
	Workspace Workspace
}

// Webserver implement webserver settings.
type Webserver struct {
	DisableRecover      bool      // disable recover middleware
	Port                int       // listening port for the webserver
	ShutDownTime        int       // wait time for shutdown
	URL                 string    // base url for the webserver, used in invite links
	CookieEncryptionKey string    // base64 key for the encryptcookie middleware, empty disables it
	Session             Session   // session settings
	JoinRateLimit       RateLimit // limits join code guessing on /join and /api/groups/join
}

// Storage configures the blob store documents are uploaded to.
type Storage struct {
	Driver          string // minio or memory
	Endpoint        string // e.g. "minio:9000"
	AccessKeyID     string
	SecretAccessKey string
	UseSSL          bool
	Bucket          string
	Region          string
	// PublicURL, when set, is used as download URL prefix instead of presigned URLs.
	PublicURL string
	URLExpiry time.Duration
}

// LocalAuth configures email/password sign-in.
type LocalAuth struct {
	Enabled bool
}

// OIDCAuth configures sign-in through an OpenID Connect provider.
type OIDCAuth struct {
	Enabled      bool
	ProviderURL  string
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
}

// Auth groups the identity provider settings.
type Auth struct {
	Local LocalAuth
	OIDC  OIDCAuth
}

// Workspace tunes group and document handling.
type Workspace struct {
	JoinCodeAttempts int           // attempts to find an unused join code before giving up
	PurgeInterval    time.Duration // how often documents stuck in deletion are retried
	MaxUploadSize    int64         // bytes
}
