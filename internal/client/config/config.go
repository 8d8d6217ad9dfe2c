package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/friendszone/internal/common"
)

const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"

	BlobsMemory = "memory"
	BlobsS3     = "s3"
	BlobsMinio  = "minio"
)

// Config holds runtime settings for the Friendszone client.
type Config struct {
	AppID     string
	GatedRoom string
	InviteURL string

	Backend     string
	DatabaseDSN string

	BlobStore     string
	S3Region      string
	S3Endpoint    string
	S3Bucket      string
	S3AccessKey   string
	S3SecretKey   string
	MinioEndpoint string
	MinioAccess   string
	MinioSecret   string
	MinioBucket   string
	MinioUseSSL   bool
	// BlobPublicURL is the base of download locators, e.g. a CDN in front
	// of the bucket. Empty derives it from the endpoint and bucket.
	BlobPublicURL string

	TokenSecret   string
	TokenValidity time.Duration
	SessionFile   string

	LogFile     string
	LogLevel    string
	MetricsAddr string
}

// dataDir is where the session token lives by default.
func dataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "friendszone")
	}
	return ".friendszone"
}

// LoadDefaults populates c with defaults suitable for a local, in-memory run.
func (c *Config) LoadDefaults() {
	c.AppID = common.DefaultAppID
	c.GatedRoom = common.DefaultGatedRoom
	c.InviteURL = "https://friendszone.app/"

	c.Backend = BackendMemory
	c.DatabaseDSN = ""

	c.BlobStore = BlobsMemory
	c.S3Region = "us-east-1"
	c.S3Bucket = "friendszone"
	c.MinioEndpoint = "localhost:9000"
	c.MinioBucket = "friendszone"
	c.BlobPublicURL = ""

	c.TokenSecret = "friendszone-dev-secret"
	c.TokenValidity = 30 * 24 * time.Hour
	c.SessionFile = filepath.Join(dataDir(), "session.token")

	c.LogFile = "friendszone.log"
	c.LogLevel = "info"
	c.MetricsAddr = ""
}

// LoadConfig builds a Config from defaults, the environment, JSON and
// flags. Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
