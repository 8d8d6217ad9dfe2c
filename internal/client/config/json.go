package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/friendszone/internal/flagx"
	"github.com/dmitrijs2005/friendszone/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer and
// zero-value fields that are absent leave the current value alone.
type JsonConfig struct {
	AppID     string `json:"app_id"`
	GatedRoom string `json:"gated_room"`
	InviteURL string `json:"invite_url"`

	Backend     string `json:"backend"`
	DatabaseDSN string `json:"database_dsn"`

	BlobStore     string         `json:"blob_store"`
	S3Region      string         `json:"s3_region"`
	S3Endpoint    string         `json:"s3_endpoint"`
	S3Bucket      string         `json:"s3_bucket"`
	MinioEndpoint string         `json:"minio_endpoint"`
	MinioBucket   string         `json:"minio_bucket"`
	MinioUseSSL   *bool          `json:"minio_use_ssl"`
	BlobPublicURL string         `json:"blob_public_url"`

	TokenValidity timex.Duration `json:"token_validity"`
	SessionFile   *string        `json:"session_file"`

	LogFile     string `json:"log_file"`
	LogLevel    string `json:"log_level"`
	MetricsAddr string `json:"metrics_addr"`
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v timex.Duration) {
	if v.Duration != 0 {
		*dst = v.Duration
	}
}

// parseJson overlays cfg with the JSON file given by -c/-config. Secrets are
// not read from JSON; they come from the environment. Panics on read or
// unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.AppID, jc.AppID)
	setString(&cfg.GatedRoom, jc.GatedRoom)
	setString(&cfg.InviteURL, jc.InviteURL)
	setString(&cfg.Backend, jc.Backend)
	setString(&cfg.DatabaseDSN, jc.DatabaseDSN)
	setString(&cfg.BlobStore, jc.BlobStore)
	setString(&cfg.S3Region, jc.S3Region)
	setString(&cfg.S3Endpoint, jc.S3Endpoint)
	setString(&cfg.S3Bucket, jc.S3Bucket)
	setString(&cfg.MinioEndpoint, jc.MinioEndpoint)
	setString(&cfg.MinioBucket, jc.MinioBucket)
	if jc.MinioUseSSL != nil {
		cfg.MinioUseSSL = *jc.MinioUseSSL
	}
	setString(&cfg.BlobPublicURL, jc.BlobPublicURL)
	setDuration(&cfg.TokenValidity, jc.TokenValidity)
	if jc.SessionFile != nil {
		cfg.SessionFile = *jc.SessionFile
	}
	setString(&cfg.LogFile, jc.LogFile)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.MetricsAddr, jc.MetricsAddr)
}
