package config

import (
	"os"
	"strconv"

	"github.com/dmitrijs2005/friendszone/internal/flagx"
	"github.com/joho/godotenv"
)

// Environment variables carrying backend connection parameters.
const (
	EnvDatabaseDSN   = "FZ_DATABASE_DSN"
	EnvS3Region      = "FZ_S3_REGION"
	EnvS3Endpoint    = "FZ_S3_ENDPOINT"
	EnvS3Bucket      = "FZ_S3_BUCKET"
	EnvS3AccessKey   = "FZ_S3_ACCESS_KEY"
	EnvS3SecretKey   = "FZ_S3_SECRET_KEY"
	EnvMinioEndpoint = "FZ_MINIO_ENDPOINT"
	EnvMinioAccess   = "FZ_MINIO_ACCESS_KEY"
	EnvMinioSecret   = "FZ_MINIO_SECRET_KEY"
	EnvMinioBucket   = "FZ_MINIO_BUCKET"
	EnvMinioUseSSL   = "FZ_MINIO_USE_SSL"
	EnvTokenSecret   = "FZ_TOKEN_SECRET"
	EnvBlobPublicURL = "FZ_BLOB_PUBLIC_URL"
)

// parseEnv overlays connection parameters from the process environment and
// the dotenv file named by -env/-envfile. Panics if the file can't be read.
func parseEnv(cfg *Config) {
	var file map[string]string
	if path := flagx.EnvFileFlags(); path != "" {
		m, err := godotenv.Read(path)
		if err != nil {
			panic(err)
		}
		file = m
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := file[key]
		return v, ok
	}

	for key, dst := range map[string]*string{
		EnvDatabaseDSN:   &cfg.DatabaseDSN,
		EnvS3Region:      &cfg.S3Region,
		EnvS3Endpoint:    &cfg.S3Endpoint,
		EnvS3Bucket:      &cfg.S3Bucket,
		EnvS3AccessKey:   &cfg.S3AccessKey,
		EnvS3SecretKey:   &cfg.S3SecretKey,
		EnvMinioEndpoint: &cfg.MinioEndpoint,
		EnvMinioAccess:   &cfg.MinioAccess,
		EnvMinioSecret:   &cfg.MinioSecret,
		EnvMinioBucket:   &cfg.MinioBucket,
		EnvTokenSecret:   &cfg.TokenSecret,
		EnvBlobPublicURL: &cfg.BlobPublicURL,
	} {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}

	if v, ok := lookup(EnvMinioUseSSL); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			panic(err)
		}
		cfg.MinioUseSSL = b
	}
}
