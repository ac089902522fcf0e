package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	envPort                  = "PORT"
	envServerReadTimeout     = "SERVER_READ_TIMEOUT"
	envServerWriteTimeout    = "SERVER_WRITE_TIMEOUT"
	envServerShutdownTimeout = "SERVER_SHUTDOWN_TIMEOUT"
	envKeycloakURL           = "KEYCLOAK_URL"
	envKeycloakRealm         = "KEYCLOAK_REALM"
	envAllowedAudiences      = "KEYCLOAK_ALLOWED_AUDIENCES"
	envJWKSTimeout           = "KEYCLOAK_JWKS_TIMEOUT"
	envJWKSCacheTTL          = "KEYCLOAK_JWKS_CACHE_TTL"
	envS3Endpoint            = "S3_ENDPOINT"
	envS3Bucket              = "S3_BUCKET"
	envS3ForcePathStyle      = "S3_FORCE_PATH_STYLE"
	envAWSRegion             = "REGION"
	envAWSAccessKeyID        = "AWS_ACCESS_KEY_ID"
	envAWSSecretAccessKey    = "AWS_SECRET_ACCESS_KEY"
	envMaxUploadSize         = "MAX_UPLOAD_SIZE"
	envRateLimitRPS          = "RATE_LIMIT_RPS"
	envRateLimitBurst        = "RATE_LIMIT_BURST"
)

const (
	defaultServerPort         = "8000"
	defaultServerReadTimeout  = 30 * time.Second
	defaultServerWriteTimeout = 30 * time.Second
	defaultServerShutdown     = 10 * time.Second
	defaultKeycloakURL        = "http://localhost:8080"
	defaultKeycloakRealm      = "stuf"
	defaultAllowedAudiences   = "stuf-api,stuf-spa"
	defaultJWKSTimeout        = 5 * time.Second
	defaultJWKSCacheTTL       = time.Duration(0)
	defaultS3Bucket           = "stuf-uploads"
	defaultMaxUploadSize      = int64(1024 * 1024 * 1024)
	defaultRateLimitRPS       = 50
	defaultRateLimitBurst     = 100

	audienceSeparator = ","

	errPortRequired            = "PORT must be set"
	errKeycloakURLRequired     = "KEYCLOAK_URL must be set"
	errAudiencesRequired       = "KEYCLOAK_ALLOWED_AUDIENCES must contain at least one audience"
	errS3EndpointRequired      = "S3_ENDPOINT must be set"
	errRegionRequired          = "REGION must be set"
	errAWSAccessKeyRequired    = "AWS_ACCESS_KEY_ID must be set"
	errAWSSecretKeyRequired    = "AWS_SECRET_ACCESS_KEY must be set"
	errBucketRequired          = "S3_BUCKET must be set"
	errInvalidConfigurationFmt = "invalid configuration: %w"
	errRequiredEnvNotSetFmt    = "required environment variable %s is not set"
	realmIssuerFmt             = "%s/realms/%s"
	realmJWKSEndpointFmt       = "%s/realms/%s/protocol/openid-connect/certs"
)

type Config struct {
	Server   ServerConfig
	Keycloak KeycloakConfig
	S3       S3Config
	App      AppConfig
}

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type KeycloakConfig struct {
	URL              string
	Realm            string
	AllowedAudiences []string
	JWKSTimeout      time.Duration
	JWKSCacheTTL     time.Duration
}

type S3Config struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	ForcePathStyle  bool
}

type AppConfig struct {
	MaxUploadSize  int64
	RateLimitRPS   int
	RateLimitBurst int
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv(envPort, defaultServerPort),
			ReadTimeout:     getDurationEnv(envServerReadTimeout, defaultServerReadTimeout),
			WriteTimeout:    getDurationEnv(envServerWriteTimeout, defaultServerWriteTimeout),
			ShutdownTimeout: getDurationEnv(envServerShutdownTimeout, defaultServerShutdown),
		},
		Keycloak: KeycloakConfig{
			URL:              strings.TrimRight(getEnv(envKeycloakURL, defaultKeycloakURL), "/"),
			Realm:            getEnv(envKeycloakRealm, defaultKeycloakRealm),
			AllowedAudiences: splitAudiences(getEnv(envAllowedAudiences, defaultAllowedAudiences)),
			JWKSTimeout:      getDurationEnv(envJWKSTimeout, defaultJWKSTimeout),
			JWKSCacheTTL:     getDurationEnv(envJWKSCacheTTL, defaultJWKSCacheTTL),
		},
		S3: S3Config{
			Endpoint:        requireEnv(envS3Endpoint),
			Region:          requireEnv(envAWSRegion),
			AccessKeyID:     requireEnv(envAWSAccessKeyID),
			SecretAccessKey: requireEnv(envAWSSecretAccessKey),
			Bucket:          getEnv(envS3Bucket, defaultS3Bucket),
			ForcePathStyle:  getBoolEnv(envS3ForcePathStyle, true),
		},
		App: AppConfig{
			MaxUploadSize:  getInt64Env(envMaxUploadSize, defaultMaxUploadSize),
			RateLimitRPS:   getIntEnv(envRateLimitRPS, defaultRateLimitRPS),
			RateLimitBurst: getIntEnv(envRateLimitBurst, defaultRateLimitBurst),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf(errInvalidConfigurationFmt, err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New(errPortRequired)
	}

	if c.Keycloak.URL == "" {
		return errors.New(errKeycloakURLRequired)
	}

	if len(c.Keycloak.AllowedAudiences) == 0 {
		return errors.New(errAudiencesRequired)
	}

	if c.S3.Endpoint == "" {
		return errors.New(errS3EndpointRequired)
	}

	if c.S3.Region == "" {
		return errors.New(errRegionRequired)
	}

	if c.S3.AccessKeyID == "" {
		return errors.New(errAWSAccessKeyRequired)
	}

	if c.S3.SecretAccessKey == "" {
		return errors.New(errAWSSecretKeyRequired)
	}

	if c.S3.Bucket == "" {
		return errors.New(errBucketRequired)
	}

	return nil
}

// Issuer returns the expected token issuer for the configured realm.
func (c *KeycloakConfig) Issuer() string {
	return fmt.Sprintf(realmIssuerFmt, c.URL, c.Realm)
}

// JWKSEndpoint returns the realm's published signing-key endpoint.
func (c *KeycloakConfig) JWKSEndpoint() string {
	return fmt.Sprintf(realmJWKSEndpointFmt, c.URL, c.Realm)
}

func splitAudiences(raw string) []string {
	var audiences []string
	for _, part := range strings.Split(raw, audienceSeparator) {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			audiences = append(audiences, trimmed)
		}
	}
	return audiences
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func requireEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		panic(fmt.Sprintf(errRequiredEnvNotSetFmt, key))
	}
	return value
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		if seconds, err := strconv.Atoi(value); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return defaultValue
}
