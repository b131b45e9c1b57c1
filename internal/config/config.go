package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const developmentJWTSecret = "segredo"

// TokenLifetime is the fixed validity of issued tokens
const TokenLifetime = 24 * time.Hour

// Config holds all configuration values
type Config struct {
	// Server configuration
	Port         int    `json:"port"`
	Environment  string `json:"environment"`
	AuthRequired bool   `json:"auth_required"`

	// MongoDB configuration (operational database)
	MongoURI      string `json:"mongo_uri"`
	MongoDatabase string `json:"mongo_database"`

	// Redis configuration
	RedisURI      string        `json:"redis_uri"`
	RedisPassword string        `json:"redis_password"`
	RedisDB       int           `json:"redis_db"`
	RedisTTL      time.Duration `json:"redis_ttl"`

	// Collection names
	EmployeeCollection     string `json:"mongo_employee_collection"`
	ClientCollection       string `json:"mongo_client_collection"`
	SupplierCollection     string `json:"mongo_supplier_collection"`
	SupplierTypeCollection string `json:"mongo_supplier_type_collection"`
	BranchCollection       string `json:"mongo_branch_collection"`
	PSLCollection          string `json:"mongo_psl_collection"`
	UserCollection         string `json:"mongo_user_collection"`
	ActivityLogCollection  string `json:"mongo_activity_log_collection"`
	CounterCollection      string `json:"mongo_counter_collection"`
	SettingsCollection     string `json:"mongo_settings_collection"`
	SyncStateCollection    string `json:"mongo_sync_state_collection"`

	// Authentication
	JWTSecret          string        `json:"-"`
	LoginMaxAttempts   int           `json:"login_max_attempts"`
	LoginAttemptWindow time.Duration `json:"login_attempt_window"`

	// Synchronizer configuration. Missing URIs are reported when a run starts,
	// never while the server boots.
	SyncRemoteURI        string        `json:"-"`
	SyncLocalURI         string        `json:"-"`
	SyncRemoteDatabase   string        `json:"sync_remote_database"`
	SyncRemoteCollection string        `json:"sync_remote_collection"`
	SyncLocalDatabase    string        `json:"sync_local_database"`
	SyncLocalCollection  string        `json:"sync_local_collection"`
	SyncMode             string        `json:"sync_mode"`
	SyncOnStartup        bool          `json:"sync_on_startup"`
	SyncInterval         time.Duration `json:"sync_interval"`
	SyncBatchSize        int           `json:"sync_batch_size"`
	SyncExportDir        string        `json:"sync_export_dir"`
	SyncTimeout          time.Duration `json:"sync_timeout"`

	// Uploads
	UploadsDir        string `json:"uploads_dir"`
	UploadMaxMemoryMB int    `json:"upload_max_memory_mb"`

	// E-mail
	SMTPHost     string `json:"smtp_host"`
	SMTPPort     int    `json:"smtp_port"`
	SMTPUsername string `json:"smtp_username"`
	SMTPPassword string `json:"-"`
	SMTPFrom     string `json:"smtp_from"`

	// Cache TTLs
	StatsCacheTTL time.Duration `json:"stats_cache_ttl"`

	// Backups
	BackupDir string `json:"backup_dir"`

	// Tracing configuration
	TracingEnabled  bool   `json:"tracing_enabled"`
	TracingEndpoint string `json:"tracing_endpoint"`
}

var (
	AppConfig *Config
)

// LoadConfig loads configuration from environment variables, honouring a .env file when present
func LoadConfig() error {
	_ = godotenv.Load()

	port, err := strconv.Atoi(getEnvOrDefault("PORT", "5000"))
	if err != nil {
		return fmt.Errorf("invalid PORT: %w", err)
	}

	redisDB, err := strconv.Atoi(getEnvOrDefault("REDIS_DB", "0"))
	if err != nil {
		return fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	redisTTL, err := time.ParseDuration(getEnvOrDefault("REDIS_TTL", "60m"))
	if err != nil {
		return fmt.Errorf("invalid REDIS_TTL: %w", err)
	}

	loginWindow, err := time.ParseDuration(getEnvOrDefault("LOGIN_ATTEMPT_WINDOW", "15m"))
	if err != nil {
		return fmt.Errorf("invalid LOGIN_ATTEMPT_WINDOW: %w", err)
	}

	syncInterval, err := time.ParseDuration(getEnvOrDefault("SYNC_INTERVAL", "0s"))
	if err != nil {
		return fmt.Errorf("invalid SYNC_INTERVAL: %w", err)
	}

	syncTimeout, err := time.ParseDuration(getEnvOrDefault("SYNC_TIMEOUT", "0s"))
	if err != nil {
		return fmt.Errorf("invalid SYNC_TIMEOUT: %w", err)
	}

	statsTTL, err := time.ParseDuration(getEnvOrDefault("STATS_CACHE_TTL", "5m"))
	if err != nil {
		return fmt.Errorf("invalid STATS_CACHE_TTL: %w", err)
	}

	smtpPort, err := strconv.Atoi(getEnvOrDefault("SMTP_PORT", "587"))
	if err != nil {
		return fmt.Errorf("invalid SMTP_PORT: %w", err)
	}

	syncMode := strings.ToLower(getEnvOrDefault("SYNC_MODE", "cpf"))
	if syncMode != "cpf" && syncMode != "watermark" {
		return fmt.Errorf("invalid SYNC_MODE: %q (expected cpf or watermark)", syncMode)
	}

	environment := getEnvOrDefault("ENVIRONMENT", "development")

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		if environment != "development" {
			return fmt.Errorf("JWT_SECRET environment variable is required")
		}
		jwtSecret = developmentJWTSecret
	}

	// The operational database doubles as the local side of the synchronizer
	mongoURI := firstNonEmpty(os.Getenv("MONGODB_URI"), os.Getenv("MONGO_URI"), os.Getenv("LOCAL_URI"), "mongodb://localhost:27017")
	localURI := firstNonEmpty(os.Getenv("LOCAL_URI"), os.Getenv("MONGODB_URI"), os.Getenv("MONGO_URI"))

	AppConfig = &Config{
		// Server configuration
		Port:         port,
		Environment:  environment,
		AuthRequired: getEnvAsBoolOrDefault("AUTH_REQUIRED", false),

		// MongoDB configuration
		MongoURI:      mongoURI,
		MongoDatabase: getEnvOrDefault("MONGODB_DATABASE", "grupolocar"),

		// Redis configuration
		RedisURI:      getEnvOrDefault("REDIS_URI", "localhost:6379"),
		RedisPassword: getEnvOrDefault("REDIS_PASSWORD", ""),
		RedisDB:       redisDB,
		RedisTTL:      redisTTL,

		// Collection names
		EmployeeCollection:     getEnvOrDefault("MONGODB_EMPLOYEE_COLLECTION", "funcionarios"),
		ClientCollection:       getEnvOrDefault("MONGODB_CLIENT_COLLECTION", "clientes"),
		SupplierCollection:     getEnvOrDefault("MONGODB_SUPPLIER_COLLECTION", "fornecedores"),
		SupplierTypeCollection: getEnvOrDefault("MONGODB_SUPPLIER_TYPE_COLLECTION", "tipofornecedores"),
		BranchCollection:       getEnvOrDefault("MONGODB_BRANCH_COLLECTION", "filiais"),
		PSLCollection:          getEnvOrDefault("MONGODB_PSL_COLLECTION", "psls"),
		UserCollection:         getEnvOrDefault("MONGODB_USER_COLLECTION", "usuarios"),
		ActivityLogCollection:  getEnvOrDefault("MONGODB_ACTIVITY_LOG_COLLECTION", "logs"),
		CounterCollection:      getEnvOrDefault("MONGODB_COUNTER_COLLECTION", "counters"),
		SettingsCollection:     getEnvOrDefault("MONGODB_SETTINGS_COLLECTION", "configuracoes"),
		SyncStateCollection:    getEnvOrDefault("MONGODB_SYNC_STATE_COLLECTION", "sync_state"),

		// Authentication
		JWTSecret:          jwtSecret,
		LoginMaxAttempts:   getEnvAsIntOrDefault("LOGIN_MAX_ATTEMPTS", 5),
		LoginAttemptWindow: loginWindow,

		// Synchronizer
		SyncRemoteURI:        os.Getenv("ATLAS_URI"),
		SyncLocalURI:         localURI,
		SyncRemoteDatabase:   getEnvOrDefault("ATLAS_DB", "formulario"),
		SyncRemoteCollection: getEnvOrDefault("ATLAS_COLLECTION", "funcionarios"),
		SyncLocalDatabase:    getEnvOrDefault("LOCAL_DB", "grupolocar"),
		SyncLocalCollection:  getEnvOrDefault("LOCAL_COLLECTION", "funcionarios"),
		SyncMode:             syncMode,
		SyncOnStartup:        getEnvAsBoolOrDefault("SYNC_ON_STARTUP", false),
		SyncInterval:         syncInterval,
		SyncBatchSize:        clampBatchSize(getEnvAsIntOrDefault("SYNC_BATCH_SIZE", 100)),
		SyncExportDir:        getEnvOrDefault("SYNC_EXPORT_DIR", ""),
		SyncTimeout:          syncTimeout,

		// Uploads
		UploadsDir:        getEnvOrDefault("UPLOADS_DIR", "uploads"),
		UploadMaxMemoryMB: getEnvAsIntOrDefault("UPLOAD_MAX_MEMORY_MB", 32),

		// E-mail
		SMTPHost:     getEnvOrDefault("SMTP_HOST", ""),
		SMTPPort:     smtpPort,
		SMTPUsername: getEnvOrDefault("SMTP_USERNAME", ""),
		SMTPPassword: getEnvOrDefault("SMTP_PASSWORD", ""),
		SMTPFrom:     getEnvOrDefault("SMTP_FROM", ""),

		StatsCacheTTL: statsTTL,
		BackupDir:     getEnvOrDefault("BACKUP_DIR", "backups"),

		// Tracing configuration
		TracingEnabled:  getEnvAsBoolOrDefault("TRACING_ENABLED", false),
		TracingEndpoint: getEnvOrDefault("TRACING_ENDPOINT", "localhost:4317"),
	}

	return nil
}

// UsesDevelopmentSecret reports whether the token secret is the development fallback
func (c *Config) UsesDevelopmentSecret() bool {
	return c.JWTSecret == developmentJWTSecret
}

// getEnvOrDefault returns environment variable value or default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault returns the integer value of an environment variable, or the default when unset or invalid
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// getEnvAsBoolOrDefault returns the boolean value of an environment variable, or the default when unset or invalid
func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

const (
	minSyncBatchSize = 1
	maxSyncBatchSize = 1000
)

func clampBatchSize(size int) int {
	if size < minSyncBatchSize {
		return minSyncBatchSize
	}
	if size > maxSyncBatchSize {
		return maxSyncBatchSize
	}
	return size
}
