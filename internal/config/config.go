package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
// It is constructed once at process start and passed by reference into every
// component; nothing reads the environment after Load returns.
type Config struct {
	AppPort string
	AppEnv  string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables

	JWTSecret           string
	JWTExpiration       time.Duration
	OTPExpiration       time.Duration
	EmailCodeExpiration time.Duration
	RandomStringChars   int

	AllowedLoginAttempts int
	LoginBlockDuration   time.Duration

	SMTPHost     string
	SMTPPort     string
	SMTPFrom     string
	SMTPUsername string
	SMTPPassword string

	SNSRegion      string
	DeveloperEmail string // receives SMS copies in non-production environments

	AllowedOrigins []string // CORS allowed origins

	Features Features
}

// Features gates environment-dependent behaviour explicitly, so business
// logic never compares APP_ENV literals.
type Features struct {
	// AllowDeterministicOTP enables the fixed passcode that matches any
	// active record for a phone. Integration-test aid; never on in production.
	AllowDeterministicOTP bool
	// EchoOTPCode includes the generated passcode in the HTTP response
	// instead of relying solely on out-of-band delivery.
	EchoOTPCode bool
	// SkipSignupOTPCheck waives the phone proof-token requirement at signup.
	SkipSignupOTPCheck bool
	// ExposeErrorInfo attaches internal diagnostic detail to error responses.
	ExposeErrorInfo bool
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Users string
	OTPs  string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	env := getEnv("APP_ENV", "development")
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  env,

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Users: getEnv("DYNAMO_TABLE_USERS", "users"),
			OTPs:  getEnv("DYNAMO_TABLE_OTPS", "otps"),
		},

		JWTSecret:           getEnv("JWT_SECRET", ""),
		JWTExpiration:       time.Duration(getEnvInt("JWT_EXPIRATION_IN_MINUTES", 60*24*7)) * time.Minute,
		OTPExpiration:       time.Duration(getEnvInt("OTP_EXPIRATION_IN_MINUTES", 15)) * time.Minute,
		EmailCodeExpiration: time.Duration(getEnvInt("EMAIL_CODE_EXPIRATION_IN_MINUTES", 60*24)) * time.Minute,
		RandomStringChars:   getEnvInt("RANDOM_STRING_CHARACTERS", 40),

		AllowedLoginAttempts: getEnvInt("ALLOWED_LOGIN_ATTEMPTS", 5),
		LoginBlockDuration:   time.Duration(getEnvInt("LOGIN_ATTEMPTS_MINUTES_TO_BLOCK", 30)) * time.Minute,

		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnv("SMTP_PORT", "1025"),
		SMTPFrom:     getEnv("SMTP_FROM", "noreply@example.com"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),

		SNSRegion:      getEnv("SNS_REGION", "us-east-1"),
		DeveloperEmail: getEnv("PROJECT_DEVELOPER_EMAIL", ""),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),

		Features: Features{
			AllowDeterministicOTP: env == "test" || env == "local",
			EchoOTPCode:           env != "production",
			SkipSignupOTPCheck:    env == "test",
			ExposeErrorInfo:       env != "production",
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
