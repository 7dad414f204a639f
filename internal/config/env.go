package config

import (
	"os"
	"strconv"
	"strings"
)

type Env struct {
	AppAddr string
	GinMode string

	DBDSN string

	JWTSecret string

	SMTPHost   string
	SMTPPort   int
	SMTPUser   string
	SMTPPass   string
	MailFrom   string
	OpsMailbox string

	S3Bucket       string
	S3Region       string
	S3Endpoint     string
	S3AccessKey    string
	S3SecretKey    string
	S3UsePathStyle bool
}

func LoadEnv() Env {
	appAddr := getenv("APP_ADDR", ":8080")

	dsn := getenv("DB_DSN",
		"root:@tcp(127.0.0.1:3306)/standards?parseTime=true&loc=Local&charset=utf8mb4&timeout=5s&readTimeout=30s&writeTimeout=30s")

	smtpPort := 587
	if p, err := strconv.Atoi(getenv("SMTP_PORT", "")); err == nil && p > 0 {
		smtpPort = p
	}

	return Env{
		AppAddr: appAddr,
		GinMode: getenv("GIN_MODE", ""),

		DBDSN: dsn,

		JWTSecret: getenv("JWT_SECRET", "super-secret-key-change-me"),

		SMTPHost:   getenv("SMTP_HOST", ""),
		SMTPPort:   smtpPort,
		SMTPUser:   getenv("SMTP_USER", ""),
		SMTPPass:   getenv("SMTP_PASS", ""),
		MailFrom:   getenv("MAIL_FROM", "no-reply@standards.local"),
		OpsMailbox: getenv("OPS_MAILBOX", "operaciones@standards.local"),

		S3Bucket:       getenv("S3_BUCKET", ""),
		S3Region:       getenv("S3_REGION", "eu-west-1"),
		S3Endpoint:     getenv("S3_ENDPOINT", ""),
		S3AccessKey:    getenv("S3_ACCESS_KEY", ""),
		S3SecretKey:    getenv("S3_SECRET_KEY", ""),
		S3UsePathStyle: getenv("S3_USE_PATH_STYLE", "") == "true",
	}
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
