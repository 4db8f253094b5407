package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
)

func Load() App {
	cfg := App{
		Port:        getenv("APP_PORT", "8000"),
		DatabaseURL: must("DATABASE_URL"),
		JWTSecret:   getenv("JWT_SECRET", "local_dev_secret"),
		Env:         getenv("APP_ENV", "dev"),

		AllowedOrigins: split(getenv("ALLOWED_ORIGINS", "http://localhost:5173")),

		SMTPHost:     getenv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:     getint("SMTP_PORT", 587),
		SMTPUsername: os.Getenv("EMAIL_USERNAME"),
		SMTPPassword: os.Getenv("EMAIL_PASSWORD"),
		MailFrom:     getenv("MAIL_FROM", os.Getenv("EMAIL_USERNAME")),

		KhaltiSecretKey: os.Getenv("KHALTI_SECRET_KEY"),

		S3Bucket:    os.Getenv("S3_BUCKET"),
		S3Region:    getenv("S3_REGION", "ap-south-1"),
		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
	}
	return cfg
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func split(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		slog.Error("required env missing", "key", k)
		panic("missing env " + k)
	}
	return v
}
