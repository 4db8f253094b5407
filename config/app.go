package config

type App struct {
	Port        string `env:"APP_PORT" default:"8000"`
	DatabaseURL string `env:"DATABASE_URL,required"`
	JWTSecret   string `env:"JWT_SECRET,required"`
	Env         string `env:"APP_ENV" default:"dev"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" default:"587"`
	SMTPUsername string `env:"EMAIL_USERNAME"`
	SMTPPassword string `env:"EMAIL_PASSWORD"`
	MailFrom     string `env:"MAIL_FROM"`

	KhaltiSecretKey string `env:"KHALTI_SECRET_KEY"`

	S3Bucket    string `env:"S3_BUCKET"`
	S3Region    string `env:"S3_REGION"`
	S3Endpoint  string `env:"S3_ENDPOINT"`
	S3AccessKey string `env:"S3_ACCESS_KEY"`
	S3SecretKey string `env:"S3_SECRET_KEY"`
}
