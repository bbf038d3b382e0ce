package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every setting the storefront reads at startup.
type Config struct {
	AppPort string
	Env     string

	DatabaseDriver string
	DatabaseDSN    string

	JWTSecret string
	JWTTTL    time.Duration

	RabbitMQURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	DeliveryFee int64

	AdminUsername string
	AdminEmail    string
	AdminPassword string

	CORSOrigins string
}

// IsDevelopment reports whether the process runs in development mode.
func (c Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("ENV", "production")
	v.SetDefault("DATABASE_DRIVER", "postgres")
	v.SetDefault("DATABASE_DSN", "host=127.0.0.1 user=postgres password=postgres dbname=wtch port=5432 sslmode=disable")
	v.SetDefault("JWT_SECRET", "change_me")
	v.SetDefault("JWT_TTL", "24h")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("DELIVERY_FEE", 10000)
	v.SetDefault("ADMIN_USERNAME", "admin")
	v.SetDefault("ADMIN_EMAIL", "admin@wtch.co")
	v.SetDefault("ADMIN_PASSWORD", "")
	v.SetDefault("CORS_ORIGINS", "*")
}

// Load reads an optional .env file, then environment variables, on top of the defaults.
func Load() Config {
	_ = godotenv.Load()

	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv()

	return FromViper(v)
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) Config {
	return Config{
		AppPort:        v.GetString("APP_PORT"),
		Env:            v.GetString("ENV"),
		DatabaseDriver: v.GetString("DATABASE_DRIVER"),
		DatabaseDSN:    v.GetString("DATABASE_DSN"),
		JWTSecret:      v.GetString("JWT_SECRET"),
		JWTTTL:         v.GetDuration("JWT_TTL"),
		RabbitMQURL:    v.GetString("RABBITMQ_URL"),
		RedisAddr:      v.GetString("REDIS_ADDR"),
		RedisPassword:  v.GetString("REDIS_PASSWORD"),
		RedisDB:        v.GetInt("REDIS_DB"),
		DeliveryFee:    v.GetInt64("DELIVERY_FEE"),
		AdminUsername:  v.GetString("ADMIN_USERNAME"),
		AdminEmail:     v.GetString("ADMIN_EMAIL"),
		AdminPassword:  v.GetString("ADMIN_PASSWORD"),
		CORSOrigins:    v.GetString("CORS_ORIGINS"),
	}
}
