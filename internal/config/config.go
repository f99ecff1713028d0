package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr  string
	GRPCAddr  string
	MySQLDSN  string
	RedisAddr string
}

// Load reads configuration from the environment, with a .env file as
// an optional local override.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("warning: could not load .env file: %v", err)
	}

	return Config{
		HTTPAddr:  getenv("HTTP_ADDR", ":8080"),
		GRPCAddr:  getenv("GRPC_ADDR", ":50051"),
		MySQLDSN:  getenv("MYSQL_DSN", "root:root@tcp(localhost:3306)/postmart?parseTime=true"),
		RedisAddr: getenv("REDIS_ADDR", "localhost:6379"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
