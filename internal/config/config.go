package config

import (
	"log"
	"os"
)

type Config struct {
	Port    string
	DBDSN   string
	LogFile string
	AMQPURL string
}

func Load() Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "orderdesk.db"
	} // sqlite file in project root
	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		logFile = "./orderdesk.log"
	}
	// Empty AMQP_URL means notifications go to the structured log only.
	amqp := os.Getenv("AMQP_URL")

	cfg := Config{Port: port, DBDSN: dsn, LogFile: logFile, AMQPURL: amqp}
	log.Printf("[config] PORT=%s DB_DSN=%s LOG_FILE=%s AMQP_URL=%s", cfg.Port, cfg.DBDSN, cfg.LogFile, cfg.AMQPURL)
	return cfg
}
