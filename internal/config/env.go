package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Env struct {
	AppAddr string
	GinMode string

	DBUser     string
	DBPassword string
	DBHost     string
	DBName     string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	KafkaBrokers []string
	BookingTopic string

	JWTSecret string

	HoldTTL         time.Duration
	SweepInterval   time.Duration
	SeatCacheTTL    time.Duration
	PlatformFee     int64
	ReferencePrefix string
}

func LoadEnv() Env {
	return Env{
		AppAddr: getString("APP_ADDR", ":8080"),
		GinMode: strings.TrimSpace(os.Getenv("GIN_MODE")),

		DBUser:     getString("DB_USER", "root"),
		DBPassword: strings.TrimSpace(os.Getenv("DB_PASSWORD")),
		DBHost:     getString("DB_HOST", "127.0.0.1:3306"),
		DBName:     getString("DB_NAME", "navticket"),

		RedisAddr:     strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		RedisPassword: strings.TrimSpace(os.Getenv("REDIS_PASSWORD")),
		RedisDB:       getInt("REDIS_DB", 0),

		KafkaBrokers: getList("KAFKA_BROKERS"),
		BookingTopic: getString("KAFKA_BOOKING_TOPIC", "booking-events"),

		JWTSecret: getString("JWT_SECRET", "super-secret-key-change-me"),

		HoldTTL:         time.Duration(getInt("SEAT_HOLD_TTL_MINUTES", 5)) * time.Minute,
		SweepInterval:   time.Duration(getInt("SWEEP_INTERVAL_MINUTES", 1)) * time.Minute,
		SeatCacheTTL:    time.Duration(getInt("SEAT_CACHE_TTL_SECONDS", 30)) * time.Second,
		PlatformFee:     int64(getInt("PLATFORM_FEE", 500)),
		ReferencePrefix: getString("BOOKING_REFERENCE_PREFIX", "NVT"),
	}
}

func getString(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func getInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getList(key string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return nil
	}
	out := []string{}
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
