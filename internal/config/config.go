package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	StrapiURL          string // Базовый адрес CMS (без /api)
	StrapiToken        string // Статический bearer-токен для всех запросов
	RedisURL           string
	RedisSentinelAddrs []string // Адреса Sentinel (через запятую)
	RedisMasterName    string   // Имя мастера в Sentinel
	CacheTTL           time.Duration
	KafkaBrokers       string
	KafkaUsername      string // SASL/PLAIN для управляемых брокеров
	KafkaPassword      string
	KafkaCACert        string // PEM-сертификат CA, не путь к файлу
	ServerPort         string
	Environment        string
}

func Load() *Config {
	strapiURL := getEnv("STRAPI_API_URL", "")
	if strapiURL == "" {
		// Имя переменной из прежнего фронтенда — поддерживаем для совместимости
		strapiURL = getEnv("NEXT_PUBLIC_STRAPI_API_URL", "")
	}
	if strapiURL == "" {
		strapiURL = "http://localhost:1337" // Fallback
	}

	strapiToken := getEnv("STRAPI_API_TOKEN", "")
	if strapiToken == "" {
		strapiToken = getEnv("NEXT_PUBLIC_STRAPI_API_TOKEN", "")
	}

	// Railway может использовать разные имена переменных для Redis
	redisURL := getEnv("REDIS_URL", "")
	if redisURL == "" {
		redisURL = getEnv("REDISCLOUD_URL", "")
	}
	// Если нет полного URL, пытаемся собрать из отдельных переменных
	if redisURL == "" {
		redisHost := getEnv("REDISHOST", "")
		redisPort := getEnv("REDISPORT", "6379")
		redisPassword := getEnv("REDISPASSWORD", "")
		redisDB := getEnv("REDISDB", "0")

		if redisHost != "" {
			if redisPassword != "" {
				redisURL = fmt.Sprintf("redis://:%s@%s:%s/%s", redisPassword, redisHost, redisPort, redisDB)
			} else {
				redisURL = fmt.Sprintf("redis://%s:%s/%s", redisHost, redisPort, redisDB)
			}
		}
	}
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0" // Fallback
	}

	// Redis Sentinel настройки
	sentinelAddrsStr := getEnv("REDIS_SENTINEL_ADDRS", "")
	var sentinelAddrs []string
	if sentinelAddrsStr != "" {
		sentinelAddrs = strings.Split(sentinelAddrsStr, ",")
		for i := range sentinelAddrs {
			sentinelAddrs[i] = strings.TrimSpace(sentinelAddrs[i])
		}
	}

	masterName := getEnv("REDIS_MASTER_NAME", "")
	if masterName == "" {
		masterName = "mymaster" // Дефолтное значение
	}

	return &Config{
		StrapiURL:          strapiURL,
		StrapiToken:        strapiToken,
		RedisURL:           redisURL,
		RedisSentinelAddrs: sentinelAddrs,
		RedisMasterName:    masterName,
		CacheTTL:           time.Duration(getEnvInt("CACHE_TTL_SECONDS", 60)) * time.Second,
		KafkaBrokers:       getEnv("KAFKA_BROKERS", ""),
		KafkaUsername:      getEnv("KAFKA_USERNAME", ""),
		KafkaPassword:      getEnv("KAFKA_PASSWORD", ""),
		KafkaCACert:        getEnv("KAFKA_CA_CERT", ""),
		ServerPort:         getEnv("PORT", "8080"),
		Environment:        getEnv("ENV", "development"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
