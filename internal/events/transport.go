package events

import (
	"crypto/tls"
	"crypto/x509"
	"log"
	"strings"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
)

// newTransport создает транспорт для Kafka с поддержкой SASL/PLAIN и TLS
// (управляемые брокеры вроде Aiven требуют и то и другое)
func newTransport(username, password, caCert string) *kafka.Transport {
	transport := &kafka.Transport{}

	if username != "" && password != "" {
		transport.SASL = plain.Mechanism{
			Username: username,
			Password: password,
		}
		log.Printf("🔐 Kafka: SASL/PLAIN аутентификация включена (username: %s)", username)
	}

	tlsConfig := &tls.Config{}

	// Если указан CA сертификат, добавляем его в pool
	if caCert != "" {
		caCertPool := x509.NewCertPool()
		if ok := caCertPool.AppendCertsFromPEM([]byte(caCert)); ok {
			tlsConfig.RootCAs = caCertPool
			log.Printf("🔒 Kafka: TLS с CA сертификатом включен")
		} else {
			log.Printf("⚠️ Kafka: не удалось распарсить CA сертификат, используем системные сертификаты")
		}
	}

	// SASL без TLS брокеры не принимают, поэтому TLS включается вместе с ним
	if transport.SASL != nil || caCert != "" {
		transport.TLS = tlsConfig
	}

	return transport
}

// ParseBrokers разбирает список брокеров из строки через запятую
func ParseBrokers(brokers string) []string {
	parts := strings.Split(strings.ReplaceAll(brokers, " ", ""), ",")
	var result []string
	for _, broker := range parts {
		if broker != "" {
			result = append(result, broker)
		}
	}
	return result
}
