// Package smtp отправляет письма через SMTP-сервер с STARTTLS и PLAIN-аутентификацией.
// Тело письма собирается как multipart/alternative из текстовой и HTML-частей.
package smtp

import "io"

// Client интерфейс для SMTP клиента.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}
