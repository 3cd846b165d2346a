// Package smtp предоставляет транспорт для отправки писем по SMTP.
package smtp

import (
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/smtp"
	"time"

	"github.com/magabrotheeeer/lms-server/internal/config"
	"github.com/magabrotheeeer/lms-server/internal/lib/sl"
)

const (
	dialTimeout = 10 * time.Second
	// implicitTLSPort порт SMTPS, на котором TLS поднимается до приветствия сервера.
	implicitTLSPort = "465"
)

// Client часть *smtp.Client, нужная для отправки одного письма.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}

// TransportInterface открывает SMTP сессии.
type TransportInterface interface {
	Connect() (Client, error)
	From() string
}

// Transport SMTP транспорт поверх net/smtp.
type Transport struct {
	cfg    config.SMTP
	log    *slog.Logger
	dialer *net.Dialer
}

// NewTransport создает новый экземпляр Transport.
func NewTransport(cfg config.SMTP, log *slog.Logger) *Transport {
	return &Transport{cfg: cfg, log: log, dialer: &net.Dialer{Timeout: dialTimeout}}
}

func (t *Transport) tlsConfig() *tls.Config {
	return &tls.Config{
		ServerName: t.cfg.SMTPHost,
		MinVersion: tls.VersionTLS12,
	}
}

func (t *Transport) dial() (net.Conn, error) {
	addr := net.JoinHostPort(t.cfg.SMTPHost, t.cfg.SMTPPort)
	if t.cfg.SMTPPort == implicitTLSPort {
		return tls.DialWithDialer(t.dialer, "tcp", addr, t.tlsConfig())
	}
	return t.dialer.Dial("tcp", addr)
}

// Connect открывает сессию с SMTP сервером и авторизуется, если задан логин.
//
// Пароль отправляется только по зашифрованному соединению: либо порт 465,
// либо STARTTLS. Сервер без STARTTLS при заданном логине отклоняется.
func (t *Transport) Connect() (Client, error) {
	const op = "smtp.Connect"

	conn, err := t.dial()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to dial SMTP server: %w", op, err)
	}

	client, err := smtp.NewClient(conn, t.cfg.SMTPHost)
	if err != nil {
		if closeErr := conn.Close(); closeErr != nil {
			t.log.Error("failed to close connection", sl.Err(closeErr))
		}
		return nil, fmt.Errorf("%s: failed to create SMTP client: %w", op, err)
	}

	fail := func(err error) (Client, error) {
		if closeErr := client.Close(); closeErr != nil {
			t.log.Error("failed to close client", sl.Err(closeErr))
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if t.cfg.SMTPPort != implicitTLSPort {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err = client.StartTLS(t.tlsConfig()); err != nil {
				return fail(fmt.Errorf("failed to start TLS: %w", err))
			}
		} else if t.cfg.SMTPUser != "" {
			return fail(fmt.Errorf("smtp server does not support STARTTLS"))
		}
	}

	if t.cfg.SMTPUser != "" {
		auth := smtp.PlainAuth("", t.cfg.SMTPUser, t.cfg.SMTPPass, t.cfg.SMTPHost)
		if err = client.Auth(auth); err != nil {
			return fail(fmt.Errorf("smtp auth failed: %w", err))
		}
	}

	return client, nil
}

// From возвращает адрес отправителя. Если он не задан, используется логин SMTP.
func (t *Transport) From() string {
	if t.cfg.SMTPFrom != "" {
		return t.cfg.SMTPFrom
	}
	return t.cfg.SMTPUser
}
