// Package mailer отправляет уведомления одним письмом через SMTP-релей.
package mailer

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/textproto"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/wneessen/go-mail"
)

const (
	// senderName подставляется в заголовок From.
	senderName = "Freebies"
	// implicitTLSPort — порт SMTPS, используется, если в адресе релея порт не указан.
	implicitTLSPort = 465

	DefaultTimeout = 30 * time.Second
)

var replyCodeRe = regexp.MustCompile(`\b([45][0-9]{2})\b`)

// Outcome — итог доставки, о котором сообщил релей.
type Outcome int

const (
	Accepted Outcome = iota
	Rejected
)

func (o Outcome) String() string {
	switch o {
	case Accepted:
		return "accepted"
	case Rejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Delivery описывает ответ релея на одно письмо.
// Rejected означает отрицательный ответ (4xx/5xx): письмо не принято, но соединение и учётные данные в порядке.
type Delivery struct {
	Outcome Outcome
	Code    int
	Lines   []string
}

// Config содержит параметры релея и адреса, которые фиксируются при создании Mailer.
type Config struct {
	Server   string
	Username string
	Password string
	From     string
	To       string
	Timeout  time.Duration
}

// Mailer отправляет письма от одного отправителя одному получателю.
// Между вызовами Send состояние не хранится, поэтому повторное использование безопасно.
type Mailer struct {
	addr string
	host string
	from string
	to   string
	opts []mail.Option
}

// New проверяет адреса и готовит Mailer. Соединение с релеем открывается на каждое письмо.
func New(cfg Config) (*Mailer, error) {
	check := mail.NewMsg()
	if err := check.FromFormat(senderName, cfg.From); err != nil {
		return nil, fmt.Errorf("invalid sender address %q: %w", cfg.From, err)
	}
	if err := check.To(cfg.To); err != nil {
		return nil, fmt.Errorf("invalid recipient address %q: %w", cfg.To, err)
	}

	host, port := cfg.Server, implicitTLSPort
	if h, p, err := net.SplitHostPort(cfg.Server); err == nil {
		n, err := strconv.Atoi(p)
		if err != nil || n <= 0 || n > 65535 {
			return nil, fmt.Errorf("invalid smtp port %q", p)
		}
		host, port = h, n
	}
	if host == "" {
		return nil, errors.New("smtp server host is empty")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	opts := []mail.Option{
		mail.WithTimeout(timeout),
		mail.WithTLSConfig(&tls.Config{ServerName: host, MinVersion: tls.VersionTLS12}),
	}
	if port == implicitTLSPort {
		opts = append(opts, mail.WithSSLPort(false))
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic), mail.WithPort(port))
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	return &Mailer{
		addr: net.JoinHostPort(host, strconv.Itoa(port)),
		host: host,
		from: cfg.From,
		to:   cfg.To,
		opts: opts,
	}, nil
}

// Addr возвращает адрес релея в виде host:port.
func (m *Mailer) Addr() string {
	return m.addr
}

// Send отправляет одно письмо.
// Ошибка возвращается только при сбое транспорта (соединение, TLS, авторизация);
// отказ релея принять письмо приходит как Delivery с Outcome == Rejected и nil-ошибкой.
func (m *Mailer) Send(ctx context.Context, subject, body string) (Delivery, error) {
	msg, err := m.message(subject, body)
	if err != nil {
		return Delivery{}, err
	}

	client, err := mail.NewClient(m.host, m.opts...)
	if err != nil {
		return Delivery{}, fmt.Errorf("create smtp client: %w", err)
	}

	// соединение, EHLO, STARTTLS и AUTH: любая ошибка здесь транспортная
	if err := client.DialWithContext(ctx); err != nil {
		return Delivery{}, fmt.Errorf("connect to %s: %w", m.addr, err)
	}
	// письмо уже принято или отклонено, ошибка QUIT ничего не меняет
	defer func() { _ = client.Close() }()

	if err := client.Send(msg); err != nil {
		return reply(err)
	}
	return Delivery{Outcome: Accepted, Code: 250}, nil
}

func (m *Mailer) message(subject, body string) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.FromFormat(senderName, m.from); err != nil {
		return nil, fmt.Errorf("set sender: %w", err)
	}
	if err := msg.To(m.to); err != nil {
		return nil, fmt.Errorf("set recipient: %w", err)
	}
	msg.Subject(subject)
	msg.SetDate()
	msg.SetMessageID()
	msg.SetBodyString(mail.TypeTextPlain, body)
	return msg, nil
}

// reply превращает отрицательный ответ на MAIL, RCPT, DATA или конец данных в Rejected.
// Остальные ошибки отправки считаются транспортными.
func reply(err error) (Delivery, error) {
	var sendErr *mail.SendError
	if !errors.As(err, &sendErr) {
		return Delivery{}, fmt.Errorf("send: %w", err)
	}
	switch sendErr.Reason {
	case mail.ErrSMTPMailFrom, mail.ErrSMTPRcptTo, mail.ErrSMTPData, mail.ErrSMTPDataClose:
	default:
		return Delivery{}, fmt.Errorf("send: %w", err)
	}

	d := Delivery{Outcome: Rejected, Code: sendErr.ErrorCode()}
	var tpErr *textproto.Error
	if errors.As(err, &tpErr) {
		if d.Code == 0 {
			d.Code = tpErr.Code
		}
		d.Lines = strings.Split(tpErr.Msg, "\n")
	} else {
		d.Lines = strings.Split(sendErr.Error(), "\n")
	}
	if d.Code == 0 {
		if m := replyCodeRe.FindStringSubmatch(sendErr.Error()); m != nil {
			d.Code, _ = strconv.Atoi(m[1])
		}
	}
	return d, nil
}
