package mail

import (
	"context"

	"go.uber.org/zap"
)

type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Mailer 邮件发送通道
type Mailer interface {
	Send(ctx context.Context, m Message) error
}

type Opts struct {
	Driver   string // log / smtp
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func New(o Opts, l *zap.Logger) Mailer {
	if o.Driver == "smtp" && o.Host != "" {
		return NewSMTP(o)
	}
	return NewLogMailer(l)
}

// LogMailer 只写日志，开发环境默认
type LogMailer struct {
	l *zap.Logger
}

func NewLogMailer(l *zap.Logger) *LogMailer {
	if l == nil {
		l = zap.NewNop()
	}
	return &LogMailer{l: l}
}

func (m *LogMailer) Send(_ context.Context, msg Message) error {
	m.l.Info("mail",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("text", msg.Text),
	)
	return nil
}
