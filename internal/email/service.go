package email

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"

	"github.com/example/foodyham/internal/domain/order"
)

// Config holds SMTP settings. Username may be empty for relays without auth.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Service sends transactional mail over SMTP
type Service struct {
	cfg Config
}

func NewService(cfg Config) *Service {
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	return &Service{cfg: cfg}
}

// SendOrderConfirmation mails the receipt for o to the customer
func (s *Service) SendOrderConfirmation(ctx context.Context, to string, o order.Order) error {
	msg, err := s.newMessage(to, fmt.Sprintf("Your Foodyham order %s is confirmed", shortID(o.ID.String())))
	if err != nil {
		return err
	}
	msg.SetBodyString(mail.TypeTextHTML, BuildOrderConfirmationBody(o))
	return s.send(ctx, msg)
}

func (s *Service) newMessage(to, subject string) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(s.cfg.From); err != nil {
		return nil, fmt.Errorf("invalid sender %q: %w", s.cfg.From, err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("invalid recipient %q: %w", to, err)
	}
	msg.Subject(subject)
	return msg, nil
}

func (s *Service) send(ctx context.Context, msg *mail.Msg) error {
	opts := []mail.Option{
		mail.WithPort(s.cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if s.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.cfg.Username),
			mail.WithPassword(s.cfg.Password),
		)
	}
	client, err := mail.NewClient(s.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("failed to create mail client: %w", err)
	}
	return client.DialAndSendWithContext(ctx, msg)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
