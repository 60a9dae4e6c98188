package mailer

import (
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"path/filepath"

	"github.com/sysu-ecnc-dev/inventory-console/backend/internal/domain"
	"github.com/wneessen/go-mail"
)

var ErrUnsupportedType = errors.New("unsupported mail type")

type kind struct {
	file    string
	subject string
	data    func() any
}

var kinds = map[string]kind{
	domain.MailTypeCreateUser: {
		file:    "new_account_email.html",
		subject: "Inventory Console - your account",
		data:    func() any { return &domain.CreateUserMailData{} },
	},
	domain.MailTypeTransferRequested: {
		file:    "transfer_requested_email.html",
		subject: "Inventory Console - transfer requested",
		data:    func() any { return &domain.TransferRequestedMailData{} },
	},
	domain.MailTypeTransferResolved: {
		file:    "transfer_resolved_email.html",
		subject: "Inventory Console - transfer resolved",
		data:    func() any { return &domain.TransferResolvedMailData{} },
	},
}

// Builder turns a queued MailMessage into a ready to send message.
type Builder struct {
	from        string
	templateDir string
}

func NewBuilder(from, templateDir string) *Builder {
	return &Builder{from: from, templateDir: templateDir}
}

// Build returns ErrUnsupportedType for unknown types; every other error means
// the message itself is malformed and retrying will not help.
func (b *Builder) Build(body []byte) (*mail.Msg, error) {
	var envelope struct {
		Type string          `json:"type"`
		To   string          `json:"to"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decode message: %w", err)
	}

	k, ok := kinds[envelope.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, envelope.Type)
	}

	data := k.data()
	if len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, data); err != nil {
			return nil, fmt.Errorf("decode %s data: %w", envelope.Type, err)
		}
	}

	tmpl, err := template.ParseFiles(filepath.Join(b.templateDir, k.file))
	if err != nil {
		return nil, err
	}

	m := mail.NewMsg()
	if err := m.From(b.from); err != nil {
		return nil, err
	}
	if err := m.To(envelope.To); err != nil {
		return nil, err
	}
	if err := m.SetBodyHTMLTemplate(tmpl, data); err != nil {
		return nil, err
	}
	m.Subject(k.subject)

	return m, nil
}
