// Package fakes provides recording implementations of the external
// collaborators of the use cases (mail, SMS, payment processor, file
// storage, report renderer, and identity provider) for their tests.
package fakes

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"

	"github.com/futuremech/fmweb/pkg/core/model"
	"github.com/futuremech/fmweb/pkg/core/notify"
	"github.com/futuremech/fmweb/pkg/core/storage"
)

// ErrDown is returned by a fake whose Fail field is set.
var ErrDown = errors.New("service is down")

// Mailer records the sent emails.
type Mailer struct {
	mu   sync.Mutex
	Sent []notify.Email
	Fail bool
}

func (m *Mailer) Send(_ context.Context, e *notify.Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail {
		return ErrDown
	}
	m.Sent = append(m.Sent, *e)
	return nil
}

// Subjects lists the subjects of the sent emails in order.
func (m *Mailer) Subjects() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ss := make([]string, 0, len(m.Sent))
	for _, e := range m.Sent {
		ss = append(ss, e.Subject)
	}
	return ss
}

// SMS records the sent text messages.
type SMS struct {
	mu   sync.Mutex
	Sent []notify.SMS
	Fail bool
}

func (s *SMS) SendSMS(_ context.Context, m *notify.SMS) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail {
		return "", ErrDown
	}
	s.Sent = append(s.Sent, *m)
	return fmt.Sprintf("SM%04d", len(s.Sent)), nil
}

// Processor is a payment processor whose intents are kept in memory.
// Tests mark an intent as succeeded with Succeed, mimicking a client
// which has confirmed the card payment.
type Processor struct {
	mu      sync.Mutex
	intents map[string]*model.PaymentIntent
	Fail    bool
}

func NewProcessor() *Processor {
	return &Processor{intents: map[string]*model.PaymentIntent{}}
}

func (p *Processor) CreateIntent(
	_ context.Context, amount int64, metadata map[string]string,
) (*model.PaymentIntent, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Fail {
		return nil, ErrDown
	}
	id := fmt.Sprintf("pi_%d", len(p.intents)+1)
	md := make(map[string]string, len(metadata))
	for k, v := range metadata {
		md[k] = v
	}
	pi := &model.PaymentIntent{
		ID:           id,
		ClientSecret: id + "_secret",
		Amount:       amount,
		Metadata:     md,
	}
	p.intents[id] = pi
	cp := *pi
	return &cp, nil
}

func (p *Processor) Intent(_ context.Context, id string) (*model.PaymentIntent, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Fail {
		return nil, ErrDown
	}
	pi, ok := p.intents[id]
	if !ok {
		return nil, fmt.Errorf("no such payment intent: %q", id)
	}
	cp := *pi
	return &cp, nil
}

// Succeed marks the id intent as succeeded.
func (p *Processor) Succeed(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.intents[id].Succeeded = true
}

// FileStore keeps the saved files in memory, keyed by their paths.
type FileStore struct {
	mu    sync.Mutex
	Files map[string][]byte
}

func NewFileStore() *FileStore {
	return &FileStore{Files: map[string][]byte{}}
}

func (fs *FileStore) SaveUpload(
	ctx context.Context, bucket, origName string, r io.Reader,
) (string, error) {
	switch strings.ToLower(path.Ext(origName)) {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp":
	default:
		return "", storage.ErrUnsupportedType
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return fs.Save(ctx, bucket, path.Base(origName), data)
}

func (fs *FileStore) Save(
	_ context.Context, bucket, name string, data []byte,
) (string, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	p := path.Join(bucket, name)
	fs.Files[p] = append([]byte(nil), data...)
	return p, nil
}

// Renderer renders a report as a one line text.
type Renderer struct{}

func (Renderer) ServiceReport(r *model.ServiceReport) ([]byte, error) {
	return []byte(fmt.Sprintf(
		"%s %s %s", r.ReportNumber(), r.CustomerName, r.ServiceName,
	)), nil
}

// Identity is an identity provider which accepts a fixed code.
type Identity struct {
	Code string
	ID   model.ExternalIdentity
}

func (i *Identity) AuthCodeURL(state string) string {
	return "https://accounts.example.com/auth?state=" + state
}

func (i *Identity) Exchange(_ context.Context, code string) (*model.ExternalIdentity, error) {
	if code != i.Code {
		return nil, errors.New("invalid authorization code")
	}
	id := i.ID
	return &id, nil
}
