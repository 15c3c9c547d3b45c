package twilio

import (
	"context"
	"errors"
	"testing"

	"github.com/futuremech/fmweb/pkg/core/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

type fakeAPI struct {
	params *twilioApi.CreateMessageParams
	err    error
}

func (f *fakeAPI) CreateMessage(p *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error) {
	f.params = p
	if f.err != nil {
		return nil, f.err
	}
	sid := "SM123"
	return &twilioApi.ApiV2010Message{Sid: &sid}, nil
}

func TestNewValidatesOptions(t *testing.T) {
	_, err := New(Options{AuthToken: "t", From: "+1"})
	assert.Error(t, err)
	_, err = New(Options{AccountSID: "AC1", AuthToken: "t"})
	assert.Error(t, err)
	s, err := New(Options{AccountSID: "AC1", AuthToken: "t", From: "+1"})
	require.NoError(t, err)
	assert.NotNil(t, s.api)
}

func TestSendSMS(t *testing.T) {
	api := &fakeAPI{}
	s := &Sender{api: api, from: "+15550001"}
	sid, err := s.SendSMS(context.Background(), &notify.SMS{
		To: "+15550002", Body: "Reminder",
	})
	require.NoError(t, err)
	assert.Equal(t, "SM123", sid)
	assert.Equal(t, "+15550002", *api.params.To)
	assert.Equal(t, "+15550001", *api.params.From)
	assert.Equal(t, "Reminder", *api.params.Body)

	api.err = errors.New("rate limited")
	_, err = s.SendSMS(context.Background(), &notify.SMS{To: "+1"})
	assert.ErrorContains(t, err, "rate limited")
}
