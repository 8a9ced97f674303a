package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeToken struct {
	done chan struct{}
	err  error
}

func (t *fakeToken) Wait() bool                     { <-t.done; return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool { <-t.done; return true }
func (t *fakeToken) Done() <-chan struct{}          { return t.done }
func (t *fakeToken) Error() error                   { return t.err }

type published struct {
	topic    string
	qos      byte
	retained bool
	payload  []byte
}

// fakeClient implements only Publish; other mqtt.Client methods panic.
type fakeClient struct {
	mqtt.Client
	token *fakeToken
	sent  []published
}

func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	c.sent = append(c.sent, published{topic, qos, retained, payload.([]byte)})
	return c.token
}

func doneToken(err error) *fakeToken {
	t := &fakeToken{done: make(chan struct{}), err: err}
	close(t.done)
	return t
}

func TestMQTTPublish(t *testing.T) {
	client := &fakeClient{token: doneToken(nil)}
	m := newMQTT(client, "eightzeros/artifacts", zap.NewNop())

	ev := Event{
		ID:         "e1",
		Kind:       "sine",
		Name:       "sine_wave_440Hz_1s.wav",
		Path:       "gen/sine_wave_440Hz_1s.wav",
		Frequency:  440,
		Duration:   1,
		SampleRate: 44100,
		Samples:    44100,
		CreatedAt:  time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	require.NoError(t, m.Publish(context.Background(), ev))

	require.Len(t, client.sent, 1)
	msg := client.sent[0]
	assert.Equal(t, "eightzeros/artifacts", msg.topic)
	assert.Equal(t, byte(1), msg.qos)
	assert.False(t, msg.retained)

	var got Event
	require.NoError(t, json.Unmarshal(msg.payload, &got))
	assert.Equal(t, ev, got)
}

func TestMQTTPublishError(t *testing.T) {
	client := &fakeClient{token: doneToken(errors.New("not connected"))}
	m := newMQTT(client, "t", zap.NewNop())

	err := m.Publish(context.Background(), Event{Name: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not connected")
}

func TestMQTTPublishContextCancel(t *testing.T) {
	client := &fakeClient{token: &fakeToken{done: make(chan struct{})}}
	m := newMQTT(client, "t", zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, m.Publish(ctx, Event{}), context.Canceled)
}

func TestNop(t *testing.T) {
	assert.NoError(t, Nop{}.Publish(context.Background(), Event{}))
}
