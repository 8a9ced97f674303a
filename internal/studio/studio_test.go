package studio

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/arpagon/eightzeros/internal/audio"
	"github.com/arpagon/eightzeros/internal/notify"
	"github.com/arpagon/eightzeros/internal/riffusion"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []notify.Event
	err    error
}

func (n *recordingNotifier) Publish(_ context.Context, ev notify.Event) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev)
	return n.err
}

func newStudio(t *testing.T, naming audio.NamingScheme, remote riffusion.Submitter, n notify.Notifier) *Studio {
	t.Helper()
	return New(Config{
		GenerateDir:  t.TempDir(),
		Naming:       naming,
		Encoding:     audio.EncodingFloat32,
		RemoteParams: riffusion.DefaultParams(),
	}, remote, n, zap.NewNop())
}

func TestGenerateSineWritesArtifact(t *testing.T) {
	n := &recordingNotifier{}
	s := newStudio(t, audio.NamingLegacy, nil, n)

	art, err := s.GenerateSine(context.Background(), audio.DefaultParams())
	require.NoError(t, err)

	assert.Equal(t, "sine_wave_440Hz_1s.wav", art.Name)
	assert.Equal(t, filepath.Join(s.GenerateDir(), "sine_wave_440Hz_1s.wav"), art.Path)
	assert.Equal(t, 44100, art.Samples)

	info, samples, err := audio.ReadWAV(art.Path)
	require.NoError(t, err)
	assert.Equal(t, 44100, info.SampleRate)
	assert.Len(t, samples, 44100)

	require.Len(t, n.events, 1)
	ev := n.events[0]
	assert.NotEmpty(t, ev.ID)
	assert.Equal(t, "sine", ev.Kind)
	assert.Equal(t, art.Name, ev.Name)
	assert.Equal(t, 440.0, ev.Frequency)
	assert.Equal(t, 44100, ev.Samples)
}

func TestGenerateSineCollidingNamesOverwrite(t *testing.T) {
	s := newStudio(t, audio.NamingLegacy, nil, nil)

	first, err := s.GenerateSine(context.Background(), audio.Params{Frequency: 440.3, Duration: 1, SampleRate: 44100})
	require.NoError(t, err)
	second, err := s.GenerateSine(context.Background(), audio.Params{Frequency: 440.7, Duration: 1, SampleRate: 48000})
	require.NoError(t, err)

	assert.Equal(t, first.Path, second.Path)

	entries, err := os.ReadDir(s.GenerateDir())
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	// the file now holds the second tone
	info, samples, err := audio.ReadWAV(second.Path)
	require.NoError(t, err)
	assert.Equal(t, 48000, info.SampleRate)
	want := audio.GenerateSine(audio.Params{Frequency: 440.7, Duration: 1, SampleRate: 48000})
	assert.Equal(t, want, samples)
}

func TestGenerateSineExactNamingKeepsBoth(t *testing.T) {
	s := newStudio(t, audio.NamingExact, nil, nil)

	a, err := s.GenerateSine(context.Background(), audio.Params{Frequency: 440.3, Duration: 1, SampleRate: 44100})
	require.NoError(t, err)
	b, err := s.GenerateSine(context.Background(), audio.Params{Frequency: 440.7, Duration: 1, SampleRate: 44100})
	require.NoError(t, err)

	assert.NotEqual(t, a.Path, b.Path)
	entries, err := os.ReadDir(s.GenerateDir())
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestGenerateSineZeroDuration(t *testing.T) {
	s := newStudio(t, audio.NamingLegacy, nil, nil)
	art, err := s.GenerateSine(context.Background(), audio.Params{Frequency: 440, Duration: 0, SampleRate: 44100})
	require.NoError(t, err)
	assert.Equal(t, 0, art.Samples)

	info, _, err := audio.ReadWAV(art.Path)
	require.NoError(t, err)
	assert.Equal(t, 0, info.Samples)
}

func TestGenerateSineMissingDir(t *testing.T) {
	n := &recordingNotifier{}
	s := New(Config{
		GenerateDir: filepath.Join(t.TempDir(), "missing"),
		Naming:      audio.NamingLegacy,
		Encoding:    audio.EncodingFloat32,
	}, nil, n, zap.NewNop())

	_, err := s.GenerateSine(context.Background(), audio.DefaultParams())
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Empty(t, n.events)
}

func TestGenerateSineNotifyFailureIsNotFatal(t *testing.T) {
	n := &recordingNotifier{err: errors.New("broker down")}
	s := newStudio(t, audio.NamingLegacy, nil, n)

	art, err := s.GenerateSine(context.Background(), audio.DefaultParams())
	require.NoError(t, err)
	_, statErr := os.Stat(art.Path)
	assert.NoError(t, statErr)
}

func TestPreview(t *testing.T) {
	s := newStudio(t, audio.NamingLegacy, nil, nil)
	n, peaks := s.Preview(audio.Params{Frequency: 100, Duration: 0.5, SampleRate: 48000}, 64)
	assert.Equal(t, 24000, n)
	assert.Len(t, peaks, 64)

	entries, err := os.ReadDir(s.GenerateDir())
	require.NoError(t, err)
	assert.Empty(t, entries, "preview must not write files")
}

func TestGenerateRemote(t *testing.T) {
	stub := &riffusion.Stub{Result: riffusion.Result{ID: "p1", Status: "succeeded", Output: []byte(`{"audio":"a.mp3"}`)}}
	s := newStudio(t, audio.NamingLegacy, stub, nil)

	res, err := s.GenerateRemote(context.Background(), "church bells on sunday")
	require.NoError(t, err)
	assert.Equal(t, "p1", res.ID)
	assert.JSONEq(t, `{"audio":"a.mp3"}`, string(res.Output))

	calls := stub.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "church bells on sunday", calls[0].Prompt)
	assert.Equal(t, riffusion.DefaultParams(), calls[0].Params)
}

func TestGenerateRemoteErrorPropagates(t *testing.T) {
	boom := errors.New("quota exceeded")
	stub := &riffusion.Stub{Err: boom}
	s := newStudio(t, audio.NamingLegacy, stub, nil)

	_, err := s.GenerateRemote(context.Background(), "x")
	assert.ErrorIs(t, err, boom)
	assert.Len(t, stub.Calls(), 1)
}

func TestGenerateRemoteNotConfigured(t *testing.T) {
	s := newStudio(t, audio.NamingLegacy, nil, nil)
	_, err := s.GenerateRemote(context.Background(), "x")
	assert.Error(t, err)
}
