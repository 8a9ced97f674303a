// Package studio turns user actions into audio: local sine synthesis written
// to the generate directory, and prompts forwarded to a remote model.
package studio

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arpagon/eightzeros/internal/audio"
	"github.com/arpagon/eightzeros/internal/metrics"
	"github.com/arpagon/eightzeros/internal/notify"
	"github.com/arpagon/eightzeros/internal/riffusion"
)

// Config holds studio settings.
type Config struct {
	GenerateDir  string             // must already exist
	Naming       audio.NamingScheme // legacy or exact
	Encoding     audio.Encoding     // float32 or pcm16
	RemoteParams riffusion.Params   // fixed generation hyperparameters
}

// Artifact is a written sine wave file.
type Artifact struct {
	Name      string       `json:"name"`
	Path      string       `json:"path"`
	Params    audio.Params `json:"-"`
	Samples   int          `json:"samples"`
	CreatedAt time.Time    `json:"created_at"`
}

// Studio runs generation requests. Calls are synchronous and share no state
// besides the filesystem, so concurrent writes to one name race and the
// last writer wins.
type Studio struct {
	cfg      Config
	remote   riffusion.Submitter
	notifier notify.Notifier
	logger   *zap.Logger
	now      func() time.Time
}

// New creates a Studio. A nil notifier disables artifact events.
func New(cfg Config, remote riffusion.Submitter, notifier notify.Notifier, logger *zap.Logger) *Studio {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Studio{
		cfg:      cfg,
		remote:   remote,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// Path returns where the artifact for p is written.
func (s *Studio) Path(p audio.Params) string {
	return filepath.Join(s.cfg.GenerateDir, audio.FileName(p, s.cfg.Naming))
}

// GenerateDir returns the directory artifacts are written to.
func (s *Studio) GenerateDir() string {
	return s.cfg.GenerateDir
}

// GenerateSine synthesizes p and writes it, overwriting any file of the same
// name. Write errors are returned unchanged apart from wrapping.
func (s *Studio) GenerateSine(ctx context.Context, p audio.Params) (Artifact, error) {
	start := s.now()
	samples := audio.GenerateSine(p)
	path := s.Path(p)

	if err := audio.WriteWAV(path, samples, p.SampleRate, s.cfg.Encoding); err != nil {
		metrics.SineGeneratedTotal.WithLabelValues("error").Inc()
		s.logger.Error("write sine wave failed", zap.String("path", path), zap.Error(err))
		return Artifact{}, err
	}
	metrics.SineGeneratedTotal.WithLabelValues("ok").Inc()
	metrics.SamplesWrittenTotal.Add(float64(len(samples)))
	metrics.SynthesisDuration.Observe(float64(s.now().Sub(start).Milliseconds()))

	art := Artifact{
		Name:      filepath.Base(path),
		Path:      path,
		Params:    p,
		Samples:   len(samples),
		CreatedAt: s.now(),
	}
	s.logger.Info("generated wave file",
		zap.String("path", path),
		zap.Float64("frequency", p.Frequency),
		zap.Float64("duration", p.Duration),
		zap.Int("sample_rate", p.SampleRate),
		zap.Int("samples", art.Samples),
	)

	// The file is already on disk; a lost event is logged, not surfaced.
	if err := s.notifier.Publish(ctx, notify.Event{
		ID:         uuid.NewString(),
		Kind:       "sine",
		Name:       art.Name,
		Path:       art.Path,
		Frequency:  p.Frequency,
		Duration:   p.Duration,
		SampleRate: p.SampleRate,
		Samples:    art.Samples,
		CreatedAt:  art.CreatedAt,
	}); err != nil {
		metrics.NotifyErrorsTotal.Inc()
		s.logger.Warn("artifact event not published", zap.String("name", art.Name), zap.Error(err))
	}
	return art, nil
}

// Preview synthesizes p without writing and returns its sample count and a
// peak envelope of at most points buckets.
func (s *Studio) Preview(p audio.Params, points int) (int, []audio.Peak) {
	samples := audio.GenerateSine(p)
	return len(samples), audio.Preview(samples, points)
}

// GenerateRemote sends prompt to the remote model with the configured
// hyperparameters. Failures propagate unchanged; nothing is retried.
func (s *Studio) GenerateRemote(ctx context.Context, prompt string) (riffusion.Result, error) {
	if s.remote == nil {
		return riffusion.Result{}, fmt.Errorf("remote inference is not configured")
	}

	metrics.InferenceInFlight.Inc()
	defer metrics.InferenceInFlight.Dec()

	start := s.now()
	res, err := s.remote.Submit(ctx, prompt, s.cfg.RemoteParams)
	metrics.InferenceDuration.Observe(float64(s.now().Sub(start).Milliseconds()))
	if err != nil {
		metrics.InferenceTotal.WithLabelValues("error").Inc()
		s.logger.Error("remote inference failed", zap.String("prompt", prompt), zap.Error(err))
		return riffusion.Result{}, err
	}
	metrics.InferenceTotal.WithLabelValues("ok").Inc()
	s.logger.Info("remote inference finished", zap.String("id", res.ID), zap.String("prompt", prompt))
	return res, nil
}
