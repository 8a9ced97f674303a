package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/arpagon/eightzeros/internal/audio"
	"github.com/arpagon/eightzeros/internal/web"
)

const (
	defaultPreviewPoints = 300
	maxPreviewPoints     = 4096
	maxBodyBytes         = 64 << 10
)

type sineRequest struct {
	Frequency  *float64 `json:"frequency"`
	Duration   *float64 `json:"duration"`
	SampleRate *int     `json:"sample_rate"`
}

// params fills missing fields from the UI defaults.
func (req sineRequest) params() audio.Params {
	p := audio.DefaultParams()
	if req.Frequency != nil {
		p.Frequency = *req.Frequency
	}
	if req.Duration != nil {
		p.Duration = *req.Duration
	}
	if req.SampleRate != nil {
		p.SampleRate = *req.SampleRate
	}
	return p
}

type sineResponse struct {
	Name       string  `json:"name"`
	Path       string  `json:"path"`
	URL        string  `json:"url"`
	Frequency  float64 `json:"frequency"`
	Duration   float64 `json:"duration"`
	SampleRate int     `json:"sample_rate"`
	Samples    int     `json:"samples"`
}

type waveformResponse struct {
	SampleRate int          `json:"sample_rate"`
	Samples    int          `json:"samples"`
	Peaks      []audio.Peak `json:"peaks"`
}

type inferenceRequest struct {
	Prompt string `json:"prompt"`
}

type inferenceResponse struct {
	ID      string          `json:"id"`
	Status  string          `json:"status"`
	Model   string          `json:"model"`
	Version string          `json:"version"`
	Output  json.RawMessage `json:"output"`
}

// Index handles GET /.
func (s *Server) Index(w http.ResponseWriter, r *http.Request) {
	page := s.page
	page.Frequency = web.Slider{Min: audio.MinFrequency, Max: audio.MaxFrequency, Default: audio.DefaultFrequency, Step: 0.01}
	page.Duration = web.Slider{Min: audio.MinDuration, Max: audio.MaxDuration, Default: audio.DefaultDuration, Step: 0.01}
	page.SampleRate = web.Slider{Min: audio.MinSampleRate, Max: audio.MaxSampleRate, Default: audio.DefaultSampleRate, Step: 1}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := web.RenderIndex(w, page); err != nil {
		s.logger.Error("render index", zap.Error(err))
	}
}

// Logo handles GET /logo.svg.
func (s *Server) Logo(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Write(web.Logo)
}

// Health handles GET /healthz.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Waveform handles GET /api/waveform. It recomputes the tone for preview
// and writes nothing.
func (s *Server) Waveform(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p := audio.DefaultParams()
	var err error
	if v := q.Get("frequency"); v != "" {
		if p.Frequency, err = strconv.ParseFloat(v, 64); err != nil {
			http.Error(w, "invalid frequency", http.StatusBadRequest)
			return
		}
	}
	if v := q.Get("duration"); v != "" {
		if p.Duration, err = strconv.ParseFloat(v, 64); err != nil {
			http.Error(w, "invalid duration", http.StatusBadRequest)
			return
		}
	}
	if v := q.Get("sample_rate"); v != "" {
		if p.SampleRate, err = strconv.Atoi(v); err != nil {
			http.Error(w, "invalid sample_rate", http.StatusBadRequest)
			return
		}
	}
	points := defaultPreviewPoints
	if v := q.Get("points"); v != "" {
		if points, err = strconv.Atoi(v); err != nil || points < 1 || points > maxPreviewPoints {
			http.Error(w, "points must be 1-"+strconv.Itoa(maxPreviewPoints), http.StatusBadRequest)
			return
		}
	}
	if err := p.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	n, peaks := s.studio.Preview(p, points)
	writeJSON(w, http.StatusOK, waveformResponse{SampleRate: p.SampleRate, Samples: n, Peaks: peaks})
}

// GenerateSine handles POST /api/sine.
func (s *Server) GenerateSine(w http.ResponseWriter, r *http.Request) {
	var req sineRequest
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	p := req.params()
	if err := p.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	art, err := s.studio.GenerateSine(r.Context(), p)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, sineResponse{
		Name:       art.Name,
		Path:       art.Path,
		URL:        "/audio/" + url.PathEscape(art.Name),
		Frequency:  p.Frequency,
		Duration:   p.Duration,
		SampleRate: p.SampleRate,
		Samples:    art.Samples,
	})
}

// Audio handles GET /audio/{name}, serving a file from the generate dir.
func (s *Server) Audio(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, ".wav") {
		http.NotFound(w, r)
		return
	}
	path := filepath.Join(s.studio.GenerateDir(), name)
	if _, err := os.Stat(path); err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "audio/wav")
	w.Header().Set("Cache-Control", "no-cache")
	http.ServeFile(w, r, path)
}

// Inference handles POST /api/inference.
func (s *Server) Inference(w http.ResponseWriter, r *http.Request) {
	var req inferenceRequest
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	res, err := s.studio.GenerateRemote(r.Context(), req.Prompt)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	writeJSON(w, http.StatusOK, inferenceResponse{
		ID:      res.ID,
		Status:  res.Status,
		Model:   res.Model,
		Version: res.Version,
		Output:  res.Output,
	})
}

func decodeBody(r *http.Request, v any) error {
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(v)
	if errors.Is(err, io.EOF) {
		return errors.New("empty body")
	}
	return err
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
