// Package riffusion submits text prompts to a hosted Riffusion model.
package riffusion

import (
	"context"
	"encoding/json"
)

// Model identifies the hosted model and the exact version to run.
type Model struct {
	Name    string // e.g. "riffusion/riffusion"
	Version string // version hash pinned by the deployment
}

// Params is the generation input sent with every prompt.
type Params struct {
	PromptA           string  `json:"prompt_a"`
	Denoising         float64 `json:"denoising"`
	Alpha             float64 `json:"alpha"`
	NumInferenceSteps int     `json:"num_inference_steps"`
	SeedImageID       string  `json:"seed_image_id"`
}

// DefaultParams returns the fixed hyperparameters used by the UI.
func DefaultParams() Params {
	return Params{
		Denoising:         0.75,
		Alpha:             0.5,
		NumInferenceSteps: 50,
		SeedImageID:       "vibes",
	}
}

// Result is whatever the model returned. Output is kept as raw JSON and
// shown to the user verbatim.
type Result struct {
	ID      string          `json:"id"`
	Status  string          `json:"status"`
	Model   string          `json:"model"`
	Version string          `json:"version"`
	Output  json.RawMessage `json:"output"`
}

// Submitter runs one prompt against a remote model. Implementations must not
// retry; failures are returned to the caller unchanged.
type Submitter interface {
	Submit(ctx context.Context, prompt string, params Params) (Result, error)
}
