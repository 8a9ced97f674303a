package audio

import "math"

// GenerateSine produces one full-amplitude sine tone:
// sample[i] = sin(2*pi*f*i/sampleRate) for i in [0, SampleCount()).
// Inputs are not range-checked. A negative frequency yields the inverted
// sine, and non-positive durations or sample rates yield an empty buffer.
func GenerateSine(p Params) []float32 {
	n := p.SampleCount()
	samples := make([]float32, n)
	if n == 0 {
		return samples
	}
	sr := float64(p.SampleRate)
	for i := range samples {
		t := float64(i) / sr
		samples[i] = float32(math.Sin(2 * math.Pi * p.Frequency * t))
	}
	return samples
}

// Peak is the min/max amplitude of one preview bucket.
type Peak struct {
	Min float32 `json:"min"`
	Max float32 `json:"max"`
}

// Preview reduces samples to at most points min/max buckets for drawing.
func Preview(samples []float32, points int) []Peak {
	if points <= 0 || len(samples) == 0 {
		return []Peak{}
	}
	if points > len(samples) {
		points = len(samples)
	}
	peaks := make([]Peak, points)
	for b := range peaks {
		start := b * len(samples) / points
		end := (b + 1) * len(samples) / points
		pk := Peak{Min: samples[start], Max: samples[start]}
		for _, s := range samples[start+1 : end] {
			if s < pk.Min {
				pk.Min = s
			}
			if s > pk.Max {
				pk.Max = s
			}
		}
		peaks[b] = pk
	}
	return peaks
}
