package audio

import (
	"fmt"
	"strconv"
	"strings"
)

// NamingScheme selects how artifact file names are derived from Params.
type NamingScheme string

const (
	// NamingLegacy truncates to integer Hz and seconds, so nearby
	// parameter sets share a file and overwrite each other.
	NamingLegacy NamingScheme = "legacy"
	// NamingExact keeps fractions and the sample rate in the name.
	NamingExact NamingScheme = "exact"
)

// ParseNamingScheme maps a config value to a scheme, defaulting to legacy.
func ParseNamingScheme(s string) NamingScheme {
	if NamingScheme(strings.ToLower(strings.TrimSpace(s))) == NamingExact {
		return NamingExact
	}
	return NamingLegacy
}

// FileName returns the artifact base name for p under the given scheme.
func FileName(p Params, scheme NamingScheme) string {
	if scheme == NamingExact {
		return fmt.Sprintf("sine_wave_%sHz_%ss_%d.wav",
			fractionSafe(p.Frequency), fractionSafe(p.Duration), p.SampleRate)
	}
	return fmt.Sprintf("sine_wave_%dHz_%ds.wav", int64(p.Frequency), int64(p.Duration))
}

// fractionSafe formats v with the shortest exact representation, using 'p'
// for the decimal point and 'm' for a leading minus.
func fractionSafe(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	s = strings.ReplaceAll(s, ".", "p")
	return strings.ReplaceAll(s, "-", "m")
}
