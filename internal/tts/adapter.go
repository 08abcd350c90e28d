// Package tts synthesizes speech for expert answers through pluggable
// adapters, caches short phrases by fingerprint, and publishes tts_done /
// tts_failed events.
package tts

import (
	"context"
	"math"
	"strings"
	"unicode"

	"tutorcore/internal/session"
)

// SampleRate is fixed: 16 kHz mono across all adapters.
const SampleRate = 16000

// phonemeCap bounds the phoneme list per utterance.
const phonemeCap = 64

// Request describes one synthesis call.
type Request struct {
	Text    string
	Voice   string
	Emotion string
	Rate    float64
}

// Audio is raw synthesis output: float samples in [-1,1] plus alignment
// metadata.
type Audio struct {
	Samples  []float64
	SR       int
	WordTS   []session.WordSpan
	Phonemes []string
}

// Synthesizer is the adapter capability. Implementations must honor ctx
// cancellation for long synthesis runs.
type Synthesizer interface {
	Synthesize(ctx context.Context, req Request) (*Audio, error)
}

// wordSpans distributes words evenly across the clip duration.
func wordSpans(words []string, dur float64) []session.WordSpan {
	if len(words) == 0 {
		return nil
	}
	spans := make([]session.WordSpan, len(words))
	wordLen := dur / float64(len(words))
	for i, w := range words {
		spans[i] = session.WordSpan{
			T0:   round3(float64(i) * wordLen),
			T1:   round3(float64(i+1) * wordLen),
			Word: w,
		}
	}
	return spans
}

// letterPhonemes approximates phonemes with the letter sequence, capped.
func letterPhonemes(text string) []string {
	var out []string
	for _, r := range strings.ToLower(text) {
		if !unicode.IsLetter(r) {
			continue
		}
		out = append(out, string(r))
		if len(out) == phonemeCap {
			break
		}
	}
	return out
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func clipDuration(words int, perWord, minDur, rate float64) float64 {
	if rate < 0.5 {
		rate = 0.5
	}
	dur := float64(words) * perWord / rate
	if dur < minDur {
		return minDur
	}
	return dur
}
