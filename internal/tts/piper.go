package tts

import (
	"context"
	"math"
	"strings"
)

// Piper is the piper-flavoured mock adapter: a pure sine carrier whose
// pitch follows the requested emotion.
type Piper struct{}

var piperF0 = map[string]float64{
	"warm":    180,
	"neutral": 160,
	"calm":    140,
	"excited": 220,
}

// Synthesize renders 70 ms per word, at least half a second.
func (Piper) Synthesize(ctx context.Context, req Request) (*Audio, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	words := strings.Fields(req.Text)
	dur := clipDuration(len(words), 0.07, 0.5, req.Rate)

	f0, ok := piperF0[req.Emotion]
	if !ok {
		f0 = piperF0["neutral"]
	}

	n := int(float64(SampleRate) * dur)
	samples := make([]float64, n)
	for i := range samples {
		t := float64(i) / SampleRate
		samples[i] = 0.15 * math.Sin(2*math.Pi*f0*t)
	}
	// Punctuation gets a short dip that reads as a pause.
	if strings.ContainsAny(req.Text, ",.") {
		for i := int(float64(n) * 0.6); i < int(float64(n)*0.65); i++ {
			samples[i] *= 0.2
		}
	}

	return &Audio{
		Samples:  samples,
		SR:       SampleRate,
		WordTS:   wordSpans(words, dur),
		Phonemes: letterPhonemes(req.Text),
	}, nil
}
