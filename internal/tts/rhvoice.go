package tts

import (
	"context"
	"math"
	"math/rand"
	"strings"
)

// RHVoice is the rhvoice-flavoured mock adapter: a triangle carrier with a
// touch of noise, slightly slower than Piper.
type RHVoice struct{}

var rhvoiceF0 = map[string]float64{
	"warm":    170,
	"neutral": 150,
	"calm":    130,
	"excited": 210,
}

// Synthesize renders 80 ms per word, at least 0.6 s.
func (RHVoice) Synthesize(ctx context.Context, req Request) (*Audio, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	words := strings.Fields(req.Text)
	dur := clipDuration(len(words), 0.08, 0.6, req.Rate)

	f0, ok := rhvoiceF0[req.Emotion]
	if !ok {
		f0 = rhvoiceF0["neutral"]
	}

	n := int(float64(SampleRate) * dur)
	rng := rand.New(rand.NewSource(int64(len(req.Text))))
	samples := make([]float64, n)
	for i := range samples {
		t := float64(i) / SampleRate
		phase := math.Mod(t*f0, 1)
		tri := 2*math.Abs(phase-0.5) - 0.5
		s := 0.12*tri + 0.02*rng.NormFloat64()
		samples[i] = math.Max(-1, math.Min(1, s))
	}

	return &Audio{
		Samples:  samples,
		SR:       SampleRate,
		WordTS:   wordSpans(words, dur),
		Phonemes: letterPhonemes(req.Text),
	}, nil
}
