package tts

import (
	"strings"

	"tutorcore/internal/bus"
	"tutorcore/internal/session"
)

// Attach subscribes the service to expert answers: every answer with
// speakable text is synthesized and reported as tts_done; any failure
// becomes tts_failed with the text as fallback.
func (s *Service) Attach(b *bus.Bus) {
	b.Subscribe(bus.TypeExpertAnswer, func(ev bus.Event) {
		a, _ := ev.Payload["answer"].(*session.Answer)
		if a == nil || a.IsReset() || strings.TrimSpace(a.Answer) == "" {
			return
		}
		ctx := b.Context()

		text := ScriptText(BuildSayScript(a, ctx))
		if text == "" {
			text = strings.TrimSpace(a.Answer)
		}
		emotion, rate := PickEmotionAndRate(ctx)

		rec, _, err := s.Synthesize(ctx, text, emotion, rate)
		if err != nil {
			b.Publish(bus.Event{
				Type:   bus.TypeTTSFailed,
				Source: "tts",
				Payload: map[string]any{
					"reason":        err.Error(),
					"fallback_text": a.Answer,
				},
			})
			return
		}
		b.Publish(bus.Event{
			Type:   bus.TypeTTSDone,
			Source: "tts",
			Payload: map[string]any{
				"text":     text,
				"audio":    rec.Path,
				"sr":       rec.SR,
				"word_ts":  rec.WordTS,
				"phonemes": rec.Phonemes,
				"emotion":  emotion,
			},
		})
	})
}
