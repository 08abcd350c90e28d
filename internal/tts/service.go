package tts

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"tutorcore/internal/session"
)

// cacheTextLimit is the longest text (in runes) eligible for caching.
const cacheTextLimit = 120

// DefaultTimeout bounds one adapter synthesis call.
const DefaultTimeout = 5 * time.Second

// Service is the synthesis facade: fingerprint cache, WAV persistence and
// adapter timeout handling.
type Service struct {
	log     *zap.Logger
	adapter Synthesizer
	voice   string
	timeout time.Duration
}

// NewService creates a service over an adapter. Voice may be empty.
func NewService(adapter Synthesizer, voice string, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		log:     log.Named("tts"),
		adapter: adapter,
		voice:   voice,
		timeout: DefaultTimeout,
	}
}

// NewAdapter resolves an engine name to its adapter; unknown engines get
// piper.
func NewAdapter(engine string) Synthesizer {
	if engine == "rhvoice" {
		return RHVoice{}
	}
	return Piper{}
}

// Fingerprint addresses a synthesis result by its full parameter set.
func Fingerprint(text, voice, emotion string, rate float64) string {
	sum := sha1.Sum([]byte(fmt.Sprintf("%s|%s|%s|%.3f", text, voice, emotion, rate)))
	return hex.EncodeToString(sum[:])
}

// Synthesize produces (or replays from cache) the audio for text and
// records it in the session's TTS slot. The boolean reports a cache hit.
func (s *Service) Synthesize(sctx *session.Context, text, emotion string, rate float64) (session.TTSRecord, bool, error) {
	slot := sctx.TTS()
	if slot.Dir == "" {
		slot.Dir = filepath.Join("tts_cache")
	}
	if slot.Cache == nil {
		slot.Cache = make(map[string]session.TTSRecord)
	}

	key := Fingerprint(text, s.voice, emotion, rate)
	cacheable := utf8.RuneCountInString(text) <= cacheTextLimit
	if cacheable {
		if rec, ok := slot.Cache[key]; ok {
			s.log.Debug("cache hit", zap.String("key", key))
			return rec, true, nil
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	audio, err := s.synthesize(ctx, Request{Text: text, Voice: s.voice, Emotion: emotion, Rate: rate})
	if err != nil {
		return session.TTSRecord{}, false, fmt.Errorf("tts: synthesize: %w", err)
	}

	path := filepath.Join(slot.Dir, key+".wav")
	if err := WriteWAVFile(path, audio.Samples, audio.SR); err != nil {
		return session.TTSRecord{}, false, err
	}

	rec := session.TTSRecord{
		Path:     "file://" + path,
		SR:       audio.SR,
		WordTS:   audio.WordTS,
		Phonemes: audio.Phonemes,
	}
	if cacheable {
		slot.Cache[key] = rec
	}
	s.log.Debug("synthesized",
		zap.String("path", rec.Path),
		zap.Int("words", len(rec.WordTS)),
		zap.Bool("cached", cacheable))
	return rec, false, nil
}

// synthesize runs the adapter under the timeout even when the adapter
// itself never checks ctx.
func (s *Service) synthesize(ctx context.Context, req Request) (*Audio, error) {
	type result struct {
		audio *Audio
		err   error
	}
	done := make(chan result, 1)
	go func() {
		audio, err := s.adapter.Synthesize(ctx, req)
		done <- result{audio, err}
	}()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		return r.audio, r.err
	}
}
