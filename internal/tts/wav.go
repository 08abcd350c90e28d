package tts

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
)

// EncodeWAV packs float samples into a 16-bit mono RIFF/WAVE blob.
func EncodeWAV(samples []float64, sr int) []byte {
	dataLen := len(samples) * 2
	buf := bytes.NewBuffer(make([]byte, 0, 44+dataLen))

	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(36+dataLen))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16))
	binary.Write(buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(buf, binary.LittleEndian, uint16(1)) // mono
	binary.Write(buf, binary.LittleEndian, uint32(sr))
	binary.Write(buf, binary.LittleEndian, uint32(sr*2)) // byte rate
	binary.Write(buf, binary.LittleEndian, uint16(2))    // block align
	binary.Write(buf, binary.LittleEndian, uint16(16))   // bits per sample

	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, uint32(dataLen))
	for _, s := range samples {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		binary.Write(buf, binary.LittleEndian, int16(s*32767))
	}
	return buf.Bytes()
}

// WriteWAVFile encodes samples and writes them to path, creating parent
// directories as needed.
func WriteWAVFile(path string, samples []float64, sr int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("tts: create cache dir: %w", err)
	}
	if err := os.WriteFile(path, EncodeWAV(samples, sr), 0o644); err != nil {
		return fmt.Errorf("tts: write wav: %w", err)
	}
	return nil
}
