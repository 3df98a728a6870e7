package testsupport

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

const wavHeaderBytes = 44

// WriteMediaFixture writes a minimal mono 16kHz RIFF/WAVE file of roughly
// sizeBytes filled with silence. The header is enough for tools that sniff
// the container; the samples are not decodable speech.
func WriteMediaFixture(t testing.TB, path string, sizeBytes int) {
	t.Helper()

	if sizeBytes < wavHeaderBytes {
		sizeBytes = wavHeaderBytes
	}
	data := make([]byte, sizeBytes)
	copy(data[0:], "RIFF")
	binary.LittleEndian.PutUint32(data[4:], uint32(sizeBytes-8))
	copy(data[8:], "WAVEfmt ")
	binary.LittleEndian.PutUint32(data[16:], 16)
	binary.LittleEndian.PutUint16(data[20:], 1) // PCM
	binary.LittleEndian.PutUint16(data[22:], 1) // mono
	binary.LittleEndian.PutUint32(data[24:], 16000)
	binary.LittleEndian.PutUint32(data[28:], 32000)
	binary.LittleEndian.PutUint16(data[32:], 2)
	binary.LittleEndian.PutUint16(data[34:], 16)
	copy(data[36:], "data")
	binary.LittleEndian.PutUint32(data[40:], uint32(sizeBytes-wavHeaderBytes))

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
