package audio

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// encodeWAV writes a sine tone WAV with the given format and returns its bytes.
func encodeWAV(t *testing.T, sampleRate, numChans, numFrames int) []byte {
	t.Helper()

	path := filepath.Join(t.TempDir(), "sample.wav")
	f, err := os.Create(path)
	require.NoError(t, err)

	enc := wav.NewEncoder(f, sampleRate, 16, numChans, 1)
	data := make([]int, numFrames*numChans)
	for i := 0; i < numFrames; i++ {
		v := int(12000 * math.Sin(2*math.Pi*440*float64(i)/float64(sampleRate)))
		for c := 0; c < numChans; c++ {
			data[i*numChans+c] = v
		}
	}
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: numChans, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
	require.NoError(t, enc.Write(buf))
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	return raw
}

func TestDecodeStrictWAV(t *testing.T) {
	raw := encodeWAV(t, 16000, 1, 16000)

	clip, err := DecodeStrictWAV(raw)
	require.NoError(t, err)

	assert.Len(t, clip.Samples, 16000)
	assert.Equal(t, 16000, clip.SampleRate)
	assert.InDelta(t, 1.0, clip.Seconds, 0.01)
	assert.Equal(t, raw, clip.WAVBytes)

	for i, s := range clip.Samples {
		if s < -1.0 || s > 1.0 {
			t.Fatalf("sample[%d] = %f, out of [-1.0, 1.0] range", i, s)
		}
	}
}

func TestDecodeStrictWAVRejectsWrongFormat(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
	}{
		{name: "wrong_sample_rate", raw: encodeWAV(t, 8000, 1, 8000)},
		{name: "stereo", raw: encodeWAV(t, 16000, 2, 16000)},
		{name: "empty_payload", raw: nil},
		{name: "not_a_wav", raw: []byte("definitely not riff data")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeStrictWAV(tt.raw)
			assert.Error(t, err)
		})
	}
}
