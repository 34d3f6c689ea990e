// Package audio decodes the inference request payload. The contract is
// strict: 16 kHz, mono, PCM WAV. No resampling or channel mixing is
// performed; anything else is rejected.
package audio

import (
	"bytes"
	"fmt"

	"github.com/go-audio/wav"
)

// RequiredSampleRate is the only sample rate the hosted model accepts.
const RequiredSampleRate = 16000

// Clip is a decoded mono waveform ready for transcription.
type Clip struct {
	// Samples are normalized to [-1.0, 1.0].
	Samples    []float32
	SampleRate int
	Seconds    float64
	// WAVBytes keeps the original encoded audio for providers that accept
	// a WAV stream instead of raw samples.
	WAVBytes []byte
}

// DecodeStrictWAV decodes wavBytes and enforces the 16 kHz mono PCM
// contract.
func DecodeStrictWAV(wavBytes []byte) (*Clip, error) {
	if len(wavBytes) == 0 {
		return nil, fmt.Errorf("audio payload is empty")
	}

	dec := wav.NewDecoder(bytes.NewReader(wavBytes))
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("payload is not a valid WAV file")
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to decode WAV: %w", err)
	}

	if dec.WavAudioFormat != 1 {
		return nil, fmt.Errorf("expected PCM WAV, got audio format %d", dec.WavAudioFormat)
	}
	if int(dec.SampleRate) != RequiredSampleRate {
		return nil, fmt.Errorf("expected sample rate %d Hz, but received %d Hz",
			RequiredSampleRate, dec.SampleRate)
	}
	if dec.NumChans != 1 {
		return nil, fmt.Errorf("expected mono WAV (1 channel), got %d channels", dec.NumChans)
	}
	if len(buf.Data) == 0 {
		return nil, fmt.Errorf("decoded audio is empty")
	}

	bitDepth := int(dec.BitDepth)
	if bitDepth == 0 {
		bitDepth = 16
	}
	scale := float32(int(1) << (bitDepth - 1))

	samples := make([]float32, len(buf.Data))
	for i, s := range buf.Data {
		samples[i] = float32(s) / scale
	}

	return &Clip{
		Samples:    samples,
		SampleRate: RequiredSampleRate,
		Seconds:    float64(len(samples)) / float64(RequiredSampleRate),
		WAVBytes:   wavBytes,
	}, nil
}
