package transcriber

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/app/audio"
)

func testClip() *audio.Clip {
	return &audio.Clip{
		Samples:    make([]float32, 16000),
		SampleRate: 16000,
		Seconds:    1.0,
		WAVBytes:   []byte("RIFF....WAVEfake"),
	}
}

func TestWhisperServerProviderTranscribe(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/inference", r.URL.Path)

		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "json", r.FormValue("response_format"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "audio.wav", header.Filename)

		json.NewEncoder(w).Encode(map[string]string{"text": " hello world "})
	}))
	defer server.Close()

	provider, err := NewWhisperServerProvider(WhisperServerConfig{BaseURL: server.URL})
	require.NoError(t, err)

	resp, err := provider.Transcribe(context.Background(), &Request{Clip: testClip()})
	require.NoError(t, err)
	assert.Equal(t, "hello world", resp.Text)
	assert.Equal(t, "whisper_server", resp.Provider)
}

func TestWhisperServerProviderErrors(t *testing.T) {
	tests := []struct {
		name         string
		handler      http.HandlerFunc
		expectedCode string
		retryable    bool
	}{
		{
			name: "server_error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "model not loaded", http.StatusInternalServerError)
			},
			expectedCode: "api_error",
			retryable:    true,
		},
		{
			name: "client_error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "bad audio", http.StatusBadRequest)
			},
			expectedCode: "api_error",
			retryable:    false,
		},
		{
			name: "empty_transcript",
			handler: func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(map[string]string{"text": "   "})
			},
			expectedCode: "empty_transcription",
			retryable:    false,
		},
		{
			name: "malformed_response",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("not json"))
			},
			expectedCode: "response_parse_failed",
			retryable:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			provider, err := NewWhisperServerProvider(WhisperServerConfig{BaseURL: server.URL})
			require.NoError(t, err)

			_, err = provider.Transcribe(context.Background(), &Request{Clip: testClip()})
			require.Error(t, err)

			var terr *TranscriptionError
			require.ErrorAs(t, err, &terr)
			assert.Equal(t, tt.expectedCode, terr.Code)
			assert.Equal(t, tt.retryable, terr.Retryable)
		})
	}
}

func TestWhisperServerProviderRejectsEmptyClip(t *testing.T) {
	provider, err := NewWhisperServerProvider(WhisperServerConfig{BaseURL: "http://localhost:9090"})
	require.NoError(t, err)

	_, err = provider.Transcribe(context.Background(), &Request{})
	assert.Error(t, err)
}

func TestNewWhisperServerProviderRequiresBaseURL(t *testing.T) {
	_, err := NewWhisperServerProvider(WhisperServerConfig{})
	assert.Error(t, err)
}

func TestFactorySelectsProvider(t *testing.T) {
	t.Setenv("ASR_PROVIDER", "whisper_server")
	t.Setenv("WHISPER_SERVER_URL", "http://localhost:9090")

	tr, err := NewFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "whisper_server", tr.Name())

	t.Setenv("ASR_PROVIDER", "nope")
	_, err = NewFromEnv()
	assert.Error(t, err)
}
