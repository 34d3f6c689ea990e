package export

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"

	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/api/v1/dto"
)

func TestToXLSX(t *testing.T) {
	records := []dto.InvocationRecordResponse{
		{
			ID:           1,
			EndpointName: "asr-demo",
			RequestID:    "req-1",
			AudioBytes:   32044,
			AudioSeconds: 1.0,
			Transcript:   "hello world",
			LatencyMs:    231,
			CreatedAt:    time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			ID:           2,
			EndpointName: "asr-demo",
			RequestID:    "req-2",
			Error:        "whisper_server: request timed out (timeout)",
			CreatedAt:    time.Date(2025, 3, 1, 12, 1, 0, 0, time.UTC),
		},
	}

	outPath := filepath.Join(t.TempDir(), "exports", "invocations.xlsx")
	require.NoError(t, ToXLSX(records, outPath))

	file, err := xlsx.OpenFile(outPath)
	require.NoError(t, err)
	require.Len(t, file.Sheets, 1)

	sheet := file.Sheets[0]
	require.Len(t, sheet.Rows, 3)

	assert.Equal(t, "Transcript", sheet.Rows[0].Cells[5].Value)
	assert.Equal(t, "hello world", sheet.Rows[1].Cells[5].Value)
	assert.Equal(t, "req-2", sheet.Rows[2].Cells[2].Value)
	assert.Contains(t, sheet.Rows[2].Cells[7].Value, "timed out")
}

func TestToXLSX_Empty(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "invocations.xlsx")
	require.NoError(t, ToXLSX(nil, outPath))

	file, err := xlsx.OpenFile(outPath)
	require.NoError(t, err)
	require.Len(t, file.Sheets[0].Rows, 1)
}
