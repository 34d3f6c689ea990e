// Package export writes invocation history to spreadsheet files for offline
// review of endpoint behavior.
package export

import (
	"fmt"
	"strconv"

	"github.com/tealeg/xlsx"

	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/api/v1/dto"
	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/app/util/files"
)

const sheetName = "invocations"

var headers = []string{"ID", "Endpoint", "Request ID", "Audio Bytes", "Audio Seconds", "Transcript", "Latency (ms)", "Error", "Created At"}

// ToXLSX writes the invocation records to an xlsx file at outPath.
func ToXLSX(records []dto.InvocationRecordResponse, outPath string) error {
	if err := files.EnsureParentDir(outPath); err != nil {
		return fmt.Errorf("prepare output dir: %w", err)
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet(sheetName)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}

	headerRow := sheet.AddRow()
	for _, h := range headers {
		headerRow.AddCell().Value = h
	}

	for _, rec := range records {
		row := sheet.AddRow()
		row.AddCell().Value = strconv.Itoa(rec.ID)
		row.AddCell().Value = rec.EndpointName
		row.AddCell().Value = rec.RequestID
		row.AddCell().Value = strconv.FormatInt(rec.AudioBytes, 10)
		row.AddCell().Value = strconv.FormatFloat(rec.AudioSeconds, 'f', 2, 64)
		row.AddCell().Value = rec.Transcript
		row.AddCell().Value = strconv.FormatInt(rec.LatencyMs, 10)
		row.AddCell().Value = rec.Error
		row.AddCell().Value = rec.CreatedAt.Format("2006-01-02 15:04:05")
	}

	if err := file.Save(outPath); err != nil {
		return fmt.Errorf("save xlsx: %w", err)
	}
	return nil
}
