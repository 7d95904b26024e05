package audit

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Export serializes events in the requested format.
func Export(events []*Event, format ExportFormat) ([]byte, error) {
	switch format {
	case ExportJSON:
		return json.MarshalIndent(events, "", "  ")
	case ExportNDJSON:
		return exportNDJSON(events)
	case ExportCSV:
		return exportCSV(events)
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

func exportNDJSON(events []*Event) ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	for _, event := range events {
		if err := encoder.Encode(event); err != nil {
			return nil, fmt.Errorf("failed to encode event %s: %w", event.ID, err)
		}
	}
	return buf.Bytes(), nil
}

func exportCSV(events []*Event) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	header := []string{"ID", "Timestamp", "Type", "Status", "TenantID", "UserID", "Permission", "Role", "UnitID", "Message"}
	if err := writer.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, event := range events {
		record := []string{
			event.ID,
			event.Timestamp.Format(time.RFC3339Nano),
			string(event.Type),
			string(event.Status),
			strconv.FormatInt(event.TenantID, 10),
			strconv.FormatInt(event.UserID, 10),
			event.Permission,
			event.Role,
			strconv.FormatInt(event.UnitID, 10),
			event.Message,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
