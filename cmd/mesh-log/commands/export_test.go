package commands

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestExportToJSONL(t *testing.T) {
	path := createTestLogFile(t, sampleEvents())
	out := filepath.Join(t.TempDir(), "out.jsonl")

	if err := RunExport(path, "jsonl", out); err != nil {
		t.Fatalf("RunExport failed: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d", len(lines))
	}

	var first map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if first["RequestID"] != "11111111-aaaa" {
		t.Errorf("RequestID = %v", first["RequestID"])
	}
	alloc, ok := first["Allocation"].(map[string]any)
	if !ok {
		t.Fatalf("expected Allocation object, got %v", first["Allocation"])
	}
	ranges, ok := alloc["Ranges"].([]any)
	if !ok || len(ranges) != 1 || ranges[0] != "0xC001-0xC00F" {
		t.Errorf("Ranges = %v, want [0xC001-0xC00F]", alloc["Ranges"])
	}
}

func TestExportToCSV(t *testing.T) {
	path := createTestLogFile(t, sampleEvents())
	out := filepath.Join(t.TempDir(), "out.csv")

	if err := RunExport(path, "csv", out); err != nil {
		t.Fatalf("RunExport failed: %v", err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("failed to open output: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("invalid CSV: %v", err)
	}
	if len(rows) != 6 {
		t.Fatalf("expected header and 5 rows, got %d", len(rows))
	}
	if rows[0][6] != "operation" {
		t.Errorf("unexpected header: %v", rows[0])
	}

	tests := []struct {
		row       int
		operation string
		space     string
		result    string
	}{
		{1, "NextGroupAddress", "GROUP", "0xC002"},
		{2, "NextUnicastAddress", "UNICAST", ""},
		{3, "NextGroupRange", "GROUP", "0xC001-0xC00F"},
		{4, "RangeAvailable", "", "false"},
		{5, "AddNode", "", "address not available"},
	}
	for _, tt := range tests {
		row := rows[tt.row]
		if row[6] != tt.operation || row[8] != tt.space || row[9] != tt.result {
			t.Errorf("row %d = %v, want operation=%s space=%s result=%s",
				tt.row, row, tt.operation, tt.space, tt.result)
		}
	}
	if rows[2][4] != "3" {
		t.Errorf("iv_index = %s, want 3", rows[2][4])
	}
}

func TestExportUnknownFormat(t *testing.T) {
	path := createTestLogFile(t, sampleEvents())
	err := RunExport(path, "xml", filepath.Join(t.TempDir(), "out.xml"))
	if err == nil || !strings.Contains(err.Error(), "unknown format") {
		t.Errorf("expected unknown format error, got %v", err)
	}
}
