package scenario_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mash-protocol/mesh-go/internal/scenario"
	"github.com/mash-protocol/mesh-go/pkg/address"
)

// TestParseBasic tests basic YAML scenario parsing.
func TestParseBasic(t *testing.T) {
	yaml := `
id: SC-TEST-001
name: Basic Scenario
description: A simple scenario
network:
  iv_index: 7
  provisioners:
    - name: phone
      unicast: [0x0001-0x00FF]
      group: [0xC000-0xC0FF]
      scenes: ["0x0001..0x000F"]
  nodes:
    - name: lamp
      address: 0x0001
      elements: 3
  groups: [0xC000]
  scenes: [1]
  excluded: [0x0010]
steps:
  - action: next_unicast
    provisioner: phone
    elements: 2
    expect:
      address: 0x0004
`
	sc, err := scenario.Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Failed to parse scenario: %v", err)
	}

	if sc.ID != "SC-TEST-001" {
		t.Errorf("ID mismatch: expected SC-TEST-001, got %s", sc.ID)
	}
	if sc.Network.IVIndex != 7 {
		t.Errorf("IV index mismatch: expected 7, got %d", sc.Network.IVIndex)
	}
	if len(sc.Network.Provisioners) != 1 {
		t.Fatalf("Expected 1 provisioner, got %d", len(sc.Network.Provisioners))
	}
	p := sc.Network.Provisioners[0]
	if p.Unicast[0] != address.NewRange(0x0001, 0x00FF) {
		t.Errorf("Unicast range mismatch: got %s", p.Unicast[0])
	}
	if p.Scenes[0] != address.NewSceneRange(0x0001, 0x000F) {
		t.Errorf("Scene range mismatch: got %s", p.Scenes[0])
	}
	if sc.Network.Nodes[0].Elements != 3 {
		t.Errorf("Elements mismatch: expected 3, got %d", sc.Network.Nodes[0].Elements)
	}
	if sc.Network.Groups[0] != 0xC000 {
		t.Errorf("Group mismatch: got %s", sc.Network.Groups[0])
	}
	if sc.Network.Excluded[0] != 0x0010 {
		t.Errorf("Excluded mismatch: got %s", sc.Network.Excluded[0])
	}

	step := sc.Steps[0]
	if step.Expect.Address == nil || *step.Expect.Address != 0x0004 {
		t.Errorf("Expected address 0x0004, got %v", step.Expect.Address)
	}
}

// TestParseOptionalFields tests that unset step fields stay nil.
func TestParseOptionalFields(t *testing.T) {
	yaml := `
id: SC-OPT-001
name: Optional
steps:
  - action: next_group_range
  - action: next_group_range
    size: 0x10
  - action: range_available
    range: "0x0001-0x0002"
    expect:
      available: false
`
	sc, err := scenario.Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Failed to parse scenario: %v", err)
	}

	if sc.Steps[0].Size != nil {
		t.Errorf("Expected no size, got %d", *sc.Steps[0].Size)
	}
	if sc.Steps[1].Size == nil || *sc.Steps[1].Size != 16 {
		t.Errorf("Expected size 16, got %v", sc.Steps[1].Size)
	}
	if avail := sc.Steps[2].Expect.Available; avail == nil || *avail {
		t.Errorf("Expected available=false, got %v", avail)
	}
}

// TestParseErrors tests validation of required fields.
func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		message string
	}{
		{
			name:    "missing ID",
			yaml:    "name: No ID\nsteps:\n  - action: next_group\n",
			message: "scenario ID is required",
		},
		{
			name:    "no steps",
			yaml:    "id: SC-EMPTY\nname: Empty\n",
			message: "at least one step",
		},
		{
			name:    "unknown action",
			yaml:    "id: SC-BAD\nsteps:\n  - action: next_unicast\n  - action: launch\n",
			message: `step 2: unknown action "launch"`,
		},
		{
			name:    "invalid range",
			yaml:    "id: SC-BAD\nsteps:\n  - action: range_available\n    range: zz-1\n",
			message: "failed to parse YAML",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := scenario.Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("Expected error")
			}
			var le *scenario.LoadError
			if !errors.As(err, &le) {
				t.Fatalf("Expected *LoadError, got %T", err)
			}
			if !strings.Contains(err.Error(), tt.message) {
				t.Errorf("Expected error containing %q, got %q", tt.message, err)
			}
		})
	}
}

// TestLoadFile tests that file errors carry the path.
func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing", func(t *testing.T) {
		_, err := scenario.Load(filepath.Join(dir, "missing.yaml"))
		if err == nil {
			t.Fatal("Expected error")
		}
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("Expected os.ErrNotExist, got %v", err)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		if err := os.WriteFile(path, []byte("name: no id\n"), 0644); err != nil {
			t.Fatal(err)
		}
		_, err := scenario.Load(path)
		var le *scenario.LoadError
		if !errors.As(err, &le) {
			t.Fatalf("Expected *LoadError, got %v", err)
		}
		if le.File != path {
			t.Errorf("File mismatch: expected %s, got %s", path, le.File)
		}
	})
}

// TestLoadDirectory tests that only YAML files are loaded.
func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"a.yaml":    "id: SC-A\nsteps:\n  - action: next_group_range\n",
		"b.yml":     "id: SC-B\nsteps:\n  - action: next_scene_range\n",
		"notes.txt": "not a scenario",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "nested.yaml"), 0755); err != nil {
		t.Fatal(err)
	}

	scenarios, err := scenario.LoadDirectory(dir)
	if err != nil {
		t.Fatalf("LoadDirectory failed: %v", err)
	}
	if len(scenarios) != 2 {
		t.Fatalf("Expected 2 scenarios, got %d", len(scenarios))
	}
	if scenarios[0].ID != "SC-A" || scenarios[1].ID != "SC-B" {
		t.Errorf("Unexpected IDs: %s, %s", scenarios[0].ID, scenarios[1].ID)
	}

	if _, err := scenario.LoadDirectory(filepath.Join(dir, "missing")); err == nil {
		t.Error("Expected error for missing directory")
	}
}
