package personas

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultRoster(t *testing.T) {
	roster := Default()
	if len(roster) != 5 {
		t.Fatalf("default roster has %d members, want 5", len(roster))
	}

	seen := make(map[string]bool)
	for _, p := range roster {
		if p.ID == "" || p.Name == "" || p.Title == "" {
			t.Errorf("persona %q missing identity fields: %+v", p.ID, p)
		}
		if seen[p.ID] {
			t.Errorf("duplicate persona id %q", p.ID)
		}
		seen[p.ID] = true
		if p.DecisionFramework == "" {
			t.Errorf("persona %q has no decision framework", p.ID)
		}
		if len(p.Traits.Catchphrases) == 0 {
			t.Errorf("persona %q has no catchphrases", p.ID)
		}
	}
}

func TestRosterByID(t *testing.T) {
	roster := Default()

	p, ok := roster.ByID("ledger")
	if !ok {
		t.Fatal("ledger not found in default roster")
	}
	if p.Name != "Lena Ledger" {
		t.Errorf("ByID(ledger).Name = %q", p.Name)
	}

	if _, ok := roster.ByID("nobody"); ok {
		t.Error("ByID(nobody) unexpectedly found a persona")
	}
}

func TestRosterIDs(t *testing.T) {
	roster := Default()
	ids := roster.IDs()
	if len(ids) != len(roster) {
		t.Fatalf("IDs() returned %d ids for %d personas", len(ids), len(roster))
	}
	for i, p := range roster {
		if ids[i] != p.ID {
			t.Errorf("ids[%d] = %q, want %q", i, ids[i], p.ID)
		}
	}
}

func TestLoadDefaultsWhenNoPath(t *testing.T) {
	roster, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}
	if len(roster) != 5 {
		t.Errorf("got %d personas, want default 5", len(roster))
	}
}

func TestLoadOverrideFile(t *testing.T) {
	content := `
[[personas]]
id = "frugal"
name = "Fran Frugal"
title = "The Coupon Queen"
decision_framework = "Approve nothing above sticker price."
voice_description = "Brisk."

[personas.traits]
risk_tolerance = "low"
catchphrases = ["Never pay retail."]

[[personas]]
id = "splurge"
name = "Sid Splurge"
title = "The Comfort Maximalist"
decision_framework = "Approve anything that improves daily life."
voice_description = "Warm."
`
	path := filepath.Join(t.TempDir(), "personas.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	roster, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(roster) != 2 {
		t.Fatalf("got %d personas, want 2", len(roster))
	}
	if roster[0].ID != "frugal" || roster[1].ID != "splurge" {
		t.Errorf("roster order not preserved: %v", roster.IDs())
	}
	if roster[0].Traits.RiskTolerance != "low" {
		t.Errorf("traits not parsed: %+v", roster[0].Traits)
	}
}

func TestLoadRejectsDuplicateIDs(t *testing.T) {
	content := `
[[personas]]
id = "twin"
name = "First Twin"

[[personas]]
id = "twin"
name = "Second Twin"
`
	path := filepath.Join(t.TempDir(), "personas.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected duplicate id error")
	}
}

func TestLoadRejectsEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "personas.toml")
	if err := os.WriteFile(path, []byte("# no personas here\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for a file defining no personas")
	}
}
