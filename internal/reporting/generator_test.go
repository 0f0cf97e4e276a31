package reporting

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"token-flow-lab/internal/domain"
)

const (
	holderA = "0x00000000000000000000000000000000000000aa"
	holderB = "0x00000000000000000000000000000000000000bb"
)

func sampleSummary() *domain.Summary {
	return &domain.Summary{
		Top7d: []domain.FlowRow{
			{Address: holderA, Inflow: "100", Outflow: "0", NetFlow: "100", Balance: "250.5", TransferCount: 2, Chains: []string{"base", "ethereum"}},
		},
		Top30d: []domain.FlowRow{
			{Address: holderA, Inflow: "100", Outflow: "0", NetFlow: "100", Balance: "250.5", TransferCount: 2, Chains: []string{"base", "ethereum"}},
			{Address: holderB, Inflow: "0", Outflow: "40", NetFlow: "-40", Balance: "0", TransferCount: 1, Chains: []string{"base"}},
		},
		TopHolders: []domain.HolderRow{
			{Address: holderA, Balance: "250.5", TransferCount: 7, Chains: []string{"base", "ethereum"}},
		},
		Labels:         map[string]string{holderA: "Treasury, Ops | Hot"},
		SyncedAt:       "2024-05-01T12:00:00Z",
		TotalTransfers: 42,
	}
}

func TestFromSummary(t *testing.T) {
	r := FromSummary(sampleSummary())

	if len(r.Flows) != 2 {
		t.Fatalf("expected 2 flow tables, got %d", len(r.Flows))
	}
	if r.Flows[0].Window != "7d" || r.Flows[1].Window != "30d" {
		t.Errorf("unexpected window order: %s, %s", r.Flows[0].Window, r.Flows[1].Window)
	}
	if got := r.Flows[1].Rows[1]; got.Rank != 2 || got.Label != "" || got.Chains != "base" {
		t.Errorf("unexpected second 30d row: %+v", got)
	}
	if r.Holders[0].Label != "Treasury, Ops | Hot" {
		t.Errorf("expected holder label, got %q", r.Holders[0].Label)
	}
	if r.LabelCount != 1 {
		t.Errorf("expected 1 label, got %d", r.LabelCount)
	}
}

func TestRenderMarkdown(t *testing.T) {
	md := RenderMarkdown(FromSummary(sampleSummary()))

	for _, want := range []string{
		"# Token Flow Summary",
		"Synced: 2024-05-01T12:00:00Z",
		"Transfers indexed: 42",
		"## Top Net Flow (7d)",
		"## Top Net Flow (30d)",
		"## Top Holders",
		`Treasury, Ops \| Hot`,
		"| 2 | " + holderB + " |  | 0 | 40 | -40 | 0 | 1 | base |",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

func TestRenderMarkdown_Empty(t *testing.T) {
	md := RenderMarkdown(FromSummary(&domain.Summary{SyncedAt: "never"}))

	if strings.Count(md, "No transfers in window.") != 2 {
		t.Error("expected empty-window notice for both windows")
	}
	if !strings.Contains(md, "No holders with positive balance.") {
		t.Error("expected empty holder notice")
	}
}

func TestRenderFlowsCSV(t *testing.T) {
	out, err := RenderFlowsCSV(FromSummary(sampleSummary()))
	if err != nil {
		t.Fatalf("RenderFlowsCSV failed: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("expected header + 3 rows, got %d", len(records))
	}
	if records[1][0] != "7d" || records[2][0] != "30d" {
		t.Errorf("unexpected windows: %v / %v", records[1][0], records[2][0])
	}
	if records[1][3] != "Treasury, Ops | Hot" {
		t.Errorf("label not preserved: %q", records[1][3])
	}
	if records[3][6] != "-40" {
		t.Errorf("expected net flow -40, got %s", records[3][6])
	}
}

func TestRenderHoldersCSV(t *testing.T) {
	out, err := RenderHoldersCSV(FromSummary(sampleSummary()))
	if err != nil {
		t.Fatalf("RenderHoldersCSV failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if lines[0] != "rank,address,label,balance,transfer_count,chains" {
		t.Errorf("unexpected header: %s", lines[0])
	}
	want := `1,` + holderA + `,"Treasury, Ops | Hot",250.5,7,"base,ethereum"`
	if lines[1] != want {
		t.Errorf("unexpected row:\n got %s\nwant %s", lines[1], want)
	}
}

func TestGenerator_Generate(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")

	paths, err := NewGenerator(dir).Generate(sampleSummary())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(paths) != 3 {
		t.Fatalf("expected 3 files, got %d", len(paths))
	}

	for _, name := range []string{MarkdownFile, FlowsCSVFile, HoldersCSVFile} {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			t.Errorf("missing %s: %v", name, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", name)
		}
	}
}
