package storage_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"compra-agil-scraper/models"
	"compra-agil-scraper/storage"
	"compra-agil-scraper/utils"
)

func sampleListings() []models.Listing {
	return []models.Listing{
		{
			Code:            "111-1-COT21",
			Name:            "SEGUNDO LLAMADO CONSTRUCCIÓN SISTEMA DE RIEGO",
			Organization:    "Ilustre Municipalidad de Temuco",
			AvailableAmount: models.Amount{Value: 1500000, Valid: true},
			RelevanceScore:  15,
			ScoreReasons:    []string{"Second call (+5)"},
		},
		{
			ID:           999,
			Name:         "Compra de escritorios",
			Organization: "Hospital de Curicó",
		},
	}
}

func TestJSONWriter_SaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	w := storage.NewJSONWriter(dir, utils.NewLogger("ERROR"))

	in := sampleListings()
	path, err := w.Save("compras_relevantes_test.json", in)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Errorf("artifact written to %s, want directory %s", path, dir)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file left behind after rename")
	}

	out, err := w.Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("loaded %d listings, want %d", len(out), len(in))
	}
	if out[0].Code != in[0].Code || out[0].RelevanceScore != 15 {
		t.Errorf("first listing round-trip mismatch: %+v", out[0])
	}
	if out[1].ID != 999 {
		t.Errorf("second listing id = %d, want 999", out[1].ID)
	}

	// Accented text must survive as readable UTF-8.
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), "Curicó") {
		t.Error("artifact does not contain the UTF-8 organization name")
	}
}

func TestJSONWriter_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out", "nested")
	w := storage.NewJSONWriter(dir, utils.NewLogger("ERROR"))

	if _, err := w.Save("empty.json", nil); err != nil {
		t.Fatalf("save into missing directory failed: %v", err)
	}
}

func TestJSONWriter_LoadErrors(t *testing.T) {
	w := storage.NewJSONWriter(t.TempDir(), utils.NewLogger("ERROR"))

	if _, err := w.Load("/nonexistent/file.json"); err == nil {
		t.Error("loading a missing file should fail")
	}

	bad := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := w.Load(bad); err == nil {
		t.Error("loading malformed JSON should fail")
	}
}
