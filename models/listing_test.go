package models_test

import (
	"encoding/json"
	"testing"

	"compra-agil-scraper/models"
)

func TestListing_TolerantDecoding(t *testing.T) {
	// The portal mixes numbers, numeric strings and nulls in the same fields
	// across pages; a sloppy field must degrade, not drop the record.
	body := `{
		"id": 999,
		"codigo": "111-1-COT21",
		"nombre": "SEGUNDO LLAMADO",
		"organismo": "Hospital de Curicó",
		"monto_disponible_CLP": "1500000.5",
		"estado_convocatoria": "2",
		"cantidad_provedores_cotizando": null
	}`

	var l models.Listing
	if err := json.Unmarshal([]byte(body), &l); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !l.AvailableAmount.Valid || l.AvailableAmount.Value != 1500000.5 {
		t.Errorf("amount = %+v, want valid 1500000.5", l.AvailableAmount)
	}
	if int(l.CallState) != models.SecondCall {
		t.Errorf("call state = %d, want %d", l.CallState, models.SecondCall)
	}
	if int(l.QuotingCount) != 0 {
		t.Errorf("null quoting count = %d, want 0", l.QuotingCount)
	}
}

func TestListing_NonNumericAmountIsInvalid(t *testing.T) {
	var l models.Listing
	if err := json.Unmarshal([]byte(`{"monto_disponible_CLP":"consultar"}`), &l); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if l.AvailableAmount.Valid {
		t.Error("non-numeric amount must be marked invalid")
	}

	out, err := json.Marshal(l.AvailableAmount)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "null" {
		t.Errorf("invalid amount marshals as %s, want null", out)
	}
}

func TestListing_Key(t *testing.T) {
	if got := (models.Listing{Code: "111-1-COT21", ID: 999}).Key(); got != "111-1-COT21" {
		t.Errorf("key = %s, want the code", got)
	}
	if got := (models.Listing{ID: 999}).Key(); got != "999" {
		t.Errorf("key = %s, want the id fallback", got)
	}
}

func TestParseDate(t *testing.T) {
	for _, s := range []string{
		"2025-10-20T15:30:00Z",
		"2025-10-20T15:30:00",
		"2025-10-20 15:30:00",
		"2025-10-20",
	} {
		if _, ok := models.ParseDate(s); !ok {
			t.Errorf("ParseDate(%q) should succeed", s)
		}
	}
	for _, s := range []string{"", "20/10/2025", "mañana"} {
		if _, ok := models.ParseDate(s); ok {
			t.Errorf("ParseDate(%q) should fail", s)
		}
	}
}
