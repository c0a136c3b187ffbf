package mercado_test

import (
	"strings"
	"testing"

	"compra-agil-scraper/scraper/mercado"
)

func TestBuildListURL(t *testing.T) {
	url := mercado.BuildListURL("2025-10-20", 3)

	for _, want := range []string{
		"status=2",
		"order_by=recent",
		"region=all",
		"date_from=2025-10-20",
		"date_to=2025-10-20",
		"page_number=3",
	} {
		if !strings.Contains(url, want) {
			t.Errorf("list URL missing %q: %s", want, url)
		}
	}
	if !mercado.ValidateURL(url) {
		t.Errorf("built list URL failed validation: %s", url)
	}
}

func TestBuildFichaURL(t *testing.T) {
	url := mercado.BuildFichaURL("111-1-COT21")
	if !strings.HasSuffix(url, "/ficha?code=111-1-COT21") {
		t.Errorf("unexpected ficha URL: %s", url)
	}
}

func TestBuildHistoryURL(t *testing.T) {
	url := mercado.BuildHistoryURL("111-1-COT21")
	if !strings.Contains(url, "action=historial&code=111-1-COT21") {
		t.Errorf("unexpected history URL: %s", url)
	}
}

func TestValidateCode(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"111-1-COT21", true},
		{"1234-567-COT25", true},
		{"111-1-COT", true},
		{"111-1-cot21", false},
		{"111-COT21", false},
		{"abc-1-COT21", false},
		{"111-x-COT21", false},
		{"-1-COT21", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := mercado.ValidateCode(tt.code); got != tt.want {
			t.Errorf("ValidateCode(%q) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://buscador.mercadopublico.cl/compra-agil?page_number=1", true},
		{"http://api.buscador.mercadopublico.cl/compra-agil", true},
		{"ftp://buscador.mercadopublico.cl", false},
		{"https://example.com/compra-agil", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := mercado.ValidateURL(tt.url); got != tt.want {
			t.Errorf("ValidateURL(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}
