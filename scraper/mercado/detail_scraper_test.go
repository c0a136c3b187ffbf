package mercado_test

import (
	"context"
	"errors"
	"testing"

	"compra-agil-scraper/models"
	"compra-agil-scraper/scraper/mercado"
	"compra-agil-scraper/utils"
)

// fakeDetailNavigator replays ficha/history bodies keyed by listing code.
type fakeDetailNavigator struct {
	capture    *mercado.DetailCapture
	ficha      map[string]string // code -> ficha payload body
	history    map[string]string // code -> history payload body
	failCodes  map[string]bool
	navigation []string
}

func (f *fakeDetailNavigator) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.navigation = append(f.navigation, url)
	for code := range f.failCodes {
		if url == mercado.BuildFichaURL(code) {
			return errors.New("navigation timed out")
		}
	}
	for code, body := range f.ficha {
		if url == mercado.BuildFichaURL(code) {
			f.capture.Observe("https://api.x/compra-agil?action=ficha&code="+code, []byte(body))
			if h, ok := f.history[code]; ok {
				f.capture.Observe("https://api.x/compra-agil?action=historial&code="+code, []byte(h))
			}
		}
	}
	return nil
}

func fichaBody() string {
	return `{"success":"OK","payload":{"descripcion":"detalle"}}`
}

func historyBody(events int) string {
	body := `{"success":"OK","payload":[`
	for i := 0; i < events; i++ {
		if i > 0 {
			body += ","
		}
		body += `{"fecha":"2025-10-01"}`
	}
	return body + `]}`
}

func newDetailScraper(nav *fakeDetailNavigator, maxDetails int) *mercado.DetailScraper {
	logger := quietLogger()
	capture := mercado.NewDetailCapture(logger)
	nav.capture = capture
	cfg := testConfig()
	cfg.MaxDetails = maxDetails
	return mercado.NewDetailScraper(cfg, logger, nav, capture, utils.NewRunStats())
}

func TestDetailScraper_EnrichesCandidates(t *testing.T) {
	nav := &fakeDetailNavigator{
		ficha:   map[string]string{"111-1-COT21": fichaBody()},
		history: map[string]string{"111-1-COT21": historyBody(2)},
	}
	scraper := newDetailScraper(nav, 0)

	in := []models.Listing{{Code: "111-1-COT21", Name: "SEGUNDO LLAMADO COMPRA"}}
	out := scraper.EnrichAll(context.Background(), in)

	if len(out) != 1 {
		t.Fatalf("output length = %d, want 1", len(out))
	}
	d := out[0].Detail
	if d == nil {
		t.Fatal("listing was not enriched")
	}
	if d.Code != "111-1-COT21" {
		t.Errorf("detail code = %s, want back-reference to listing code", d.Code)
	}
	if len(d.History) != 2 {
		t.Errorf("history length = %d, want 2", len(d.History))
	}
	if in[0].Detail != nil {
		t.Error("input record must not be mutated")
	}
}

func TestDetailScraper_FailurePassesThrough(t *testing.T) {
	nav := &fakeDetailNavigator{
		ficha:     map[string]string{"222-2-COT22": fichaBody()},
		history:   map[string]string{"222-2-COT22": historyBody(1)},
		failCodes: map[string]bool{"111-1-COT21": true},
	}
	scraper := newDetailScraper(nav, 0)

	in := []models.Listing{
		{Code: "111-1-COT21", Name: "A"},
		{Code: "222-2-COT22", Name: "B"},
		{ID: 999, Name: "C"}, // no code: skipped, passed through
	}
	out := scraper.EnrichAll(context.Background(), in)

	if len(out) != len(in) {
		t.Fatalf("output length = %d, want %d (failures pass through)", len(out), len(in))
	}
	if out[0].Detail != nil {
		t.Error("failed listing should pass through unenriched")
	}
	if out[1].Detail == nil {
		t.Error("second listing should be enriched despite first failing")
	}
	if out[2].Detail != nil {
		t.Error("listing without code cannot be enriched")
	}
}

func TestDetailScraper_MissingHistoryDefaultsEmpty(t *testing.T) {
	nav := &fakeDetailNavigator{
		ficha: map[string]string{"111-1-COT21": fichaBody()},
	}
	scraper := newDetailScraper(nav, 0)

	out := scraper.EnrichAll(context.Background(), []models.Listing{{Code: "111-1-COT21"}})
	d := out[0].Detail
	if d == nil {
		t.Fatal("listing was not enriched")
	}
	if d.History == nil || len(d.History) != 0 {
		t.Errorf("history should default to an empty list, got %v", d.History)
	}
}

func TestDetailScraper_CapLimitsFetches(t *testing.T) {
	nav := &fakeDetailNavigator{
		ficha: map[string]string{
			"1-1-COT1": fichaBody(),
			"2-2-COT2": fichaBody(),
			"3-3-COT3": fichaBody(),
		},
	}
	scraper := newDetailScraper(nav, 2)

	in := []models.Listing{{Code: "1-1-COT1"}, {Code: "2-2-COT2"}, {Code: "3-3-COT3"}}
	out := scraper.EnrichAll(context.Background(), in)

	if len(out) != 3 {
		t.Fatalf("output length = %d, want 3", len(out))
	}
	if out[0].Detail == nil || out[1].Detail == nil {
		t.Error("capped run should still enrich the first two candidates")
	}
	if out[2].Detail != nil {
		t.Error("candidate beyond the cap must pass through unenriched")
	}
	if len(nav.navigation) != 2 {
		t.Errorf("navigated %d times, want 2", len(nav.navigation))
	}
}

func TestDetailScraper_DuplicateCodeFetchedOnce(t *testing.T) {
	nav := &fakeDetailNavigator{
		ficha: map[string]string{"1-1-COT1": fichaBody()},
	}
	scraper := newDetailScraper(nav, 0)

	in := []models.Listing{{Code: "1-1-COT1"}, {Code: "1-1-COT1"}}
	out := scraper.EnrichAll(context.Background(), in)

	if len(out) != 2 {
		t.Fatalf("output length = %d, want 2", len(out))
	}
	if len(nav.navigation) != 1 {
		t.Errorf("navigated %d times, want 1 (duplicate code)", len(nav.navigation))
	}
}
