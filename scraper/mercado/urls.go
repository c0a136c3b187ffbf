package mercado

import (
	"fmt"
	"strings"

	"compra-agil-scraper/config"
)

// APIRoute is the substring identifying listing API responses among all
// traffic the browser produces while rendering a search page.
const APIRoute = "api.buscador.mercadopublico.cl/compra-agil"

// Substrings identifying the two detail endpoints.
const (
	fichaRoute   = "action=ficha"
	historyRoute = "action=historial"
)

// BuildListURL builds the search page URL for one day of published quick
// purchases. date_from and date_to are both the scrape date.
func BuildListURL(date string, page int) string {
	params := []string{
		fmt.Sprintf("status=%d", config.StatusPublished),
		fmt.Sprintf("order_by=%s", config.OrderBy),
		fmt.Sprintf("region=%s", config.Region),
		fmt.Sprintf("date_from=%s", date),
		fmt.Sprintf("date_to=%s", date),
		fmt.Sprintf("page_number=%d", page),
	}
	return fmt.Sprintf("%s/compra-agil?%s", config.BaseWebURL, strings.Join(params, "&"))
}

// BuildFichaURL builds the detail page URL for one listing code.
func BuildFichaURL(code string) string {
	return fmt.Sprintf("%s/ficha?code=%s", config.BaseWebURL, code)
}

// BuildHistoryURL builds the publication-history endpoint URL for one code.
func BuildHistoryURL(code string) string {
	return fmt.Sprintf("%s/compra-agil?action=historial&code=%s", config.BaseWebURL, code)
}

// ValidateCode checks the canonical listing code format NNN-NNN-COTNN.
func ValidateCode(code string) bool {
	parts := strings.Split(code, "-")
	if len(parts) != 3 {
		return false
	}
	if !isDigits(parts[0]) || !isDigits(parts[1]) {
		return false
	}
	return strings.HasPrefix(parts[2], "COT")
}

// ValidateURL does a basic sanity check on portal URLs.
func ValidateURL(url string) bool {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return false
	}
	return strings.Contains(url, "mercadopublico.cl")
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
