package services

import (
	"fmt"
	"strings"
	"time"

	"compra-agil-scraper/models"
	"compra-agil-scraper/utils"
)

// PrintRunReport formats and prints the end-of-run summary to the terminal.
func PrintRunReport(date string, total int, ranked []models.Listing, stats utils.StatsSummary) {
	border := strings.Repeat("═", 55)
	thin := strings.Repeat("─", 55)

	fmt.Printf("\n╔%s╗\n", border)
	fmt.Printf("║%s║\n", center("COMPRA AGIL - SECOND CALL REPORT", 55))
	fmt.Printf("╚%s╝\n", border)

	fmt.Printf("\n OVERVIEW\n%s\n", thin)
	fmt.Printf("  Scrape date             : %s\n", date)
	fmt.Printf("  Listings extracted      : %d\n", total)
	fmt.Printf("  Relevant second calls   : %d\n", len(ranked))
	if total > 0 {
		fmt.Printf("  Relevance rate          : %.1f%%\n", float64(len(ranked))/float64(total)*100)
	}

	fmt.Printf("\n RUN STATISTICS\n%s\n", thin)
	fmt.Printf("  Pages processed         : %d\n", stats.Pages)
	fmt.Printf("  Errors                  : %d\n", stats.Errors)
	fmt.Printf("  Retries                 : %d\n", stats.Retries)
	fmt.Printf("  Elapsed                 : %s\n", stats.Elapsed.Round(time.Second))
	fmt.Printf("  Throughput              : %.2f items/s\n", stats.ItemsPerSecond)

	if len(ranked) > 0 {
		top := len(ranked)
		if top > 10 {
			top = 10
		}
		fmt.Printf("\n TOP %d RANKED LISTINGS\n%s\n", top, thin)
		for i, l := range ranked[:top] {
			fmt.Printf("  %2d. [%2d pts] %s\n", i+1, l.RelevanceScore, truncate(l.Name, 40))
			fmt.Printf("      %s | %s\n", l.Key(), truncate(l.Organization, 45))
			if len(l.ScoreReasons) > 0 {
				fmt.Printf("      %s\n", strings.Join(l.ScoreReasons, ", "))
			}
		}
	}

	fmt.Printf("\n%s\n\n", border)
}

func center(s string, width int) string {
	runes := []rune(s)
	if len(runes) >= width {
		return s
	}
	pad := (width - len(runes)) / 2
	return strings.Repeat(" ", pad) + s + strings.Repeat(" ", width-len(runes)-pad)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
