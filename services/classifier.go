package services

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"compra-agil-scraper/config"
	"compra-agil-scraper/models"
	"compra-agil-scraper/utils"
)

const urgencyWindow = 12 * time.Hour

// ClassifierConfig is the immutable table set driving classification. The
// category order is significant: the first matching (category, keyword)
// pair wins.
type ClassifierConfig struct {
	PriorityOrganizations []string
	Categories            []config.OrgCategory
	SearchKeywords        []string
	Threshold             int
}

// DefaultClassifierConfig builds the config from the shipped tables.
func DefaultClassifierConfig(keywords []string, threshold int) ClassifierConfig {
	return ClassifierConfig{
		PriorityOrganizations: config.PriorityOrganizations,
		Categories:            config.Categories,
		SearchKeywords:        keywords,
		Threshold:             threshold,
	}
}

// Classifier enriches listings with categorical tags and scores already
// confirmed second calls. Pure per invocation: the same input always yields
// the same derived fields.
type Classifier struct {
	cfg      ClassifierConfig
	logger   *utils.Logger
	priority map[string]struct{}
	keywords []keywordMatcher
	now      func() time.Time
}

type keywordMatcher struct {
	keyword string // normalized form, reported in MatchedKeywords
	re      *regexp.Regexp
}

// NewClassifier precomputes the matching tables.
func NewClassifier(cfg ClassifierConfig, logger *utils.Logger) *Classifier {
	priority := make(map[string]struct{}, len(cfg.PriorityOrganizations))
	for _, org := range cfg.PriorityOrganizations {
		priority[strings.ToLower(org)] = struct{}{}
	}

	matchers := make([]keywordMatcher, 0, len(cfg.SearchKeywords))
	for _, kw := range cfg.SearchKeywords {
		n := NormalizeText(kw)
		if n == "" {
			continue
		}
		// Whole-word match on normalized text, so "riego" does not hit
		// "riegos" but multi-word keywords still work.
		re := regexp.MustCompile(`\b` + regexp.QuoteMeta(n) + `\b`)
		matchers = append(matchers, keywordMatcher{keyword: n, re: re})
	}

	return &Classifier{
		cfg:      cfg,
		logger:   logger,
		priority: priority,
		keywords: matchers,
		now:      time.Now,
	}
}

// Enrich runs the independent enrichment stages over every listing and
// returns a new slice; the input records are left untouched.
func (c *Classifier) Enrich(listings []models.Listing) []models.Listing {
	out := make([]models.Listing, 0, len(listings))
	for _, l := range listings {
		l = c.categorizeOrganization(l)
		l = c.countKeywords(l)
		l = c.flagUrgency(l)
		out = append(out, l)
	}
	c.logger.Info("Enriched %d listings (organization, keywords, urgency)", len(out))
	return out
}

// categorizeOrganization sets the priority flag (exact case-insensitive
// match) and the first matching (category, keyword) pair.
func (c *Classifier) categorizeOrganization(l models.Listing) models.Listing {
	_, l.PriorityOrganization = c.priority[strings.ToLower(l.Organization)]

	org := NormalizeText(l.Organization)
	l.OrganizationCategory = ""
	l.CategoryMatch = ""
	for _, cat := range c.cfg.Categories {
		for _, kw := range cat.Keywords {
			if strings.Contains(org, NormalizeText(kw)) {
				l.OrganizationCategory = cat.Name
				l.CategoryMatch = kw
				return l
			}
		}
	}
	return l
}

// countKeywords records which configured keywords appear as whole words in
// the listing name, in configured order.
func (c *Classifier) countKeywords(l models.Listing) models.Listing {
	name := NormalizeText(l.Name)
	l.MatchedKeywords = nil
	for _, m := range c.keywords {
		if m.re.MatchString(name) {
			l.MatchedKeywords = append(l.MatchedKeywords, m.keyword)
		}
	}
	l.MatchedKeywordCount = len(l.MatchedKeywords)
	return l
}

// flagUrgency marks listings nobody is quoting on that close within the
// next 12 hours. A missing or malformed closing date can never be urgent.
func (c *Classifier) flagUrgency(l models.Listing) models.Listing {
	l.UrgencyFlag = false
	if int(l.QuotingCount) != 0 {
		return l
	}
	closing, ok := models.ParseDate(l.ClosingDate)
	if !ok {
		return l
	}
	now := c.now()
	l.UrgencyFlag = closing.After(now) && !closing.After(now.Add(urgencyWindow))
	return l
}

// Score computes the weighted-sum relevance score for records that already
// passed the second-call filter, appending one reason per contribution.
func (c *Classifier) Score(listings []models.Listing) []models.Listing {
	out := make([]models.Listing, 0, len(listings))
	for _, l := range listings {
		score := config.PointsSecondCall
		reasons := []string{fmt.Sprintf("Second call (+%d)", config.PointsSecondCall)}

		if l.PriorityOrganization {
			score += config.PointsPriorityOrg
			reasons = append(reasons, fmt.Sprintf("Priority organization (+%d)", config.PointsPriorityOrg))
		} else if l.OrganizationCategory != "" {
			score += config.PointsOrgCategory
			reasons = append(reasons, fmt.Sprintf("Organization category (+%d)", config.PointsOrgCategory))
		}

		if l.UrgencyFlag {
			score += config.PointsUrgency
			reasons = append(reasons, fmt.Sprintf("Urgency alert (+%d)", config.PointsUrgency))
		}

		if l.MatchedKeywordCount > 0 {
			pts := l.MatchedKeywordCount * config.PointsPerKeyword
			score += pts
			reasons = append(reasons, fmt.Sprintf("%d keyword(s) (+%d)", l.MatchedKeywordCount, pts))
		}

		l.RelevanceScore = score
		l.ScoreReasons = reasons
		out = append(out, l)
	}
	return out
}

// Rank drops records under the relevance threshold and sorts the rest by
// score descending; ties keep their prior relative order.
func (c *Classifier) Rank(listings []models.Listing) []models.Listing {
	out := make([]models.Listing, 0, len(listings))
	for _, l := range listings {
		if l.RelevanceScore >= c.cfg.Threshold {
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RelevanceScore > out[j].RelevanceScore
	})
	c.logger.Info("Relevance threshold %d: %d of %d listings retained",
		c.cfg.Threshold, len(out), len(listings))
	return out
}
