package recommend

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"github.com/turtlebank/teenfin/internal/catalog"
	"github.com/turtlebank/teenfin/internal/infrastructure/monitoring/logging"
	apperrors "github.com/turtlebank/teenfin/pkg/errors"
)

// placeholderBenefit replaces an empty benefits list so the field is never
// empty in a returned recommendation.
const placeholderBenefit = "자세한 혜택은 상품 안내를 확인해 주세요."

// ParserLimits caps the result cardinalities after filtering and dedup.
type ParserLimits struct {
	MaxInsights int
	MaxSavings  int
	MaxCards    int
}

// DefaultParserLimits mirrors the result contract: up to 4 insights and 3
// products per array.
func DefaultParserLimits() ParserLimits {
	return ParserLimits{MaxInsights: 4, MaxSavings: 3, MaxCards: 3}
}

// Parser turns raw model text into a RecommendationResult.  Individually
// malformed fields are repaired or defaulted; only three conditions fail the
// whole response: invalid top-level JSON, a missing summary, and both product
// arrays ending up empty.
type Parser struct {
	limits ParserLimits
	log    logging.Logger
}

// NewParser builds a Parser with the given limits.
func NewParser(limits ParserLimits, log logging.Logger) *Parser {
	if limits.MaxInsights <= 0 {
		limits.MaxInsights = 4
	}
	if limits.MaxSavings <= 0 {
		limits.MaxSavings = 3
	}
	if limits.MaxCards <= 0 {
		limits.MaxCards = 3
	}
	return &Parser{limits: limits, log: log}
}

// Parse sanitizes and validates raw model output against the candidate set
// the prompt was built from.  Parsing the same text twice yields structurally
// equal results.
func (p *Parser) Parse(raw string, candidates []catalog.FinancialProduct) (*RecommendationResult, error) {
	root, err := p.decode(StripCodeFence(raw))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeRecoUnparsableOutput,
			"model output is not valid JSON")
	}

	summary := strings.TrimSpace(getString(root, "summary", ""))
	if summary == "" {
		return nil, apperrors.New(apperrors.ErrCodeRecoMissingSummary,
			"model output lacks a summary")
	}

	byID := make(map[string]catalog.FinancialProduct, len(candidates))
	for _, c := range candidates {
		byID[c.ID] = c
	}

	savings := p.parseProducts(root["savings"], byID, savingsTypes, catalog.ProductSavings, p.limits.MaxSavings)
	cards := p.parseProducts(root["cards"], byID, cardTypes, catalog.ProductCard, p.limits.MaxCards)
	if len(savings) == 0 && len(cards) == 0 {
		return nil, apperrors.New(apperrors.ErrCodeRecoNoProducts,
			"model output yielded no actionable recommendations")
	}

	return &RecommendationResult{
		Summary:  summary,
		Insights: p.parseInsights(root["insights"]),
		Savings:  savings,
		Cards:    cards,
	}, nil
}

// decode parses raw JSON, attempting one repair pass with jsonrepair when
// strict decoding fails (unquoted keys, trailing commas and similar model
// slop are common enough to be worth rescuing).
func (p *Parser) decode(raw string) (map[string]any, error) {
	var root map[string]any
	err := json.Unmarshal([]byte(raw), &root)
	if err == nil {
		return root, nil
	}

	repaired, repairErr := jsonrepair.JSONRepair(raw)
	if repairErr != nil {
		return nil, err
	}
	var fixed map[string]any
	if fixErr := json.Unmarshal([]byte(repaired), &fixed); fixErr != nil {
		return nil, err
	}
	p.log.Warn("model output required a JSON repair pass")
	return fixed, nil
}

// StripCodeFence removes an optional fenced-block wrapper (```json ... ```)
// around the payload.  Unfenced input is returned unchanged, so fenced and
// unfenced payloads parse to identical results.
func StripCodeFence(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	lines := strings.Split(trimmed, "\n")
	if len(lines) < 2 {
		return trimmed
	}
	lines = lines[1:]
	if strings.HasPrefix(strings.TrimSpace(lines[len(lines)-1]), "```") {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func (p *Parser) parseInsights(node any) []string {
	items, ok := node.([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range items {
		text, ok := item.(string)
		if !ok {
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			out = append(out, text)
		}
		if len(out) == p.limits.MaxInsights {
			break
		}
	}
	return out
}

// allowedTypes restricts which product types an array may carry.  The model
// sometimes echoes a candidate into the wrong array; those items are dropped
// rather than re-typed.
type allowedTypes map[catalog.ProductType]bool

var (
	savingsTypes = allowedTypes{catalog.ProductSavings: true, catalog.ProductDeposit: true}
	cardTypes    = allowedTypes{catalog.ProductCard: true}
)

// parseProducts extracts one product array.  Items are de-duplicated by
// productId (first occurrence wins), filtered to the array's allowed types,
// validated leniently field by field, and capped at max after filtering.
func (p *Parser) parseProducts(node any, byID map[string]catalog.FinancialProduct,
	allowed allowedTypes, defaultType catalog.ProductType, max int) []ProductRecommendation {

	items, ok := node.([]any)
	if !ok {
		return nil
	}

	var out []ProductRecommendation
	seen := make(map[string]bool, len(items))
	for i, raw := range items {
		item, ok := raw.(map[string]any)
		if !ok {
			continue
		}

		id := strings.TrimSpace(getString(item, "productId", ""))
		if id == "" {
			id = synthesizeID(getString(item, "name", ""), i)
		}
		if seen[id] {
			continue
		}
		seen[id] = true

		typ := defaultType
		if product, known := byID[id]; known {
			typ = product.Type
		} else if parsed, ok := catalog.ParseProductType(getString(item, "type", "")); ok {
			typ = parsed
		}
		if !allowed[typ] {
			p.log.Debug("recommendation dropped, type not allowed in array",
				logging.String("productId", id), logging.String("type", string(typ)))
			continue
		}

		out = append(out, p.buildRecommendation(id, item, byID, typ))
		if len(out) == max {
			break
		}
	}
	return out
}

// buildRecommendation merges one parsed item with its catalog entry when the
// id is known; unknown ids keep whatever usable fields the model supplied.
func (p *Parser) buildRecommendation(id string, item map[string]any,
	byID map[string]catalog.FinancialProduct, typ catalog.ProductType) ProductRecommendation {

	product, known := byID[id]

	rec := ProductRecommendation{
		ProductID:           id,
		Type:                typ,
		Name:                getString(item, "name", product.Name),
		Headline:            getString(item, "headline", product.Headline),
		Benefits:            getStringArray(item, "benefits"),
		Caution:             getString(item, "caution", product.Caution),
		NextAction:          getString(item, "nextAction", ""),
		MinMonthlyAmount:    getAmount(item, "minMonthlyAmount", product.MinMonthlyAmount),
		MaxMonthlyAmount:    getAmount(item, "maxMonthlyAmount", product.MaxMonthlyAmount),
		GuardianRequired:    getBool(item, "guardianRequired", product.GuardianRequired),
		HighlightCategories: getStringArray(item, "highlightCategories"),
		DigitalFriendly:     getBool(item, "digitalFriendly", product.DigitalFriendly),
	}

	if len(rec.Benefits) == 0 && known {
		rec.Benefits = append([]string(nil), product.Benefits...)
	}
	if len(rec.Benefits) == 0 {
		rec.Benefits = []string{placeholderBenefit}
	}
	if len(rec.HighlightCategories) == 0 && known {
		rec.HighlightCategories = append([]string(nil), product.HighlightCategories...)
	}
	if rec.Name == "" {
		rec.Name = id
	}
	return rec
}

// synthesizeID derives a deterministic product id from a name: alphanumeric
// characters only, uppercased, suffixed with the positional index so ids are
// unique within a response.
func synthesizeID(name string, index int) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r - 'a' + 'A')
		case (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
		}
	}
	base := b.String()
	if base == "" {
		base = "ITEM"
	}
	return base + "-" + strconv.Itoa(index)
}

// ── total field accessors ───────────────────────────────────────────────────
// Every accessor returns a value for any input shape; malformed fields fall
// back to their defaults instead of failing the response.

func getString(node map[string]any, field, def string) string {
	v, ok := node[field]
	if !ok || v == nil {
		return def
	}
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

// getAmount accepts a JSON number or a string containing digits; non-digit
// characters are stripped before parsing.  Unparsable values keep def.
func getAmount(node map[string]any, field string, def *int) *int {
	v, ok := node[field]
	if !ok || v == nil {
		return def
	}
	switch n := v.(type) {
	case float64:
		amount := int(n)
		return &amount
	case string:
		var digits strings.Builder
		for _, r := range n {
			if r >= '0' && r <= '9' {
				digits.WriteRune(r)
			}
		}
		if digits.Len() == 0 {
			return def
		}
		amount, err := strconv.Atoi(digits.String())
		if err != nil {
			return def
		}
		return &amount
	default:
		return def
	}
}

func getBool(node map[string]any, field string, def bool) bool {
	if v, ok := node[field].(bool); ok {
		return v
	}
	return def
}

// getStringArray keeps only non-blank string entries; non-string entries are
// skipped, and any non-array value yields nil.
func getStringArray(node map[string]any, field string) []string {
	items, ok := node[field].([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range items {
		if s, ok := item.(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}
