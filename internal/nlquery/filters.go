package nlquery

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fintrail/fintrail/pkg/models"
)

// countryEntry maps a lowercase fragment of a country name onto its
// canonical form as stored on transactions.
type countryEntry struct {
	fragment  string
	canonical string
}

// countryTable is searched in order; the first fragment found in the query
// wins. Substring matching keeps the parser forgiving about word boundaries
// ("from russia", "russian supplier") at the cost of the occasional false
// positive, which callers tolerate the same way they tolerate a missing
// filter.
var countryTable = []countryEntry{
	{"usa", "USA"},
	{"russia", "Russia"},
	{"germany", "Germany"},
	{"france", "France"},
	{"uk", "UK"},
	{"canada", "Canada"},
	{"australia", "Australia"},
	{"japan", "Japan"},
	{"north korea", "North Korea"},
	{"iran", "Iran"},
	{"syria", "Syria"},
	{"sudan", "Sudan"},
	{"cuba", "Cuba"},
	{"afghanistan", "Afghanistan"},
	{"myanmar", "Myanmar"},
	{"belarus", "Belarus"},
	{"venezuela", "Venezuela"},
	{"netherlands", "Netherlands"},
	{"sweden", "Sweden"},
	{"norway", "Norway"},
	{"switzerland", "Switzerland"},
}

var paymentMethodWords = map[string]string{
	"cash":  models.PaymentMethodCash,
	"check": models.PaymentMethodCheck,
	"wire":  models.PaymentMethodWire,
	"card":  models.PaymentMethodCard,
}

// ExtractFilters parses a free-text query into a transaction filter.
// Extraction is total: any fragment that fails to parse is dropped from
// the result rather than reported.
func ExtractFilters(query string) models.TransactionFilter {
	var filter models.TransactionFilter

	q := strings.ToLower(query)
	words := strings.Fields(q)

	for i, word := range words {
		switch word {
		case "over", "above":
			if i+1 < len(words) {
				if amount := parseAmountToken(words[i+1]); amount != nil {
					filter.MinAmount = amount
				}
			}
		case "under", "below":
			if i+1 < len(words) {
				if amount := parseAmountToken(words[i+1]); amount != nil {
					filter.MaxAmount = amount
				}
			}
		case "supplier":
			if i+1 < len(words) && filter.SupplierName == "" {
				filter.SupplierName = strings.Trim(words[i+1], ".,!?;:\"'")
			}
		}
		if method, ok := paymentMethodWords[strings.Trim(word, ".,!?;:")]; ok && filter.PaymentMethod == "" {
			filter.PaymentMethod = method
		}
	}

	for _, entry := range countryTable {
		if strings.Contains(q, entry.fragment) {
			filter.Country = entry.canonical
			break
		}
	}

	switch {
	case strings.Contains(q, "low risk"):
		filter.RiskCategory = models.RiskCategoryLow
	case strings.Contains(q, "medium risk"):
		filter.RiskCategory = models.RiskCategoryMedium
	case strings.Contains(q, "high risk"):
		filter.RiskCategory = models.RiskCategoryHigh
	}

	return filter
}

// parseAmountToken parses a numeric token such as "€5,000", "100k" or
// "2500.50". A "k" suffix multiplies by 1000. Returns nil when the token
// is not a number.
func parseAmountToken(token string) *decimal.Decimal {
	token = strings.Trim(token, ".,!?;:")
	token = strings.TrimPrefix(token, "€")
	token = strings.TrimPrefix(token, "$")
	token = strings.ReplaceAll(token, ",", "")

	multiplier := decimal.NewFromInt(1)
	if strings.HasSuffix(token, "k") {
		token = strings.TrimSuffix(token, "k")
		multiplier = decimal.NewFromInt(1000)
	}

	amount, err := decimal.NewFromString(token)
	if err != nil {
		return nil
	}
	result := amount.Mul(multiplier)
	return &result
}
