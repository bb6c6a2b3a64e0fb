// Package nlquery turns free-text ledger queries into structured intents
// and transaction filters. Both entry points are pure functions.
package nlquery

import "strings"

// Intent is the classified purpose of a query.
type Intent string

const (
	IntentTransactions         Intent = "TRANSACTIONS"
	IntentRevenue              Intent = "REVENUE"
	IntentExpenses             Intent = "EXPENSES"
	IntentAssets               Intent = "ASSETS"
	IntentAnalysis             Intent = "ANALYSIS"
	IntentComplianceCheck      Intent = "COMPLIANCE_CHECK"
	IntentAuditTrail           Intent = "AUDIT_TRAIL"
	IntentValidate             Intent = "VALIDATE"
	IntentPolicyRecommendation Intent = "POLICY_RECOMMENDATION"
	IntentRegulatoryCheck      Intent = "REGULATORY_CHECK"
	IntentReport               Intent = "REPORT"
	IntentAll                  Intent = "ALL"
)

type intentRule struct {
	intent   Intent
	keywords []string
}

// intentTable is the classification precedence, checked top to bottom.
// The first keyword set with a hit wins; the ordering is deliberate policy
// (a query mentioning both "transaction" and "compliance" is TRANSACTIONS).
// Kept as a data table so the precedence can be audited and tested on its
// own rather than living in control flow.
var intentTable = []intentRule{
	{IntentTransactions, []string{"transaction", "payment", "invoice", "supplier", "eur", "usd", "currency", "amount"}},
	{IntentRevenue, []string{"revenue", "income", "sales"}},
	{IntentExpenses, []string{"expense", "cost", "spending"}},
	{IntentAssets, []string{"asset", "property", "equipment"}},
	{IntentAnalysis, []string{"analyze", "analysis", "calculate", "compare"}},
	{IntentComplianceCheck, []string{"compliance", "compliant", "regulation"}},
	{IntentAuditTrail, []string{"trail", "history", "audit log"}},
	{IntentValidate, []string{"validate", "verify", "audit"}},
	{IntentPolicyRecommendation, []string{"recommend", "suggest", "policy"}},
	{IntentRegulatoryCheck, []string{"regulatory", "sox", "gaap", "ifrs"}},
	{IntentReport, []string{"report", "summary", "overview"}},
}

// Classify maps a free-text query onto exactly one intent. Empty or
// unrecognized input falls through to IntentAll.
func Classify(query string) Intent {
	q := strings.ToLower(query)
	for _, rule := range intentTable {
		for _, kw := range rule.keywords {
			if strings.Contains(q, kw) {
				return rule.intent
			}
		}
	}
	return IntentAll
}
