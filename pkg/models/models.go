// Package models defines the shared domain records for the audit platform.
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment method values carried on a transaction
const (
	PaymentMethodWire  = "WIRE"
	PaymentMethodCheck = "CHECK"
	PaymentMethodCash  = "CASH"
	PaymentMethodCard  = "CARD"
)

// Risk category values, inherited from the supplier at creation time
const (
	RiskCategoryLow    = "LOW"
	RiskCategoryMedium = "MEDIUM"
	RiskCategoryHigh   = "HIGH"
	RiskCategoryPEP    = "PEP"
)

// Transaction represents a single ledger entry. Records are created by the
// data store and are read-only everywhere else.
type Transaction struct {
	ID              uuid.UUID       `json:"id" gorm:"primaryKey;type:uuid" validate:"required,uuid"`
	TransactionID   string          `json:"transaction_id" gorm:"uniqueIndex;size:50" validate:"required,max=50"`
	SupplierName    string          `json:"supplier_name" gorm:"index;size:200" validate:"required,max=200"`
	SupplierCountry string          `json:"supplier_country" gorm:"index;size:100" validate:"required,max=100"`
	Amount          decimal.Decimal `json:"amount" gorm:"type:decimal(15,2);index" validate:"required"`
	Currency        string          `json:"currency" gorm:"size:3;default:EUR" validate:"required,len=3"`
	TransactionDate time.Time       `json:"transaction_date" gorm:"index" validate:"required"`
	PaymentMethod   string          `json:"payment_method" gorm:"size:50" validate:"required,oneof=WIRE CHECK CASH CARD"`
	RiskCategory    string          `json:"risk_category" gorm:"size:20" validate:"required,oneof=LOW MEDIUM HIGH PEP"`
	Description     string          `json:"description" gorm:"type:text" validate:"omitempty,max=500"`
	CreatedAt       time.Time       `json:"created_at"`
}

// TableName returns the table name for GORM
func (Transaction) TableName() string {
	return "transactions"
}

// Supplier represents a counterparty. Name is unique; the PEP flag marks
// politically exposed persons subject to enhanced monitoring.
type Supplier struct {
	ID           uuid.UUID `json:"id" gorm:"primaryKey;type:uuid" validate:"required,uuid"`
	Name         string    `json:"name" gorm:"uniqueIndex;size:200" validate:"required,max=200"`
	Country      string    `json:"country" gorm:"index;size:100" validate:"required,max=100"`
	RiskCategory string    `json:"risk_category" gorm:"index;size:20" validate:"required,oneof=LOW MEDIUM HIGH PEP"`
	IsPEP        bool      `json:"is_pep"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName returns the table name for GORM
func (Supplier) TableName() string {
	return "suppliers"
}

// AuditRecord captures one evaluation run for the audit trail.
type AuditRecord struct {
	ID                   uuid.UUID `json:"id" gorm:"primaryKey;type:uuid" validate:"required,uuid"`
	AuditID              string    `json:"audit_id" gorm:"index;size:50" validate:"required,max=50"`
	Query                string    `json:"query" gorm:"type:text"`
	TransactionsAnalyzed int       `json:"transactions_analyzed" validate:"min=0"`
	ViolationsFound      int       `json:"violations_found" validate:"min=0"`
	ComplianceStatus     string    `json:"compliance_status" gorm:"size:20" validate:"required,oneof=PASS FAIL"`
	Summary              string    `json:"summary" gorm:"type:text"`
	CreatedAt            time.Time `json:"created_at" gorm:"index"`
}

// TableName returns the table name for GORM
func (AuditRecord) TableName() string {
	return "audit_records"
}

// TransactionFilter carries the combinable predicates for a store read.
// A nil field means "no constraint", never zero.
type TransactionFilter struct {
	MinAmount     *decimal.Decimal `json:"min_amount,omitempty"`
	MaxAmount     *decimal.Decimal `json:"max_amount,omitempty"`
	Country       string           `json:"country,omitempty"`
	RiskCategory  string           `json:"risk_category,omitempty"`
	PaymentMethod string           `json:"payment_method,omitempty"`
	SupplierName  string           `json:"supplier_name,omitempty"`
	StartDate     *time.Time       `json:"start_date,omitempty"`
	EndDate       *time.Time       `json:"end_date,omitempty"`
	Limit         int              `json:"limit,omitempty"`
}

// IsZero reports whether no predicate is set.
func (f TransactionFilter) IsZero() bool {
	return f.MinAmount == nil && f.MaxAmount == nil &&
		f.Country == "" && f.RiskCategory == "" &&
		f.PaymentMethod == "" && f.SupplierName == "" &&
		f.StartDate == nil && f.EndDate == nil
}
