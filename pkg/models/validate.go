package models

import (
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/fintrail/fintrail/pkg/errors"
)

var validate = validator.New()

// ValidateTransaction checks a transaction against its declared field
// contract. A failure here is a data-integrity defect in the producing
// store, not a runtime condition the evaluation core recovers from.
func ValidateTransaction(t *Transaction) error {
	if t.Amount.LessThan(decimal.Zero) {
		return errors.Invalid.Explain("transaction %s has negative amount %s", t.TransactionID, t.Amount.String()).
			WithField("min", "amount", "amount must be non-negative")
	}
	return validateStruct(t)
}

// ValidateSupplier checks a supplier record's field contract.
func ValidateSupplier(s *Supplier) error {
	return validateStruct(s)
}

// ValidateAuditRecord checks an audit trail entry's field contract.
func ValidateAuditRecord(r AuditRecord) error {
	return validateStruct(&r)
}

// ValidateFilter enforces the filter invariant: MinAmount <= MaxAmount
// when both bounds are present.
func ValidateFilter(f TransactionFilter) error {
	if f.MinAmount != nil && f.MaxAmount != nil && f.MinAmount.GreaterThan(*f.MaxAmount) {
		return errors.Invalid.Explain("filter min amount %s exceeds max amount %s", f.MinAmount.String(), f.MaxAmount.String()).
			WithField("range", "min_amount", "min_amount must not exceed max_amount")
	}
	return nil
}

func validateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.Invalid.Wrap(err)
	}

	fields := make([]errors.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, errors.NewFieldError(fe.Tag(), fe.Field(), fe.Error()))
	}
	return errors.Invalid.Explain("record failed validation").WithFields(fields)
}
