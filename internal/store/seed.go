package store

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fintrail/fintrail/internal/policy"
	"github.com/fintrail/fintrail/internal/screening"
	"github.com/fintrail/fintrail/pkg/errors"
	"github.com/fintrail/fintrail/pkg/models"
)

// regularCountries complements the high-risk jurisdiction list when the
// seeder spreads suppliers across geographies.
var regularCountries = []string{
	"USA", "Germany", "France", "UK", "Canada", "Australia",
	"Japan", "Netherlands", "Sweden", "Norway", "Switzerland",
}

var companyPrefixes = []string{
	"Northwind", "Meridian", "Caspian", "Alpine", "Harbor", "Vertex",
	"Atlas", "Cobalt", "Juniper", "Summit", "Pioneer", "Crescent",
	"Sterling", "Granite", "Beacon", "Orchid", "Falcon", "Lakeside",
	"Redwood", "Crystal", "Monarch", "Drift", "Solace", "Quarry", "Ember",
}

var companySuffixes = []string{
	"Trading", "Logistics", "Industries", "Holdings", "Exports",
	"Partners", "Supply", "Group", "Freight", "Manufacturing",
}

var seedPaymentMethods = []string{
	models.PaymentMethodWire, models.PaymentMethodCheck, models.PaymentMethodCash,
}

// Seeder populates a development database with suppliers and
// transactions shaped like real ledger data: most amounts are small, a
// slice mid-range, and a few percent large enough to trip thresholds.
type Seeder struct {
	db       *gorm.DB
	logger   *zap.Logger
	screener *screening.Screener
	rng      *rand.Rand
}

// NewSeeder creates a seeder. The seed fixes the generated data set so
// repeated runs on a fresh database produce identical ledgers.
func NewSeeder(db *gorm.DB, logger *zap.Logger, screener *screening.Screener, seed int64) *Seeder {
	return &Seeder{
		db:       db,
		logger:   logger,
		screener: screener,
		rng:      rand.New(rand.NewSource(seed)),
	}
}

// Seed generates numSuppliers suppliers and numTransactions transactions
// unless the database already holds data.
func (s *Seeder) Seed(numSuppliers, numTransactions int) error {
	var existing int64
	if err := s.db.Model(&models.Transaction{}).Count(&existing).Error; err != nil {
		return errors.Unavailable.Explain("checking for existing data").Wrap(err)
	}
	if existing > 0 {
		s.logger.Info("database already seeded", zap.Int64("transactions", existing))
		return nil
	}

	suppliers := s.generateSuppliers(numSuppliers)
	for i := range suppliers {
		if err := models.ValidateSupplier(&suppliers[i]); err != nil {
			return err
		}
	}
	if err := s.db.Create(&suppliers).Error; err != nil {
		return errors.Unavailable.Explain("inserting suppliers").Wrap(err)
	}

	transactions := s.generateTransactions(suppliers, numTransactions)
	for i := range transactions {
		if err := models.ValidateTransaction(&transactions[i]); err != nil {
			return err
		}
	}
	if err := s.db.CreateInBatches(&transactions, 200).Error; err != nil {
		return errors.Unavailable.Explain("inserting transactions").Wrap(err)
	}

	s.logger.Info("seeded mock ledger",
		zap.Int("suppliers", len(suppliers)),
		zap.Int("transactions", len(transactions)),
	)
	return nil
}

func (s *Seeder) generateSuppliers(n int) []models.Supplier {
	countries := append(append([]string{}, policy.HighRiskCountries...), regularCountries...)

	suppliers := make([]models.Supplier, 0, n)
	seen := make(map[string]bool, n)
	for len(suppliers) < n {
		name := fmt.Sprintf("%s %s",
			companyPrefixes[s.rng.Intn(len(companyPrefixes))],
			companySuffixes[s.rng.Intn(len(companySuffixes))],
		)
		if seen[name] {
			continue
		}
		seen[name] = true

		country := countries[s.rng.Intn(len(countries))]
		risk := models.RiskCategoryLow
		if s.rng.Intn(2) == 1 {
			risk = models.RiskCategoryMedium
		}
		isPEP := false
		if containsCountry(policy.HighRiskCountries, country) {
			risk = models.RiskCategoryHigh
			isPEP = s.rng.Intn(2) == 1
		}
		if s.screener != nil && s.screener.IsSanctioned(name) {
			risk = models.RiskCategoryHigh
			isPEP = true
		}
		if isPEP {
			risk = models.RiskCategoryPEP
		}

		suppliers = append(suppliers, models.Supplier{
			ID:           uuid.New(),
			Name:         name,
			Country:      country,
			RiskCategory: risk,
			IsPEP:        isPEP,
			CreatedAt:    time.Now().UTC(),
		})
	}
	return suppliers
}

func (s *Seeder) generateTransactions(suppliers []models.Supplier, n int) []models.Transaction {
	now := time.Now().UTC()
	datePrefix := now.Format("20060102")

	transactions := make([]models.Transaction, 0, n)
	for i := 0; i < n; i++ {
		supplier := suppliers[s.rng.Intn(len(suppliers))]

		// 5% high value, 15% mid range, the rest small.
		var amount float64
		switch roll := s.rng.Float64(); {
		case roll < 0.05:
			amount = 100000 + s.rng.Float64()*900000
		case roll < 0.20:
			amount = 10000 + s.rng.Float64()*90000
		default:
			amount = 100 + s.rng.Float64()*9900
		}

		transactions = append(transactions, models.Transaction{
			ID:              uuid.New(),
			TransactionID:   fmt.Sprintf("TXN-%s-%06d", datePrefix, i),
			SupplierName:    supplier.Name,
			SupplierCountry: supplier.Country,
			Amount:          decimal.NewFromFloat(amount).Round(2),
			Currency:        "EUR",
			TransactionDate: now.AddDate(0, 0, -s.rng.Intn(365)),
			PaymentMethod:   seedPaymentMethods[s.rng.Intn(len(seedPaymentMethods))],
			RiskCategory:    supplier.RiskCategory,
			Description:     fmt.Sprintf("Invoice settlement with %s", supplier.Name),
			CreatedAt:       now,
		})
	}
	return transactions
}

func containsCountry(set []string, country string) bool {
	for _, c := range set {
		if c == country {
			return true
		}
	}
	return false
}
