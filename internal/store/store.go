// Package store provides the transaction data layer: a narrow read
// interface consumed by the query pipeline, a GORM-backed implementation,
// and a mock-data seeder for development databases.
package store

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/fintrail/fintrail/pkg/errors"
	"github.com/fintrail/fintrail/pkg/models"
)

// Store is the read interface the evaluation pipeline consumes. All
// filter predicates combine with AND; results are finite and capped by
// the filter limit (or the store default).
type Store interface {
	ReadTransactions(ctx context.Context, filter models.TransactionFilter) ([]models.Transaction, error)
	ReadSuppliers(ctx context.Context, country, riskCategory string) ([]models.Supplier, error)
	CountTransactions(ctx context.Context) (int64, error)
}

// DefaultLimit caps unbounded transaction reads.
const DefaultLimit = 100

// gormStore implements Store over sqlite or postgres.
type gormStore struct {
	db     *gorm.DB
	logger *zap.Logger
	limit  int
}

var _ Store = (*gormStore)(nil)

// Open connects to the database selected by the DSN scheme, runs the
// schema auto-migration and returns a Store. A "postgres://" DSN selects
// the postgres driver; anything else is treated as a sqlite path.
func Open(dsn string, logger *zap.Logger) (Store, *gorm.DB, error) {
	var dialector gorm.Dialector
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		dialector = postgres.Open(dsn)
	} else {
		dialector = sqlite.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, nil, errors.Unavailable.Explain("opening database").Wrap(err)
	}

	if err := db.AutoMigrate(&models.Transaction{}, &models.Supplier{}, &models.AuditRecord{}); err != nil {
		return nil, nil, errors.Unavailable.Explain("migrating schema").Wrap(err)
	}

	logger.Info("store opened", zap.String("dialect", db.Dialector.Name()))
	return &gormStore{db: db, logger: logger, limit: DefaultLimit}, db, nil
}

// New wraps an existing GORM handle, mainly for tests.
func New(db *gorm.DB, logger *zap.Logger) Store {
	return &gormStore{db: db, logger: logger, limit: DefaultLimit}
}

// ReadTransactions applies every set predicate and returns at most the
// filter limit of rows, oldest first for stable ordering.
func (s *gormStore) ReadTransactions(ctx context.Context, filter models.TransactionFilter) ([]models.Transaction, error) {
	if err := models.ValidateFilter(filter); err != nil {
		return nil, err
	}

	query := s.db.WithContext(ctx).Model(&models.Transaction{})

	if filter.MinAmount != nil {
		query = query.Where("amount >= ?", filter.MinAmount)
	}
	if filter.MaxAmount != nil {
		query = query.Where("amount <= ?", filter.MaxAmount)
	}
	if filter.Country != "" {
		query = query.Where("supplier_country = ?", filter.Country)
	}
	if filter.RiskCategory != "" {
		query = query.Where("risk_category = ?", filter.RiskCategory)
	}
	if filter.PaymentMethod != "" {
		query = query.Where("payment_method = ?", filter.PaymentMethod)
	}
	if filter.SupplierName != "" {
		query = query.Where("LOWER(supplier_name) LIKE ?", "%"+strings.ToLower(filter.SupplierName)+"%")
	}
	if filter.StartDate != nil {
		query = query.Where("transaction_date >= ?", filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("transaction_date <= ?", filter.EndDate)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = s.limit
	}

	var transactions []models.Transaction
	if err := query.Order("transaction_date ASC").Limit(limit).Find(&transactions).Error; err != nil {
		return nil, errors.Unavailable.Explain("reading transactions").Wrap(err)
	}
	return transactions, nil
}

// ReadSuppliers returns suppliers optionally narrowed by country and
// risk category.
func (s *gormStore) ReadSuppliers(ctx context.Context, country, riskCategory string) ([]models.Supplier, error) {
	query := s.db.WithContext(ctx).Model(&models.Supplier{})
	if country != "" {
		query = query.Where("country = ?", country)
	}
	if riskCategory != "" {
		query = query.Where("risk_category = ?", riskCategory)
	}

	var suppliers []models.Supplier
	if err := query.Order("name ASC").Find(&suppliers).Error; err != nil {
		return nil, errors.Unavailable.Explain("reading suppliers").Wrap(err)
	}
	return suppliers, nil
}

// CountTransactions returns the total number of stored transactions.
func (s *gormStore) CountTransactions(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Transaction{}).Count(&count).Error; err != nil {
		return 0, errors.Unavailable.Explain("counting transactions").Wrap(err)
	}
	return count, nil
}
