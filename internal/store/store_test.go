package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/fintrail/fintrail/internal/screening"
	"github.com/fintrail/fintrail/pkg/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&_fk=1"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Transaction{}, &models.Supplier{}, &models.AuditRecord{}))
	t.Cleanup(func() {
		db.Exec("DELETE FROM transactions")
		db.Exec("DELETE FROM suppliers")
		db.Exec("DELETE FROM audit_records")
	})
	return db
}

func insertTxn(t *testing.T, db *gorm.DB, id string, amount float64, country, method, risk string, date time.Time) {
	t.Helper()
	err := db.Create(&models.Transaction{
		ID:              uuid.New(),
		TransactionID:   id,
		SupplierName:    "Supplier " + id,
		SupplierCountry: country,
		Amount:          decimal.NewFromFloat(amount),
		Currency:        "EUR",
		TransactionDate: date,
		PaymentMethod:   method,
		RiskCategory:    risk,
		CreatedAt:       time.Now().UTC(),
	}).Error
	require.NoError(t, err)
}

func TestReadTransactionsFilters(t *testing.T) {
	db := openTestDB(t)
	store := New(db, zaptest.NewLogger(t))
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	insertTxn(t, db, "TXN-1", 250, "USA", models.PaymentMethodWire, models.RiskCategoryLow, base)
	insertTxn(t, db, "TXN-2", 6000, "USA", models.PaymentMethodCash, models.RiskCategoryMedium, base.AddDate(0, 0, 1))
	insertTxn(t, db, "TXN-3", 150000, "Russia", models.PaymentMethodWire, models.RiskCategoryHigh, base.AddDate(0, 0, 2))
	insertTxn(t, db, "TXN-4", 3500, "Germany", models.PaymentMethodCheck, models.RiskCategoryPEP, base.AddDate(0, 0, 3))

	t.Run("no filter returns all, oldest first", func(t *testing.T) {
		got, err := store.ReadTransactions(ctx, models.TransactionFilter{})
		require.NoError(t, err)
		require.Len(t, got, 4)
		assert.Equal(t, "TXN-1", got[0].TransactionID)
		assert.Equal(t, "TXN-4", got[3].TransactionID)
	})

	t.Run("min amount", func(t *testing.T) {
		min := decimal.NewFromInt(5000)
		got, err := store.ReadTransactions(ctx, models.TransactionFilter{MinAmount: &min})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "TXN-2", got[0].TransactionID)
		assert.Equal(t, "TXN-3", got[1].TransactionID)
	})

	t.Run("max amount includes boundary", func(t *testing.T) {
		max := decimal.NewFromInt(250)
		got, err := store.ReadTransactions(ctx, models.TransactionFilter{MaxAmount: &max})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "TXN-1", got[0].TransactionID)
	})

	t.Run("combined country and risk", func(t *testing.T) {
		got, err := store.ReadTransactions(ctx, models.TransactionFilter{
			Country:      "USA",
			RiskCategory: models.RiskCategoryMedium,
		})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "TXN-2", got[0].TransactionID)
	})

	t.Run("payment method", func(t *testing.T) {
		got, err := store.ReadTransactions(ctx, models.TransactionFilter{PaymentMethod: models.PaymentMethodWire})
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("supplier name is case-insensitive substring", func(t *testing.T) {
		got, err := store.ReadTransactions(ctx, models.TransactionFilter{SupplierName: "supplier txn-3"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "TXN-3", got[0].TransactionID)
	})

	t.Run("date range", func(t *testing.T) {
		start := base.AddDate(0, 0, 1)
		end := base.AddDate(0, 0, 2)
		got, err := store.ReadTransactions(ctx, models.TransactionFilter{StartDate: &start, EndDate: &end})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "TXN-2", got[0].TransactionID)
		assert.Equal(t, "TXN-3", got[1].TransactionID)
	})

	t.Run("limit caps result set", func(t *testing.T) {
		got, err := store.ReadTransactions(ctx, models.TransactionFilter{Limit: 2})
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("inverted bounds rejected", func(t *testing.T) {
		min := decimal.NewFromInt(5000)
		max := decimal.NewFromInt(100)
		_, err := store.ReadTransactions(ctx, models.TransactionFilter{MinAmount: &min, MaxAmount: &max})
		assert.Error(t, err)
	})

	t.Run("no match returns empty, not error", func(t *testing.T) {
		got, err := store.ReadTransactions(ctx, models.TransactionFilter{Country: "Brazil"})
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestReadSuppliers(t *testing.T) {
	db := openTestDB(t)
	store := New(db, zaptest.NewLogger(t))
	ctx := context.Background()

	for i, s := range []models.Supplier{
		{Name: "Alpine Trading", Country: "USA", RiskCategory: models.RiskCategoryLow},
		{Name: "Caspian Exports", Country: "Russia", RiskCategory: models.RiskCategoryHigh},
		{Name: "Meridian Group", Country: "Russia", RiskCategory: models.RiskCategoryPEP, IsPEP: true},
	} {
		s.ID = uuid.New()
		s.CreatedAt = time.Now().UTC()
		require.NoError(t, db.Create(&s).Error, "supplier %d", i)
	}

	got, err := store.ReadSuppliers(ctx, "Russia", "")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = store.ReadSuppliers(ctx, "Russia", models.RiskCategoryPEP)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].IsPEP)

	got, err = store.ReadSuppliers(ctx, "", "")
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestCountTransactions(t *testing.T) {
	db := openTestDB(t)
	store := New(db, zaptest.NewLogger(t))

	for i := 0; i < 3; i++ {
		insertTxn(t, db, fmt.Sprintf("TXN-C%d", i), 100, "USA", models.PaymentMethodWire, models.RiskCategoryLow, time.Now().UTC())
	}
	count, err := store.CountTransactions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestSeederDeterministicAndIdempotent(t *testing.T) {
	logger := zaptest.NewLogger(t)
	screener := screening.NewScreener(logger.Sugar(), screening.DefaultConfig(), []string{"Caspian Exports"})

	db := openTestDB(t)
	seeder := NewSeeder(db, logger, screener, 42)
	require.NoError(t, seeder.Seed(20, 200))

	var suppliers, transactions int64
	require.NoError(t, db.Model(&models.Supplier{}).Count(&suppliers).Error)
	require.NoError(t, db.Model(&models.Transaction{}).Count(&transactions).Error)
	assert.Equal(t, int64(20), suppliers)
	assert.Equal(t, int64(200), transactions)

	// Re-running against a populated database is a no-op.
	require.NoError(t, seeder.Seed(20, 200))
	var after int64
	require.NoError(t, db.Model(&models.Transaction{}).Count(&after).Error)
	assert.Equal(t, transactions, after)

	// High-risk jurisdictions never seed LOW or MEDIUM suppliers.
	var lowHighRisk int64
	require.NoError(t, db.Model(&models.Supplier{}).
		Where("country IN ?", []string{"Russia", "Iran", "North Korea"}).
		Where("risk_category IN ?", []string{models.RiskCategoryLow, models.RiskCategoryMedium}).
		Count(&lowHighRisk).Error)
	assert.Zero(t, lowHighRisk)

	// PEP flag and category stay consistent.
	var inconsistent int64
	require.NoError(t, db.Model(&models.Supplier{}).
		Where("is_pep = ? AND risk_category <> ?", true, models.RiskCategoryPEP).
		Count(&inconsistent).Error)
	assert.Zero(t, inconsistent)

	var ids []string
	require.NoError(t, db.Model(&models.Transaction{}).Order("transaction_id").Limit(1).Pluck("transaction_id", &ids).Error)
	require.NotEmpty(t, ids)
	assert.Regexp(t, `^TXN-\d{8}-\d{6}$`, ids[0])
}
