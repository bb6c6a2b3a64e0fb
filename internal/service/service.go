// Package service wires the query pipeline together: classification,
// filter extraction, store reads, policy evaluation, aggregation and
// audit recording. It is the only layer that performs I/O.
package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fintrail/fintrail/internal/audit"
	"github.com/fintrail/fintrail/internal/nlquery"
	"github.com/fintrail/fintrail/internal/policy"
	"github.com/fintrail/fintrail/internal/store"
	"github.com/fintrail/fintrail/pkg/models"
)

// QueryResult is the full outcome of one natural-language query.
type QueryResult struct {
	Intent       nlquery.Intent           `json:"intent"`
	Filter       models.TransactionFilter `json:"filter"`
	Transactions []models.Transaction     `json:"transactions"`
	Violations   []policy.Violation       `json:"violations,omitempty"`
	Report       policy.Report            `json:"report"`
	AuditID      string                   `json:"audit_id"`
}

// Options tunes pipeline behavior.
type Options struct {
	// QueryLimit caps how many transactions one query reads.
	QueryLimit int
	// Recommendations adds advisories to failing reports.
	Recommendations bool
}

// Service runs the query pipeline.
type Service struct {
	store    store.Store
	engine   *policy.Engine
	table    policy.Table
	recorder *audit.Recorder
	metrics  *Metrics
	logger   *zap.Logger
	opts     Options
}

// New assembles a Service. A nil recorder disables audit recording and a
// nil metrics disables counters; both are meant for tests only.
func New(st store.Store, engine *policy.Engine, table policy.Table, recorder *audit.Recorder, metrics *Metrics, logger *zap.Logger, opts Options) *Service {
	if opts.QueryLimit <= 0 {
		opts.QueryLimit = store.DefaultLimit
	}
	return &Service{
		store:    st,
		engine:   engine,
		table:    table,
		recorder: recorder,
		metrics:  metrics,
		logger:   logger,
		opts:     opts,
	}
}

// Query answers one natural-language query. Classification and filter
// extraction never fail; errors come from the store or audit boundary
// only.
func (s *Service) Query(ctx context.Context, text string) (*QueryResult, error) {
	start := time.Now()

	intent := nlquery.Classify(text)
	filter := nlquery.ExtractFilters(text)
	filter.Limit = s.opts.QueryLimit

	if s.metrics != nil {
		s.metrics.Queries.WithLabelValues(string(intent)).Inc()
	}

	transactions, err := s.store.ReadTransactions(ctx, filter)
	if err != nil {
		return nil, err
	}

	violations := s.engine.Evaluate(transactions, s.table)
	report := policy.Aggregate(transactions, violations, s.table, s.opts.Recommendations)

	if s.metrics != nil {
		for _, v := range violations {
			s.metrics.Violations.WithLabelValues(string(v.Severity)).Inc()
		}
		s.metrics.QueryDuration.Observe(time.Since(start).Seconds())
	}

	result := &QueryResult{
		Intent:       intent,
		Filter:       filter,
		Transactions: transactions,
		Violations:   violations,
		Report:       report,
	}

	if s.recorder != nil {
		record, err := s.recorder.Record(ctx, models.AuditRecord{
			Query:                text,
			TransactionsAnalyzed: report.TotalTransactions,
			ViolationsFound:      report.ViolationsFound,
			ComplianceStatus:     report.ComplianceStatus,
			Summary:              summarize(report),
		})
		if err != nil {
			return nil, err
		}
		result.AuditID = record.AuditID
	}

	s.logger.Info("query completed",
		zap.String("intent", string(intent)),
		zap.Int("transactions", report.TotalTransactions),
		zap.Int("violations", report.ViolationsFound),
		zap.String("status", report.ComplianceStatus),
		zap.Duration("elapsed", time.Since(start)),
	)
	return result, nil
}

// Trail returns the most recent audit records, newest first.
func (s *Service) Trail(ctx context.Context, limit int) ([]models.AuditRecord, error) {
	if s.recorder == nil {
		return nil, nil
	}
	return s.recorder.Trail(ctx, limit)
}

func summarize(report policy.Report) string {
	return fmt.Sprintf("Analyzed %d transactions, found %d violations, compliance score %.1f%% (%s)",
		report.TotalTransactions, report.ViolationsFound, report.ComplianceScore, report.ComplianceStatus)
}
