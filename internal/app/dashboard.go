/**
 * @description
 * Read side of the dashboard: the overview page, the filtered transaction
 * history, and its CSV export.
 */
package app

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/sufyan123ayaz/Bank-Clone/internal/domain"
)

// recentLimit is the number of records on the dashboard overview.
const recentLimit = 4

// TransactionStore lists demo records, newest first.
type TransactionStore interface {
	ListTransactions(ctx context.Context) ([]domain.TransactionRecord, error)
}

// AccountStore provides the demo account figures.
type AccountStore interface {
	AccountSummary(ctx context.Context) (domain.AccountSummary, error)
	MonthlyStats(ctx context.Context) ([]domain.StatCard, error)
	RecentTransactions(ctx context.Context) ([]domain.TransactionRecord, error)
	LoginActivity(ctx context.Context) ([]domain.LoginActivity, error)
}

// Overview is everything the dashboard landing page shows.
type Overview struct {
	DisplayName string                     `json:"displayName"`
	Account     domain.AccountSummary      `json:"account"`
	Stats       []domain.StatCard          `json:"stats"`
	Recent      []domain.TransactionRecord `json:"recentTransactions"`
}

// History is a filtered page of transactions plus totals over the whole history.
type History struct {
	Transactions []domain.TransactionRecord `json:"transactions"`
	Totals       domain.HistoryTotals       `json:"totals"`
	Count        int                        `json:"count"`
}

// DashboardService serves the read-only dashboard views.
type DashboardService struct {
	transactions TransactionStore
	accounts     AccountStore
	logger       *slog.Logger
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(transactions TransactionStore, accounts AccountStore, logger *slog.Logger) *DashboardService {
	return &DashboardService{transactions: transactions, accounts: accounts, logger: logger}
}

// Overview builds the landing page for user.
func (s *DashboardService) Overview(ctx context.Context, user domain.User) (Overview, error) {
	account, err := s.accounts.AccountSummary(ctx)
	if err != nil {
		return Overview{}, fmt.Errorf("load account summary: %w", err)
	}
	account.HolderName = user.DisplayName

	stats, err := s.accounts.MonthlyStats(ctx)
	if err != nil {
		return Overview{}, fmt.Errorf("load monthly stats: %w", err)
	}

	records, err := s.accounts.RecentTransactions(ctx)
	if err != nil {
		return Overview{}, fmt.Errorf("list recent transactions: %w", err)
	}
	if len(records) > recentLimit {
		records = records[:recentLimit]
	}

	return Overview{
		DisplayName: user.DisplayName,
		Account:     account,
		Stats:       stats,
		Recent:      records,
	}, nil
}

// History applies filter to the transaction list. Totals always cover every
// successful record, whatever the filter.
func (s *DashboardService) History(ctx context.Context, filter domain.HistoryFilter) (History, error) {
	records, err := s.transactions.ListTransactions(ctx)
	if err != nil {
		return History{}, fmt.Errorf("list transactions: %w", err)
	}

	filtered := make([]domain.TransactionRecord, 0, len(records))
	for _, rec := range records {
		if filter.Matches(rec) {
			filtered = append(filtered, rec)
		}
	}

	return History{
		Transactions: filtered,
		Totals:       domain.ComputeTotals(records),
		Count:        len(filtered),
	}, nil
}

// ExportCSV writes the filtered history to w as CSV.
func (s *DashboardService) ExportCSV(ctx context.Context, filter domain.HistoryFilter, w io.Writer) error {
	history, err := s.History(ctx, filter)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "date", "description", "type", "status", "amount", "recipient"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, rec := range history.Transactions {
		recipient := ""
		if rec.Recipient != nil {
			recipient = *rec.Recipient
		}
		row := []string{
			rec.ID,
			rec.Timestamp.UTC().Format(time.RFC3339),
			rec.Description,
			string(rec.Direction),
			string(rec.Status),
			rec.SignedDisplay(),
			recipient,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %s: %w", rec.ID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}

	s.logger.Info("transaction history exported", "rows", history.Count)
	return nil
}
