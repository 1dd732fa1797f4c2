package store

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sufyan123ayaz/Bank-Clone/internal/domain"
)

// DemoAccountNumber is the hard-coded account shown on the bank card.
const DemoAccountNumber = "4532789012345678"

var demoBalance = decimal.RequireFromString("12459.32")

type demoRow struct {
	id          string
	description string
	amount      string
	direction   domain.Direction
	status      domain.TransactionStatus
	hoursAgo    int
}

var demoRows = []demoRow{
	{"1", "Salary Deposit", "5000", domain.DirectionCredit, domain.TransactionStatusSuccess, 2},
	{"2", "Electric Bill Payment", "125.50", domain.DirectionDebit, domain.TransactionStatusSuccess, 24},
	{"3", "Online Shopping - Amazon", "89.99", domain.DirectionDebit, domain.TransactionStatusSuccess, 48},
	{"4", "Transfer from John Smith", "250", domain.DirectionCredit, domain.TransactionStatusSuccess, 72},
	{"5", "Grocery Store", "67.23", domain.DirectionDebit, domain.TransactionStatusSuccess, 96},
	{"6", "Netflix Subscription", "15.99", domain.DirectionDebit, domain.TransactionStatusSuccess, 120},
	{"7", "Transfer to Jane Doe", "500", domain.DirectionDebit, domain.TransactionStatusPending, 144},
	{"8", "Interest Payment", "12.50", domain.DirectionCredit, domain.TransactionStatusSuccess, 168},
	{"9", "Failed Transfer", "1000", domain.DirectionDebit, domain.TransactionStatusFailed, 192},
	{"10", "Freelance Payment", "850", domain.DirectionCredit, domain.TransactionStatusSuccess, 216},
}

// recentRows is the dashboard's own activity feed. It uses shorter labels than
// the history page, and its John transfer is still pending.
var recentRows = []demoRow{
	{"1", "Salary Deposit", "5000", domain.DirectionCredit, domain.TransactionStatusSuccess, 2},
	{"2", "Electric Bill", "125.50", domain.DirectionDebit, domain.TransactionStatusSuccess, 24},
	{"3", "Online Shopping", "89.99", domain.DirectionDebit, domain.TransactionStatusSuccess, 48},
	{"4", "Transfer from John", "250", domain.DirectionCredit, domain.TransactionStatusPending, 72},
}

// DemoRepository serves the hard-coded dashboard data. Timestamps are fixed
// relative to the moment the repository was created.
type DemoRepository struct {
	records []domain.TransactionRecord
	recent  []domain.TransactionRecord
}

// NewDemoRepository builds the demo data set anchored at now.
func NewDemoRepository(now time.Time) *DemoRepository {
	return &DemoRepository{
		records: buildRecords(demoRows, now),
		recent:  buildRecords(recentRows, now),
	}
}

func buildRecords(rows []demoRow, now time.Time) []domain.TransactionRecord {
	records := make([]domain.TransactionRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, domain.TransactionRecord{
			ID:          row.id,
			Description: row.description,
			Amount:      decimal.RequireFromString(row.amount),
			Direction:   row.direction,
			Status:      row.status,
			Timestamp:   now.Add(-time.Duration(row.hoursAgo) * time.Hour).UTC(),
		})
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp.After(records[j].Timestamp)
	})
	return records
}

// ListTransactions returns a copy of the demo history, newest first.
func (r *DemoRepository) ListTransactions(ctx context.Context) ([]domain.TransactionRecord, error) {
	return append([]domain.TransactionRecord(nil), r.records...), nil
}

// RecentTransactions returns a copy of the dashboard activity feed, newest first.
func (r *DemoRepository) RecentTransactions(ctx context.Context) ([]domain.TransactionRecord, error) {
	return append([]domain.TransactionRecord(nil), r.recent...), nil
}

// AccountSummary returns the bank card figures. HolderName is left for the caller.
func (r *DemoRepository) AccountSummary(ctx context.Context) (domain.AccountSummary, error) {
	return domain.AccountSummary{
		AccountNumber:        DemoAccountNumber,
		AccountNumberDisplay: domain.FormatAccountNumber(DemoAccountNumber),
		Balance:              demoBalance,
		BalanceDisplay:       domain.FormatUSD(demoBalance),
	}, nil
}

// MonthlyStats returns the income and expense cards.
func (r *DemoRepository) MonthlyStats(ctx context.Context) ([]domain.StatCard, error) {
	income := decimal.NewFromInt(5250)
	expenses := decimal.RequireFromString("2340.50")
	return []domain.StatCard{
		{Title: "Monthly Income", Value: income, ValueDisplay: domain.FormatUSD(income), TrendPercent: 12, TrendPositive: true},
		{Title: "Monthly Expenses", Value: expenses, ValueDisplay: domain.FormatUSD(expenses), TrendPercent: 3, TrendPositive: false},
	}, nil
}

// LoginActivity returns the recent login list.
func (r *DemoRepository) LoginActivity(ctx context.Context) ([]domain.LoginActivity, error) {
	return []domain.LoginActivity{
		{ID: "1", Device: "Chrome on Windows", Location: "New York, US", Time: "Just now", Status: domain.LoginStatusCurrent},
		{ID: "2", Device: "Safari on iPhone", Location: "New York, US", Time: "2 hours ago", Status: domain.LoginStatusSuccess},
		{ID: "3", Device: "Firefox on MacOS", Location: "Los Angeles, US", Time: "1 day ago", Status: domain.LoginStatusSuccess},
		{ID: "4", Device: "Unknown Device", Location: "Unknown Location", Time: "3 days ago", Status: domain.LoginStatusBlocked},
	}, nil
}
