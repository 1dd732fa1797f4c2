/**
 * @description
 * Read-only demo records shown on the dashboard and the history page, plus the
 * filter and totals types used to browse them.
 */

package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Direction tells whether money came in or went out.
type Direction string

const (
	DirectionCredit Direction = "credit"
	DirectionDebit  Direction = "debit"
)

// TransactionStatus is the settlement state of a demo record.
type TransactionStatus string

const (
	TransactionStatusSuccess TransactionStatus = "success"
	TransactionStatusPending TransactionStatus = "pending"
	TransactionStatusFailed  TransactionStatus = "failed"
)

// FilterAll matches every direction or status.
const FilterAll = "all"

// TransactionRecord is a single line of the demo transaction history.
type TransactionRecord struct {
	ID          string            `json:"id"`
	Description string            `json:"description"`
	Amount      decimal.Decimal   `json:"amount"`
	Direction   Direction         `json:"type"`
	Status      TransactionStatus `json:"status"`
	Timestamp   time.Time         `json:"date"`
	Recipient   *string           `json:"recipient,omitempty"`
}

// SignedDisplay renders the amount with a leading "+" for credits and "-" for debits.
func (t TransactionRecord) SignedDisplay() string {
	if t.Direction == DirectionCredit {
		return "+" + FormatUSD(t.Amount)
	}
	return "-" + FormatUSD(t.Amount)
}

// HistoryFilter narrows the history list. Empty Direction/Status mean "all".
type HistoryFilter struct {
	Search    string
	Direction string
	Status    string
}

// Matches reports whether rec passes the filter.
func (f HistoryFilter) Matches(rec TransactionRecord) bool {
	if f.Search != "" && !strings.Contains(strings.ToLower(rec.Description), strings.ToLower(f.Search)) {
		return false
	}
	if f.Direction != "" && f.Direction != FilterAll && string(rec.Direction) != f.Direction {
		return false
	}
	if f.Status != "" && f.Status != FilterAll && string(rec.Status) != f.Status {
		return false
	}
	return true
}

// HistoryTotals summarizes successful records only.
type HistoryTotals struct {
	TotalIncome   decimal.Decimal `json:"totalIncome"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	NetBalance    decimal.Decimal `json:"netBalance"`
}

// ComputeTotals sums successful credits and debits across records.
func ComputeTotals(records []TransactionRecord) HistoryTotals {
	income := decimal.Zero
	expenses := decimal.Zero
	for _, rec := range records {
		if rec.Status != TransactionStatusSuccess {
			continue
		}
		switch rec.Direction {
		case DirectionCredit:
			income = income.Add(rec.Amount)
		case DirectionDebit:
			expenses = expenses.Add(rec.Amount)
		}
	}
	return HistoryTotals{
		TotalIncome:   income,
		TotalExpenses: expenses,
		NetBalance:    income.Sub(expenses),
	}
}
