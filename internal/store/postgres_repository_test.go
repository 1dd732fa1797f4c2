package store

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/sufyan123ayaz/Bank-Clone/internal/domain"
)

// fakeRow mimics pgx.Row for a single demo_transactions row.
type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.values) {
		return fmt.Errorf("expected %d destinations, got %d", len(r.values), len(dest))
	}
	for i, d := range dest {
		switch target := d.(type) {
		case *string:
			*target = r.values[i].(string)
		case *domain.Direction:
			*target = domain.Direction(r.values[i].(string))
		case *domain.TransactionStatus:
			*target = domain.TransactionStatus(r.values[i].(string))
		case *time.Time:
			*target = r.values[i].(time.Time)
		case **string:
			if v, ok := r.values[i].(string); ok {
				*target = &v
			}
		default:
			return fmt.Errorf("unsupported destination %T", d)
		}
	}
	return nil
}

func TestScanTransaction(t *testing.T) {
	occurred := time.Date(2024, 3, 1, 9, 30, 0, 0, time.FixedZone("EST", -5*60*60))
	row := fakeRow{values: []any{"7", "Transfer to Jane Doe", "500.10", "debit", "pending", occurred, "Jane Doe"}}

	rec, err := scanTransaction(row)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if rec.ID != "7" || rec.Description != "Transfer to Jane Doe" {
		t.Fatalf("unexpected record identity: %+v", rec)
	}
	if got := rec.Amount.StringFixed(2); got != "500.10" {
		t.Fatalf("expected amount 500.10, got %s", got)
	}
	if rec.Direction != domain.DirectionDebit || rec.Status != domain.TransactionStatusPending {
		t.Fatalf("unexpected direction/status: %s/%s", rec.Direction, rec.Status)
	}
	if rec.Timestamp.Location() != time.UTC || !rec.Timestamp.Equal(occurred) {
		t.Fatalf("expected UTC timestamp equal to %s, got %s", occurred, rec.Timestamp)
	}
	if rec.Recipient == nil || *rec.Recipient != "Jane Doe" {
		t.Fatalf("expected recipient Jane Doe, got %v", rec.Recipient)
	}
}

func TestScanTransactionWithoutRecipient(t *testing.T) {
	row := fakeRow{values: []any{"1", "Salary Deposit", "5000", "credit", "success", time.Now(), nil}}

	rec, err := scanTransaction(row)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if rec.Recipient != nil {
		t.Fatalf("expected no recipient, got %q", *rec.Recipient)
	}
}

func TestScanTransactionErrors(t *testing.T) {
	t.Run("scan failure is wrapped", func(t *testing.T) {
		scanErr := errors.New("conn busy")
		_, err := scanTransaction(fakeRow{err: scanErr})
		if !errors.Is(err, scanErr) {
			t.Fatalf("expected wrapped scan error, got %v", err)
		}
	})

	t.Run("unparsable amount names the record", func(t *testing.T) {
		row := fakeRow{values: []any{"9", "Failed Transfer", "not-a-number", "debit", "failed", time.Now(), nil}}
		_, err := scanTransaction(row)
		if err == nil {
			t.Fatal("expected amount parse error, got nil")
		}
		if !strings.Contains(err.Error(), "demo transaction 9") {
			t.Fatalf("expected record id in error, got %v", err)
		}
	})
}
