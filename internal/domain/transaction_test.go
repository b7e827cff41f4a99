package domain

import (
	"strings"
	"testing"
	"time"
)

func TestTransactionValidate(t *testing.T) {
	date := time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		tx      Transaction
		wantErr bool
	}{
		{"valid expense", Transaction{Type: TransactionExpense, Amount: 10, Date: date}, false},
		{"valid transfer", Transaction{Type: TransactionTransfer, Amount: 1, Date: date}, false},
		{"unknown type", Transaction{Type: "refund", Amount: 10, Date: date}, true},
		{"zero amount", Transaction{Type: TransactionIncome, Amount: 0, Date: date}, true},
		{"negative amount", Transaction{Type: TransactionIncome, Amount: -5, Date: date}, true},
		{"missing date", Transaction{Type: TransactionIncome, Amount: 5}, true},
		{"long description", Transaction{Type: TransactionIncome, Amount: 5, Date: date, Description: strings.Repeat("x", 501)}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.tx.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
			if err != nil && !IsValidationError(err) {
				t.Fatalf("Validate() returned %T, want validation error", err)
			}
		})
	}
}

func TestTransactionPatchValidate(t *testing.T) {
	amount := 25.0
	badAmount := -1.0
	badType := TransactionType("refund")

	tests := []struct {
		name    string
		patch   TransactionPatch
		wantErr bool
	}{
		{"empty patch", TransactionPatch{}, true},
		{"amount only", TransactionPatch{Amount: &amount}, false},
		{"bad amount", TransactionPatch{Amount: &badAmount}, true},
		{"bad type", TransactionPatch{Type: &badType}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.patch.Validate(); (err != nil) != tc.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestTransactionFilterNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   TransactionFilter
		want TransactionFilter
	}{
		{
			name: "defaults",
			in:   TransactionFilter{},
			want: TransactionFilter{Page: 1, Limit: 20, Sort: "date", Order: "desc"},
		},
		{
			name: "limit clamped to max",
			in:   TransactionFilter{Page: 2, Limit: 1000, Sort: "amount", Order: "asc"},
			want: TransactionFilter{Page: 2, Limit: MaxPageSize, Sort: "amount", Order: "asc"},
		},
		{
			name: "page zero becomes one",
			in:   TransactionFilter{Page: 0, Limit: 50},
			want: TransactionFilter{Page: 1, Limit: 50, Sort: "date", Order: "desc"},
		},
		{
			name: "sort outside whitelist falls back",
			in:   TransactionFilter{Sort: "user_id; DROP TABLE", Order: "sideways"},
			want: TransactionFilter{Page: 1, Limit: 20, Sort: "date", Order: "desc"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.in.Normalize()
			if tc.in != tc.want {
				t.Fatalf("Normalize() = %+v, want %+v", tc.in, tc.want)
			}
		})
	}
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{1.005, 1.0},
		{1.015, 1.01},
		{2.674, 2.67},
		{-1.555, -1.55},
		{100, 100},
	}
	for _, tc := range tests {
		if got := Round2(tc.in); got != tc.want {
			t.Fatalf("Round2(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
