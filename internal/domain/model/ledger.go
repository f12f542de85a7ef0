package model

import "time"

// LedgerDirection marks a ledger entry as a credit or a debit.
type LedgerDirection string

const (
	LedgerDirectionCredit LedgerDirection = "CREDIT"
	LedgerDirectionDebit  LedgerDirection = "DEBIT"
)

// LedgerEntry is an immutable record of a points credit or debit.
type LedgerEntry struct {
	ID        int64
	PersonID  int64
	Direction LedgerDirection
	Amount    int64
	Invoice   *string
	Detail    string
	CreatedAt time.Time
}
