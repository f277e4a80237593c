package points

import (
	"context"
	"errors"

	"tutorboard/pkg/interfaces"
)

// ErrNegativeAward rejects decrements; totals only ever grow through the
// ledger.
var ErrNegativeAward = errors.New("points award cannot be negative")

// Ledger accrues validated scores into the user directory. The directory's
// in-store increment makes concurrent awards to one user safe; the ledger
// adds only the sign and zero checks.
type Ledger struct {
	dir interfaces.UserDirectory
}

// NewLedger creates a ledger over the given directory.
func NewLedger(dir interfaces.UserDirectory) *Ledger {
	return &Ledger{dir: dir}
}

// Award adds points to a user's total. Zero is a no-op, negative is an
// error, and a failed write is the caller's to log; the reply the award
// belongs to has already been delivered and cannot be revoked.
func (l *Ledger) Award(ctx context.Context, userID string, points int) error {
	if points == 0 {
		return nil
	}
	if points < 0 {
		return ErrNegativeAward
	}

	return l.dir.IncrementPoints(ctx, userID, points)
}
