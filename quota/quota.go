// Package quota enforces per-user daily rendering budgets. Days are civil
// dates in one configured timezone for every user, so the window rolls over
// at local midnight regardless of where requests come from.
package quota

import (
	"context"
	"time"

	"chronolens/apperr"
	"chronolens/database"
	"chronolens/models"
)

// Status reports a user's budget after a read or charge.
type Status struct {
	Used      int    `json:"used"`
	Limit     int    `json:"limit"`
	Remaining int    `json:"remaining"`
	Date      string `json:"date"`
}

// Tracker applies reads and charges against the quota store.
type Tracker struct {
	store database.QuotaStore
	loc   *time.Location
	now   func() time.Time
}

func NewTracker(store database.QuotaStore, loc *time.Location) *Tracker {
	return &Tracker{store: store, loc: loc, now: time.Now}
}

func (t *Tracker) today() string {
	return t.now().In(t.loc).Format("2006-01-02")
}

// rollover resets the counter when its stored date label is not today.
// Comparing labels rather than timestamps makes the reset independent of
// how long ago the stale value was written.
func rollover(q *models.QuotaCounter, today string) {
	if q.DailyDateLabel != today {
		q.DailyDateLabel = today
		q.DailyRequestCount = 0
	}
}

// Charge spends cost units of uid's daily budget. The rollover check and
// the increment happen inside one store mutation, so concurrent charges
// cannot both consume the last unit. A charge that would exceed limit
// aborts the mutation and leaves the counter unchanged.
func (t *Tracker) Charge(ctx context.Context, uid string, cost, limit int) (*Status, error) {
	today := t.today()
	counter, err := t.store.Mutate(ctx, uid, func(q *models.QuotaCounter) error {
		rollover(q, today)
		if q.DailyRequestCount+cost > limit {
			return apperr.Newf(apperr.QuotaExceeded, "daily limit of %d renders reached", limit)
		}
		q.DailyRequestCount += cost
		return nil
	})
	if err != nil {
		return nil, err
	}
	return t.status(counter.DailyRequestCount, limit, today), nil
}

// Read reports the current budget, applying and persisting the date
// rollover so repeated reads after midnight agree. Read never fails on an
// over-limit counter; a lowered limit just clamps remaining to zero.
func (t *Tracker) Read(ctx context.Context, uid string, limit int) (*Status, error) {
	today := t.today()
	counter, err := t.store.Mutate(ctx, uid, func(q *models.QuotaCounter) error {
		rollover(q, today)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return t.status(counter.DailyRequestCount, limit, today), nil
}

func (t *Tracker) status(used, limit int, date string) *Status {
	remaining := limit - used
	if remaining < 0 {
		remaining = 0
	}
	return &Status{Used: used, Limit: limit, Remaining: remaining, Date: date}
}
