package challenges

import (
	"hash/fnv"
	"time"

	"github.com/jonathan/interview-prep/internal/db"
)

// DateKey formats the calendar day a pick is made for, in UTC.
func DateKey(date time.Time) string {
	return date.UTC().Format("2006-01-02")
}

// PickDaily returns the challenge for the given day. The same day and list
// always yield the same challenge; the list must be in a stable order.
func PickDaily(date time.Time, challenges []db.Challenge) (*db.Challenge, error) {
	if len(challenges) == 0 {
		return nil, ErrNoChallenges
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(DateKey(date)))
	idx := int(h.Sum32() % uint32(len(challenges)))
	c := challenges[idx]
	return &c, nil
}
