// Package state implements change detection for resolved operation hours: a
// salted fingerprint of the normalized result is compared against the last
// observed value in the store, and a cache-invalidation signal is published
// when they differ.
package state

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"operation-hours/internal/schedule"
	"operation-hours/internal/store"

	"github.com/sirupsen/logrus"
)

const (
	// StateKey is the store key holding the last observed fingerprint.
	StateKey = "operation_hours_actual_state"

	// InvalidationChannel is the cache tag published when the state changes.
	// Consumers (the rendering layer) subscribe to it to drop cached output.
	InvalidationChannel = "operation_hours:state"

	// noResultToken marks a resolution that found no open day in the horizon.
	noResultToken = "none"
)

// Fingerprinter computes and compares salted fingerprints of resolved
// operation hours. The secret is injected at construction; it keeps
// fingerprints unguessable from the outside.
type Fingerprinter struct {
	store  store.Store
	secret []byte
}

// NewFingerprinter creates a Fingerprinter over the given store.
func NewFingerprinter(st store.Store, salt string) *Fingerprinter {
	return &Fingerprinter{
		store:  st,
		secret: []byte(salt),
	}
}

// DayToken normalizes a resolved day to a coarse token: "today", "tomorrow"
// or the ISO weekday number (1-7). Ordinary day-to-day advancement keeps the
// token stable; the fingerprint only moves when the kind of day or the open
// window itself changes.
func DayToken(day, now time.Time) string {
	switch dayDiff(now, day) {
	case 0:
		return "today"
	case 1:
		return "tomorrow"
	}
	return strconv.Itoa(isoWeekday(day))
}

// canonicalResult is the serialization the fingerprint is computed over.
// Field order is fixed by the struct definition, keeping the hash stable.
type canonicalResult struct {
	Day  string `json:"day"`
	From string `json:"from"`
	To   string `json:"to"`
}

// Fingerprint computes the salted hash of a resolved result. A no-result
// outcome hashes a distinct token so that open->unavailable transitions are
// detected like any other change.
func (f *Fingerprinter) Fingerprint(result schedule.Result, found bool, now time.Time) (string, error) {
	canonical := canonicalResult{Day: noResultToken}
	if found {
		canonical = canonicalResult{
			Day:  DayToken(result.Day, now),
			From: result.From.String(),
			To:   result.To.String(),
		}
	}

	payload, err := json.Marshal(canonical)
	if err != nil {
		return "", fmt.Errorf("failed to serialize resolved result: %w", err)
	}

	mac := hmac.New(sha256.New, f.secret)
	mac.Write(payload)
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil)), nil
}

// Check compares the fingerprint of the current result against the stored one.
// On change it publishes the invalidation signal and persists the new hash;
// otherwise it has no side effect, so repeated checks with an unchanged
// schedule fire at most one invalidation. Concurrent callers may both observe
// a stale hash and double-fire; invalidation is idempotent, so that is
// acceptable and no locking is used.
func (f *Fingerprinter) Check(result schedule.Result, found bool, now time.Time) (bool, string, error) {
	current, err := f.Fingerprint(result, found, now)
	if err != nil {
		return false, "", err
	}

	previous, err := f.store.Get(StateKey)
	if err != nil && err != store.ErrNotFound {
		return false, "", fmt.Errorf("failed to read fingerprint state: %w", err)
	}

	if string(previous) == current {
		return false, current, nil
	}

	if err := f.store.Publish(InvalidationChannel, []byte(current)); err != nil {
		return false, "", fmt.Errorf("failed to publish invalidation: %w", err)
	}
	if err := f.store.Set(StateKey, []byte(current), 0); err != nil {
		return false, "", fmt.Errorf("failed to persist fingerprint state: %w", err)
	}

	logrus.WithField("channel", InvalidationChannel).Debug("Operation hours state changed, invalidation published")
	return true, current, nil
}

// dayDiff returns the signed calendar-day difference between two instants.
func dayDiff(from, to time.Time) int {
	loc := from.Location()
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, loc)
	t2 := to.In(loc)
	t := time.Date(t2.Year(), t2.Month(), t2.Day(), 0, 0, 0, 0, loc)
	// Rounding keeps the count correct across DST transitions.
	return int(math.Round(t.Sub(f).Hours() / 24))
}

// isoWeekday maps Go's Sunday-based weekday to ISO-8601 numbering (Mon=1..Sun=7).
func isoWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}
