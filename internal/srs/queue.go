package srs

import (
	"sort"
	"time"

	"github.com/Stephen-Garner/UniLexApp2-sub001/pkg/models"
)

// NextDue filters reviewed entries that are due at now, orders them by
// priority, and returns at most limit of them (limit < 0 means no limit).
// Entries without scheduler history are not due; they enter sessions
// through Unseen instead.
//
// The input slice is not modified. Ties keep their input order, so the
// result is deterministic for a fixed pool.
func NextDue(entries []models.PoolEntry, limit int, now time.Time) []models.PoolEntry {
	var due []models.PoolEntry
	for _, e := range entries {
		if e.Seen() && e.State.IsDue(now) {
			due = append(due, e)
		}
	}

	SortByPriority(due)

	if limit >= 0 && len(due) > limit {
		return due[:limit]
	}
	return due
}

// Unseen returns the entries with no scheduler history, in input order.
func Unseen(entries []models.PoolEntry) []models.PoolEntry {
	var out []models.PoolEntry
	for _, e := range entries {
		if !e.Seen() {
			out = append(out, e)
		}
	}
	return out
}

// SortByPriority orders entries in place: never-reviewed first, then lowest
// ease factor, then earliest due time.
func SortByPriority(entries []models.PoolEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		ei, ej := entries[i], entries[j]

		if !ei.Seen() && ej.Seen() {
			return true
		}
		if !ej.Seen() && ei.Seen() {
			return false
		}
		if !ei.Seen() && !ej.Seen() {
			return false
		}

		if ei.State.EaseFactor != ej.State.EaseFactor {
			return ei.State.EaseFactor < ej.State.EaseFactor
		}

		return ei.State.DueAt.Before(ej.State.DueAt)
	})
}
