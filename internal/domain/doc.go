// Package domain defines the meeting scheduler's core types.
//
// Persons, meetings and their participations are plain values; identifiers
// are assigned by the store. Times are naive wall-clock values (see Naive):
// the scheduler never reasons about time zones.
//
// Every rejection the scheduler or the importer can produce is a *Error with
// one of the Kind values below, so callers branch on KindOf(err) rather than
// on message text.
package domain
