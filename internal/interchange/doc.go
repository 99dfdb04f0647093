// Package interchange moves meetings between the store and iCalendar files.
//
// Exporter writes the meetings of an interval to a calendar document.
// Reconciler reads a document back, maps participant names to registered
// persons, and schedules each event in turn, stopping at the first event
// that cannot be scheduled. Meetings imported before that point are kept.
package interchange
