// Package calendar converts meetings to and from iCalendar (RFC 5545)
// documents.
//
// Calendar files have no field for participant names, so the codec embeds
// them in the event description as a line of the form
//
//	Participants: Ana, Bob
//
// and recovers them on decode. Times are written as floating local times
// (no offset, no TZID); on decode any offset or TZID is dropped and the
// wall clock kept.
package calendar
