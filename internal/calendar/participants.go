package calendar

import (
	"strings"

	"github.com/samber/lo"
)

const participantsPrefix = "participants:"

// participantsLine reports whether line (already trimmed) carries the
// participant list, and returns what follows the prefix.
func participantsLine(line string) (string, bool) {
	if len(line) < len(participantsPrefix) || !strings.EqualFold(line[:len(participantsPrefix)], participantsPrefix) {
		return "", false
	}
	return line[len(participantsPrefix):], true
}

// ExtractParticipants returns the names listed on the first
// "Participants:" line of description (prefix matched case-insensitively).
// Names are trimmed and empty entries dropped. The result is empty, not nil,
// when there is no such line.
func ExtractParticipants(description string) []string {
	for _, line := range strings.Split(description, "\n") {
		rest, ok := participantsLine(strings.TrimSpace(line))
		if !ok {
			continue
		}
		return lo.FilterMap(strings.Split(rest, ","), func(name string, _ int) (string, bool) {
			name = strings.TrimSpace(name)
			return name, name != ""
		})
	}
	return []string{}
}

// RemoveParticipants drops every "Participants:" line from description,
// trims the remaining lines, and removes blank ones.
func RemoveParticipants(description string) string {
	lines := lo.FilterMap(strings.Split(description, "\n"), func(line string, _ int) (string, bool) {
		line = strings.TrimSpace(line)
		if _, ok := participantsLine(line); ok {
			return "", false
		}
		return line, line != ""
	})
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// embedParticipants appends the participant line to description.
func embedParticipants(description string, names []string) string {
	return description + "\nParticipants: " + strings.Join(names, ", ")
}
