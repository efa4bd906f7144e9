package models

import (
	"fmt"
	"strconv"
	"strings"

	apperrors "giveaway-bot/internal/common/errors"
)

// ParseWinnerIDs parses one user id per line. Blank lines are skipped; duplicates keep
// their first position.
func ParseWinnerIDs(content string) ([]string, error) {
	lines := strings.Split(content, "\n")

	var userIDs []string
	seen := make(map[string]bool)

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		id, err := ParseUserID(line)
		if err != nil {
			return nil, err
		}
		if !seen[id] {
			seen[id] = true
			userIDs = append(userIDs, id)
		}
	}

	return userIDs, nil
}

// ParseUserID validates a single numeric user id and returns it in canonical form.
func ParseUserID(s string) (string, error) {
	s = strings.TrimSpace(s)
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil || n == 0 {
		return "", apperrors.New(apperrors.ErrCodeInvalidIdentity, fmt.Sprintf("invalid user id format: %q", s)).
			WithDetail("value", s)
	}
	return strconv.FormatUint(n, 10), nil
}

// Mention renders a user reference understood by the chat platform.
func Mention(userID string) string {
	return "<@" + userID + ">"
}

// MentionList joins mentions with ", ".
func MentionList(userIDs []string) string {
	mentions := make([]string, len(userIDs))
	for i, id := range userIDs {
		mentions[i] = Mention(id)
	}
	return strings.Join(mentions, ", ")
}
