package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	apperrors "giveaway-bot/internal/common/errors"
)

// Duration is a parsed duration token such as "30m".
type Duration struct {
	Value   int   `json:"value"`
	Unit    byte  `json:"unit"`
	Seconds int64 `json:"seconds"`
}

// String returns the token as the organizer typed it, normalized to a lower-case unit.
func (d Duration) String() string {
	return fmt.Sprintf("%d%c", d.Value, d.Unit)
}

func (d Duration) Std() time.Duration {
	return time.Duration(d.Seconds) * time.Second
}

// UnitLimit bounds the accepted values of one unit. Max 0 means unbounded.
type UnitLimit struct {
	Seconds int64
	Max     int
	Name    string
}

// DurationLimits maps a unit character to its bounds. Units absent from the map are rejected.
type DurationLimits struct {
	Units   map[byte]UnitLimit
	Example string
}

var GiveawayDurationLimits = DurationLimits{
	Units: map[byte]UnitLimit{
		's': {Seconds: 1, Max: 60, Name: "Seconds"},
		'm': {Seconds: 60, Max: 60, Name: "Minutes"},
		'h': {Seconds: 3600, Max: 100, Name: "Hours"},
		'd': {Seconds: 86400, Name: "Days"},
	},
	Example: "1h, 30m, 2d, 60s",
}

var RerollDurationLimits = DurationLimits{
	Units: map[byte]UnitLimit{
		's': {Seconds: 1, Max: 60, Name: "Seconds"},
		'm': {Seconds: 60, Max: 60, Name: "Minutes"},
		'h': {Seconds: 3600, Max: 24, Name: "Hours"},
	},
	Example: "10s, 5m, 1h",
}

// ParseDuration converts a compact token (value followed by one unit character)
// into seconds, enforcing the per-unit bounds in limits.
func ParseDuration(token string, limits DurationLimits) (Duration, error) {
	raw := strings.TrimSpace(token)
	if raw == "" {
		return Duration{}, limits.invalid(token, "")
	}

	last, size := utf8.DecodeLastRuneInString(raw)
	if last >= utf8.RuneSelf {
		return Duration{}, limits.invalid(token, "Invalid time unit")
	}
	unit := byte(last)
	if unit >= 'A' && unit <= 'Z' {
		unit += 'a' - 'A'
	}
	limit, ok := limits.Units[unit]
	if !ok {
		return Duration{}, limits.invalid(token, "Invalid time unit")
	}

	value, err := strconv.Atoi(raw[:len(raw)-size])
	if err != nil {
		return Duration{}, limits.invalid(token, "")
	}

	if value < 1 || (limit.Max > 0 && value > limit.Max) {
		if limit.Max > 0 {
			return Duration{}, limits.invalid(token, fmt.Sprintf("%s must be between 1-%d", limit.Name, limit.Max))
		}
		return Duration{}, limits.invalid(token, fmt.Sprintf("%s must be at least 1", limit.Name))
	}
	if int64(value) > math.MaxInt64/int64(time.Second)/limit.Seconds {
		return Duration{}, limits.invalid(token, fmt.Sprintf("%s value is too large", limit.Name))
	}

	return Duration{
		Value:   value,
		Unit:    unit,
		Seconds: int64(value) * limit.Seconds,
	}, nil
}

func (l DurationLimits) invalid(token, reason string) error {
	msg := fmt.Sprintf("Invalid time format. Please use formats like: %s, etc.", l.Example)
	if reason != "" {
		msg += "\n" + reason
	}
	return apperrors.NewInvalidDurationError(token, msg)
}
