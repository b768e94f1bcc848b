package billing

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseClock converts "HH:MM" (or "HH:MM:SS", seconds ignored) to minutes since midnight.
func ParseClock(raw string) (int, error) {
	parts := strings.Split(strings.TrimSpace(raw), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid time of day %q", raw)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 23 {
		return 0, fmt.Errorf("invalid hour in %q", raw)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("invalid minute in %q", raw)
	}
	if len(parts) == 3 {
		if seconds, err := strconv.Atoi(parts[2]); err != nil || seconds < 0 || seconds > 59 {
			return 0, fmt.Errorf("invalid second in %q", raw)
		}
	}
	return hours*60 + minutes, nil
}
