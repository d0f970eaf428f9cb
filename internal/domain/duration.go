package domain

import (
	"strconv"
	"strings"
	"time"
)

// DurationBucket is a coarse length class used by the duration filter.
type DurationBucket string

const (
	DurationShort  DurationBucket = "short"  // under 10 minutes
	DurationMedium DurationBucket = "medium" // 10 to 30 minutes
	DurationLong   DurationBucket = "long"   // over 30 minutes
)

const (
	shortUpperMinutes  = 10.0
	mediumUpperMinutes = 30.0
)

// BucketFor classifies a length in minutes.
func BucketFor(minutes float64) DurationBucket {
	switch {
	case minutes < shortUpperMinutes:
		return DurationShort
	case minutes <= mediumUpperMinutes:
		return DurationMedium
	default:
		return DurationLong
	}
}

// ParseDurationMinutes parses the duration formats used by the content APIs:
//
//	"1:02:03"  hours:minutes:seconds
//	"15:30"    minutes:seconds
//	"5m30s"    Go duration syntax
//	"45"       bare minutes
//	"45 min"   minutes with unit suffix
func ParseDurationMinutes(s string) (float64, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return 0, false
	}

	if strings.Contains(s, ":") {
		return parseClock(s)
	}

	if d, err := time.ParseDuration(s); err == nil {
		if d < 0 {
			return 0, false
		}
		return d.Minutes(), true
	}

	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSuffix(s, "min"), "minutes"))
	if n, err := strconv.ParseFloat(s, 64); err == nil && n >= 0 {
		return n, true
	}

	return 0, false
}

func parseClock(s string) (float64, bool) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, false
	}

	total := 0
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 {
			return 0, false
		}
		total = total*60 + n
	}

	// total is in seconds for both mm:ss and h:mm:ss
	return float64(total) / 60, true
}
