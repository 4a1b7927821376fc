package duration

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	commonerrors "github.com/AlibekovAA/sap-user-gateway/backend/internal/common/errors"
)

var expiryPattern = regexp.MustCompile(`^(\d+)([smhd])$`)

var units = map[string]time.Duration{
	"s": time.Second,
	"m": time.Minute,
	"h": time.Hour,
	"d": 24 * time.Hour,
}

// Parse reads compact lifetimes such as "30m" or "7d".
func Parse(value string) (time.Duration, error) {
	match := expiryPattern.FindStringSubmatch(value)
	if match == nil {
		return 0, commonerrors.ErrInvalidConfiguration.WithCause(
			fmt.Errorf("invalid expiration format %q", value),
		)
	}

	count, err := strconv.ParseInt(match[1], 10, 64)
	if err != nil {
		return 0, commonerrors.ErrInvalidConfiguration.WithCause(err)
	}

	unit := units[match[2]]
	if count > int64(1<<63-1)/int64(unit) {
		return 0, commonerrors.ErrInvalidConfiguration.WithCause(
			fmt.Errorf("expiration %q overflows", value),
		)
	}

	return time.Duration(count) * unit, nil
}

// Resolve returns the absolute instant value after now.
func Resolve(now time.Time, value string) (time.Time, error) {
	d, err := Parse(value)
	if err != nil {
		return time.Time{}, err
	}
	return now.Add(d), nil
}
