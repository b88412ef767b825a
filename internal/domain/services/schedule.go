package services

import (
	"strings"
	"time"

	apperrors "lm-gateway/internal/domain/errors"
)

// Suppression windows are entered by operators in IST; the upstream expects
// epoch milliseconds.
var suppressionZone = time.FixedZone("UTC+05:30", 5*3600+30*60)

const suppressionTimeLayout = "2006-01-02 15:04"

// NormalizeTimeString strips the seconds component from a
// "YYYY-MM-DD HH:MM:SS" string. Precision below the minute is discarded on
// purpose, even though the parser could accept it.
func NormalizeTimeString(value string) string {
	if value == "" {
		return value
	}
	parts := strings.Split(value, ":")
	if len(parts) == 3 {
		return strings.Join(parts[:2], ":")
	}
	return value
}

// ConvertToEpochMillis parses a "YYYY-MM-DD HH:MM" or "YYYY-MM-DD HH:MM:SS"
// string as IST wall-clock time and returns epoch milliseconds.
func ConvertToEpochMillis(value string) (int64, error) {
	normalized := NormalizeTimeString(value)
	t, err := time.ParseInLocation(suppressionTimeLayout, normalized, suppressionZone)
	if err != nil {
		return 0, apperrors.NewInvalidTimeFormatError(
			"invalid time format, expected 'YYYY-MM-DD HH:MM'", err)
	}
	return t.UnixMilli(), nil
}
