package hours

import (
	"github.com/teamworkfission/timebuddyv1-sub000/internal/domain/fault"
	"github.com/teamworkfission/timebuddyv1-sub000/internal/domain/timecodec"
)

var DayNames = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// ValidateDaily checks each daily value against the 0-24 hour bounds.
func ValidateDaily(values [7]float64) error {
	for i, v := range values {
		if v < 0 || v > MaxDailyHours {
			return fault.Validation("invalid_daily_hours", "%s hours %.2f must be between 0 and 24", DayNames[i], v)
		}
	}
	return nil
}

// Total folds the seven daily values, rounding after each addition so
// the stored total matches the sum a client computes from rounded rows.
func Total(values [7]float64) float64 {
	total := 0.0
	for _, v := range values {
		total = timecodec.Round2(total + v)
	}
	return total
}
