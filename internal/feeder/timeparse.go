package feeder

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/petprotect/hub/internal/errors"
)

var (
	twelveHourRe     = regexp.MustCompile(`^(\d{1,2}):(\d{2})\s?(AM|PM)$`)
	twentyFourHourRe = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):([0-5][0-9])$`)
)

// Normalize converts a feeding time to canonical 24-hour "HH:MM" form.
// Accepted inputs are 12-hour with meridiem ("4:30 PM") and 24-hour
// ("16:30"); anything else is a format error. Equivalent times always
// normalize to the same canonical string.
func Normalize(input string) (string, error) {
	cleaned := strings.ToUpper(strings.TrimSpace(input))

	if m := twelveHourRe.FindStringSubmatch(cleaned); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		if hour < 1 || hour > 12 || minute > 59 {
			return "", errors.NewFormatError(fmt.Sprintf("invalid time format: %q", input), nil)
		}
		if m[3] == "PM" && hour < 12 {
			hour += 12
		}
		if m[3] == "AM" && hour == 12 {
			hour = 0
		}
		return fmt.Sprintf("%02d:%s", hour, m[2]), nil
	}

	if m := twentyFourHourRe.FindStringSubmatch(cleaned); m != nil {
		hour, _ := strconv.Atoi(m[1])
		return fmt.Sprintf("%02d:%s", hour, m[2]), nil
	}

	return "", errors.NewFormatError(fmt.Sprintf("invalid time format: %q", input), nil)
}
