// Package timex holds small time helpers used by the configuration layers.
package timex

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Duration wraps time.Duration so that JSON config files may use either a
// Go duration string ("90s", "168h") or an integer count of nanoseconds.
type Duration struct {
	Duration time.Duration
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Duration.String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
		return nil
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			// bare numbers in quotes are nanoseconds too
			n, nerr := strconv.ParseInt(value, 10, 64)
			if nerr != nil {
				return fmt.Errorf("invalid duration %q: %w", value, err)
			}
			parsed = time.Duration(n)
		}
		d.Duration = parsed
		return nil
	default:
		return fmt.Errorf("invalid duration type %T", v)
	}
}
