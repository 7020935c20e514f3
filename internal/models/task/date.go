package task

import (
	"encoding/json"
	"fmt"
	"time"
)

// Date is a calendar day without time of day, kept at UTC midnight.
// The zero Date is unset; 0001-01-01 built by DateOf or ParseDate is not.
type Date struct {
	time.Time
	set bool
}

func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), set: true}
}

func ParseDate(raw string) (Date, error) {
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		return Date{}, fmt.Errorf("date must be formatted as YYYY-MM-DD: %w", err)
	}
	return Date{Time: t, set: true}, nil
}

// IsSet reports whether d holds a day, including 0001-01-01.
func (d Date) IsSet() bool {
	return d.set
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	parsed, err := ParseDate(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
