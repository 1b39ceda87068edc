package domain

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// DateLayout - формат дат в JSON API (releaseDate, birthday).
const DateLayout = "2006-01-02"

// Date - календарная дата без времени суток.
// Сериализуется в JSON как "YYYY-MM-DD" и хранится в колонке типа DATE.
type Date struct {
	time.Time
}

// NewDate создает дату по году, месяцу и дню (UTC).
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`null`), nil
	}
	return []byte(`"` + d.Format(DateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return fmt.Errorf("invalid date %q, expected format %s: %w", s, DateLayout, err)
	}
	d.Time = t
	return nil
}

// Value реализует driver.Valuer для записи в БД.
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.Time, nil
}

// Scan реализует sql.Scanner для чтения из БД.
func (d *Date) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		d.Time = time.Time{}
		return nil
	case time.Time:
		d.Time = v
		return nil
	case []byte:
		t, err := time.Parse(DateLayout, string(v))
		if err != nil {
			return fmt.Errorf("failed to scan date from %q: %w", string(v), err)
		}
		d.Time = t
		return nil
	case string:
		t, err := time.Parse(DateLayout, v)
		if err != nil {
			return fmt.Errorf("failed to scan date from %q: %w", v, err)
		}
		d.Time = t
		return nil
	default:
		return fmt.Errorf("unsupported type %T for date scan", src)
	}
}

// Before сравнивает только календарные даты.
func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

// After сравнивает только календарные даты.
func (d Date) After(other Date) bool {
	return d.Time.After(other.Time)
}
