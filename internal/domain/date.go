package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04:05"
)

// Date representa uma data de calendário (colunas DATE), sem hora e sem fuso.
// O valor interno é sempre normalizado para meia-noite UTC.
type Date struct {
	t time.Time
}

// NewDate cria uma Date a partir de ano, mês e dia.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf descarta a parte de hora de t, usando o calendário do fuso de t.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// ParseDate interpreta uma string no formato AAAA-MM-DD.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("data inválida %q: %w", s, err)
	}
	return DateOf(t), nil
}

func (d Date) Time() time.Time    { return d.t }
func (d Date) IsZero() bool       { return d.t.IsZero() }
func (d Date) Before(o Date) bool { return d.t.Before(o.t) }
func (d Date) After(o Date) bool  { return d.t.After(o.t) }
func (d Date) Equal(o Date) bool  { return d.t.Equal(o.t) }
func (d Date) AddDays(n int) Date { return Date{t: d.t.AddDate(0, 0, n)} }
func (d Date) String() string     { return d.t.Format(DateLayout) }

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value envia a data como texto AAAA-MM-DD; o PostgreSQL converte para DATE.
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.String(), nil
}

func (d *Date) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*d = Date{}
		return nil
	case time.Time:
		*d = DateOf(v)
		return nil
	case string:
		return d.scanString(v)
	case []byte:
		return d.scanString(string(v))
	default:
		return fmt.Errorf("não é possível converter %T em Date", src)
	}
}

func (d *Date) scanString(s string) error {
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ClockTime representa uma hora do relógio (colunas TIME sem fuso), com precisão de segundos.
type ClockTime struct {
	t time.Time
}

func NewClockTime(hour, min, sec int) ClockTime {
	return ClockTime{t: time.Date(0, time.January, 1, hour, min, sec, 0, time.UTC)}
}

// ClockOf extrai hora, minuto e segundo de t.
func ClockOf(t time.Time) ClockTime {
	return NewClockTime(t.Hour(), t.Minute(), t.Second())
}

// ParseClockTime aceita HH:MM:SS (frações de segundo são descartadas).
func ParseClockTime(s string) (ClockTime, error) {
	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		return ClockTime{}, fmt.Errorf("hora inválida %q: %w", s, err)
	}
	return ClockOf(t), nil
}

func (c ClockTime) Hour() int              { return c.t.Hour() }
func (c ClockTime) Minute() int            { return c.t.Minute() }
func (c ClockTime) Second() int            { return c.t.Second() }
func (c ClockTime) Equal(o ClockTime) bool { return c.t.Equal(o.t) }
func (c ClockTime) String() string         { return c.t.Format(ClockLayout) }

func (c ClockTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *ClockTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseClockTime(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func (c ClockTime) Value() (driver.Value, error) {
	return c.String(), nil
}

func (c *ClockTime) Scan(src interface{}) error {
	var (
		parsed ClockTime
		err    error
	)
	switch v := src.(type) {
	case time.Time:
		parsed = ClockOf(v)
	case string:
		parsed, err = ParseClockTime(v)
	case []byte:
		parsed, err = ParseClockTime(string(v))
	default:
		return fmt.Errorf("não é possível converter %T em ClockTime", src)
	}
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
