// Package iso8601 implements fixed-grammar ISO8601 date, time, offset and
// duration parsers. Error offsets are relative to the parsed text.
package iso8601

import (
	"math"
	"time"

	"github.com/viant/typedjson/jsonerr"
)

// Unspecified is the location of values without an offset, and of values
// carrying the RFC3339 unknown local offset -00:00. It is distinct from time.UTC.
var Unspecified = time.FixedZone("", 0)

type parser struct {
	text []byte
	pos  int
}

func (p *parser) eof() bool { return p.pos >= len(p.text) }

func (p *parser) peek() byte {
	if p.pos >= len(p.text) {
		return 0
	}
	return p.text[p.pos]
}

func (p *parser) syntax(format string, args ...interface{}) error {
	if p.eof() {
		return jsonerr.New(jsonerr.UnexpectedEndOfInput, p.pos, format, args...)
	}
	return jsonerr.New(jsonerr.ExpectedCharacter, p.pos, format, args...)
}

func (p *parser) runLength() int {
	n := 0
	for i := p.pos; i < len(p.text) && isDigit(p.text[i]); i++ {
		n++
	}
	return n
}

// fixed reads exactly n digits.
func (p *parser) fixed(n int) (int, bool) {
	if p.pos+n > len(p.text) {
		return 0, false
	}
	v := 0
	for i := p.pos; i < p.pos+n; i++ {
		if !isDigit(p.text[i]) {
			return 0, false
		}
		v = v*10 + int(p.text[i]-'0')
	}
	p.pos += n
	return v, true
}

// fraction reads the digits after ',' or '.'; at least one digit is required.
func (p *parser) fraction() ([]byte, error) {
	start := p.pos
	for p.pos < len(p.text) && isDigit(p.text[p.pos]) {
		p.pos++
	}
	if p.pos == start {
		return nil, p.syntax("expected fraction digit")
	}
	return p.text[start:p.pos], nil
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

type dateForm int

const (
	calendarDate dateForm = iota
	ordinalDate
	weekDate
)

type fields struct {
	form     dateForm
	year     int
	month    int
	day      int
	ordinal  int
	week     int
	weekday  int
	hour     int
	minute   int
	second   int
	fracUnit time.Duration
	fracText []byte
	loc      *time.Location
}

// ParseDateTime parses an ISO8601 calendar, ordinal or week date with an
// optional time and offset. Values without an offset, or with -00:00, are
// placed in Unspecified; Z and +00:00 yield time.UTC.
func ParseDateTime(text []byte) (time.Time, error) {
	p := &parser{text: text}
	f := fields{month: 1, day: 1, loc: Unspecified}
	if err := p.date(&f); err != nil {
		return time.Time{}, err
	}
	if !p.eof() {
		if c := p.peek(); c != 'T' && c != 't' {
			return time.Time{}, p.syntax("expected 'T'")
		}
		p.pos++
		if err := p.clock(&f); err != nil {
			return time.Time{}, err
		}
		if err := p.offset(&f); err != nil {
			return time.Time{}, err
		}
	}
	if !p.eof() {
		return time.Time{}, p.syntax("unexpected '%c'", p.peek())
	}
	return f.build()
}

func (p *parser) date(f *fields) error {
	var ok bool
	if f.year, ok = p.fixed(4); !ok {
		return p.syntax("expected four digit year")
	}
	extended := p.peek() == '-'
	if extended {
		p.pos++
	}
	if p.peek() == 'W' {
		p.pos++
		f.form = weekDate
		if f.week, ok = p.fixed(2); !ok {
			return p.syntax("expected week number")
		}
		f.weekday = 1
		if extended {
			if p.peek() == '-' {
				p.pos++
				if f.weekday, ok = p.fixed(1); !ok {
					return p.syntax("expected week day")
				}
			}
		} else if isDigit(p.peek()) {
			f.weekday, _ = p.fixed(1)
		}
		return nil
	}
	n := p.runLength()
	switch {
	case n == 3:
		f.form = ordinalDate
		f.ordinal, _ = p.fixed(3)
	case extended && n == 2:
		f.month, _ = p.fixed(2)
		if p.peek() == '-' {
			p.pos++
			if f.day, ok = p.fixed(2); !ok || isDigit(p.peek()) {
				return p.syntax("expected two digit day")
			}
		}
	case !extended && n == 4:
		f.month, _ = p.fixed(2)
		f.day, _ = p.fixed(2)
	default:
		return p.syntax("invalid date")
	}
	return nil
}

func (p *parser) clock(f *fields) error {
	var ok bool
	if f.hour, ok = p.fixed(2); !ok {
		return p.syntax("expected two digit hour")
	}
	f.fracUnit = time.Hour
	extended := p.peek() == ':'
	if extended || isDigit(p.peek()) {
		if extended {
			p.pos++
		}
		if f.minute, ok = p.fixed(2); !ok {
			return p.syntax("expected two digit minute")
		}
		f.fracUnit = time.Minute
		if (extended && p.peek() == ':') || (!extended && isDigit(p.peek())) {
			if extended {
				p.pos++
			}
			if f.second, ok = p.fixed(2); !ok {
				return p.syntax("expected two digit second")
			}
			f.fracUnit = time.Second
		}
	}
	if c := p.peek(); c == '.' || c == ',' {
		p.pos++
		frac, err := p.fraction()
		if err != nil {
			return err
		}
		f.fracText = frac
	}
	return nil
}

func (p *parser) offset(f *fields) error {
	if p.eof() {
		return nil
	}
	sign := p.peek()
	switch sign {
	case 'Z', 'z':
		p.pos++
		f.loc = time.UTC
		return nil
	case '+', '-':
		p.pos++
	default:
		return p.syntax("expected offset")
	}
	hours, ok := p.fixed(2)
	if !ok {
		return p.syntax("expected two digit offset hour")
	}
	minutes := 0
	if p.peek() == ':' {
		p.pos++
		if minutes, ok = p.fixed(2); !ok {
			return p.syntax("expected two digit offset minute")
		}
	} else if isDigit(p.peek()) {
		if minutes, ok = p.fixed(2); !ok {
			return p.syntax("expected two digit offset minute")
		}
	}
	if hours > 23 || minutes > 59 {
		return jsonerr.New(jsonerr.InvalidCalendarValue, p.pos, "offset out of range")
	}
	seconds := hours*3600 + minutes*60
	switch {
	case seconds == 0 && sign == '-':
		f.loc = Unspecified
	case seconds == 0:
		f.loc = time.UTC
	case sign == '-':
		f.loc = time.FixedZone("", -seconds)
	default:
		f.loc = time.FixedZone("", seconds)
	}
	return nil
}

func calendarError(format string, args ...interface{}) error {
	return jsonerr.New(jsonerr.InvalidCalendarValue, -1, format, args...)
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

var daysInMonth = [13]int{0, 31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// DaysIn returns the number of days of month in year.
func DaysIn(year, month int) int {
	if month == 2 && isLeap(year) {
		return 29
	}
	return daysInMonth[month]
}

// WeeksIn returns the number of ISO weeks (52 or 53) of year.
func WeeksIn(year int) int {
	_, week := time.Date(year, 12, 28, 0, 0, 0, 0, time.UTC).ISOWeek()
	return week
}

func (f *fields) build() (time.Time, error) {
	if f.year < 1 {
		return time.Time{}, calendarError("year %d out of range", f.year)
	}
	day := f.day
	month := f.month
	switch f.form {
	case calendarDate:
		if month < 1 || month > 12 {
			return time.Time{}, calendarError("month %d out of range", month)
		}
		if day < 1 || day > DaysIn(f.year, month) {
			return time.Time{}, calendarError("day %d out of range for %04d-%02d", day, f.year, month)
		}
	case ordinalDate:
		days := 365
		if isLeap(f.year) {
			days = 366
		}
		if f.ordinal < 1 || f.ordinal > days {
			return time.Time{}, calendarError("ordinal day %d out of range", f.ordinal)
		}
		month, day = 1, f.ordinal
	case weekDate:
		if f.week < 1 || f.week > WeeksIn(f.year) {
			return time.Time{}, calendarError("week %d out of range", f.week)
		}
		if f.weekday < 1 || f.weekday > 7 {
			return time.Time{}, calendarError("week day %d out of range", f.weekday)
		}
		jan4 := time.Date(f.year, 1, 4, 0, 0, 0, 0, time.UTC)
		mondayOffset := (int(jan4.Weekday()) + 6) % 7
		month, day = 1, 4-mondayOffset+(f.week-1)*7+(f.weekday-1)
	}
	if f.hour > 24 || f.minute > 59 || f.second > 59 {
		return time.Time{}, calendarError("time %02d:%02d:%02d out of range", f.hour, f.minute, f.second)
	}
	nanos, err := fractionNanos(f.fracText, f.fracUnit)
	if err != nil {
		return time.Time{}, err
	}
	if f.hour == 24 && (f.minute != 0 || f.second != 0 || nanos != 0) {
		return time.Time{}, calendarError("hour 24 must be followed by zero minutes and seconds")
	}
	ret := time.Date(f.year, time.Month(month), day, f.hour, f.minute, f.second, 0, f.loc)
	if nanos != 0 {
		ret = ret.Add(time.Duration(nanos))
	}
	if ret.Year() > 9999 {
		return time.Time{}, calendarError("value not representable")
	}
	return ret, nil
}

// fractionNanos converts fraction digits of unit to nanoseconds. Second
// fractions are exact to the nanosecond, rounding half up on the tenth digit.
func fractionNanos(frac []byte, unit time.Duration) (int64, error) {
	if len(frac) == 0 {
		return 0, nil
	}
	if unit == time.Second {
		var ns int64
		for i := 0; i < 9; i++ {
			ns *= 10
			if i < len(frac) {
				ns += int64(frac[i] - '0')
			}
		}
		if len(frac) > 9 && frac[9] >= '5' {
			ns++
		}
		return ns, nil
	}
	f := 0.0
	scale := 0.1
	for _, b := range frac {
		f += float64(b-'0') * scale
		scale /= 10
	}
	return int64(math.Round(f * float64(unit))), nil
}
