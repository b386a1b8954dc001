package iso8601

import (
	"math"
	"time"

	"github.com/viant/typedjson/jsonerr"
)

// Nominal lengths of calendar designators.
const (
	Day   = 24 * time.Hour
	Week  = 7 * Day
	Month = 30 * Day
	Year  = 365 * Day
)

type designator struct {
	code  byte
	unit  time.Duration
	order int
}

var (
	dateDesignators = []designator{{'Y', Year, 0}, {'M', Month, 1}, {'W', Week, 2}, {'D', Day, 3}}
	timeDesignators = []designator{{'H', time.Hour, 0}, {'M', time.Minute, 1}, {'S', time.Second, 2}}
)

func lookupDesignator(set []designator, code byte) (designator, bool) {
	for _, d := range set {
		if d.code == code {
			return d, true
		}
	}
	return designator{}, false
}

// ParseDuration parses P(nY)(nM)(nD)(T(nH)(nM)(nS)) or PnW with an optional
// leading '-'. Years and months use nominal lengths (365 and 30 days). Only
// the last component may carry a fraction.
func ParseDuration(text []byte) (time.Duration, error) {
	p := &parser{text: text}
	neg := false
	if p.peek() == '-' {
		neg = true
		p.pos++
	}
	if c := p.peek(); c != 'P' && c != 'p' {
		return 0, p.syntax("expected 'P'")
	}
	p.pos++
	if p.eof() {
		return 0, p.syntax("empty duration")
	}
	var total time.Duration
	components := 0
	week := false
	fraction := false
	inTime := false
	last := -1
	for !p.eof() {
		if c := p.peek(); c == 'T' || c == 't' {
			if inTime {
				return 0, p.syntax("duplicate 'T'")
			}
			inTime = true
			last = -1
			p.pos++
			if p.eof() || !isDigit(p.peek()) {
				return 0, p.syntax("expected time component")
			}
			continue
		}
		if fraction {
			return 0, p.syntax("fraction allowed only on the last component")
		}
		start := p.pos
		for !p.eof() && isDigit(p.peek()) {
			p.pos++
		}
		if p.pos == start {
			return 0, p.syntax("expected digit")
		}
		whole := text[start:p.pos]
		var frac []byte
		if c := p.peek(); c == '.' || c == ',' {
			p.pos++
			var err error
			if frac, err = p.fraction(); err != nil {
				return 0, err
			}
			fraction = true
		}
		if p.eof() {
			return 0, p.syntax("expected designator")
		}
		set := dateDesignators
		if inTime {
			set = timeDesignators
		}
		d, ok := lookupDesignator(set, p.peek())
		if !ok || d.order <= last {
			return 0, p.syntax("unexpected designator '%c'", p.peek())
		}
		if !inTime && d.code == 'W' {
			week = true
		}
		last = d.order
		p.pos++
		components++
		amount, err := component(whole, frac, d.unit)
		if err != nil {
			return 0, err
		}
		if total > math.MaxInt64-amount {
			return 0, calendarError("duration not representable")
		}
		total += amount
	}
	if week && (components > 1 || inTime) {
		return 0, jsonerr.New(jsonerr.ExpectedCharacter, 0, "week duration cannot be combined with other components")
	}
	if neg {
		total = -total
	}
	return total, nil
}

func component(whole, frac []byte, unit time.Duration) (time.Duration, error) {
	if len(whole) > 18 {
		return 0, calendarError("duration component too large")
	}
	var v int64
	for _, b := range whole {
		v = v*10 + int64(b-'0')
	}
	if v > math.MaxInt64/int64(unit) {
		return 0, calendarError("duration not representable")
	}
	ret := time.Duration(v) * unit
	if len(frac) > 0 {
		nanos, err := fractionNanos(frac, unit)
		if err != nil {
			return 0, err
		}
		if ret > math.MaxInt64-time.Duration(nanos) {
			return 0, calendarError("duration not representable")
		}
		ret += time.Duration(nanos)
	}
	return ret, nil
}
