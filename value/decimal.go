package value

import (
	"errors"
	"math/big"
	"strconv"
	"strings"
)

// MaxDecimalScale is the largest number of fractional digits a Decimal keeps.
const MaxDecimalScale = 28

var (
	// ErrDecimalSyntax reports text that is not a decimal number.
	ErrDecimalSyntax = errors.New("invalid decimal")
	// ErrDecimalOverflow reports a value whose coefficient does not fit in 96 bits.
	ErrDecimalOverflow = errors.New("decimal overflow")
)

var (
	bigTen      = big.NewInt(10)
	maxDecimal  = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 96), big.NewInt(1))
	uint64Range = new(big.Int).Lsh(big.NewInt(1), 64)
)

// Decimal is a base-10 floating point value with a 96-bit unsigned coefficient
// and a scale of 0..28 fractional digits. Trailing zeros are significant, so
// 1.0 and 1.00 are distinct values that compare equal with Cmp.
type Decimal struct {
	lo    uint64
	hi    uint32
	scale uint8
	neg   bool
}

// NewDecimal returns coefficient * 10^-scale.
func NewDecimal(coefficient int64, scale uint8) Decimal {
	if scale > MaxDecimalScale {
		scale = MaxDecimalScale
	}
	d := Decimal{scale: scale}
	if coefficient < 0 {
		d.neg = true
		d.lo = uint64(-coefficient)
	} else {
		d.lo = uint64(coefficient)
	}
	return d
}

// ParseDecimal parses a number in JSON number grammar (optional exponent).
// Fractional digits beyond MaxDecimalScale are rounded half to even.
func ParseDecimal(text []byte) (Decimal, error) {
	var d Decimal
	if len(text) == 0 {
		return d, ErrDecimalSyntax
	}
	i := 0
	neg := false
	if text[i] == '-' {
		neg = true
		i++
	}
	coef := new(big.Int)
	digits := 0
	fraction := 0
	sawPoint := false
	for ; i < len(text); i++ {
		c := text[i]
		if c >= '0' && c <= '9' {
			coef.Mul(coef, bigTen)
			coef.Add(coef, big.NewInt(int64(c-'0')))
			digits++
			if sawPoint {
				fraction++
			}
			continue
		}
		if c == '.' && !sawPoint {
			sawPoint = true
			continue
		}
		break
	}
	if digits == 0 {
		return d, ErrDecimalSyntax
	}
	exponent := 0
	if i < len(text) {
		if text[i] != 'e' && text[i] != 'E' {
			return d, ErrDecimalSyntax
		}
		exp, err := strconv.Atoi(string(text[i+1:]))
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return d, ErrDecimalSyntax
		}
		exponent = clampExponent(exp)
	}
	scale := fraction - exponent
	if coef.Sign() == 0 {
		return fromBig(coef, uint8(min(max(scale, 0), MaxDecimalScale)), neg), nil
	}
	if scale < 0 {
		if -scale > 40 {
			return d, ErrDecimalOverflow
		}
		coef.Mul(coef, new(big.Int).Exp(bigTen, big.NewInt(int64(-scale)), nil))
		scale = 0
	}
	if scale-digits > MaxDecimalScale+1 {
		return fromBig(new(big.Int), MaxDecimalScale, neg), nil
	}
	exact := scale
	scale = min(scale, MaxDecimalScale)
	value := roundDivPow10(coef, exact-scale)
	for value.Cmp(maxDecimal) > 0 && scale > 0 {
		scale--
		value = roundDivPow10(coef, exact-scale)
	}
	if value.Cmp(maxDecimal) > 0 {
		return d, ErrDecimalOverflow
	}
	return fromBig(value, uint8(scale), neg), nil
}

// MustParseDecimal parses s or panics.
func MustParseDecimal(s string) Decimal {
	d, err := ParseDecimal([]byte(s))
	if err != nil {
		panic(err)
	}
	return d
}

// clampExponent bounds an exponent so that scale arithmetic cannot overflow;
// any exponent past the bound already overflows or rounds to zero.
func clampExponent(exp int) int {
	const limit = 1 << 30
	if exp > limit {
		return limit
	}
	if exp < -limit {
		return -limit
	}
	return exp
}

// roundDivPow10 divides by 10^n rounding half to even.
func roundDivPow10(v *big.Int, n int) *big.Int {
	if n <= 0 {
		return new(big.Int).Set(v)
	}
	divisor := new(big.Int).Exp(bigTen, big.NewInt(int64(n)), nil)
	q, r := new(big.Int).QuoRem(v, divisor, new(big.Int))
	switch r.Lsh(r, 1).Cmp(divisor) {
	case 1:
		q.Add(q, big.NewInt(1))
	case 0:
		if q.Bit(0) == 1 {
			q.Add(q, big.NewInt(1))
		}
	}
	return q
}

func fromBig(coef *big.Int, scale uint8, neg bool) Decimal {
	lo := new(big.Int).Mod(coef, uint64Range)
	hi := new(big.Int).Rsh(coef, 64)
	d := Decimal{lo: lo.Uint64(), hi: uint32(hi.Uint64()), scale: scale}
	d.neg = neg && coef.Sign() != 0
	return d
}

// Coefficient returns the unsigned coefficient.
func (d Decimal) Coefficient() *big.Int {
	ret := new(big.Int).SetUint64(uint64(d.hi))
	ret.Lsh(ret, 64)
	return ret.Or(ret, new(big.Int).SetUint64(d.lo))
}

// Scale returns the number of fractional digits.
func (d Decimal) Scale() int { return int(d.scale) }

// IsNegative returns true for values below zero.
func (d Decimal) IsNegative() bool { return d.neg }

// Rat returns the exact rational value.
func (d Decimal) Rat() *big.Rat {
	num := d.Coefficient()
	if d.neg {
		num.Neg(num)
	}
	den := new(big.Int).Exp(bigTen, big.NewInt(int64(d.scale)), nil)
	return new(big.Rat).SetFrac(num, den)
}

// Cmp compares numeric values ignoring scale.
func (d Decimal) Cmp(other Decimal) int {
	return d.Rat().Cmp(other.Rat())
}

// Float64 returns the nearest float64.
func (d Decimal) Float64() float64 {
	f, _ := d.Rat().Float64()
	return f
}

// String returns the plain decimal representation keeping trailing zeros.
func (d Decimal) String() string {
	digits := d.Coefficient().String()
	scale := int(d.scale)
	if scale > 0 {
		if len(digits) <= scale {
			digits = strings.Repeat("0", scale-len(digits)+1) + digits
		}
		digits = digits[:len(digits)-scale] + "." + digits[len(digits)-scale:]
	}
	if d.neg {
		return "-" + digits
	}
	return digits
}
