// Package types provides value types shared across lendbook.
package types

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// Scale is the number of Amount units in one major currency unit.
// Amounts keep four decimal places; display rounds nothing away.
const Scale = 10000

// Amount is a non-floating money magnitude in ten-thousandths of the major
// unit. Arithmetic is integer-only.
//
// Amounts encode to JSON as plain numbers ("50", "12.5") so blobs stay
// readable by clients that store amounts as floating point numbers.
//
// Examples:
//   - Units(50) = 50
//   - Cents(1250) = 12.50
//   - MustParse("0.3333") = 0.3333
type Amount int64

// Units creates an Amount of whole major units.
func Units(n int64) Amount { return Amount(n * Scale) }

// Cents creates an Amount from hundredths of the major unit.
func Cents(n int64) Amount { return Amount(n * (Scale / 100)) }

// Parse parses a plain decimal string such as "50", "-12.5" or ".25".
// Exponent and fraction forms are rejected. Digits past the fourth decimal
// place are rounded half away from zero.
func Parse(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("types: parse amount: empty string")
	}
	if !isPlainDecimal(s) {
		return 0, fmt.Errorf("types: parse amount %q: not a decimal number", s)
	}
	return parseScaled(s, 0)
}

// ParseNumber is like Parse but also accepts exponent notation ("1e3",
// "1.5E-7") as written by JSON encoders for very large or small numbers.
// The exponent is limited to MaxExponent in either direction.
func ParseNumber(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	mant, exp := s, 0
	if i := strings.IndexAny(s, "eE"); i >= 0 {
		n, err := strconv.Atoi(s[i+1:])
		if err != nil {
			return 0, fmt.Errorf("types: parse amount %q: bad exponent", s)
		}
		if n > MaxExponent || n < -MaxExponent {
			return 0, fmt.Errorf("types: parse amount %q: out of range", s)
		}
		mant, exp = s[:i], n
	}
	if !isPlainDecimal(mant) {
		return 0, fmt.Errorf("types: parse amount %q: not a decimal number", s)
	}
	return parseScaled(mant, exp)
}

// MaxExponent bounds the exponent ParseNumber accepts.
const MaxExponent = 30

// parseScaled converts the plain decimal s times 10^exp to an Amount.
func parseScaled(s string, exp int) (Amount, error) {
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return 0, fmt.Errorf("types: parse amount %q: not a decimal number", s)
	}
	r.Mul(r, big.NewRat(Scale, 1))
	if exp != 0 {
		pow := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(abs(exp))), nil)
		if exp > 0 {
			r.Mul(r, new(big.Rat).SetInt(pow))
		} else {
			r.Quo(r, new(big.Rat).SetInt(pow))
		}
	}

	num, den := r.Num(), r.Denom()
	q, rem := new(big.Int).QuoRem(num, den, new(big.Int))
	if rem.Sign() != 0 {
		twice := new(big.Int).Abs(rem)
		twice.Lsh(twice, 1)
		if twice.Cmp(den) >= 0 {
			if num.Sign() < 0 {
				q.Sub(q, big.NewInt(1))
			} else {
				q.Add(q, big.NewInt(1))
			}
		}
	}

	if !q.IsInt64() {
		return 0, fmt.Errorf("types: parse amount %q: out of range", s)
	}

	return Amount(q.Int64()), nil
}

// isPlainDecimal reports whether s is an optional sign followed by digits
// with at most one decimal point.
func isPlainDecimal(s string) bool {
	if s != "" && (s[0] == '+' || s[0] == '-') {
		s = s[1:]
	}
	digits, dot := 0, false
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
			digits++
		case c == '.' && !dot:
			dot = true
		default:
			return false
		}
	}
	return digits > 0
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// MustParse is like Parse but panics on error. Use for literals.
func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

// Arithmetic

// MaxAmount and MinAmount are the limits sums saturate at.
const (
	MaxAmount = Amount(math.MaxInt64)
	MinAmount = Amount(math.MinInt64)
)

// Add returns a + other, clamped to [MinAmount, MaxAmount].
func (a Amount) Add(other Amount) Amount {
	sum := a + other
	switch {
	case other > 0 && sum < a:
		return MaxAmount
	case other < 0 && sum > a:
		return MinAmount
	}
	return sum
}

// Sub returns a - other, clamped to [MinAmount, MaxAmount].
func (a Amount) Sub(other Amount) Amount {
	if other == MinAmount {
		if a >= 0 {
			return MaxAmount
		}
		return a - other
	}
	return a.Add(-other)
}

// Predicates

// IsZero returns true if the amount is zero.
func (a Amount) IsZero() bool { return a == 0 }

// IsPositive returns true if the amount is greater than zero.
func (a Amount) IsPositive() bool { return a > 0 }

// IsNegative returns true if the amount is less than zero.
func (a Amount) IsNegative() bool { return a < 0 }

// Formatting

// Decimal returns the shortest exact decimal form: "50", "12.5", "-0.0001".
func (a Amount) Decimal() string {
	whole, frac, neg := a.split()

	s := strconv.FormatUint(whole, 10)
	if frac != 0 {
		s += "." + strings.TrimRight(fmt.Sprintf("%04d", frac), "0")
	}
	if neg {
		return "-" + s
	}
	return s
}

// FormatMajor returns the amount with at least two decimal places:
// "50.00", "12.50", "0.3333".
func (a Amount) FormatMajor() string {
	whole, frac, neg := a.split()

	digits := strings.TrimRight(fmt.Sprintf("%04d", frac), "0")
	for len(digits) < 2 {
		digits += "0"
	}

	s := strconv.FormatUint(whole, 10) + "." + digits
	if neg {
		return "-" + s
	}
	return s
}

// String implements fmt.Stringer.
func (a Amount) String() string { return a.FormatMajor() }

// Float64 returns the amount in major units as a float, for metrics only.
func (a Amount) Float64() float64 { return float64(a) / Scale }

func (a Amount) split() (whole, frac uint64, neg bool) {
	neg = a < 0
	abs := uint64(a)
	if neg {
		abs = uint64(-a)
	}
	return abs / Scale, abs % Scale, neg
}

// Encoding

// MarshalJSON encodes the amount as a JSON number.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.Decimal()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal string.
func (a *Amount) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("types: amount: %w", err)
		}
	}

	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler (YAML, TOML).
func (a Amount) MarshalText() ([]byte, error) {
	return []byte(a.Decimal()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Amount) UnmarshalText(data []byte) error {
	parsed, err := Parse(string(data))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Sum adds up the given amounts, saturating like Add.
func Sum(values ...Amount) Amount {
	var total Amount
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}
