package ion

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// Decimal is an arbitrary-precision decimal value: coefficient *
// 10^exponent. A decimal can additionally be negative zero
// (coefficient 0, sign negative), which Ion's binary encoding can represent
// even though plain big.Int cannot; negZero records that distinctly so a
// round-tripping decoder doesn't silently collapse -0. and 0. together.
type Decimal struct {
	coefficient *big.Int
	exponent    int
	negZero     bool
}

// NewDecimal creates a decimal equal to the given integer, exponent 0.
func NewDecimal(n *big.Int) *Decimal {
	return NewDecimalExp(n, 0)
}

// NewDecimalExp creates a decimal equal to n * 10^exponent.
func NewDecimalExp(n *big.Int, exponent int) *Decimal {
	return &Decimal{coefficient: n, exponent: exponent}
}

// NewDecimalNegZero creates the decimal -0 * 10^exponent, the one value a
// plain (coefficient, exponent) pair cannot represent on its own.
func NewDecimalNegZero(exponent int) *Decimal {
	return &Decimal{coefficient: big.NewInt(0), exponent: exponent, negZero: true}
}

// Coefficient returns the decimal's integer coefficient.
func (d *Decimal) Coefficient() *big.Int {
	return d.coefficient
}

// Exponent returns the decimal's base-10 exponent.
func (d *Decimal) Exponent() int {
	return d.exponent
}

// IsZero reports whether the decimal is zero, positive or negative.
func (d *Decimal) IsZero() bool {
	return d.coefficient.Sign() == 0
}

// MustParseDecimal parses the given string into a decimal, panicking on
// error.
func MustParseDecimal(in string) *Decimal {
	d, err := ParseDecimal(in)
	if err != nil {
		panic(err)
	}
	return d
}

// ParseDecimal parses an Ion-text-syntax decimal ("1.23", "123d-2", "12.3d4").
func ParseDecimal(in string) (*Decimal, error) {
	if len(in) == 0 {
		return nil, errors.New("ion: empty decimal string")
	}

	exp := 0

	d := strings.IndexAny(in, "Dd")
	if d != -1 {
		rest := in[d+1:]
		if len(rest) == 0 {
			return nil, errors.New("ion: unexpected end of input after d")
		}
		tmp, err := strconv.ParseInt(rest, 10, 32)
		if err != nil {
			return nil, err
		}
		exp = int(tmp)
		in = in[:d]
	}

	d = strings.Index(in, ".")
	if d != -1 {
		ipart := in[:d]
		fpart := in[d+1:]
		exp -= len(fpart)
		in = ipart + fpart
	}

	neg := strings.HasPrefix(in, "-")

	n, ok := new(big.Int).SetString(in, 10)
	if !ok {
		return nil, errors.New("ion: not a valid decimal")
	}

	if n.Sign() == 0 && neg {
		return NewDecimalNegZero(exp), nil
	}
	return NewDecimalExp(n, exp), nil
}

// Abs returns the absolute value of d.
func (d *Decimal) Abs() *Decimal {
	return &Decimal{coefficient: new(big.Int).Abs(d.coefficient), exponent: d.exponent}
}

// Add returns d + o.
func (d *Decimal) Add(o *Decimal) *Decimal {
	dd, oo := align(d, o)
	return &Decimal{coefficient: new(big.Int).Add(dd.coefficient, oo.coefficient), exponent: dd.exponent}
}

// Sub returns d - o.
func (d *Decimal) Sub(o *Decimal) *Decimal {
	dd, oo := align(d, o)
	return &Decimal{coefficient: new(big.Int).Sub(dd.coefficient, oo.coefficient), exponent: dd.exponent}
}

// Neg returns -d.
func (d *Decimal) Neg() *Decimal {
	if d.negZero {
		return NewDecimalExp(big.NewInt(0), d.exponent)
	}
	if d.IsZero() {
		return NewDecimalNegZero(d.exponent)
	}
	return &Decimal{coefficient: new(big.Int).Neg(d.coefficient), exponent: d.exponent}
}

// Mul returns d * o.
func (d *Decimal) Mul(o *Decimal) *Decimal {
	exp := int64(d.exponent) + int64(o.exponent)
	if exp > math.MaxInt32 || exp < math.MinInt32 {
		panic("ion: decimal exponent out of bounds")
	}
	return &Decimal{coefficient: new(big.Int).Mul(d.coefficient, o.coefficient), exponent: int(exp)}
}

// ShiftL returns d shifted `shift` decimal places to the left: d * 10^shift.
func (d *Decimal) ShiftL(shift int) *Decimal {
	exp := int64(d.exponent) + int64(shift)
	if exp > math.MaxInt32 || exp < math.MinInt32 {
		panic("ion: decimal exponent out of bounds")
	}
	return &Decimal{coefficient: d.coefficient, exponent: int(exp), negZero: d.negZero}
}

// ShiftR returns d shifted `shift` decimal places to the right: d / 10^shift.
func (d *Decimal) ShiftR(shift int) *Decimal {
	return d.ShiftL(-shift)
}

// Cmp compares two decimals numerically (ignoring precision and negZero).
func (d *Decimal) Cmp(o *Decimal) int {
	dd, oo := align(d, o)
	return dd.coefficient.Cmp(oo.coefficient)
}

// Equal reports whether two decimals are numerically equal and agree on
// negative zero: -0 and 0 are not Equal.
func (d *Decimal) Equal(o *Decimal) bool {
	return d.Cmp(o) == 0 && d.negZero == o.negZero
}

func align(a, b *Decimal) (*Decimal, *Decimal) {
	if a.exponent > b.exponent {
		return a.downscale(b.exponent), b
	} else if a.exponent < b.exponent {
		return a, b.downscale(a.exponent)
	}
	return a, b
}

var ten = big.NewInt(10)

// downscale rewrites d to a smaller exponent (more digits of coefficient,
// same value): 1d2 downscaled to exponent 0 becomes 100 at exponent 0.
func (d *Decimal) downscale(exponent int) *Decimal {
	diff := int64(d.exponent) - int64(exponent)
	if diff < 0 {
		panic("ion: can't downscale to a larger exponent")
	}
	pow := new(big.Int).Exp(ten, big.NewInt(diff), nil)
	n := new(big.Int).Mul(d.coefficient, pow)
	return &Decimal{coefficient: n, exponent: exponent}
}

// Truncate returns d truncated (not rounded) to `precision` significant
// digits of coefficient.
func (d *Decimal) Truncate(precision int) *Decimal {
	if precision <= 0 {
		panic("ion: precision must be positive")
	}

	str := d.coefficient.String()
	if str[0] == '-' {
		precision++
	}

	diff := len(str) - precision
	if diff <= 0 {
		return d
	}

	n, ok := new(big.Int).SetString(str[:precision], 10)
	if !ok {
		panic("ion: failed to parse integer")
	}

	exp := int64(d.exponent) + int64(diff)
	if exp > math.MaxInt32 {
		panic("ion: decimal exponent out of range")
	}

	return &Decimal{coefficient: n, exponent: int(exp)}
}

// String formats the decimal in Ion text syntax.
func (d *Decimal) String() string {
	sign := ""
	if d.negZero {
		sign = "-"
	}

	switch {
	case d.exponent == 0:
		return sign + d.coefficient.String() + "."
	case d.exponent > 0:
		return sign + d.coefficient.String() + "d" + fmt.Sprintf("%d", d.exponent)
	default:
		str := d.coefficient.String()
		idx := len(str) + d.exponent

		prefix := 1
		if d.coefficient.Sign() < 0 {
			prefix++
		}

		if idx >= prefix {
			return sign + str[:idx] + "." + str[idx:]
		}

		b := strings.Builder{}
		b.WriteString(sign)
		b.WriteString(str[:prefix])
		if len(str) > prefix {
			b.WriteString(".")
			b.WriteString(str[prefix:])
		}
		b.WriteString("d")
		b.WriteString(fmt.Sprintf("%d", idx-prefix))
		return b.String()
	}
}
