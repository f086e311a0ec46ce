package common

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nikolaydubina/fpdecimal"
)

// Ticks is the canonical price key the book sorts and indexes on: an exact
// fixed-point integer counted in ten-thousandths of the display unit. Using
// an integer here — rather than the float64 the original source keyed
// levels on — means two orders at "the same price" always land in the same
// PriceLevel; floating point price equality is the thing this type exists
// to avoid.
type Ticks int64

const tickScale = 10000

// MaxTicks and MinTicks are the Market-order sentinels from spec.md §4.1.2:
// a BUY market order is rewritten to the maximum representable price (it
// must cross any resting ask), a SELL market order to zero (it must cross
// any resting bid).
const (
	MaxTicks Ticks = 1<<63 - 1
	MinTicks Ticks = 0
)

// ParsePrice turns a caller-supplied decimal price string ("102.50") into
// its canonical Ticks representation, going through fpdecimal so malformed
// input is rejected the same way any other fixed-point money value would be
// in this stack, rather than by hand-rolled float parsing.
func ParsePrice(s string) (Ticks, error) {
	d, err := fpdecimal.FromString(s)
	if err != nil {
		return 0, fmt.Errorf("parse price %q: %w", s, err)
	}
	return decimalToTicks(d)
}

// FromFloat is a convenience for callers (tests, the gateway's wire codec)
// that already have a float64 price, e.g. decoded from a binary message.
func FromFloat(price float64) Ticks {
	t, err := ParsePrice(strconv.FormatFloat(price, 'f', -1, 64))
	if err != nil {
		// fpdecimal failing to parse a strconv-formatted float is a bug in
		// this conversion helper, not a caller error.
		panic(fmt.Sprintf("common: FromFloat(%v): %v", price, err))
	}
	return t
}

func decimalToTicks(d fpdecimal.Decimal) (Ticks, error) {
	s := d.String()
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	whole, frac, _ := strings.Cut(s, ".")
	for len(frac) < 4 {
		frac += "0"
	}
	frac = frac[:4]

	wholeVal, err := strconv.ParseInt(whole, 10, 63)
	if err != nil {
		return 0, fmt.Errorf("parse price %q: %w", s, err)
	}
	fracVal, err := strconv.ParseInt(frac, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("parse price %q: %w", s, err)
	}

	ticks := Ticks(wholeVal*tickScale + fracVal)
	if neg {
		ticks = -ticks
	}
	return ticks, nil
}

// Decimal renders a Ticks value back to a display-precision decimal. The
// book never computes with this; it exists purely for depth snapshots and
// wire reports, per spec.md's Design Notes ("carry the float only for
// display").
func (t Ticks) Decimal() fpdecimal.Decimal {
	whole := int64(t) / tickScale
	frac := int64(t) % tickScale
	if frac < 0 {
		frac = -frac
	}
	d, err := fpdecimal.FromString(fmt.Sprintf("%d.%04d", whole, frac))
	if err != nil {
		// t was built from a valid decimal in ParsePrice/FromFloat; this
		// round-trip cannot fail.
		panic(fmt.Sprintf("common: Ticks(%d).Decimal(): %v", t, err))
	}
	return d
}

func (t Ticks) Float64() float64 {
	f, _ := strconv.ParseFloat(t.Decimal().String(), 64)
	return f
}

func (t Ticks) String() string {
	return t.Decimal().String()
}
