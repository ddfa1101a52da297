package sqlport

import (
	"fmt"
	"math/big"
	"time"

	"github.com/jonbodner/multierr"
	"github.com/shopspring/decimal"
)

// isoOffsetFormat renders an instant as ISO-8601 with an explicit offset,
// printing fractional seconds only when they are non-zero.
const isoOffsetFormat = "2006-01-02T15:04:05.999Z07:00"

// normalizeRule inspects a raw driver value. It reports whether it recognized
// the value, and if so, the portable value it maps to.
type normalizeRule func(value interface{}) (interface{}, bool, error)

// normalizeRules is the ordered rule list; the first rule that recognizes a
// value wins. New source categories slot in here without touching the
// existing rules. Populated in init: the array rules recurse through
// Normalize, so a composite literal here would be an initialization cycle.
var normalizeRules []normalizeRule

func init() {
	normalizeRules = []normalizeRule{
		passthroughValue,
		decimalValue,
		numericValue,
		temporalValue,
		charLobValue,
		binaryLobValue,
		arrayValue,
		portableArrayValue,
	}
}

// Normalize converts a single raw driver value into a portable value: nil,
// bool, string, []byte, *big.Int, a float, an []interface{} of portable
// values, or an ISO-8601 offset-datetime string. Values it does not recognize
// fall back to their default textual representation, so Normalize is total
// over everything a driver can produce.
//
// Normalizing an already-portable value returns it unchanged.
func Normalize(value interface{}) (interface{}, error) {
	if value == nil {
		return nil, nil
	}
	for _, rule := range normalizeRules {
		out, ok, err := rule(value)
		if err != nil {
			return nil, err
		}
		if ok {
			return out, nil
		}
	}
	return fmt.Sprint(value), nil
}

// Booleans, strings, and raw byte slices are already portable.
func passthroughValue(value interface{}) (interface{}, bool, error) {
	switch value.(type) {
	case bool, string, []byte:
		return value, true, nil
	}
	return nil, false, nil
}

// decimalValue maps arbitrary-precision decimals. A decimal with no
// fractional digits converts losslessly to an arbitrary-precision integer;
// anything else becomes a float64. The float conversion can lose precision,
// which is the documented trade-off for keeping the value numeric.
func decimalValue(value interface{}) (interface{}, bool, error) {
	d, ok := value.(decimal.Decimal)
	if !ok {
		return nil, false, nil
	}
	if d.Exponent() >= 0 {
		return d.BigInt(), true, nil
	}
	f, _ := d.Float64()
	return f, true, nil
}

// Native numeric representations pass through unchanged. *big.Int is included
// so that normalized integers survive renormalization.
func numericValue(value interface{}) (interface{}, bool, error) {
	switch value.(type) {
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64,
		*big.Int:
		return value, true, nil
	}
	return nil, false, nil
}

// temporalValue renders a temporal as ISO-8601 by reinterpreting the driver's
// epoch-millisecond reading as an instant in UTC. Drivers carry no timezone
// metadata on these values; UTC is the normalization convention, not a guess
// at the original zone.
func temporalValue(value interface{}) (interface{}, bool, error) {
	t, ok := value.(time.Time)
	if !ok {
		return nil, false, nil
	}
	return time.UnixMilli(t.UnixMilli()).UTC().Format(isoOffsetFormat), true, nil
}

func charLobValue(value interface{}) (interface{}, bool, error) {
	c, ok := value.(CharLob)
	if !ok {
		return nil, false, nil
	}
	s, err := readCharLob(c)
	if err != nil {
		return nil, true, fmt.Errorf("sqlport: reading character lob: %w", err)
	}
	return s, true, nil
}

func readCharLob(c CharLob) (_ string, err error) {
	defer func() {
		if ferr := c.Free(); ferr != nil {
			err = multierr.Append(err, ferr)
		}
	}()
	// The read length is an int, so an oversized lob is truncated here.
	return c.Substring(1, int(c.Len()))
}

func binaryLobValue(value interface{}) (interface{}, bool, error) {
	b, ok := value.(BinaryLob)
	if !ok {
		return nil, false, nil
	}
	bs, err := readBinaryLob(b)
	if err != nil {
		return nil, true, fmt.Errorf("sqlport: reading binary lob: %w", err)
	}
	return bs, true, nil
}

func readBinaryLob(b BinaryLob) (_ []byte, err error) {
	defer func() {
		if ferr := b.Free(); ferr != nil {
			err = multierr.Append(err, ferr)
		}
	}()
	return b.Bytes(1, int(b.Len()))
}

// arrayValue reads a driver array and normalizes each element. The handle is
// freed whether or not the read succeeds. An array that cannot be
// materialized (nil elements, nil error) is left to the fallback rule.
func arrayValue(value interface{}) (interface{}, bool, error) {
	a, ok := value.(SQLArray)
	if !ok {
		return nil, false, nil
	}
	elems, err := readArray(a)
	if err != nil {
		return nil, true, fmt.Errorf("sqlport: reading array: %w", err)
	}
	if elems == nil {
		return nil, false, nil
	}
	out, err := normalizeElements(elems)
	if err != nil {
		return nil, true, err
	}
	return out, true, nil
}

func readArray(a SQLArray) (_ []interface{}, err error) {
	defer func() {
		if ferr := a.Free(); ferr != nil {
			err = multierr.Append(err, ferr)
		}
	}()
	return a.Slice()
}

// portableArrayValue renormalizes a plain value slice, covering both drivers
// that hand back native Go slices and portable arrays fed through again.
func portableArrayValue(value interface{}) (interface{}, bool, error) {
	elems, ok := value.([]interface{})
	if !ok {
		return nil, false, nil
	}
	out, err := normalizeElements(elems)
	if err != nil {
		return nil, true, err
	}
	return out, true, nil
}

func normalizeElements(elems []interface{}) ([]interface{}, error) {
	out := make([]interface{}, len(elems))
	for i, e := range elems {
		n, err := Normalize(e)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}
