package convert

import (
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/relloyd/lakepipe/errkind"
	"github.com/xitongsys/parquet-go/types"
)

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"01/02/2006",
	"20060102",
}

var timestampLayouts = []string{
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
	"01/02/2006 15:04:05",
	"01/02/2006",
}

const millisPerDay = 24 * 60 * 60 * 1000

// cast converts a CSV value to the Parquet value stored for the column: bool, int32, int64, float32,
// float64 or string. Decimals are big-endian two's complement unscaled integers.
// Empty values of non-string columns are null.
func (c column) cast(v string) (interface{}, error) {
	if c.kind == kindString {
		return v, nil
	}
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	var out interface{}
	var err error
	switch c.kind {
	case kindBoolean:
		out, err = parseBool(v)
	case kindInt32:
		var i int64
		if i, err = strconv.ParseInt(v, 10, 32); err == nil {
			out = int32(i)
		}
	case kindInt64:
		out, err = strconv.ParseInt(v, 10, 64)
	case kindFloat:
		var f float64
		if f, err = strconv.ParseFloat(v, 32); err == nil {
			out = float32(f)
		}
	case kindDouble:
		out, err = strconv.ParseFloat(v, 64)
	case kindDecimal:
		var u *big.Int
		if u, err = unscaled(v, c.precision, c.scale); err == nil {
			out = types.StrIntToBinary(u.String(), "BigEndian", 0, true)
		}
	case kindDate:
		var t time.Time
		if t, err = parseTime(v, dateLayouts); err == nil {
			out = int32(floorDiv(toMillis(t), millisPerDay))
		}
	case kindTimestamp:
		var t time.Time
		if t, err = parseTime(v, timestampLayouts); err == nil {
			out = toMillis(t)
		}
	}
	if err != nil {
		return nil, errkind.Errorf(errkind.Configuration, "cast", "column %v: bad value %q", c.name, v)
	}
	return out, nil
}

// unscaled returns v multiplied by 10^scale as an exact integer.
// Values with more fractional digits than scale, or more digits than precision, are rejected.
func unscaled(v string, precision, scale int) (*big.Int, error) {
	if strings.Contains(v, "/") {
		return nil, strconv.ErrSyntax
	}
	r, ok := new(big.Rat).SetString(v)
	if !ok {
		return nil, strconv.ErrSyntax
	}
	r.Mul(r, new(big.Rat).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(scale)), nil)))
	if !r.IsInt() {
		return nil, strconv.ErrRange
	}
	u := r.Num()
	if len(new(big.Int).Abs(u).String()) > precision {
		return nil, strconv.ErrRange
	}
	return u, nil
}

func parseBool(v string) (bool, error) {
	switch strings.ToLower(v) {
	case "y", "yes":
		return true, nil
	case "n", "no":
		return false, nil
	}
	return strconv.ParseBool(v)
}

// parseTime tries each layout in turn. Values without a zone are UTC.
func parseTime(v string, layouts []string) (t time.Time, err error) {
	for _, l := range layouts {
		if t, err = time.ParseInLocation(l, v, time.UTC); err == nil {
			return t, nil
		}
	}
	return t, err
}

func toMillis(t time.Time) int64 {
	return t.Unix()*1000 + int64(t.Nanosecond())/int64(time.Millisecond)
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
