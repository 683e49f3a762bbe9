package restoapi

import (
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/nadasobeh22/RestoManage/pkg/money"
)

// The legacy backend is loose with scalar types: identifiers arrive as
// numbers or strings, ratings as "4.5" or 4.5, prices always as formatted
// strings. These helpers decode whatever shows up.

func decString(d *jx.Decoder) (string, error) {
	switch d.Next() {
	case jx.String:
		return d.Str()
	case jx.Number:
		n, err := d.Num()
		if err != nil {
			return "", err
		}
		return n.String(), nil
	case jx.Null:
		return "", d.Null()
	case jx.Bool:
		b, err := d.Bool()
		if err != nil {
			return "", err
		}
		return strconv.FormatBool(b), nil
	default:
		return "", d.Skip()
	}
}

func decInt64(d *jx.Decoder) (int64, error) {
	switch d.Next() {
	case jx.Number:
		return d.Int64()
	case jx.String:
		s, err := d.Str()
		if err != nil {
			return 0, err
		}
		n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return 0, errors.Wrapf(err, "parse %q as integer", s)
		}
		return n, nil
	case jx.Null:
		return 0, d.Null()
	default:
		return 0, d.Skip()
	}
}

func decInt(d *jx.Decoder) (int, error) {
	n, err := decInt64(d)
	return int(n), err
}

func decFloat(d *jx.Decoder) (float64, error) {
	switch d.Next() {
	case jx.Number:
		return d.Float64()
	case jx.String:
		s, err := d.Str()
		if err != nil {
			return 0, err
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, errors.Wrapf(err, "parse %q as number", s)
		}
		return f, nil
	case jx.Null:
		return 0, d.Null()
	default:
		return 0, d.Skip()
	}
}

func decPrice(d *jx.Decoder) (money.Price, error) {
	s, err := decString(d)
	if err != nil {
		return money.Price{}, err
	}
	return money.Parse(s), nil
}

// decTime accepts the backend's two timestamp formats.
func decTime(d *jx.Decoder) (time.Time, error) {
	s, err := decString(d)
	if err != nil || s == "" {
		return time.Time{}, err
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05"} {
		if t, perr := time.Parse(layout, s); perr == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.Errorf("parse %q as timestamp", s)
}

// decFieldErrors reads a Laravel-style validation error object:
// {"field": ["msg", ...]} with an occasional bare string value.
func decFieldErrors(d *jx.Decoder) (map[string][]string, error) {
	if d.Next() != jx.Object {
		return nil, d.Skip()
	}
	fields := make(map[string][]string)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch d.Next() {
		case jx.Array:
			return d.Arr(func(d *jx.Decoder) error {
				msg, err := decString(d)
				if err != nil {
					return err
				}
				fields[key] = append(fields[key], msg)
				return nil
			})
		case jx.String:
			msg, err := d.Str()
			if err != nil {
				return err
			}
			fields[key] = append(fields[key], msg)
			return nil
		default:
			return d.Skip()
		}
	})
	if err != nil {
		return nil, err
	}
	return fields, nil
}

// decodeData runs fn over the envelope's data payload. A missing payload is
// an error: every caller expects one.
func decodeData(env *envelope, fn func(d *jx.Decoder) error) error {
	if len(env.data) == 0 {
		return errors.New("response has no data payload")
	}
	return fn(jx.DecodeBytes(env.data))
}
