package resolve

import (
	"errors"
	"strconv"
	"strings"

	"mica/internal/lang"
)

var (
	errBadNumber = errors.New("cannot parse number literal")
	errBadUnit   = errors.New("invalid unit")
)

// parseNumberLiteral splits a number token into its value and unit. The
// numeric prefix is the longest run of digits and dots; whatever follows
// must be a known unit suffix.
func parseNumberLiteral(s string) (float64, lang.Unit, error) {
	end := 0
	for end < len(s) && (s[end] == '.' || (s[end] >= '0' && s[end] <= '9')) {
		end++
	}
	value, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0, lang.UnitNone, errBadNumber
	}
	unit, ok := lang.ParseUnit(s[end:])
	if !ok {
		return 0, lang.UnitNone, errBadUnit
	}
	return value, unit, nil
}

// parseColorLiteral parses #rgb, #rgba, #rrggbb and #rrggbbaa into packed
// 0xAARRGGBB. A missing alpha is opaque.
func parseColorLiteral(s string) (uint32, bool) {
	if !strings.HasPrefix(s, "#") {
		return 0, false
	}
	hex := s[1:]
	for i := 0; i < len(hex); i++ {
		if hex[i] >= 0x80 {
			return 0, false
		}
	}

	var r, g, b, a uint64
	var err [4]error
	component := func(sub string, double bool) (uint64, error) {
		v, e := strconv.ParseUint(sub, 16, 16)
		if double {
			v = v*16 + v
		}
		return v, e
	}
	switch len(hex) {
	case 3:
		r, err[0] = component(hex[0:1], true)
		g, err[1] = component(hex[1:2], true)
		b, err[2] = component(hex[2:3], true)
		a = 0xff
	case 4:
		r, err[0] = component(hex[0:1], true)
		g, err[1] = component(hex[1:2], true)
		b, err[2] = component(hex[2:3], true)
		a, err[3] = component(hex[3:4], true)
	case 6:
		r, err[0] = component(hex[0:2], false)
		g, err[1] = component(hex[2:4], false)
		b, err[2] = component(hex[4:6], false)
		a = 0xff
	case 8:
		r, err[0] = component(hex[0:2], false)
		g, err[1] = component(hex[2:4], false)
		b, err[2] = component(hex[4:6], false)
		a, err[3] = component(hex[6:8], false)
	default:
		return 0, false
	}
	for _, e := range err {
		if e != nil {
			return 0, false
		}
	}
	return uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b), true
}

// unescapeString strips the surrounding quotes of a string token and
// processes backslash escapes.
func unescapeString(s string) (string, bool) {
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return "", false
	}
	inner := s[1 : len(s)-1]
	if !strings.ContainsRune(inner, '\\') {
		return inner, true
	}
	var b strings.Builder
	for i := 0; i < len(inner); i++ {
		c := inner[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(inner) {
			return "", false
		}
		switch inner[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '"':
			b.WriteByte('"')
		case '\\':
			b.WriteByte('\\')
		default:
			return "", false
		}
	}
	return b.String(), true
}
