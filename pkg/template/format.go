package template

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/number"
)

// Appender is implemented by values that write their own formatted form.
// It is tried before any other formatting.
type Appender interface {
	AppendFormat(dst []byte, format string, l *Locale) []byte
}

// LocaleFormatter is implemented by values that format themselves for a
// locale and format specifier.
type LocaleFormatter interface {
	FormatLocale(format string, l *Locale) string
}

// appendValue formats one argument. Nil formats as nothing.
func appendValue(dst []byte, value any, format string, l *Locale) []byte {
	switch v := value.(type) {
	case nil:
		return dst
	case Appender:
		return v.AppendFormat(dst, format, l)
	case LocaleFormatter:
		return append(dst, v.FormatLocale(format, l)...)
	}
	if format != "" {
		if out, ok := appendSpecified(dst, value, format, l); ok {
			return out
		}
	}
	return appendGeneric(dst, value)
}

func appendGeneric(dst []byte, value any) []byte {
	switch v := value.(type) {
	case string:
		return append(dst, v...)
	case []byte:
		return append(dst, v...)
	case bool:
		return strconv.AppendBool(dst, v)
	case int:
		return strconv.AppendInt(dst, int64(v), 10)
	case int64:
		return strconv.AppendInt(dst, v, 10)
	case int32:
		return strconv.AppendInt(dst, int64(v), 10)
	case uint:
		return strconv.AppendUint(dst, uint64(v), 10)
	case uint64:
		return strconv.AppendUint(dst, v, 10)
	case float64:
		return strconv.AppendFloat(dst, v, 'g', -1, 64)
	case float32:
		return strconv.AppendFloat(dst, float64(v), 'g', -1, 32)
	case error:
		return append(dst, v.Error()...)
	case fmt.Stringer:
		return append(dst, v.String()...)
	}
	return fmt.Append(dst, value)
}

// appendSpecified applies a format specifier:
//
//	%...       a fmt verb, localized through the locale's printer
//	X4, x      hexadecimal with a minimum number of digits
//	D5         decimal with a minimum number of digits
//	N2         grouped number with fixed decimals (two by default)
//	F2         ungrouped number with fixed decimals (two by default)
//	E6         scientific notation (six decimals by default)
//	P1         percentage with fixed decimals (two by default)
//	G          general, as without a specifier
//
// time.Time values take the specifier as a layout. It reports false when
// the specifier does not apply to the value.
func appendSpecified(dst []byte, value any, format string, l *Locale) ([]byte, bool) {
	if format[0] == '%' {
		if l == nil {
			return fmt.Appendf(dst, format, value), true
		}
		return append(dst, l.Printer().Sprintf(format, value)...), true
	}
	if t, ok := value.(time.Time); ok {
		return t.AppendFormat(dst, format), true
	}

	letter, precision, ok := splitSpecifier(format)
	if !ok || !isNumber(value) {
		return dst, false
	}
	fractions := func(def int) int {
		if precision < 0 {
			return def
		}
		return precision
	}

	switch letter {
	case 'X', 'x':
		bits, ok := hexBits(value)
		if !ok {
			return dst, false
		}
		digits := strconv.FormatUint(bits, 16)
		if letter == 'X' {
			digits = strings.ToUpper(digits)
		}
		return appendZeroPadded(dst, digits, precision), true
	case 'D', 'd':
		s, ok := integerString(value)
		if !ok {
			return dst, false
		}
		if strings.HasPrefix(s, "-") {
			return appendZeroPadded(append(dst, '-'), s[1:], precision), true
		}
		return appendZeroPadded(dst, s, precision), true
	case 'N', 'n':
		p := fractions(2)
		return append(dst, l.Printer().Sprintf("%v", number.Decimal(value,
			number.MinFractionDigits(p), number.MaxFractionDigits(p)))...), true
	case 'F', 'f':
		p := fractions(2)
		return append(dst, l.Printer().Sprintf("%v", number.Decimal(value, number.NoSeparator(),
			number.MinFractionDigits(p), number.MaxFractionDigits(p)))...), true
	case 'E', 'e':
		f, _ := toFloat(value)
		return strconv.AppendFloat(dst, f, letter, fractions(6), 64), true
	case 'P', 'p':
		p := fractions(2)
		return append(dst, l.Printer().Sprintf("%v", number.Percent(value,
			number.MinFractionDigits(p), number.MaxFractionDigits(p)))...), true
	case 'G', 'g':
		return appendGeneric(dst, value), true
	}
	return dst, false
}

// splitSpecifier splits "N2" into 'N' and 2. A missing precision is -1.
func splitSpecifier(format string) (byte, int, bool) {
	letter := format[0]
	if !(letter >= 'A' && letter <= 'Z' || letter >= 'a' && letter <= 'z') {
		return 0, 0, false
	}
	if len(format) == 1 {
		return letter, -1, true
	}
	p, ok := parseIndex(format[1:])
	if !ok || p > 99 {
		return 0, 0, false
	}
	return letter, p, true
}

func appendZeroPadded(dst []byte, digits string, width int) []byte {
	for i := len(digits); i < width; i++ {
		dst = append(dst, '0')
	}
	return append(dst, digits...)
}

func isNumber(value any) bool {
	switch value.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, uintptr, float32, float64:
		return true
	}
	return false
}

// hexBits returns the two's complement bits of an integer at its own width.
func hexBits(value any) (uint64, bool) {
	switch v := value.(type) {
	case int:
		return uint64(v), true
	case int8:
		return uint64(uint8(v)), true
	case int16:
		return uint64(uint16(v)), true
	case int32:
		return uint64(uint32(v)), true
	case int64:
		return uint64(v), true
	case uint:
		return uint64(v), true
	case uint8:
		return uint64(v), true
	case uint16:
		return uint64(v), true
	case uint32:
		return uint64(v), true
	case uint64:
		return v, true
	case uintptr:
		return uint64(v), true
	}
	return 0, false
}

func integerString(value any) (string, bool) {
	switch v := value.(type) {
	case int, int8, int16, int32, int64:
		return fmt.Sprint(v), true
	case uint, uint8, uint16, uint32, uint64, uintptr:
		return fmt.Sprint(v), true
	}
	return "", false
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	}
	if s, ok := integerString(value); ok {
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	}
	return 0, false
}
