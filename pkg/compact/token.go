package compact

import (
	"encoding/base64"
	"math"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/gramiojs/callback-data/pkg/schema"
	"github.com/gramiojs/callback-data/pkg/util/merr"
)

const (
	// MaxSafeInteger 以内的整数输出为 36 进制，超出该范围的整数按浮点格式输出。
	MaxSafeInteger = schema.MaxSafeInteger

	// reservedChars 为字符串中需要转义的字符。
	reservedChars = ";\\="

	uuidTokenLen = 22
)

// IsSafeInteger 判断数值是否为可无损压缩为 36 进制整数的值。
func IsSafeInteger(v float64) bool {
	return v == math.Trunc(v) && math.Abs(v) <= MaxSafeInteger
}

func encodeValue(f schema.Field, v any) (string, error) {
	switch f.Type {
	case schema.TypeNumber:
		n, ok := schema.AsNumber(v)
		if !ok {
			return "", merr.WrapErrInvalidFieldValue(f.Key, "number", v)
		}
		return formatNumber(n), nil

	case schema.TypeEnum:
		s, ok := v.(string)
		if !ok {
			return "", merr.WrapErrInvalidFieldValue(f.Key, "enum", v)
		}
		idx := f.EnumIndex(s)
		if idx < 0 {
			return "", merr.WrapErrInvalidEnumValue(f.Key, s, f.EnumValues)
		}
		return strconv.FormatInt(int64(idx), 36), nil

	case schema.TypeUUID:
		u, ok := schema.AsUUID(v)
		if !ok {
			return "", merr.WrapErrInvalidFieldValue(f.Key, "uuid", v)
		}
		return base64.RawURLEncoding.EncodeToString(u[:]), nil

	case schema.TypeBoolean:
		b, ok := v.(bool)
		if !ok {
			return "", merr.WrapErrInvalidFieldValue(f.Key, "boolean", v)
		}
		if b {
			return "1", nil
		}
		return "0", nil

	case schema.TypeString:
		s, ok := v.(string)
		if !ok {
			return "", merr.WrapErrInvalidFieldValue(f.Key, "string", v)
		}
		if s == "" {
			return "", merr.WrapErrEmptyStringValue(f.Key)
		}
		return escapeString(s), nil

	default:
		return "", merr.WrapErrUnsupportedType(f.Key, f.Type)
	}
}

func decodeValue(f schema.Field, tok string) (any, error) {
	switch f.Type {
	case schema.TypeNumber:
		return parseNumber(f.Key, tok)

	case schema.TypeEnum:
		if !isBase36Int(tok) {
			return nil, merr.WrapErrMalformedPayloadMsg("field %s: invalid enum token %q", f.Key, tok)
		}
		idx, err := strconv.ParseInt(tok, 36, 64)
		if err != nil || idx < 0 || idx >= int64(len(f.EnumValues)) {
			return nil, merr.WrapErrInvalidEnumIndex(f.Key, idx, len(f.EnumValues))
		}
		return f.EnumValues[idx], nil

	case schema.TypeUUID:
		if len(tok) != uuidTokenLen {
			return nil, merr.WrapErrMalformedPayloadMsg("field %s: uuid token must be %d chars, got %d", f.Key, uuidTokenLen, len(tok))
		}
		raw, err := base64.RawURLEncoding.DecodeString(tok)
		if err != nil {
			return nil, merr.WrapErrMalformedPayloadMsg("field %s: invalid uuid token %q", f.Key, tok)
		}
		u, err := uuid.FromBytes(raw)
		if err != nil {
			return nil, merr.WrapErrMalformedPayloadMsg("field %s: invalid uuid token %q", f.Key, tok)
		}
		return u.String(), nil

	case schema.TypeBoolean:
		return tok == "1", nil

	case schema.TypeString:
		if tok == "" {
			return nil, merr.WrapErrMalformedPayloadMsg("field %s: empty string token", f.Key)
		}
		s, err := unescapeString(tok)
		if err != nil {
			return nil, merr.WrapErrMalformedPayloadMsg("field %s: %s", f.Key, err.Error())
		}
		return s, nil

	default:
		return nil, merr.WrapErrUnsupportedType(f.Key, f.Type)
	}
}

// formatNumber 安全整数输出为带符号的 36 进制，其余数值输出为最短可往返的十进制表示。
//
// 非整数与超范围整数的输出总是包含 '.'、'+'、'e-' 或大写字母之一，
// 因此不会与 36 进制整数 token 混淆。
func formatNumber(v float64) string {
	if IsSafeInteger(v) {
		return strconv.FormatInt(int64(v), 36)
	}
	if v == math.Trunc(v) {
		// 超出安全范围的整数与 ±Inf：指数格式保证出现 "e+" 或 "Inf"。
		return strconv.FormatFloat(v, 'e', -1, 64)
	}
	if abs := math.Abs(v); abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func parseNumber(key, tok string) (float64, error) {
	if isBase36Int(tok) {
		n, err := strconv.ParseInt(tok, 36, 64)
		if err != nil {
			return 0, merr.WrapErrMalformedPayloadMsg("field %s: invalid integer token %q", key, tok)
		}
		return float64(n), nil
	}
	if !isFloatToken(tok) {
		return 0, merr.WrapErrMalformedPayloadMsg("field %s: invalid number token %q", key, tok)
	}
	n, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, merr.WrapErrMalformedPayloadMsg("field %s: invalid number token %q", key, tok)
	}
	return n, nil
}

// isFloatToken 只接受 formatNumber 可能输出的形式：
// "NaN"、"+Inf"、"-Inf" 以及 ^-?[0-9]+(\.[0-9]+)?(e[+-][0-9]+)?$。
func isFloatToken(tok string) bool {
	switch tok {
	case "NaN", "+Inf", "-Inf":
		return true
	}

	i := 0
	if i < len(tok) && tok[i] == '-' {
		i++
	}
	digits := func() bool {
		start := i
		for i < len(tok) && tok[i] >= '0' && tok[i] <= '9' {
			i++
		}
		return i > start
	}
	if !digits() {
		return false
	}
	if i < len(tok) && tok[i] == '.' {
		i++
		if !digits() {
			return false
		}
	}
	if i < len(tok) && tok[i] == 'e' {
		i++
		if i >= len(tok) || (tok[i] != '+' && tok[i] != '-') {
			return false
		}
		i++
		if !digits() {
			return false
		}
	}
	return i == len(tok)
}

// isBase36Int 匹配 ^-?[0-9a-z]+$。
func isBase36Int(tok string) bool {
	return isBase36Digits(strings.TrimPrefix(tok, "-"))
}

// isBase36Digits 匹配 ^[0-9a-z]+$。
func isBase36Digits(tok string) bool {
	if tok == "" {
		return false
	}
	for i := 0; i < len(tok); i++ {
		c := tok[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'z') {
			return false
		}
	}
	return true
}

// escapeString 仅在包含保留字符时转义：';' -> \s，'\' -> \\，'=' -> \e。
func escapeString(s string) string {
	if !strings.ContainsAny(s, reservedChars) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 8)
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case ';':
			b.WriteString(`\s`)
		case '\\':
			b.WriteString(`\\`)
		case '=':
			b.WriteString(`\e`)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

var errDanglingEscape = errors.New("dangling escape at end of token")

func unknownEscapeError(c byte) error {
	return errors.Newf("unknown escape sequence \\%c", c)
}

func unescapeString(s string) (string, error) {
	if strings.IndexByte(s, '\\') < 0 {
		return s, nil
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		if i+1 >= len(s) {
			return "", errDanglingEscape
		}
		i++
		switch s[i] {
		case 's':
			b.WriteByte(';')
		case 'e':
			b.WriteByte('=')
		case '\\':
			b.WriteByte('\\')
		default:
			return "", unknownEscapeError(s[i])
		}
	}
	return b.String(), nil
}
