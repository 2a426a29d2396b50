// Package compact 实现基于 schema 的紧凑文本编解码。
//
// 编码格式（字段之间以单个 ';' 分隔）：
//
//	<required_1>;<required_2>;...;[<bitmask>;]<present_optional_1>;...
//
//   - 必填字段按 schema 顺序依次输出；
//   - 若 schema 声明了可选字段，则总是输出一个 36 进制的存在位图（最低位对应第一个可选字段），
//     即使没有任何可选字段出现也输出 "0"；
//   - 随后按顺序输出存在的可选字段；
//   - 默认值从不写入 payload，解码时按当前 schema 填充。
//
// Encode/Decode 为纯函数，没有共享可变状态，可在多个 goroutine 中对同一个 Schema 并发调用。
package compact

import (
	"math/bits"
	"strconv"
	"strings"

	"github.com/gramiojs/callback-data/pkg/schema"
	"github.com/gramiojs/callback-data/pkg/util/merr"
)

// Separator 为 token 分隔符，不可配置。
const Separator = ';'

// Encode 将 values 按 schema 编码为紧凑字符串。
//
// values 中 nil 值视为未提供。schema 之外的 key 会被忽略。
func Encode(s *schema.Schema, values Values) (string, error) {
	var b strings.Builder
	written := 0
	write := func(tok string) {
		if written > 0 {
			b.WriteByte(Separator)
		}
		b.WriteString(tok)
		written++
	}

	for _, f := range s.Required() {
		v, ok := values[f.Key]
		if !ok || v == nil {
			return "", merr.WrapErrMissingRequiredField(f.Key)
		}
		tok, err := encodeValue(f, v)
		if err != nil {
			return "", err
		}
		write(tok)
	}

	optional := s.Optional()
	if len(optional) == 0 {
		return b.String(), nil
	}

	var mask uint64
	for i, f := range optional {
		if v, ok := values[f.Key]; ok && v != nil {
			mask |= 1 << uint(i)
		}
	}
	write(strconv.FormatUint(mask, 36))

	for i, f := range optional {
		if mask&(1<<uint(i)) == 0 {
			continue
		}
		tok, err := encodeValue(f, values[f.Key])
		if err != nil {
			return "", err
		}
		write(tok)
	}
	return b.String(), nil
}

// Decode 将 Encode 的输出按 schema 还原。
//
// 未出现且声明了默认值的可选字段会被填充为默认值；未出现且没有默认值的可选字段不会出现在结果中。
// token 数量与 schema 不一致时返回 ErrMalformedPayload，不会返回部分结果。
func Decode(s *schema.Schema, payload string) (Values, error) {
	r := newTokenReader(payload)
	out := make(Values, s.Len())

	for _, f := range s.Required() {
		tok, err := r.next()
		if err != nil {
			return nil, err
		}
		v, err := decodeValue(f, tok)
		if err != nil {
			return nil, err
		}
		out[f.Key] = v
	}

	optional := s.Optional()
	if len(optional) > 0 {
		tok, err := r.next()
		if err != nil {
			return nil, err
		}
		mask, err := parseBitmask(tok, len(optional))
		if err != nil {
			return nil, err
		}
		if r.remaining() < bits.OnesCount64(mask) {
			return nil, merr.WrapErrMalformedPayload(r.pos+bits.OnesCount64(mask), len(r.tokens))
		}

		for i, f := range optional {
			switch {
			case mask&(1<<uint(i)) != 0:
				tok, err := r.next()
				if err != nil {
					return nil, err
				}
				v, err := decodeValue(f, tok)
				if err != nil {
					return nil, err
				}
				out[f.Key] = v
			case f.HasDefault():
				out[f.Key] = f.Default
			}
		}
	}

	if r.remaining() != 0 {
		return nil, merr.WrapErrMalformedPayload(r.pos, len(r.tokens))
	}
	return out, nil
}

func parseBitmask(tok string, optionalCount int) (uint64, error) {
	if !isBase36Digits(tok) {
		return 0, merr.WrapErrMalformedPayloadMsg("invalid bitmask token %q", tok)
	}
	mask, err := strconv.ParseUint(tok, 36, 64)
	if err != nil {
		return 0, merr.WrapErrMalformedPayloadMsg("invalid bitmask token %q", tok)
	}
	if optionalCount < 64 && mask>>uint(optionalCount) != 0 {
		return 0, merr.WrapErrMalformedPayloadMsg("bitmask %q marks undeclared optional fields", tok)
	}
	return mask, nil
}

type tokenReader struct {
	tokens []string
	pos    int
}

func newTokenReader(payload string) *tokenReader {
	r := &tokenReader{}
	// 空 payload 对应零个 token（无字段的 schema）。
	if payload != "" {
		r.tokens = strings.Split(payload, string(Separator))
	}
	return r
}

func (r *tokenReader) next() (string, error) {
	if r.pos >= len(r.tokens) {
		return "", merr.WrapErrMalformedPayloadMsg("payload truncated: need token %d, have %d", r.pos+1, len(r.tokens))
	}
	tok := r.tokens[r.pos]
	r.pos++
	return tok, nil
}

func (r *tokenReader) remaining() int {
	return len(r.tokens) - r.pos
}
