// Licensed to the LF AI & Data foundation under one
// or more contributor license agreements. See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership. The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License. You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package merr

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// Code 返回给定错误对应的错误码。
// nil 返回 0，非 merr 定义的错误统一返回 errUnexpected 的错误码。
func Code(err error) int32 {
	if err == nil {
		return 0
	}

	var coded codedError
	if errors.As(err, &coded) {
		return coded.code()
	}
	return errUnexpected.code()
}

// GetErrorType 返回错误的分类，未知错误视为 SystemError。
func GetErrorType(err error) ErrorType {
	var coded codedError
	if errors.As(err, &coded) {
		return coded.errType
	}
	return SystemError
}

// IsInputError 判断错误是否由调用方输入（值或 payload）引起。
func IsInputError(err error) bool {
	return err != nil && GetErrorType(err) == InputError
}

// Codec 相关错误封装。
func WrapErrMissingRequiredField(key string, msg ...string) error {
	err := wrapFields(ErrMissingRequiredField, value("field", key))
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func WrapErrEmptyStringValue(key string, msg ...string) error {
	err := wrapFields(ErrEmptyStringValue, value("field", key))
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func WrapErrInvalidEnumValue(key string, actual any, allowed []string, msg ...string) error {
	err := wrapFields(ErrInvalidEnumValue,
		value("field", key),
		value("value", actual),
		value("allowed", strings.Join(allowed, "|")),
	)
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func WrapErrInvalidEnumIndex(key string, index int64, size int, msg ...string) error {
	err := wrapFields(ErrInvalidEnumIndex,
		value("field", key),
		bound("index", index, 0, size-1),
	)
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func WrapErrMalformedPayload(expected, actual int, msg ...string) error {
	err := wrapFields(ErrMalformedPayload,
		value("expected_tokens", expected),
		value("actual_tokens", actual),
	)
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func WrapErrMalformedPayloadMsg(fmt string, args ...any) error {
	return errors.Wrapf(ErrMalformedPayload, fmt, args...)
}

func WrapErrUnsupportedType(key string, typ any, msg ...string) error {
	err := wrapFields(ErrUnsupportedType,
		value("field", key),
		value("type", typ),
	)
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func WrapErrInvalidFieldValue(key string, expected string, actual any, msg ...string) error {
	err := wrapFields(ErrInvalidFieldValue,
		value("field", key),
		value("expected", expected),
		value("actual", fmt.Sprintf("%T(%v)", actual, actual)),
	)
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

// Schema 相关错误封装。
func WrapErrSchemaInvalid(reason string, msg ...string) error {
	err := wrapFieldsWithDesc(ErrSchemaInvalid, reason)
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func WrapErrSchemaInvalidField(key string, reason string) error {
	return wrapFieldsWithDesc(ErrSchemaInvalid, reason, value("field", key))
}

func WrapErrSchemaNotFound(name string, msg ...string) error {
	err := wrapFields(ErrSchemaNotFound, value("schema", name))
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

// Dispatch 相关错误封装。
func WrapErrCallbackDataMismatch(name string, payload string) error {
	return wrapFields(ErrCallbackDataMismatch,
		value("callback_data", name),
		value("payload", payload),
	)
}

func WrapErrRouteNotFound(payload string, msg ...string) error {
	err := wrapFields(ErrRouteNotFound, value("payload", payload))
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func WrapErrRouteDuplicated(id string, name string, msg ...string) error {
	err := wrapFields(ErrRouteDuplicated,
		value("id", id),
		value("callback_data", name),
	)
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

// Parameter 相关错误封装。
func WrapErrParameterInvalid[T any](expected, actual T, msg ...string) error {
	err := wrapFields(ErrParameterInvalid,
		value("expected", expected),
		value("actual", actual),
	)
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func WrapErrParameterInvalidMsg(fmt string, args ...any) error {
	return errors.Wrapf(ErrParameterInvalid, fmt, args...)
}

func WrapErrParameterMissing[T any](param T, msg ...string) error {
	err := wrapFields(ErrParameterMissing,
		value("missing_param", param),
	)
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func wrapFields(err codedError, fields ...errorField) error {
	for i := range fields {
		err.msg += fmt.Sprintf("[%s]", fields[i].String())
	}
	return err
}

func wrapFieldsWithDesc(err codedError, desc string, fields ...errorField) error {
	for i := range fields {
		err.msg += fmt.Sprintf("[%s]", fields[i].String())
	}
	err.msg += ": " + desc
	return err
}

type errorField interface {
	String() string
}

type valueField struct {
	name  string
	value any
}

func value(name string, value any) valueField {
	return valueField{
		name,
		value,
	}
}

func (f valueField) String() string {
	return fmt.Sprintf("%s=%v", f.name, f.value)
}

type boundField struct {
	name  string
	value any
	lower any
	upper any
}

func bound(name string, value, lower, upper any) boundField {
	return boundField{
		name,
		value,
		lower,
		upper,
	}
}

func (f boundField) String() string {
	return fmt.Sprintf("%v out of range %v <= %s <= %v", f.value, f.lower, f.name, f.upper)
}
