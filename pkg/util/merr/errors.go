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
	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
)

type ErrorType int32

const (
	SystemError ErrorType = 0
	InputError  ErrorType = 1
)

var ErrorTypeName = map[ErrorType]string{
	SystemError: "system_error",
	InputError:  "input_error",
}

func (err ErrorType) String() string {
	return ErrorTypeName[err]
}

// Define leaf errors here,
// WARN: take care to add new error,
// check whether you can use the errors below before adding a new one.
// Name: Err + related prefix + error name
//
// 所有错误都是 (schema, input) 的确定性结果，重试不会改变结果，因此这里不区分是否可重试。
var (
	// Codec related
	ErrMissingRequiredField = newCodedError("missing required field", 100, InputError)
	ErrEmptyStringValue     = newCodedError("empty string value", 101, InputError)
	ErrInvalidEnumValue     = newCodedError("invalid enum value", 102, InputError)
	ErrInvalidEnumIndex     = newCodedError("invalid enum index", 103, InputError)
	ErrMalformedPayload     = newCodedError("malformed payload", 104, InputError)
	// UnsupportedType 只会在 schema 构造阶段的编程错误下出现。
	ErrUnsupportedType   = newCodedError("unsupported field type", 105, SystemError)
	ErrInvalidFieldValue = newCodedError("invalid field value", 106, InputError)

	// Schema related
	ErrSchemaInvalid  = newCodedError("invalid schema", 200, SystemError)
	ErrSchemaNotFound = newCodedError("schema not found", 201, InputError)

	// Dispatch related
	ErrCallbackDataMismatch = newCodedError("callback data mismatch", 300, InputError)
	ErrRouteNotFound        = newCodedError("no route matches payload", 301, InputError)
	ErrRouteDuplicated      = newCodedError("route already registered", 302, SystemError)

	// Parameter related
	ErrParameterInvalid = newCodedError("invalid parameter", 1100, InputError)
	ErrParameterMissing = newCodedError("missing parameter", 1101, InputError)

	// Do NOT export this,
	// never allow programmer using this, keep only for converting unknown error to codedError
	errUnexpected = newCodedError("unexpected error", (1<<16)-1, SystemError)
)

type codedError struct {
	msg     string
	errCode int32
	errType ErrorType
}

func newCodedError(msg string, code int32, etype ErrorType) codedError {
	return codedError{
		msg:     msg,
		errCode: code,
		errType: etype,
	}
}

func (e codedError) code() int32 {
	return e.errCode
}

func (e codedError) Error() string {
	return e.msg
}

func (e codedError) Is(err error) bool {
	cause := errors.Cause(err)
	if cause, ok := cause.(codedError); ok {
		return e.errCode == cause.errCode
	}
	return false
}

type multiErrors struct {
	errs []error
}

func (e multiErrors) Unwrap() error {
	if len(e.errs) <= 1 {
		return nil
	}
	// To make merr work for multi errors,
	// we need cause of multi errors, which defined as the last error
	if len(e.errs) == 2 {
		return e.errs[1]
	}

	return multiErrors{
		errs: e.errs[1:],
	}
}

func (e multiErrors) Error() string {
	final := e.errs[0]
	for i := 1; i < len(e.errs); i++ {
		final = errors.Wrap(e.errs[i], final.Error())
	}
	return final.Error()
}

func (e multiErrors) Is(err error) bool {
	for _, item := range e.errs {
		if errors.Is(item, err) {
			return true
		}
	}
	return false
}

// Combine 合并多个错误，nil 会被过滤；全部为 nil 时返回 nil。
func Combine(errs ...error) error {
	errs = lo.Filter(errs, func(err error, _ int) bool { return err != nil })
	if len(errs) == 0 {
		return nil
	}
	return multiErrors{
		errs,
	}
}
