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
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/suite"
)

type ErrSuite struct {
	suite.Suite
}

func (s *ErrSuite) TestCode() {
	err := WrapErrMissingRequiredField("id")
	err = errors.Wrap(err, "failed to encode")
	s.ErrorIs(err, ErrMissingRequiredField)
	s.Equal(Code(ErrMissingRequiredField), Code(err))
	s.Equal(int32(0), Code(nil))
	s.Equal(errUnexpected.errCode, Code(errors.New("plain")))

	sameCodeErr := newCodedError("new error", ErrMalformedPayload.errCode, InputError)
	s.True(sameCodeErr.Is(ErrMalformedPayload))
	s.False(sameCodeErr.Is(ErrEmptyStringValue))
}

func (s *ErrSuite) TestWrap() {
	// Codec 相关错误。
	s.ErrorIs(WrapErrMissingRequiredField("id"), ErrMissingRequiredField)
	s.ErrorIs(WrapErrEmptyStringValue("name", "encode"), ErrEmptyStringValue)
	s.ErrorIs(WrapErrInvalidEnumValue("role", "root", []string{"user", "admin"}), ErrInvalidEnumValue)
	s.ErrorIs(WrapErrInvalidEnumIndex("role", 5, 2), ErrInvalidEnumIndex)
	s.ErrorIs(WrapErrMalformedPayload(3, 2), ErrMalformedPayload)
	s.ErrorIs(WrapErrMalformedPayloadMsg("bad token %q", "x"), ErrMalformedPayload)
	s.ErrorIs(WrapErrUnsupportedType("x", "date"), ErrUnsupportedType)
	s.ErrorIs(WrapErrInvalidFieldValue("id", "number", "abc"), ErrInvalidFieldValue)

	// Schema 相关错误。
	s.ErrorIs(WrapErrSchemaInvalid("duplicate key"), ErrSchemaInvalid)
	s.ErrorIs(WrapErrSchemaInvalidField("id", "duplicate key"), ErrSchemaInvalid)
	s.ErrorIs(WrapErrSchemaNotFound("orders"), ErrSchemaNotFound)

	// Dispatch 相关错误。
	s.ErrorIs(WrapErrCallbackDataMismatch("orders", "xyz"), ErrCallbackDataMismatch)
	s.ErrorIs(WrapErrRouteNotFound("xyz"), ErrRouteNotFound)
	s.ErrorIs(WrapErrRouteDuplicated("abcdef", "orders"), ErrRouteDuplicated)

	// Parameter 相关错误。
	s.ErrorIs(WrapErrParameterInvalid("number", "abc"), ErrParameterInvalid)
	s.ErrorIs(WrapErrParameterInvalidMsg("bad %s", "flag"), ErrParameterInvalid)
	s.ErrorIs(WrapErrParameterMissing("config"), ErrParameterMissing)
}

func (s *ErrSuite) TestMessageFields() {
	err := WrapErrInvalidEnumIndex("role", 5, 2)
	s.Contains(err.Error(), "field=role")
	s.Contains(err.Error(), "5 out of range 0 <= index <= 1")

	err = WrapErrSchemaInvalidField("id", "duplicate key")
	s.Equal("invalid schema[field=id]: duplicate key", err.Error())
}

func (s *ErrSuite) TestErrorType() {
	s.Equal(InputError, GetErrorType(WrapErrMalformedPayload(1, 2)))
	s.Equal(SystemError, GetErrorType(WrapErrUnsupportedType("x", "date")))
	s.Equal(SystemError, GetErrorType(errors.New("plain")))
	s.True(IsInputError(errors.Wrap(WrapErrEmptyStringValue("name"), "outer")))
	s.False(IsInputError(nil))
	s.Equal("input_error", InputError.String())
}

func (s *ErrSuite) TestCombine() {
	s.Nil(Combine(nil, nil))

	err := Combine(WrapErrSchemaInvalid("a"), nil, WrapErrMissingRequiredField("b"))
	s.ErrorIs(err, ErrSchemaInvalid)
	s.ErrorIs(err, ErrMissingRequiredField)
	s.Contains(err.Error(), "a")
	s.Contains(err.Error(), "field=b")
}

func TestErrors(t *testing.T) {
	suite.Run(t, new(ErrSuite))
}
