// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package errors_test

import (
	stderrors "errors"
	"fmt"
	"io"
	"testing"

	"github.com/absmach/vaultcreds/pkg/errors"
	"github.com/stretchr/testify/assert"
)

var (
	err0 = errors.New("0")
	err1 = errors.New("1")
	err2 = errors.New("2")
)

func TestError(t *testing.T) {
	testCases := []struct {
		desc string
		err  error
		msg  string
	}{
		{
			desc: "nil wrapper",
			err:  errors.Wrap(nil, err0),
			msg:  "",
		},
		{
			desc: "single error",
			err:  err0,
			msg:  "0",
		},
		{
			desc: "two wrapped errors",
			err:  errors.Wrap(err1, err0),
			msg:  "1 : 0",
		},
		{
			desc: "three wrapped errors",
			err:  errors.Wrap(err2, errors.Wrap(err1, err0)),
			msg:  "2 : 1 : 0",
		},
		{
			desc: "wrapped native error",
			err:  errors.Wrap(err1, io.EOF),
			msg:  "1 : EOF",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			if tc.err == nil {
				assert.Equal(t, tc.msg, "")
				return
			}
			assert.Equal(t, tc.msg, tc.err.Error())
		})
	}
}

func TestContains(t *testing.T) {
	testCases := []struct {
		desc      string
		container error
		contained error
		contains  bool
	}{
		{
			desc:      "nil contains nil",
			container: nil,
			contained: nil,
			contains:  true,
		},
		{
			desc:      "wrapper contains wrapped",
			container: errors.Wrap(err1, err0),
			contained: err0,
			contains:  true,
		},
		{
			desc:      "wrapper contains itself",
			container: errors.Wrap(err1, err0),
			contained: err1,
			contains:  true,
		},
		{
			desc:      "does not contain unrelated",
			container: errors.Wrap(err1, err0),
			contained: err2,
			contains:  false,
		},
		{
			desc:      "native wrapping",
			container: fmt.Errorf("outer: %w", err0),
			contained: err0,
			contains:  true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			assert.Equal(t, tc.contains, errors.Contains(tc.container, tc.contained))
		})
	}
}

func TestStdlibUnwrap(t *testing.T) {
	err := errors.Wrap(err1, io.ErrUnexpectedEOF)
	assert.True(t, stderrors.Is(err, io.ErrUnexpectedEOF))

	wrapped := errors.Wrap(err2, err)
	assert.True(t, stderrors.Is(wrapped, io.ErrUnexpectedEOF))
}

func TestCause(t *testing.T) {
	testCases := []struct {
		desc  string
		err   error
		cause error
	}{
		{
			desc:  "nil",
			err:   nil,
			cause: nil,
		},
		{
			desc:  "plain error",
			err:   err0,
			cause: err0,
		},
		{
			desc:  "joined errors",
			err:   stderrors.Join(err1, err2),
			cause: err1,
		},
		{
			desc:  "nested joins",
			err:   stderrors.Join(stderrors.Join(err2, err0), err1),
			cause: err2,
		},
		{
			desc:  "wrapped error is not descended",
			err:   errors.Wrap(err1, err0),
			cause: errors.Wrap(err1, err0),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			cause := errors.Cause(tc.err)
			if tc.cause == nil {
				assert.Nil(t, cause)
				return
			}
			assert.Equal(t, tc.cause.Error(), cause.Error())
		})
	}
}
