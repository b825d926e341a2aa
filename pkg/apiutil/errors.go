// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package apiutil

import "github.com/absmach/vaultcreds/pkg/errors"

// MaxLimitSize is the largest page a listing may request.
const MaxLimitSize = 100

var (
	// ErrEmptyList indicates that entity data is empty.
	ErrEmptyList = errors.New("empty list provided")

	// ErrLimitSize indicates an invalid limit.
	ErrLimitSize = errors.New("invalid limit size")

	// ErrInvalidConcurrency indicates a negative batch concurrency.
	ErrInvalidConcurrency = errors.New("invalid concurrency")
)
