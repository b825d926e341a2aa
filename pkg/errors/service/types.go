// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package service holds the error kinds shared by repository implementations.
package service

import "github.com/absmach/vaultcreds/pkg/errors"

var (
	// ErrConflict indicates that entity already exists.
	ErrConflict = errors.New("entity already exists")

	// ErrCreateEntity indicates error in creating entity or entities.
	ErrCreateEntity = errors.New("failed to create entity")

	// ErrViewEntity indicates error in viewing entity or entities.
	ErrViewEntity = errors.New("view entity failed")

	// ErrMalformedEntity indicates a malformed entity specification.
	ErrMalformedEntity = errors.New("malformed entity specification")
)
