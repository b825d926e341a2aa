// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package vaultcreds

import "github.com/absmach/vaultcreds/pkg/errors"

var (
	// ErrCertificateGeneration indicates the crypto provider failed to produce a certificate.
	ErrCertificateGeneration = errors.New("failed to generate certificate")

	// ErrAuthModeUnavailable indicates the vault auth mode could not be resolved.
	ErrAuthModeUnavailable = errors.New("vault auth mode unavailable")

	// ErrUploadRejected indicates the identity endpoint refused the certificate.
	ErrUploadRejected = errors.New("certificate upload rejected")

	// ErrUploadUnavailable indicates the identity endpoint could not be reached.
	ErrUploadUnavailable = errors.New("certificate upload unavailable")

	// ErrIncompleteMetadata indicates a required credential field is missing.
	ErrIncompleteMetadata = errors.New("incomplete credential metadata")

	// ErrDirectoryNotFound indicates the explicitly requested output directory does not exist.
	ErrDirectoryNotFound = errors.New("output directory not found")

	// ErrSerialization indicates the credential document could not be rendered.
	ErrSerialization = errors.New("failed to serialize credential document")

	// ErrWrite indicates the credential file could not be written.
	ErrWrite = errors.New("failed to write credential file")

	// ErrUnsupportedCombination indicates no document shape exists for a vault type and auth mode.
	ErrUnsupportedCombination = errors.New("unsupported vault type and auth mode combination")

	// ErrInvalidSiteIdentity indicates only one of site ID and site name was supplied.
	ErrInvalidSiteIdentity = errors.New("site identity requires both id and friendly name")

	// ErrInvalidVault indicates a malformed vault identity.
	ErrInvalidVault = errors.New("malformed vault identity")

	// ErrChannelKeyUnavailable indicates the channel integrity key could not be retrieved.
	ErrChannelKeyUnavailable = errors.New("channel integrity key unavailable")
)
