// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package certificate_test

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/absmach/vaultcreds"
	"github.com/absmach/vaultcreds/certificate"
	"github.com/absmach/vaultcreds/pkg/errors"
	"github.com/awnumar/memguard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/pkcs12"
)

const seed = "22222222-2222-2222-2222-222222222222-V1"

var issuedAt = time.Date(2026, time.October, 16, 9, 30, 15, 0, time.UTC)

func fixedClock() time.Time {
	return issuedAt
}

func TestCreate(t *testing.T) {
	factory := certificate.NewFactory(certificate.WithClock(fixedClock))

	testCases := []struct {
		desc          string
		validityHours uint
		seed          string
		err           error
	}{
		{
			desc:          "backup validity window",
			validityHours: 48,
			seed:          seed,
		},
		{
			desc:          "site recovery validity window",
			validityHours: 120,
			seed:          seed,
		},
		{
			desc:          "zero validity",
			validityHours: 0,
			seed:          seed,
			err:           vaultcreds.ErrCertificateGeneration,
		},
		{
			desc:          "empty seed",
			validityHours: 48,
			seed:          "-",
			err:           vaultcreds.ErrCertificateGeneration,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			cert, err := factory.Create(tc.validityHours, tc.seed)
			if tc.err != nil {
				assert.True(t, errors.Contains(err, tc.err), "expected error %v, got %v", tc.err, err)
				assert.Nil(t, cert)
				return
			}
			require.NoError(t, err)
			defer cert.Destroy()

			assert.Equal(t, issuedAt, cert.NotBefore())
			assert.Equal(t, time.Duration(tc.validityHours)*time.Hour, cert.NotAfter().Sub(cert.NotBefore()))
			assert.Equal(t, seed+"-10-16-2026-vaultcredentials", cert.Name())
			assert.Len(t, cert.Thumbprint(), 40)
			assert.Equal(t, strings.ToUpper(cert.Thumbprint()), cert.Thumbprint())

			parsed, err := x509.ParseCertificate(cert.Raw())
			require.NoError(t, err)
			assert.Equal(t, cert.Name(), parsed.Subject.CommonName)
			assert.Equal(t, parsed.Subject.String(), parsed.Issuer.String())
			assert.NoError(t, parsed.CheckSignatureFrom(parsed))
		})
	}
}

func TestCreateKeyGenerationFailure(t *testing.T) {
	factory := certificate.NewFactory(certificate.WithKeyBits(256))

	cert, err := factory.Create(48, seed)
	assert.True(t, errors.Contains(err, vaultcreds.ErrCertificateGeneration), "expected error %v, got %v", vaultcreds.ErrCertificateGeneration, err)
	assert.Nil(t, cert)
}

func TestManagementCert(t *testing.T) {
	factory := certificate.NewFactory(certificate.WithClock(fixedClock))
	cert, err := factory.Create(48, seed)
	require.NoError(t, err)
	defer cert.Destroy()

	encoded, err := cert.ManagementCert()
	require.NoError(t, err)
	defer memguard.WipeBytes(encoded)

	pfx, err := base64.StdEncoding.DecodeString(string(encoded))
	require.NoError(t, err)

	key, bundled, err := pkcs12.Decode(pfx, "")
	require.NoError(t, err)
	assert.Equal(t, cert.Raw(), bundled.Raw)

	rsaKey, ok := key.(*rsa.PrivateKey)
	require.True(t, ok)
	assert.NoError(t, rsaKey.Validate())
	assert.True(t, rsaKey.PublicKey.Equal(bundled.PublicKey))
}

func TestDestroy(t *testing.T) {
	factory := certificate.NewFactory()
	cert, err := factory.Create(120, seed)
	require.NoError(t, err)

	_, err = cert.ManagementCert()
	require.NoError(t, err)

	cert.Destroy()
	cert.Destroy()

	encoded, err := cert.ManagementCert()
	assert.Error(t, err)
	assert.Nil(t, encoded)
}

func TestCreateIsFresh(t *testing.T) {
	factory := certificate.NewFactory(certificate.WithClock(fixedClock))

	first, err := factory.Create(48, seed)
	require.NoError(t, err)
	defer first.Destroy()
	second, err := factory.Create(48, seed)
	require.NoError(t, err)
	defer second.Destroy()

	assert.Equal(t, first.Name(), second.Name())
	assert.NotEqual(t, first.Thumbprint(), second.Thumbprint())
}
