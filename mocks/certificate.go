// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package mocks

import (
	"errors"
	"sync"
	"time"

	"github.com/absmach/vaultcreds"
)

var _ vaultcreds.Certificate = (*Certificate)(nil)

var errDestroyed = errors.New("certificate destroyed")

// Certificate is an in-memory vaultcreds.Certificate with a fixed bundle.
type Certificate struct {
	CertName       string
	CertThumbprint string
	Bundle         []byte
	Issued         time.Time
	Validity       time.Duration

	mu        sync.Mutex
	destroyed int
}

// NewCertificate returns a certificate named name whose management
// certificate is bundle.
func NewCertificate(name string, bundle []byte) *Certificate {
	return &Certificate{
		CertName:       name,
		CertThumbprint: "0123456789ABCDEF0123456789ABCDEF01234567",
		Bundle:         bundle,
		Issued:         time.Now().UTC(),
		Validity:       48 * time.Hour,
	}
}

func (c *Certificate) Name() string         { return c.CertName }
func (c *Certificate) Thumbprint() string   { return c.CertThumbprint }
func (c *Certificate) Raw() []byte          { return []byte("der") }
func (c *Certificate) NotBefore() time.Time { return c.Issued }
func (c *Certificate) NotAfter() time.Time  { return c.Issued.Add(c.Validity) }

func (c *Certificate) ManagementCert() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed > 0 {
		return nil, errDestroyed
	}
	out := make([]byte, len(c.Bundle))
	copy(out, c.Bundle)
	return out, nil
}

func (c *Certificate) Destroy() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.destroyed++
}

// Destroyed reports whether Destroy was called at least once.
func (c *Certificate) Destroyed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.destroyed > 0
}
