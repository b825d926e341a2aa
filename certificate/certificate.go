// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package certificate creates the short-lived self-signed management
// certificates embedded in vault credential documents.
package certificate

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"math/big"
	"strings"
	"time"

	"github.com/absmach/vaultcreds"
	"github.com/absmach/vaultcreds/pkg/errors"
	"github.com/awnumar/memguard"
	"software.sslmate.com/src/go-pkcs12"
)

const (
	defKeyBits     = 2048
	nameSuffix     = "vaultcredentials"
	nameDateLayout = "1-2-2006"
)

var (
	serialNumberLimit = new(big.Int).Lsh(big.NewInt(1), 128)

	errZeroValidity = errors.New("certificate validity must be positive")
	errEmptySeed    = errors.New("certificate subject seed is empty")
	errDestroyed    = errors.New("certificate key material has been destroyed")
)

var _ vaultcreds.CertificateFactory = (*factory)(nil)

type factory struct {
	keyBits int
	random  io.Reader
	now     func() time.Time
}

// Option customizes the factory.
type Option func(*factory)

// WithClock sets the clock used for the validity window.
func WithClock(now func() time.Time) Option {
	return func(f *factory) {
		f.now = now
	}
}

// WithKeyBits sets the RSA modulus size.
func WithKeyBits(bits int) Option {
	return func(f *factory) {
		f.keyBits = bits
	}
}

// WithRand sets the randomness source for serial numbers and bundle encryption.
func WithRand(r io.Reader) Option {
	return func(f *factory) {
		f.random = r
	}
}

// NewFactory returns a certificate factory backed by crypto/rand.
func NewFactory(opts ...Option) vaultcreds.CertificateFactory {
	f := &factory{
		keyBits: defKeyBits,
		random:  rand.Reader,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Create generates an RSA key pair and a self-signed certificate whose
// subject is derived from subjectSeed. The private key only survives inside
// an encrypted PKCS#12 bundle held in locked memory.
func (f *factory) Create(validityHours uint, subjectSeed string) (vaultcreds.Certificate, error) {
	if validityHours == 0 {
		return nil, errors.Wrap(vaultcreds.ErrCertificateGeneration, errZeroValidity)
	}
	if strings.Trim(subjectSeed, "-") == "" {
		return nil, errors.Wrap(vaultcreds.ErrCertificateGeneration, errEmptySeed)
	}

	privKey, err := rsa.GenerateKey(f.random, f.keyBits)
	if err != nil {
		return nil, errors.Wrap(vaultcreds.ErrCertificateGeneration, err)
	}
	defer wipeKey(privKey)

	serialNumber, err := rand.Int(f.random, serialNumberLimit)
	if err != nil {
		return nil, errors.Wrap(vaultcreds.ErrCertificateGeneration, err)
	}

	notBefore := f.now().UTC().Truncate(time.Second)
	name := fmt.Sprintf("%s-%s-%s", subjectSeed, notBefore.Format(nameDateLayout), nameSuffix)

	template := x509.Certificate{
		SerialNumber: serialNumber,
		Subject: pkix.Name{
			CommonName: name,
		},
		NotBefore:             notBefore,
		NotAfter:              notBefore.Add(time.Duration(validityHours) * time.Hour),
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment | x509.KeyUsageDataEncipherment | x509.KeyUsageCertSign,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageClientAuth},
		BasicConstraintsValid: true,
		// Self-signed, so the certificate must be able to verify itself.
		IsCA:           true,
		MaxPathLenZero: true,
	}

	der, err := x509.CreateCertificate(f.random, &template, &template, &privKey.PublicKey, privKey)
	if err != nil {
		return nil, errors.Wrap(vaultcreds.ErrCertificateGeneration, err)
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, errors.Wrap(vaultcreds.ErrCertificateGeneration, err)
	}

	// Agents import the bundle without a password.
	pfx, err := pkcs12.LegacyDES.WithRand(f.random).Encode(privKey, cert, nil, "")
	if err != nil {
		return nil, errors.Wrap(vaultcreds.ErrCertificateGeneration, err)
	}

	thumbprint := sha1.Sum(der)

	return &certificate{
		name:       name,
		raw:        der,
		thumbprint: strings.ToUpper(hex.EncodeToString(thumbprint[:])),
		notBefore:  cert.NotBefore,
		notAfter:   cert.NotAfter,
		// NewBufferFromBytes wipes pfx.
		bundle: memguard.NewBufferFromBytes(pfx),
	}, nil
}

type certificate struct {
	name       string
	raw        []byte
	thumbprint string
	notBefore  time.Time
	notAfter   time.Time
	bundle     *memguard.LockedBuffer
}

func (c *certificate) Name() string         { return c.name }
func (c *certificate) Thumbprint() string   { return c.thumbprint }
func (c *certificate) Raw() []byte          { return c.raw }
func (c *certificate) NotBefore() time.Time { return c.notBefore }
func (c *certificate) NotAfter() time.Time  { return c.notAfter }

func (c *certificate) ManagementCert() ([]byte, error) {
	if c.bundle == nil || !c.bundle.IsAlive() {
		return nil, errDestroyed
	}
	src := c.bundle.Bytes()
	dst := make([]byte, base64.StdEncoding.EncodedLen(len(src)))
	base64.StdEncoding.Encode(dst, src)
	return dst, nil
}

func (c *certificate) Destroy() {
	if c.bundle != nil {
		c.bundle.Destroy()
	}
}

// wipeKey overwrites the private values of key. Internal copies kept by
// crypto/rsa are out of reach.
func wipeKey(key *rsa.PrivateKey) {
	wipeInt(key.D)
	for _, p := range key.Primes {
		wipeInt(p)
	}
	wipeInt(key.Precomputed.Dp)
	wipeInt(key.Precomputed.Dq)
	wipeInt(key.Precomputed.Qinv)
}

func wipeInt(i *big.Int) {
	if i == nil {
		return
	}
	words := i.Bits()
	for j := range words {
		words[j] = 0
	}
	i.SetInt64(0)
}
