// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package vaultcreds

import (
	"context"
	"log/slog"
	"time"

	"github.com/absmach/vaultcreds/pkg/errors"
	"github.com/awnumar/memguard"
)

var errUnknownAuthMode = errors.New("unknown auth mode")

// IDProvider generates unique identifiers for journal entries.
type IDProvider interface {
	ID() (string, error)
}

type service struct {
	resolver    AuthModeResolver
	factory     CertificateFactory
	uploader    Uploader
	channelKeys ChannelKeyProvider
	builder     RecordBuilder
	serializer  Serializer
	writer      Writer
	journal     Journal
	idp         IDProvider
	logger      *slog.Logger
	now         func() time.Time
}

var _ Service = (*service)(nil)

// Option customizes the issuance service.
type Option func(*service)

// WithJournal records every issuance attempt in journal, identified by IDs from idp.
func WithJournal(journal Journal, idp IDProvider) Option {
	return func(s *service) {
		s.journal = journal
		s.idp = idp
	}
}

// WithLogger sets the logger used for partial completion warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(s *service) {
		s.logger = logger
	}
}

// WithClock sets the clock used for file names and journal timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		s.now = now
	}
}

// NewService returns the credential issuance service.
func NewService(resolver AuthModeResolver, factory CertificateFactory, uploader Uploader, channelKeys ChannelKeyProvider, builder RecordBuilder, serializer Serializer, writer Writer, opts ...Option) Service {
	svc := &service{
		resolver:    resolver,
		factory:     factory,
		uploader:    uploader,
		channelKeys: channelKeys,
		builder:     builder,
		serializer:  serializer,
		writer:      writer,
		logger:      slog.New(slog.DiscardHandler),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

func (s *service) Issue(ctx context.Context, vault Vault, site *Site, outputDir string) (OutputArtifact, error) {
	if err := vault.Validate(); err != nil {
		return OutputArtifact{}, err
	}
	if err := site.Validate(); err != nil {
		return OutputArtifact{}, err
	}

	entry := IssuanceEntry{
		VaultName:      vault.Name,
		ResourceGroup:  vault.ResourceGroup,
		SubscriptionID: vault.SubscriptionID,
		VaultType:      vault.Type.String(),
	}
	artifact, err := s.issue(ctx, vault, site, outputDir, &entry)
	s.record(ctx, entry, err)

	return artifact, err
}

func (s *service) issue(ctx context.Context, vault Vault, site *Site, outputDir string, entry *IssuanceEntry) (OutputArtifact, error) {
	mode, err := s.resolver.AuthMode(ctx, vault.ResourceGroup, vault.Name)
	if err != nil {
		return OutputArtifact{}, classify(err, ErrAuthModeUnavailable)
	}
	entry.AuthMode = mode.String()
	if mode != Legacy && mode != AzureActiveDirectory {
		return OutputArtifact{}, errors.Wrap(ErrUnsupportedCombination, errUnknownAuthMode)
	}
	if err := vault.ValidateFor(mode); err != nil {
		return OutputArtifact{}, err
	}

	validity, err := ValidityHours(vault.Type)
	if err != nil {
		return OutputArtifact{}, err
	}

	cert, err := s.factory.Create(validity, vault.SubjectSeed())
	if err != nil {
		return OutputArtifact{}, classify(err, ErrCertificateGeneration)
	}
	defer cert.Destroy()
	entry.CertificateName = cert.Name()
	entry.Thumbprint = cert.Thumbprint()

	in := RecordInput{
		Vault: vault,
		Site:  site,
	}

	// Fetched before the upload so a failure leaves no registered certificate.
	if vault.Type == SiteRecovery && mode == AzureActiveDirectory {
		key, err := s.channelKeys.ChannelKey(ctx, vault)
		if err != nil {
			return OutputArtifact{}, classify(err, ErrChannelKeyUnavailable)
		}
		in.ChannelIntegrityKey = key
	}

	if vault.Type != SiteRecovery || mode != Legacy {
		trust, err := s.uploader.Upload(ctx, cert, vault, mode)
		if err != nil {
			return OutputArtifact{}, classify(err, ErrUploadUnavailable, ErrUploadRejected)
		}
		in.Trust = &trust
		entry.Uploaded = true
	}

	managementCert, err := cert.ManagementCert()
	if err != nil {
		return OutputArtifact{}, classify(err, ErrCertificateGeneration)
	}
	defer memguard.WipeBytes(managementCert)
	in.ManagementCert = managementCert

	rec, err := s.builder.Build(vault.Type, mode, in)
	if err != nil {
		return OutputArtifact{}, classify(err, ErrIncompleteMetadata, ErrUnsupportedCombination)
	}

	doc, err := s.serializer.Serialize(rec)
	if err != nil {
		return OutputArtifact{}, classify(err, ErrSerialization)
	}
	defer memguard.WipeBytes(doc)
	cert.Destroy()
	// The compat patch may return a copy, and both buffers hold the key bundle.
	doc = s.serializer.ApplyLegacyNamespaceCompat(rec, doc)
	defer memguard.WipeBytes(doc)

	fileName := s.writer.FileName(vault, site, s.now())
	path, err := s.writer.Write(doc, outputDir, fileName)
	if err != nil {
		err = classify(err, ErrWrite, ErrDirectoryNotFound)
		if entry.Uploaded {
			s.logger.Warn("Certificate registered but credential file not written",
				slog.String("vault", vault.Name),
				slog.String("resource_group", vault.ResourceGroup),
				slog.String("certificate", cert.Name()),
				slog.String("thumbprint", cert.Thumbprint()),
				slog.Any("error", err),
			)
		}
		return OutputArtifact{}, err
	}
	entry.FilePath = path

	return OutputArtifact{FilePath: path}, nil
}

func (s *service) record(ctx context.Context, entry IssuanceEntry, issueErr error) {
	if s.journal == nil {
		return
	}
	if issueErr != nil {
		entry.Error = issueErr.Error()
	}
	entry.CreatedAt = s.now().UTC()

	id, err := s.idp.ID()
	if err != nil {
		s.logger.Warn("Failed to generate issuance journal ID", slog.Any("error", err))
		return
	}
	entry.ID = id

	// Saved even when ctx is already canceled.
	if err := s.journal.Save(context.WithoutCancel(ctx), entry); err != nil {
		s.logger.Warn("Failed to save issuance journal entry",
			slog.String("vault", entry.VaultName),
			slog.String("certificate", entry.CertificateName),
			slog.Any("error", err),
		)
	}
}

// classify reduces err to its first concrete cause and keeps it when it
// already belongs to one of the accepted kinds. Anything else is reported
// as kind.
func classify(err, kind error, accepted ...error) error {
	cause := errors.Cause(err)
	for _, k := range append([]error{kind}, accepted...) {
		if errors.Contains(cause, k) {
			return cause
		}
	}
	return errors.Wrap(kind, cause)
}
