// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package vaultcreds

import (
	"context"
	"encoding/xml"
	"strings"
	"time"

	"github.com/absmach/vaultcreds/pkg/errors"
)

// VaultType is the purpose a vault serves.
type VaultType uint8

const (
	// Backup vaults receive backup agent registrations.
	Backup VaultType = iota + 1
	// SiteRecovery vaults receive disaster-recovery provider registrations.
	SiteRecovery
)

const (
	backupValidityHours       = 48
	siteRecoveryValidityHours = 120
)

// String returns the vault type as it appears in configuration and logs.
func (vt VaultType) String() string {
	switch vt {
	case Backup:
		return "Backup"
	case SiteRecovery:
		return "SiteRecovery"
	default:
		return "Unknown"
	}
}

// ParseVaultType parses a vault type name case-insensitively.
func ParseVaultType(s string) (VaultType, error) {
	switch strings.ToLower(s) {
	case "backup":
		return Backup, nil
	case "siterecovery", "site-recovery", "asr":
		return SiteRecovery, nil
	default:
		return 0, ErrInvalidVault
	}
}

// MarshalText encodes the vault type by name.
func (vt VaultType) MarshalText() ([]byte, error) {
	return []byte(vt.String()), nil
}

// UnmarshalText decodes a vault type name.
func (vt *VaultType) UnmarshalText(text []byte) error {
	parsed, err := ParseVaultType(string(text))
	if err != nil {
		return err
	}
	*vt = parsed
	return nil
}

// ValidityHours returns the certificate validity window for the vault type.
func ValidityHours(vt VaultType) (uint, error) {
	switch vt {
	case Backup:
		return backupValidityHours, nil
	case SiteRecovery:
		return siteRecoveryValidityHours, nil
	default:
		return 0, ErrInvalidVault
	}
}

// AuthMode is the trust scheme a vault is configured with.
type AuthMode uint8

const (
	// Legacy is the certificate-only trust path.
	Legacy AuthMode = iota + 1
	// AzureActiveDirectory is the directory-backed trust path.
	AzureActiveDirectory
)

func (am AuthMode) String() string {
	switch am {
	case Legacy:
		return "Legacy"
	case AzureActiveDirectory:
		return "AzureActiveDirectory"
	default:
		return "Unknown"
	}
}

// ParseAuthMode accepts both the short and the long remote spellings.
func ParseAuthMode(s string) (AuthMode, error) {
	switch strings.ToLower(s) {
	case "legacy", "acs", "accesscontrolservice":
		return Legacy, nil
	case "aad", "azureactivedirectory":
		return AzureActiveDirectory, nil
	default:
		return 0, ErrAuthModeUnavailable
	}
}

// Vault identifies the vault credentials are issued for.
type Vault struct {
	Name           string    `json:"name"`
	ResourceGroup  string    `json:"resource_group"`
	Location       string    `json:"location"`
	SubscriptionID string    `json:"subscription_id"`
	ResourceID     string    `json:"resource_id"`
	Type           VaultType `json:"type"`
}

// Validate checks the fields every issuance path relies on.
func (v Vault) Validate() error {
	if v.Name == "" || v.ResourceGroup == "" {
		return ErrInvalidVault
	}
	if _, err := ValidityHours(v.Type); err != nil {
		return err
	}
	return nil
}

// ValidateFor checks the vault fields the credential record for mode
// cannot be built without. Directory-backed records carry the subscription
// and the region, legacy records carry neither.
func (v Vault) ValidateFor(mode AuthMode) error {
	if mode != AzureActiveDirectory {
		return nil
	}
	var missing []string
	if v.SubscriptionID == "" {
		missing = append(missing, "subscriptionId")
	}
	if v.Location == "" {
		missing = append(missing, "location")
	}
	if len(missing) > 0 {
		return errors.Wrap(ErrIncompleteMetadata, errors.New("missing "+strings.Join(missing, ", ")))
	}
	return nil
}

// SubjectSeed binds a certificate subject to the owning subscription and vault.
func (v Vault) SubjectSeed() string {
	return v.SubscriptionID + "-" + v.Name
}

// Site identifies the recovery site for SiteRecovery credentials.
type Site struct {
	ID           string `json:"id"`
	FriendlyName string `json:"friendly_name"`
}

// Validate rejects a partially specified site. A nil site is valid.
func (s *Site) Validate() error {
	if s == nil {
		return nil
	}
	if (s.ID == "") != (s.FriendlyName == "") {
		return ErrInvalidSiteIdentity
	}
	return nil
}

// Present reports whether a complete site identity was supplied.
func (s *Site) Present() bool {
	return s != nil && s.ID != "" && s.FriendlyName != ""
}

// TrustMetadata is returned by the identity endpoint once a certificate is registered.
type TrustMetadata struct {
	ResourceID                 int64  `json:"resource_id"`
	Authority                  string `json:"aad_authority"`
	TenantID                   string `json:"aad_tenant_id"`
	ServicePrincipalClientID   string `json:"service_principal_client_id"`
	ManagementEndpointAudience string `json:"management_endpoint_audience"`
}

// OutputArtifact is the result of a successful issuance.
type OutputArtifact struct {
	FilePath string `json:"file_path"`
}

// Variant tags the credential document shape.
type Variant uint8

const (
	BackupAadVariant Variant = iota + 1
	SiteRecoveryAadVariant
	LegacyVariant
)

func (v Variant) String() string {
	switch v {
	case BackupAadVariant:
		return "BackupAadCredential"
	case SiteRecoveryAadVariant:
		return "SiteRecoveryAadCredential"
	case LegacyVariant:
		return "LegacyCredential"
	default:
		return "Unknown"
	}
}

// Record is a credential document. The set of implementations is closed.
type Record interface {
	Variant() Variant
	record()
}

// BackupAadCredential is issued for Backup vaults using AzureActiveDirectory.
type BackupAadCredential struct {
	XMLName                    xml.Name
	SubscriptionID             string `xml:"SubscriptionId"`
	ResourceName               string `xml:"ResourceName"`
	ManagementCert             []byte `xml:"ManagementCert"`
	ResourceID                 int64  `xml:"ResourceId"`
	AadAuthority               string `xml:"AadAuthority"`
	AadTenantID                string `xml:"AadTenantId"`
	ServicePrincipalClientID   string `xml:"ServicePrincipalClientId"`
	ManagementEndpointAudience string `xml:"IdMgmtRestEndpoint"`
	ResourceGroup              string `xml:"ResourceGroup"`
	Location                   string `xml:"Location"`
	ProviderNamespace          string `xml:"ProviderNamespace"`
	ResourceType               string `xml:"ResourceType"`
	Version                    string `xml:"Version"`
	AgentLinks                 string `xml:"AgentLinks"`
}

// VaultDetails is the vault block of a SiteRecovery document.
type VaultDetails struct {
	SubscriptionID    string `xml:"SubscriptionId"`
	ResourceGroup     string `xml:"ResourceGroup"`
	ResourceName      string `xml:"ResourceName"`
	ResourceID        int64  `xml:"ResourceId"`
	Location          string `xml:"Location"`
	ResourceType      string `xml:"ResourceType"`
	ProviderNamespace string `xml:"ProviderNamespace"`
}

// AadDetails is the directory block of a SiteRecovery document.
type AadDetails struct {
	AadAuthority               string `xml:"AadAuthority"`
	AadTenantID                string `xml:"AadTenantId"`
	ServicePrincipalClientID   string `xml:"ServicePrincipalClientId"`
	AadVaultAudience           string `xml:"AadVaultAudience"`
	ManagementEndpointAudience string `xml:"ArmManagementEndpoint"`
}

// SiteRecoveryAadCredential is issued for SiteRecovery vaults using AzureActiveDirectory.
type SiteRecoveryAadCredential struct {
	XMLName             xml.Name
	VaultDetails        VaultDetails `xml:"VaultDetails"`
	ManagementCert      []byte       `xml:"ManagementCert"`
	Version             string       `xml:"Version"`
	AadDetails          AadDetails   `xml:"AadDetails"`
	ChannelIntegrityKey string       `xml:"ChannelIntegrityKey"`
	SiteID              string       `xml:"SiteId"`
	SiteName            string       `xml:"SiteName"`
}

// LegacyCredential carries the vault identity and certificate only.
type LegacyCredential struct {
	XMLName        xml.Name
	SubscriptionID string `xml:"SubscriptionId"`
	ResourceGroup  string `xml:"ResourceGroup"`
	ResourceName   string `xml:"ResourceName"`
	ResourceID     string `xml:"ResourceId"`
	Location       string `xml:"Location"`
	ResourceType   string `xml:"ResourceType"`
	ManagementCert []byte `xml:"ManagementCert"`
	Version        string `xml:"Version"`
	SiteID         string `xml:"SiteId,omitempty"`
	SiteName       string `xml:"SiteName,omitempty"`
}

func (BackupAadCredential) Variant() Variant       { return BackupAadVariant }
func (SiteRecoveryAadCredential) Variant() Variant { return SiteRecoveryAadVariant }
func (LegacyCredential) Variant() Variant          { return LegacyVariant }

func (BackupAadCredential) record()       {}
func (SiteRecoveryAadCredential) record() {}
func (LegacyCredential) record()          {}

// RecordInput is everything a single issuance call gathered for the builder.
type RecordInput struct {
	Vault               Vault
	Site                *Site
	Trust               *TrustMetadata
	ManagementCert      []byte
	ChannelIntegrityKey string
}

// Certificate is the short-lived management certificate of one issuance call.
type Certificate interface {
	// Name is the name the certificate is registered under.
	Name() string

	// Thumbprint is the upper-case hex SHA-1 of the DER certificate.
	Thumbprint() string

	// Raw returns the DER encoded public certificate.
	Raw() []byte

	NotBefore() time.Time
	NotAfter() time.Time

	// ManagementCert returns the base64 PKCS#12 bundle including the private key.
	// The caller owns the returned slice and must wipe it.
	ManagementCert() ([]byte, error)

	// Destroy wipes the private key material. It is safe to call more than once.
	Destroy()
}

//go:generate mockery --name CertificateFactory --output=./mocks --filename factory.go --quiet --note "Copyright (c) Abstract Machines"
type CertificateFactory interface {
	// Create generates a self-signed certificate valid for validityHours.
	Create(validityHours uint, subjectSeed string) (Certificate, error)
}

//go:generate mockery --name AuthModeResolver --output=./mocks --filename resolver.go --quiet --note "Copyright (c) Abstract Machines"
type AuthModeResolver interface {
	// AuthMode returns the auth mode the vault is configured with.
	AuthMode(ctx context.Context, resourceGroup, vaultName string) (AuthMode, error)
}

//go:generate mockery --name Uploader --output=./mocks --filename uploader.go --quiet --note "Copyright (c) Abstract Machines"
type Uploader interface {
	// Upload registers the public certificate for the vault and returns the trust metadata.
	Upload(ctx context.Context, cert Certificate, vault Vault, mode AuthMode) (TrustMetadata, error)
}

//go:generate mockery --name ChannelKeyProvider --output=./mocks --filename channel_key.go --quiet --note "Copyright (c) Abstract Machines"
type ChannelKeyProvider interface {
	// ChannelKey returns the channel integrity key of the vault.
	ChannelKey(ctx context.Context, vault Vault) (string, error)
}

// RecordBuilder constructs the record matching a vault type and auth mode.
type RecordBuilder interface {
	Build(vt VaultType, mode AuthMode, in RecordInput) (Record, error)
}

// Serializer renders records into credential documents.
type Serializer interface {
	// Serialize renders the record. It performs no I/O.
	Serialize(rec Record) ([]byte, error)

	// ApplyLegacyNamespaceCompat rewrites the document namespace for records
	// whose receiving agents expect the legacy one.
	ApplyLegacyNamespaceCompat(rec Record, doc []byte) []byte
}

//go:generate mockery --name Writer --output=./mocks --filename writer.go --quiet --note "Copyright (c) Abstract Machines"
type Writer interface {
	// FileName returns the generated file name for an issuance at the given instant.
	FileName(vault Vault, site *Site, at time.Time) string

	// Write persists data atomically under dir, or the default directory when dir is empty.
	Write(data []byte, dir, fileName string) (string, error)
}

// IssuanceEntry describes one issuance attempt.
type IssuanceEntry struct {
	ID              string    `db:"id" json:"id"`
	VaultName       string    `db:"vault_name" json:"vault_name"`
	ResourceGroup   string    `db:"resource_group" json:"resource_group"`
	SubscriptionID  string    `db:"subscription_id" json:"subscription_id,omitempty"`
	VaultType       string    `db:"vault_type" json:"vault_type"`
	AuthMode        string    `db:"auth_mode" json:"auth_mode,omitempty"`
	CertificateName string    `db:"certificate_name" json:"certificate_name,omitempty"`
	Thumbprint      string    `db:"thumbprint" json:"thumbprint,omitempty"`
	Uploaded        bool      `db:"uploaded" json:"uploaded"`
	FilePath        string    `db:"file_path" json:"file_path,omitempty"`
	Error           string    `db:"error" json:"error,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// IssuancePage is a page of journal entries.
type IssuancePage struct {
	Entries []IssuanceEntry `json:"entries"`
	PageMetadata
}

// PageMetadata filters journal listings.
type PageMetadata struct {
	Total     uint64 `json:"total,omitempty" db:"total"`
	Offset    uint64 `json:"offset,omitempty" db:"offset"`
	Limit     uint64 `json:"limit,omitempty" db:"limit"`
	VaultName string `json:"vault_name,omitempty" db:"vault_name"`
}

//go:generate mockery --name Journal --output=./mocks --filename journal.go --quiet --note "Copyright (c) Abstract Machines"
type Journal interface {
	// Save records an issuance attempt.
	Save(ctx context.Context, entry IssuanceEntry) error

	// List retrieves issuance attempts, newest first.
	List(ctx context.Context, pm PageMetadata) (IssuancePage, error)
}

//go:generate mockery --name Service --output=./mocks --filename service.go --quiet --note "Copyright (c) Abstract Machines"
type Service interface {
	// Issue generates, registers and writes a credential document for the vault.
	// outputDir may be empty to use the default location.
	Issue(ctx context.Context, vault Vault, site *Site, outputDir string) (OutputArtifact, error)
}
