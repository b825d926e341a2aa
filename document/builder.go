// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package document builds and renders vault credential documents.
package document

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/absmach/vaultcreds"
	"github.com/absmach/vaultcreds/pkg/errors"
)

const (
	backupAadElement       = "RSBackupVaultAADCreds"
	siteRecoveryAadElement = "ASRVaultCreds"
	legacyElement          = "RSVaultCreds"

	audienceFormat = "https://RecoveryServiceVault/%s/%s/%d"
)

var _ vaultcreds.RecordBuilder = (*builder)(nil)

type builder struct {
	profile vaultcreds.Profile
}

// NewBuilder returns a record builder stamping documents with the given profile.
func NewBuilder(profile vaultcreds.Profile) vaultcreds.RecordBuilder {
	return &builder{profile: profile}
}

// Build selects the record variant for the vault type and auth mode.
func (b *builder) Build(vt vaultcreds.VaultType, mode vaultcreds.AuthMode, in vaultcreds.RecordInput) (vaultcreds.Record, error) {
	switch {
	case vt == vaultcreds.Backup && mode == vaultcreds.AzureActiveDirectory:
		return b.backupAad(in)
	case vt == vaultcreds.SiteRecovery && mode == vaultcreds.AzureActiveDirectory:
		return b.siteRecoveryAad(in)
	case (vt == vaultcreds.Backup || vt == vaultcreds.SiteRecovery) && mode == vaultcreds.Legacy:
		return b.legacy(in), nil
	default:
		return nil, errors.Wrap(vaultcreds.ErrUnsupportedCombination, fmt.Errorf("%s with %s", vt, mode))
	}
}

func (b *builder) backupAad(in vaultcreds.RecordInput) (vaultcreds.Record, error) {
	if in.Trust == nil {
		return nil, errors.Wrap(vaultcreds.ErrIncompleteMetadata, errMissing("trust metadata"))
	}
	rec := vaultcreds.BackupAadCredential{
		XMLName:                    xml.Name{Space: b.profile.DataContractNamespace, Local: backupAadElement},
		SubscriptionID:             in.Vault.SubscriptionID,
		ResourceName:               in.Vault.Name,
		ManagementCert:             in.ManagementCert,
		ResourceID:                 in.Trust.ResourceID,
		AadAuthority:               in.Trust.Authority,
		AadTenantID:                in.Trust.TenantID,
		ServicePrincipalClientID:   in.Trust.ServicePrincipalClientID,
		ManagementEndpointAudience: in.Trust.ManagementEndpointAudience,
		ResourceGroup:              in.Vault.ResourceGroup,
		Location:                   in.Vault.Location,
		ProviderNamespace:          b.profile.ProviderNamespace,
		ResourceType:               b.profile.ResourceType,
		Version:                    b.profile.SchemaVersion,
		AgentLinks:                 strings.Join(b.profile.AgentLinks, ","),
	}
	err := required(
		field{"subscriptionId", rec.SubscriptionID},
		field{"resourceName", rec.ResourceName},
		field{"managementCert", string(rec.ManagementCert)},
		field{"resourceId", resourceID(rec.ResourceID)},
		field{"aadAuthority", rec.AadAuthority},
		field{"aadTenantId", rec.AadTenantID},
		field{"servicePrincipalClientId", rec.ServicePrincipalClientID},
		field{"managementEndpointAudience", rec.ManagementEndpointAudience},
		field{"resourceGroup", rec.ResourceGroup},
		field{"location", rec.Location},
		field{"providerNamespace", rec.ProviderNamespace},
		field{"resourceType", rec.ResourceType},
		field{"version", rec.Version},
		field{"agentLinks", rec.AgentLinks},
	)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (b *builder) siteRecoveryAad(in vaultcreds.RecordInput) (vaultcreds.Record, error) {
	if in.Trust == nil {
		return nil, errors.Wrap(vaultcreds.ErrIncompleteMetadata, errMissing("trust metadata"))
	}
	rec := vaultcreds.SiteRecoveryAadCredential{
		XMLName: xml.Name{Space: b.profile.DataContractNamespace, Local: siteRecoveryAadElement},
		VaultDetails: vaultcreds.VaultDetails{
			SubscriptionID:    in.Vault.SubscriptionID,
			ResourceGroup:     in.Vault.ResourceGroup,
			ResourceName:      in.Vault.Name,
			ResourceID:        in.Trust.ResourceID,
			Location:          in.Vault.Location,
			ResourceType:      b.profile.ResourceType,
			ProviderNamespace: b.profile.ProviderNamespace,
		},
		ManagementCert: in.ManagementCert,
		Version:        b.profile.SchemaVersion,
		AadDetails: vaultcreds.AadDetails{
			AadAuthority:               in.Trust.Authority,
			AadTenantID:                in.Trust.TenantID,
			ServicePrincipalClientID:   in.Trust.ServicePrincipalClientID,
			AadVaultAudience:           fmt.Sprintf(audienceFormat, in.Vault.Location, in.Vault.Name, in.Trust.ResourceID),
			ManagementEndpointAudience: in.Trust.ManagementEndpointAudience,
		},
		ChannelIntegrityKey: in.ChannelIntegrityKey,
	}
	if in.Site.Present() {
		rec.SiteID = in.Site.ID
		rec.SiteName = in.Site.FriendlyName
	}
	err := required(
		field{"subscriptionId", rec.VaultDetails.SubscriptionID},
		field{"resourceGroup", rec.VaultDetails.ResourceGroup},
		field{"resourceName", rec.VaultDetails.ResourceName},
		field{"resourceId", resourceID(rec.VaultDetails.ResourceID)},
		field{"location", rec.VaultDetails.Location},
		field{"resourceType", rec.VaultDetails.ResourceType},
		field{"providerNamespace", rec.VaultDetails.ProviderNamespace},
		field{"managementCert", string(rec.ManagementCert)},
		field{"version", rec.Version},
		field{"aadAuthority", rec.AadDetails.AadAuthority},
		field{"aadTenantId", rec.AadDetails.AadTenantID},
		field{"servicePrincipalClientId", rec.AadDetails.ServicePrincipalClientID},
		field{"managementEndpointAudience", rec.AadDetails.ManagementEndpointAudience},
		field{"channelIntegrityKey", rec.ChannelIntegrityKey},
	)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// legacy never consults trust metadata, so it cannot be incomplete.
func (b *builder) legacy(in vaultcreds.RecordInput) vaultcreds.Record {
	rec := vaultcreds.LegacyCredential{
		XMLName:        xml.Name{Space: b.profile.DataContractNamespace, Local: legacyElement},
		SubscriptionID: in.Vault.SubscriptionID,
		ResourceGroup:  in.Vault.ResourceGroup,
		ResourceName:   in.Vault.Name,
		ResourceID:     in.Vault.ResourceID,
		Location:       in.Vault.Location,
		ResourceType:   b.profile.ResourceType,
		ManagementCert: in.ManagementCert,
		Version:        b.profile.LegacySchemaVersion,
	}
	if in.Site.Present() {
		rec.SiteID = in.Site.ID
		rec.SiteName = in.Site.FriendlyName
	}
	return rec
}

type field struct {
	name  string
	value string
}

func required(fields ...field) error {
	var missing []string
	for _, f := range fields {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return errors.Wrap(vaultcreds.ErrIncompleteMetadata, errMissing(strings.Join(missing, ", ")))
	}
	return nil
}

func errMissing(what string) error {
	return fmt.Errorf("missing %s", what)
}

func resourceID(id int64) string {
	if id == 0 {
		return ""
	}
	return fmt.Sprint(id)
}
