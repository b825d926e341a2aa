// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package vaultcreds

import (
	"io"
	"os"

	"github.com/absmach/vaultcreds/pkg/errors"
	"gopkg.in/yaml.v2"
)

const (
	defProviderNamespace     = "Microsoft.RecoveryServices"
	defResourceType          = "Vaults"
	defSchemaVersion         = "2.0"
	defLegacySchemaVersion   = "1.0"
	defDataContractNamespace = "http://schemas.datacontract.org/2004/07/Microsoft.Azure.Commands.RecoveryServices"
	defAgentNamespace        = "http://schemas.datacontract.org/2004/07/Microsoft.Azure.Portal.RecoveryServices.Models.Common"
	defFileExtension         = "VaultCredentials"
)

var defAgentLinks = []string{
	"https://aka.ms/azurebackup_agent",
	"https://aka.ms/asr_provider",
}

var errInvalidProfile = errors.New("invalid document profile")

// Profile holds the fixed values stamped into every credential document.
// It is loaded once at startup and treated as immutable afterwards.
type Profile struct {
	ProviderNamespace     string   `yaml:"provider_namespace"`
	ResourceType          string   `yaml:"resource_type"`
	SchemaVersion         string   `yaml:"schema_version"`
	LegacySchemaVersion   string   `yaml:"legacy_schema_version"`
	AgentLinks            []string `yaml:"agent_links"`
	DataContractNamespace string   `yaml:"data_contract_namespace"`
	AgentNamespace        string   `yaml:"agent_namespace"`
	FileExtension         string   `yaml:"file_extension"`
}

// DefaultProfile returns the profile used when no profile file is configured.
func DefaultProfile() Profile {
	links := make([]string, len(defAgentLinks))
	copy(links, defAgentLinks)
	return Profile{
		ProviderNamespace:     defProviderNamespace,
		ResourceType:          defResourceType,
		SchemaVersion:         defSchemaVersion,
		LegacySchemaVersion:   defLegacySchemaVersion,
		AgentLinks:            links,
		DataContractNamespace: defDataContractNamespace,
		AgentNamespace:        defAgentNamespace,
		FileExtension:         defFileExtension,
	}
}

// LoadProfile reads a YAML profile. Keys missing from the file keep their default values.
func LoadProfile(filename string) (Profile, error) {
	profile := DefaultProfile()
	if filename == "" {
		return profile, nil
	}

	file, err := os.Open(filename)
	if err != nil {
		return Profile{}, err
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(&profile); err != nil && err != io.EOF {
		return Profile{}, errors.Wrap(errInvalidProfile, err)
	}
	if err := profile.Validate(); err != nil {
		return Profile{}, err
	}

	return profile, nil
}

// Validate checks that every value a document depends on is set.
func (p Profile) Validate() error {
	switch {
	case p.ProviderNamespace == "", p.ResourceType == "", p.SchemaVersion == "", p.LegacySchemaVersion == "":
		return errInvalidProfile
	case p.DataContractNamespace == "", p.AgentNamespace == "", p.FileExtension == "":
		return errInvalidProfile
	case len(p.AgentLinks) == 0:
		return errInvalidProfile
	}
	return nil
}
