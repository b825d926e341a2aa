// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"encoding/json"
	"os"

	"github.com/absmach/vaultcreds"
	"github.com/absmach/vaultcreds/pkg/apiutil"
	"github.com/absmach/vaultcreds/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	svc     vaultcreds.Service
	journal vaultcreds.Journal

	errJournalDisabled = errors.New("issuance journal is not enabled")
	errReadRequests    = errors.New("failed to read batch request file")
)

// SetService sets the issuance service used by the commands.
func SetService(s vaultcreds.Service) {
	svc = s
}

// SetJournal sets the issuance journal used by the history command. A nil
// journal disables the command.
func SetJournal(j vaultcreds.Journal) {
	journal = j
}

type batchOutcome struct {
	Vault    string `json:"vault"`
	FilePath string `json:"file_path,omitempty"`
	Error    string `json:"error,omitempty"`
}

var cmdCredentials = []cobra.Command{
	{
		Use:   "issue <backup | siterecovery> <vault_name> <resource_group>",
		Short: "Issue vault credentials",
		Long: `Generates a certificate for the vault, registers it with the vault's identity endpoint and writes a credential file.
Use --site-id and --site-name to bind SiteRecovery credentials to a recovery site.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 3 {
				logUsageCmd(*cmd, cmd.Use)
				return
			}
			vaultType, err := vaultcreds.ParseVaultType(args[0])
			if err != nil {
				logErrorCmd(*cmd, err)
				return
			}
			vault := vaultcreds.Vault{
				Name:           args[1],
				ResourceGroup:  args[2],
				Location:       Location,
				SubscriptionID: SubscriptionID,
				ResourceID:     ResourceID,
				Type:           vaultType,
			}
			artifact, err := svc.Issue(cmd.Context(), vault, site(), OutputDir)
			if err != nil {
				logErrorCmd(*cmd, err)
				return
			}
			logJSONCmd(*cmd, artifact)
		},
	},
	{
		Use:   "issue-all <requests_file>",
		Short: "Issue credentials for many vaults",
		Long: `Issues credentials for every request in a JSON file concurrently. Each request is attempted independently.
Example file: [{"vault": {"name": "V1", "resource_group": "rg1", "subscription_id": "<id>", "type": "Backup"}}]`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 1 {
				logUsageCmd(*cmd, cmd.Use)
				return
			}
			if Concurrency < 0 {
				logErrorCmd(*cmd, apiutil.ErrInvalidConcurrency)
				return
			}
			reqs, err := readRequests(args[0])
			if err != nil {
				logErrorCmd(*cmd, err)
				return
			}
			results, err := vaultcreds.IssueAll(cmd.Context(), svc, reqs, Concurrency)
			outcomes := make([]batchOutcome, len(results))
			for i, res := range results {
				outcomes[i] = batchOutcome{
					Vault:    res.Request.Vault.Name,
					FilePath: res.Artifact.FilePath,
				}
				if res.Err != nil {
					outcomes[i].Error = res.Err.Error()
				}
			}
			logJSONCmd(*cmd, outcomes)
			if err != nil {
				logErrorCmd(*cmd, err)
			}
		},
	},
	{
		Use:   "history [all | <vault_name>]",
		Short: "List issuance history",
		Long:  `Lists recorded issuance attempts, newest first, for all vaults or a single vault.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 1 {
				logUsageCmd(*cmd, cmd.Use)
				return
			}
			if journal == nil {
				logErrorCmd(*cmd, errJournalDisabled)
				return
			}
			if Limit > apiutil.MaxLimitSize {
				logErrorCmd(*cmd, apiutil.ErrLimitSize)
				return
			}
			pm := vaultcreds.PageMetadata{
				Limit:  Limit,
				Offset: Offset,
			}
			if args[0] != all {
				pm.VaultName = args[0]
			}
			page, err := journal.List(cmd.Context(), pm)
			if err != nil {
				logErrorCmd(*cmd, err)
				return
			}
			logJSONCmd(*cmd, page)
		},
	},
}

// NewCredentialsCmd returns vault credentials command.
func NewCredentialsCmd() *cobra.Command {
	cmd := cobra.Command{
		Use:   "credentials [issue | issue-all | history]",
		Short: "Vault credentials management",
		Long:  `Vault credentials management: issue for one vault, issue for many vaults, list issuance history.`,
	}

	for i := range cmdCredentials {
		cmd.AddCommand(&cmdCredentials[i])
	}

	return &cmd
}

func site() *vaultcreds.Site {
	if SiteID == "" && SiteName == "" {
		return nil
	}
	return &vaultcreds.Site{
		ID:           SiteID,
		FriendlyName: SiteName,
	}
}

func readRequests(file string) ([]vaultcreds.IssueRequest, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, errors.Wrap(errReadRequests, err)
	}
	var reqs []vaultcreds.IssueRequest
	if err := json.Unmarshal(data, &reqs); err != nil {
		return nil, errors.Wrap(errReadRequests, err)
	}
	if len(reqs) == 0 {
		return nil, errors.Wrap(errReadRequests, apiutil.ErrEmptyList)
	}
	return reqs, nil
}
