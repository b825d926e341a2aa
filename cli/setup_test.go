// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package cli_test

import (
	"bytes"
	"testing"

	"github.com/absmach/vaultcreds/cli"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

type outputLog uint8

const (
	usageLog outputLog = iota
	errLog
	entityLog
)

func executeCommand(t *testing.T, root *cobra.Command, args ...string) (string, string) {
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)
	err := root.Execute()
	assert.NoError(t, err, "Error executing command")
	return stdout.String(), stderr.String()
}

func setFlags(rootCmd *cobra.Command) *cobra.Command {
	// Root Flags
	rootCmd.PersistentFlags().BoolVarP(
		&cli.RawOutput,
		"raw",
		"r",
		cli.RawOutput,
		"Enables raw output mode for easier parsing of output",
	)

	rootCmd.PersistentFlags().Uint64VarP(
		&cli.Limit,
		"limit",
		"l",
		10,
		"Limit query parameter",
	)

	rootCmd.PersistentFlags().Uint64VarP(
		&cli.Offset,
		"offset",
		"o",
		0,
		"Offset query parameter",
	)

	rootCmd.PersistentFlags().StringVarP(
		&cli.OutputDir,
		"output-dir",
		"d",
		"",
		"Credential file output directory",
	)

	rootCmd.PersistentFlags().StringVar(&cli.SubscriptionID, "subscription", "", "Vault subscription ID")
	rootCmd.PersistentFlags().StringVar(&cli.SiteID, "site-id", "", "Recovery site ID")
	rootCmd.PersistentFlags().StringVar(&cli.SiteName, "site-name", "", "Recovery site friendly name")
	rootCmd.PersistentFlags().IntVar(&cli.Concurrency, "concurrency", 2, "Batch issuance concurrency")

	return rootCmd
}
