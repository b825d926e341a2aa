// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"io"
	"os"
	"strconv"

	"github.com/absmach/vaultcreds/pkg/errors"
	"github.com/pelletier/go-toml"
)

const (
	defOffset      string = "0"
	defLimit       string = "10"
	defConcurrency string = "4"
	defRawOutput   string = "false"
)

type issue struct {
	OutputDir   string `toml:"output_dir"`
	Concurrency string `toml:"concurrency"`
}

type filter struct {
	Offset string `toml:"offset"`
	Limit  string `toml:"limit"`
}

type config struct {
	Issue     issue  `toml:"issue"`
	Filter    filter `toml:"filter"`
	RawOutput string `toml:"raw_output"`
}

// Readable by all user groups but writeable by the user only.
const filePermission = 0o644

var (
	errReadFail       = errors.New("failed to read config file")
	errWritingConfig  = errors.New("error in writing the updated config to file")
	defaultConfigPath = "./config.toml"
)

func read(file string) (config, error) {
	c := config{}
	data, err := os.Open(file)
	if err != nil {
		return c, errors.Wrap(errReadFail, err)
	}
	defer data.Close()

	buf, err := io.ReadAll(data)
	if err != nil {
		return c, errors.Wrap(errReadFail, err)
	}

	if err := toml.Unmarshal(buf, &c); err != nil {
		return config{}, errors.Wrap(errReadFail, err)
	}

	return c, nil
}

// ParseConfig parses the config file and fills in every option the command
// line left unset.
func ParseConfig() error {
	if ConfigPath == "" {
		ConfigPath = defaultConfigPath
	}

	_, err := os.Stat(ConfigPath)
	switch {
	// If the file does not exist, create it with default values.
	case os.IsNotExist(err):
		defaultConfig := config{
			Issue: issue{
				Concurrency: defConcurrency,
			},
			Filter: filter{
				Offset: defOffset,
				Limit:  defLimit,
			},
			RawOutput: defRawOutput,
		}
		buf, err := toml.Marshal(defaultConfig)
		if err != nil {
			return err
		}
		if err = os.WriteFile(ConfigPath, buf, filePermission); err != nil {
			return errors.Wrap(errWritingConfig, err)
		}
	case err != nil:
		return err
	}

	config, err := read(ConfigPath)
	if err != nil {
		return err
	}

	if config.Filter.Offset != "" && Offset == 0 {
		offset, err := strconv.ParseUint(config.Filter.Offset, 10, 64)
		if err != nil {
			return err
		}
		Offset = offset
	}

	if config.Filter.Limit != "" && Limit == 0 {
		limit, err := strconv.ParseUint(config.Filter.Limit, 10, 64)
		if err != nil {
			return err
		}
		Limit = limit
	}

	if config.Issue.Concurrency != "" && Concurrency == 0 {
		concurrency, err := strconv.Atoi(config.Issue.Concurrency)
		if err != nil {
			return err
		}
		Concurrency = concurrency
	}

	if config.Issue.OutputDir != "" && OutputDir == "" {
		OutputDir = config.Issue.OutputDir
	}

	if config.RawOutput != "" {
		rawOutput, err := strconv.ParseBool(config.RawOutput)
		if err != nil {
			return err
		}
		// check for config file value or flag input value is true
		RawOutput = rawOutput || RawOutput
	}

	return nil
}
