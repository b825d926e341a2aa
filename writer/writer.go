// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package writer persists credential documents to disk.
package writer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/absmach/vaultcreds"
	"github.com/absmach/vaultcreds/pkg/errors"
	"github.com/google/renameio"
)

const (
	siteRecoveryLayout = "2006-01-02T15-04-05"
	backupLayout       = "Mon-01-02-2006"

	dirPerm = 0o700
	defDir  = "vaultcreds"
)

var (
	errNotDirectory = errors.New("path is not a directory")
	errInvalidName  = errors.New("invalid file name")
)

var _ vaultcreds.Writer = (*writer)(nil)

type pendingFile interface {
	io.Writer
	CloseAtomicallyReplace() error
	Cleanup() error
}

type writer struct {
	defaultDir string
	extension  string
	tempFile   func(dir, path string) (pendingFile, error)
	syncDir    func(dir string) error
}

// New returns a writer placing files under defaultDir unless a call names
// another directory. An empty defaultDir resolves to a directory under the
// system temporary directory. extension is appended to generated file names.
func New(defaultDir, extension string) vaultcreds.Writer {
	if defaultDir == "" {
		defaultDir = filepath.Join(os.TempDir(), defDir)
	}
	return &writer{
		defaultDir: defaultDir,
		extension:  strings.TrimPrefix(extension, "."),
		tempFile:   renameioTempFile,
		syncDir:    syncDir,
	}
}

func renameioTempFile(dir, path string) (pendingFile, error) {
	return renameio.TempFile(dir, path)
}

// syncDir flushes dir so a rename inside it survives a crash.
func syncDir(dir string) error {
	parent, err := os.Open(dir)
	if err != nil {
		return err
	}
	if err := parent.Sync(); err != nil {
		parent.Close()
		return err
	}
	return parent.Close()
}

// FileName returns {label}_{timestamp}.{extension}. Backup vaults use a
// weekday and date stamp, everything else a date and time to the second.
func (w *writer) FileName(vault vaultcreds.Vault, site *vaultcreds.Site, at time.Time) string {
	label := vault.Name
	if site.Present() {
		label = site.FriendlyName + "_" + vault.Name
	}

	layout := siteRecoveryLayout
	if vault.Type == vaultcreds.Backup {
		layout = backupLayout
	}

	return fmt.Sprintf("%s_%s.%s", label, at.UTC().Format(layout), w.extension)
}

// Write stores data as dir/fileName. The file appears at its final path
// complete or not at all. A failed directory flush is reported as ErrWrite
// even though the complete file is already in place.
func (w *writer) Write(data []byte, dir, fileName string) (string, error) {
	if fileName == "" || fileName != filepath.Base(fileName) {
		return "", errors.Wrap(vaultcreds.ErrWrite, errInvalidName)
	}

	dir, err := w.directory(dir)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, fileName)

	pending, err := w.tempFile(dir, path)
	if err != nil {
		return "", errors.Wrap(vaultcreds.ErrWrite, err)
	}
	defer pending.Cleanup()

	if _, err := pending.Write(data); err != nil {
		return "", errors.Wrap(vaultcreds.ErrWrite, err)
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return "", errors.Wrap(vaultcreds.ErrWrite, err)
	}

	if err := w.syncDir(dir); err != nil {
		return "", errors.Wrap(vaultcreds.ErrWrite, err)
	}

	return path, nil
}

func (w *writer) directory(dir string) (string, error) {
	if dir == "" {
		if err := os.MkdirAll(w.defaultDir, dirPerm); err != nil {
			return "", errors.Wrap(vaultcreds.ErrWrite, err)
		}
		return w.defaultDir, nil
	}

	info, err := os.Stat(dir)
	switch {
	case err != nil:
		return "", errors.Wrap(vaultcreds.ErrDirectoryNotFound, err)
	case !info.IsDir():
		return "", errors.Wrap(vaultcreds.ErrDirectoryNotFound, errNotDirectory)
	}
	return dir, nil
}
