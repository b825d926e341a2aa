// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package document

import (
	"bytes"
	"encoding/xml"

	"github.com/absmach/vaultcreds"
	"github.com/absmach/vaultcreds/pkg/errors"
)

const indent = "  "

var errNilRecord = errors.New("nil credential record")

var _ vaultcreds.Serializer = (*serializer)(nil)

type serializer struct {
	profile vaultcreds.Profile
}

// NewSerializer returns a serializer producing UTF-8 XML documents.
func NewSerializer(profile vaultcreds.Profile) vaultcreds.Serializer {
	return &serializer{profile: profile}
}

// Serialize renders rec with an XML declaration, no byte order mark and one
// element per line. Equal records always render to equal bytes.
func (s *serializer) Serialize(rec vaultcreds.Record) ([]byte, error) {
	if rec == nil {
		return nil, errors.Wrap(vaultcreds.ErrSerialization, errNilRecord)
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", indent)
	if err := enc.Encode(rec); err != nil {
		return nil, errors.Wrap(vaultcreds.ErrSerialization, err)
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(vaultcreds.ErrSerialization, err)
	}
	buf.WriteByte('\n')

	return buf.Bytes(), nil
}

// ApplyLegacyNamespaceCompat swaps the serialized data contract namespace of
// Backup AAD documents for the one backup agents validate against. Other
// documents are returned unchanged. Remove once agents accept the serialized
// namespace.
func (s *serializer) ApplyLegacyNamespaceCompat(rec vaultcreds.Record, doc []byte) []byte {
	if rec == nil || rec.Variant() != vaultcreds.BackupAadVariant {
		return doc
	}
	old := []byte(`xmlns="` + s.profile.DataContractNamespace + `"`)
	patched := []byte(`xmlns="` + s.profile.AgentNamespace + `"`)
	return bytes.Replace(doc, old, patched, 1)
}
