package questions

import (
	"encoding/json"
	"io/fs"
	"os"

	"github.com/examtrail/qbank/pkg/errors"
	"github.com/examtrail/qbank/pkg/logging"
)

// LoadBank reads a bank document from the filesystem. A missing file comes
// back as a MissingArtifactError so callers can decide between skipping and
// aborting. Records missing required fields are skipped with a warning and
// kept on the bank's invalid list.
func LoadBank(fsys fs.FS, path string) (*Bank, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewMissingArtifactError("bank", path, err)
		}
		return nil, errors.WrapIO("read", path, err)
	}
	return parseBank(data, path)
}

// LoadBankFile reads a bank document from a path on the host filesystem.
func LoadBankFile(path string) (*Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewMissingArtifactError("bank", path, err)
		}
		return nil, errors.WrapIO("read", path, err)
	}
	return parseBank(data, path)
}

func parseBank(data []byte, path string) (*Bank, error) {
	var doc bankDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.WrapParse("json", path, err)
	}
	bank := doc.toBank()
	for _, inv := range bank.Invalid() {
		logging.Warn().
			Str("file", path).
			Str("group", inv.Group).
			Int("position", inv.Position).
			Str("reason", inv.Reason).
			Msg("Skipping malformed bank record")
	}
	return bank, nil
}

// LoadReference reads the reference set from the filesystem. A missing file
// comes back as a MissingArtifactError. Both document shapes are accepted:
// an envelope with a questions array, or a bare array.
func LoadReference(fsys fs.FS, path string) (*ReferenceSet, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewMissingArtifactError("reference", path, err)
		}
		return nil, errors.WrapIO("read", path, err)
	}
	return parseReference(data, path)
}

// LoadReferenceFile reads the reference set from a path on the host
// filesystem.
func LoadReferenceFile(path string) (*ReferenceSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewMissingArtifactError("reference", path, err)
		}
		return nil, errors.WrapIO("read", path, err)
	}
	return parseReference(data, path)
}

func parseReference(data []byte, path string) (*ReferenceSet, error) {
	var doc referenceDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		var bare []ReferenceRecord
		if arrErr := json.Unmarshal(data, &bare); arrErr != nil {
			return nil, errors.WrapParse("json", path, err)
		}
		doc.Questions = bare
	}
	set := NewReferenceSet(doc.Questions...)
	for _, inv := range set.Invalid() {
		logging.Warn().
			Str("file", path).
			Int("position", inv.Position).
			Str("reason", inv.Reason).
			Msg("Skipping malformed reference record")
	}
	return set, nil
}
