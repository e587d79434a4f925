package questions

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/examtrail/qbank/pkg/constants"
	"github.com/examtrail/qbank/pkg/errors"
	"github.com/examtrail/qbank/pkg/logging"
)

// SaveBank writes the bank document to path. The write is all-or-nothing:
// content goes to a temporary file in the target directory and is renamed
// over path only after a complete write, so a failed save never leaves a
// truncated bank behind.
func SaveBank(bank *Bank, path string) error {
	doc := newBankDocument(bank)
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.WrapParse("json", path, err)
	}
	data = append(data, '\n')
	if err := writeFileAtomic(path, data); err != nil {
		return err
	}
	logging.Debug().
		Str("file", path).
		Int("records", bank.Len()).
		Msg("Saved bank")
	return nil
}

// writeFileAtomic writes data to path via a temporary file and rename,
// creating parent directories as needed.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
		return errors.WrapIO("create", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return errors.WrapIO("create", path, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.WrapIO("write", path, err)
	}
	if err := tmp.Chmod(constants.FilePermissions); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.WrapIO("write", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.WrapIO("write", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return errors.WrapIO("write", path, err)
	}
	return nil
}
