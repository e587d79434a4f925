package integrate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/examtrail/qbank/pkg/constants"
	"github.com/examtrail/qbank/pkg/errors"
)

// backupName builds the timestamped backup file name for path, placed in
// dir (the file's own directory when dir is empty). The n counter
// disambiguates runs landing on the same second; it is folded into the
// stamp only when n > 1.
func backupName(path, dir string, at time.Time, n int) string {
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(filepath.Base(path), ext)
	stamp := at.Format(constants.TimeFormatBackup)
	if n > 1 {
		stamp = fmt.Sprintf("%s-%d", stamp, n)
	}
	if dir == "" {
		dir = filepath.Dir(path)
	}
	return filepath.Join(dir, stem+constants.BackupInfix+stamp+ext)
}

// Backup copies the bank file at path to a timestamped backup in dir (the
// file's own directory when dir is empty) and returns the backup path. It
// is the shared backup-before-mutate primitive: callers that mutate the
// bank outside a batch run take their pre-mutation copy through here.
func Backup(path, dir string, at time.Time) (string, error) {
	return writeBackup(path, dir, at)
}

// writeBackup copies the bank file to its timestamped backup before any
// mutation. Existing backups are never overwritten; a stamp collision gets
// a counter suffix instead.
func writeBackup(path, dir string, at time.Time) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.WrapIO("read", path, err)
	}
	if dir != "" {
		if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
			return "", errors.WrapIO("create", dir, err)
		}
	}
	for n := 1; ; n++ {
		target := backupName(path, dir, at, n)
		f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, constants.FilePermissions)
		if os.IsExist(err) {
			continue
		}
		if err != nil {
			return "", errors.WrapIO("create", target, err)
		}
		if _, err := f.Write(data); err != nil {
			f.Close()
			os.Remove(target)
			return "", errors.WrapIO("write", target, err)
		}
		if err := f.Close(); err != nil {
			os.Remove(target)
			return "", errors.WrapIO("write", target, err)
		}
		return target, nil
	}
}
