// Package constants provides shared constants used throughout the qbank codebase.
// This includes file permissions, naming formats, limits, and other values
// that should be consistent across the application.
package constants

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Limit constants define various limits and capacities
const (
	// MaxChoiceLabelLength is the maximum allowed length for a choice label
	MaxChoiceLabelLength = 8

	// MaxStemLength is the maximum allowed length for a question stem
	MaxStemLength = 8192

	// DefaultResearchSize is the default number of questions per research
	// request document
	DefaultResearchSize = 50
)

// Default values
const (
	// DefaultBankFile is the default path of the question bank document
	DefaultBankFile = "bank.json"

	// DefaultReferenceFile is the default path of the reference set document
	DefaultReferenceFile = "reference.json"

	// DefaultResearchDir is the default directory for research request documents
	DefaultResearchDir = "research"
)

// Format constants
const (
	// TimeFormatVerification is the date-only format recorded on first
	// verification of a record
	TimeFormatVerification = "2006-01-02"

	// TimeFormatBackup is the timestamp embedded in backup file names
	TimeFormatBackup = "20060102_150405"
)

// Naming constants
const (
	// BackupInfix separates the original file stem from the backup timestamp
	BackupInfix = ".backup."
)

// Error messages
const (
	// ErrMsgNoAnswer is the standard error message for verify attempts on
	// records without an answer
	ErrMsgNoAnswer = "record has no answer"
)
