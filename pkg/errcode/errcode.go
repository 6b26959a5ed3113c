// Package errcode enumerates error codes used by pbdb error
// constructors together with the gn error type.
package errcode

import (
	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// File System errors
	CreateDirError
	CopyFileError
	ReadFileError

	// Logging errors
	CreateLogFileError

	// Database errors
	DBConnectionError
	DBNotConnectedError
	DBTableExistsCheckError
	DBQueryTablesError
	DBScanTableError
	DBDropTableError
	DBCreateTableError
	DBSelectError
	DBRecordNotFoundError

	// Ingest errors
	IngestDuplicateColumnError
	IngestMissingKeyError
	IngestEmptyKeyError
	IngestValueParseError
	IngestInsertError
	IngestSourceError

	// Reference series errors
	RefUnknownSeriesError
	RefFetchError
	RefLoadError
	RefFileError

	// Schema errors
	SchemaGORMConnectionError
	SchemaCreateError

	// Staging errors
	StageMaterializeError
	StagePromoteError

	// Assets registry errors
	AssetsConfigError
)
