package firmware

import "errors"

// Firmware tree errors.
var (
	// ErrNoTree indicates no firmware tree has been fetched yet.
	ErrNoTree = errors.New("firmware tree not fetched")

	// ErrEmptyArchive indicates the downloaded archive held no
	// configuration files.
	ErrEmptyArchive = errors.New("archive contains no configuration files")

	// ErrUnsafeArchivePath indicates an archive entry tried to escape
	// the extraction directory.
	ErrUnsafeArchivePath = errors.New("archive entry path escapes extraction directory")

	// ErrDownloadFailed indicates the archive download gave up after
	// exhausting retries.
	ErrDownloadFailed = errors.New("archive download failed")
)
