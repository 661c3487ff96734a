package domain

import "go.trai.ch/zerr"

var (
	// ErrStatFailed is returned when a tracked file cannot be stat'ed for a reason other than absence.
	ErrStatFailed = zerr.New("failed to stat tracked file")

	// ErrCorruptSnapshot is returned when a persisted snapshot cannot be parsed or lacks a required mapping.
	ErrCorruptSnapshot = zerr.New("corrupt cache snapshot")

	// ErrSnapshotWrite is returned when a snapshot cannot be written to durable storage.
	ErrSnapshotWrite = zerr.New("failed to write cache snapshot")

	// ErrBuildInFlight is returned when a rebuild is requested while a previous build is still emitting.
	ErrBuildInFlight = zerr.New("a build is already in flight")

	// ErrStaleTransaction is returned when committing a transaction that was superseded by a newer one.
	ErrStaleTransaction = zerr.New("stale cache transaction")

	// ErrStreamStarted is returned when a bundler hands back a stream that has already started.
	ErrStreamStarted = zerr.New("build stream already started")

	// ErrRebundlerClosed is returned when rebuilding after Close.
	ErrRebundlerClosed = zerr.New("rebundler is closed")

	// ErrMissingRecordID is returned when a streamed record carries no id.
	ErrMissingRecordID = zerr.New("record has no id")

	// ErrNilBundler is returned when a rebundler is constructed without a bundler.
	ErrNilBundler = zerr.New("bundler is required")

	// ErrInvalidConfig is returned when the configuration file cannot be used.
	ErrInvalidConfig = zerr.New("invalid configuration")

	// ErrInvalidManifest is returned when a package.json is not valid JSON.
	ErrInvalidManifest = zerr.New("invalid package manifest")

	// ErrBuildFailed is returned when the bundler reports a failure.
	ErrBuildFailed = zerr.New("build failed")
)
