package domain

import "go.trai.ch/zerr"

var (
	// ErrLibraryNotFound is returned when a path matches no live library and nothing is cached for it.
	ErrLibraryNotFound = zerr.New("library not found")

	// ErrNothingToRestore is returned when a relink is requested without a cached snapshot.
	ErrNothingToRestore = zerr.New("no items found to reload")

	// ErrUnloadBeforeReload is returned when a live library cannot be removed ahead of its reload.
	ErrUnloadBeforeReload = zerr.New("failed to unload before reload")

	// ErrHostRejected is returned when the host refuses to remove or reload a library.
	ErrHostRejected = zerr.New("host rejected library mutation")

	// ErrReloadSignature is returned by hosts whose reload needs the remapping argument.
	ErrReloadSignature = zerr.New("reload requires remap argument")

	// ErrCounterpartMissing is returned when the other resolution of a library is absent on disk
	// and no replacement path was chosen.
	ErrCounterpartMissing = zerr.New("resolution counterpart file not found")

	// ErrNotLowRes is returned when a low-res-only action targets a high-res library.
	ErrNotLowRes = zerr.New("library is not a low-res file")

	// ErrNoHighResData is returned when a hidden high-res load finds nothing to fetch.
	ErrNoHighResData = zerr.New("no high-res data to load")

	// ErrUnknownCategory is returned when a datablock category name cannot be resolved.
	ErrUnknownCategory = zerr.New("unknown datablock category")

	// ErrDatablockNotFound is returned when a handle no longer refers to a live datablock.
	ErrDatablockNotFound = zerr.New("datablock not found")

	// ErrNoDocument is returned when an action runs before a scene document is open.
	ErrNoDocument = zerr.New("no scene document open")

	// ErrLibraryReadFailed is returned when a library file cannot be read.
	ErrLibraryReadFailed = zerr.New("failed to read library file")

	// ErrLibraryParseFailed is returned when a library file cannot be parsed.
	ErrLibraryParseFailed = zerr.New("failed to parse library file")

	// ErrDocumentReadFailed is returned when the scene document cannot be read.
	ErrDocumentReadFailed = zerr.New("failed to read scene document")

	// ErrDocumentParseFailed is returned when the scene document cannot be parsed.
	ErrDocumentParseFailed = zerr.New("failed to parse scene document")

	// ErrDocumentWriteFailed is returned when the scene document cannot be written.
	ErrDocumentWriteFailed = zerr.New("failed to write scene document")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrRelativePathUnavailable is returned when a path cannot be expressed relative to the document.
	ErrRelativePathUnavailable = zerr.New("path cannot be made relative")

	// ErrWatcherFailed is returned when the library file watcher cannot start.
	ErrWatcherFailed = zerr.New("failed to watch library files")
)
