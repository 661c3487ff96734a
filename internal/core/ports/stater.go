package ports

// FileStater reads file modification times.
//
//go:generate go run go.uber.org/mock/mockgen -source=stater.go -destination=mocks/mock_stater.go -package=mocks
type FileStater interface {
	// ModTime returns the file's modification time in Unix milliseconds.
	// A zero result means the file has no usable timestamp.
	// A missing file yields an error matching fs.ErrNotExist.
	ModTime(path string) (int64, error)
}
