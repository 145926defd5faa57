package cmd

import (
	"io"
	"io/fs"
	"os"

	"github.com/benbjohnson/clock"

	"github.com/trly/servicedeck/internal/log"
)

// FileSystem defines the interface for file system operations.
type FileSystem interface {
	Stat(string) (fs.FileInfo, error)
	ReadFile(string) ([]byte, error)
}

// FileSystemOps provides file system operations for dependency injection.
type FileSystemOps struct {
	StatFunc     func(string) (fs.FileInfo, error)
	ReadFileFunc func(string) ([]byte, error)
}

// Stat returns file information for the given path.
func (f *FileSystemOps) Stat(path string) (fs.FileInfo, error) {
	if f.StatFunc != nil {
		return f.StatFunc(path)
	}
	return os.Stat(path)
}

// ReadFile reads the file at path.
func (f *FileSystemOps) ReadFile(path string) ([]byte, error) {
	if f.ReadFileFunc != nil {
		return f.ReadFileFunc(path)
	}
	return os.ReadFile(path)
}

// Ensure FileSystemOps implements FileSystem.
var _ FileSystem = (*FileSystemOps)(nil)

// NewFileSystemOps returns production file system operations.
func NewFileSystemOps() FileSystemOps {
	return FileSystemOps{}
}

// CommonDeps provides dependencies common across commands.
type CommonDeps struct {
	Clock      clock.Clock
	FileSystem FileSystem
	Logger     log.Logger
	Stdin      io.Reader
	Stdout     io.Writer
}

// NewCommonDeps creates production common dependencies.
func NewCommonDeps(logger log.Logger) CommonDeps {
	fs := NewFileSystemOps()
	return CommonDeps{
		Clock:      clock.New(),
		FileSystem: &fs,
		Logger:     logger,
		Stdin:      os.Stdin,
		Stdout:     os.Stdout,
	}
}

// NewRootDeps creates common root dependencies for all commands.
func NewRootDeps(app *App) CommonDeps {
	return NewCommonDeps(app.Logger)
}
