package gekko

import (
	"os"
	"path/filepath"
)

// FilePathEnv lists extra directories searched for data files.
const FilePathEnv = "GEKKO_FILE_PATH"

// Options carries settings shared by readers, writers and builders.
type Options struct {
	Paths         []string
	SharedObjects *SharedObjects
	Logger        Logger
}

func NewOptions() *Options {
	return &Options{
		Paths:  EnvPaths(FilePathEnv),
		Logger: NewNopLogger(),
	}
}

// EnvPaths splits the named environment variable into a directory list.
func EnvPaths(name string) []string {
	value := os.Getenv(name)
	if value == "" {
		return nil
	}
	var paths []string
	for _, p := range filepath.SplitList(value) {
		if p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

// FindFile returns name if it exists, otherwise the first match under the
// search paths.
func (o *Options) FindFile(name string) (string, bool) {
	if name == "" {
		return "", false
	}
	if fileExists(name) {
		return name, true
	}
	if o == nil || filepath.IsAbs(name) {
		return "", false
	}
	for _, dir := range o.Paths {
		candidate := filepath.Join(dir, name)
		if fileExists(candidate) {
			return candidate, true
		}
	}
	return "", false
}

func (o *Options) logger() Logger {
	if o == nil || o.Logger == nil {
		return NewNopLogger()
	}
	return o.Logger
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
