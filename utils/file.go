package utils

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pkg/errors"
)

// ResolveFile returns the path of the given file relative to the root
// of the codebase. For example, if this file currently
// lives in utils/file.go and ./foo/bar/baz is given, then the result
// is foo/bar/baz. This is helpful when you don't want to relatively
// refer to files when you're not sure where the caller actually
// lives in relation to the target file.
func ResolveFile(fn string) string {
	//nolint:dogsled
	_, thisFilePath, _, _ := runtime.Caller(0)
	thisDirPath, err := filepath.Abs(filepath.Dir(thisFilePath))
	if err != nil {
		panic(err)
	}
	return filepath.Join(thisDirPath, "..", fn)
}

// ResolveRelative resolves a path found inside a config file. Absolute paths and paths starting
// with ~ are returned as is (after expanding the home directory); relative paths are taken
// relative to the directory of the config file.
func ResolveRelative(configPath, fn string) (string, error) {
	if fn == "" {
		return "", nil
	}
	if strings.HasPrefix(fn, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", errors.Wrap(err, "cannot expand home directory")
		}
		return filepath.Join(home, strings.TrimPrefix(fn, "~")), nil
	}
	if filepath.IsAbs(fn) || configPath == "" {
		return fn, nil
	}
	return filepath.Join(filepath.Dir(configPath), fn), nil
}
