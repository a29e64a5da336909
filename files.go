package fsqlexec

import (
	"bufio"
	"bytes"
	"errors"
	"os"
	"strings"
)

// ReadExcludeFile returns the paths listed in an exclude file, one per line.
// Trailing whitespace is stripped and blank lines are skipped. An empty path
// returns nil.
func ReadExcludeFile(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &FileAccessError{Path: path, Err: err}
	}
	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t\r")
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, &FileAccessError{Path: path, Err: err}
	}
	return lines, nil
}

// ResolveFiles removes the paths listed in excludeFile from files, drops
// duplicates keeping the first occurrence, and checks that every remaining
// file exists. Nothing is read from the SQL files themselves.
func ResolveFiles(files []string, excludeFile string) ([]string, error) {
	excludes, err := ReadExcludeFile(excludeFile)
	if err != nil {
		return nil, err
	}
	skip := make(map[string]struct{}, len(excludes))
	for _, e := range excludes {
		skip[e] = struct{}{}
	}

	seen := make(map[string]struct{}, len(files))
	resolved := make([]string, 0, len(files))
	for _, f := range files {
		if _, ok := skip[f]; ok {
			continue
		}
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		resolved = append(resolved, f)
	}

	if err := CheckFilesExist(resolved); err != nil {
		return nil, err
	}
	return resolved, nil
}

// CheckFilesExist returns a *FileAccessError for the first path that does
// not exist or is a directory.
func CheckFilesExist(files []string) error {
	for _, f := range files {
		info, err := os.Stat(f)
		if err != nil {
			return &FileAccessError{Path: f, Err: err}
		}
		if info.IsDir() {
			return &FileAccessError{Path: f, Err: errors.New("is a directory")}
		}
	}
	return nil
}
