package files

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	loaderrors "github.com/agrippa-data/course-r-actuaries/internal/errors"
)

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// Discover lists the regular files in dir whose names end with suffix,
// case-insensitively, sorted by path.
func Discover(dir, suffix string) ([]FileInfo, error) {
	suffix = strings.ToLower(suffix)
	return find(dir, func(name string) bool {
		return strings.HasSuffix(strings.ToLower(name), suffix)
	})
}

func find(fullPath string, match func(name string) bool) ([]FileInfo, error) {
	info, err := os.Stat(fullPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, loaderrors.NewDirectoryNotFoundError(fullPath, err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat directory %s: %w", fullPath, err)
	}
	if !info.IsDir() {
		return nil, loaderrors.NewDirectoryNotFoundError(fullPath, fmt.Errorf("%s is not a directory", fullPath))
	}

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", fullPath, err)
	}

	files := []FileInfo{}
	for _, entry := range entries {
		name := entry.Name()
		if !entry.Type().IsRegular() || strings.HasPrefix(name, "~$") || !match(name) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", name, err)
		}

		files = append(files, FileInfo{
			Path:    filepath.Join(fullPath, name),
			Name:    name,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})

	return files, nil
}

// Paths extracts the paths of the given files in order
func Paths(files []FileInfo) []string {
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}
	return paths
}
