package pdf

import (
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
)

// Stats handles directory statistics operations
type Stats struct {
	validator *Validator
}

// NewStats creates a stats analyzer with the specified size limit
func NewStats(maxFileSize int64) *Stats {
	return &Stats{
		validator: NewValidator(maxFileSize),
	}
}

// GetDirectoryStats summarizes the sources under req.Directory. Only files
// that pass the file checks are counted; none of them is opened.
func (s *Stats) GetDirectoryStats(req StatsDirectoryRequest) (*StatsDirectoryResult, error) {
	directory := req.Directory
	if directory == "" {
		return nil, fmt.Errorf("directory cannot be empty")
	}

	if _, err := os.Stat(directory); os.IsNotExist(err) {
		return nil, fmt.Errorf("directory does not exist: %s", directory)
	}

	result := &StatsDirectoryResult{
		Directory:        directory,
		ByFormat:         make(map[Format]int),
		SmallestFileSize: math.MaxInt64,
	}

	err := filepath.WalkDir(directory, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // Continue despite errors
		}
		if d.IsDir() || d.Type()&fs.ModeSymlink != 0 {
			return nil
		}

		format, ok := FormatOf(d.Name())
		if !ok {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil //nolint:nilerr // Continue despite errors
		}
		if s.validator.ValidateFileInfo(path, info) != nil {
			return nil
		}

		result.TotalFiles++
		result.TotalSize += info.Size()
		result.ByFormat[format]++

		if info.Size() > result.LargestFileSize {
			result.LargestFileSize = info.Size()
			result.LargestFileName = info.Name()
		}
		if info.Size() < result.SmallestFileSize {
			result.SmallestFileSize = info.Size()
			result.SmallestFileName = info.Name()
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking directory: %w", err)
	}

	if result.TotalFiles == 0 {
		result.SmallestFileSize = 0
		return result, nil
	}
	result.AverageFileSize = result.TotalSize / int64(result.TotalFiles)
	return result, nil
}
