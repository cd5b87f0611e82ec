// Package pdf provides page sources for the extraction engine: PDF files
// read with ledongthuc/pdf and JSON page dumps, together with file
// validation and directory search confined to a configured directory.
package pdf

import (
	"fmt"

	"github.com/a3tai/tradedoc-reader/internal/document"
	"github.com/a3tai/tradedoc-reader/internal/parser"
	"github.com/a3tai/tradedoc-reader/internal/pdf/security"
)

// Service opens, validates and finds page sources
type Service struct {
	maxFileSize   int64
	validator     *Validator
	search        *Search
	stats         *Stats
	info          *ServerInfo
	pathValidator *security.PathValidator
}

var _ parser.Opener = (*Service)(nil)

// NewService creates a service limited to files under configuredDirectory
// and no larger than maxFileSize bytes.
func NewService(maxFileSize int64, configuredDirectory string) (*Service, error) {
	pathValidator, err := security.NewPathValidator(configuredDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to create path validator: %w", err)
	}

	s := &Service{
		maxFileSize:   maxFileSize,
		validator:     NewValidator(maxFileSize),
		search:        NewSearch(maxFileSize),
		stats:         NewStats(maxFileSize),
		pathValidator: pathValidator,
	}
	s.info = NewServerInfo(s)
	return s, nil
}

// Open implements parser.Opener. Relative paths resolve against the
// configured directory; the file must pass the path and file checks.
func (s *Service) Open(path string) (parser.Source, error) {
	resolved, err := s.pathValidator.NormalizePath(path)
	if err != nil {
		return nil, document.WrapSourceError("open", path, 0, fmt.Errorf("security validation failed: %w", err))
	}
	if err := s.validator.CheckFile(resolved); err != nil {
		return nil, document.WrapSourceError("open", path, 0, err)
	}

	format, _ := FormatOf(resolved)
	switch format {
	case FormatDump:
		d, err := LoadDump(resolved)
		if err != nil {
			return nil, document.WrapSourceError("open", path, 0, err)
		}
		return d, nil
	default:
		r, err := OpenReader(resolved)
		if err != nil {
			return nil, document.WrapSourceError("open", path, 0, err)
		}
		return r, nil
	}
}

// ValidateFile performs validation on a source file
func (s *Service) ValidateFile(req ValidateFileRequest) (*ValidateFileResult, error) {
	resolved, err := s.pathValidator.NormalizePath(req.Path)
	if err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}
	res, err := s.validator.ValidateFile(ValidateFileRequest{Path: resolved})
	if err != nil {
		return nil, err
	}
	res.Path = req.Path
	return res, nil
}

// SearchDirectory finds sources in a directory. An empty directory means
// the configured one.
func (s *Service) SearchDirectory(req SearchDirectoryRequest) (*SearchDirectoryResult, error) {
	if req.Directory == "" {
		req.Directory = s.pathValidator.GetConfiguredDirectory()
	}

	if err := s.pathValidator.ValidateDirectory(req.Directory); err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}

	return s.search.SearchDirectory(req)
}

// StatsDirectory summarizes the sources in a directory. An empty directory
// means the configured one.
func (s *Service) StatsDirectory(req StatsDirectoryRequest) (*StatsDirectoryResult, error) {
	if req.Directory == "" {
		req.Directory = s.pathValidator.GetConfiguredDirectory()
	}

	if err := s.pathValidator.ValidateDirectory(req.Directory); err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}

	return s.stats.GetDirectoryStats(req)
}

// ServerInfo returns server capabilities and the configured directory contents
func (s *Service) ServerInfo(_ ServerInfoRequest, serverName, version string) (*ServerInfoResult, error) {
	return s.info.GetServerInfo(serverName, version)
}

// ResolvePath resolves path against the configured directory and checks
// that it stays inside it. The file does not have to exist.
func (s *Service) ResolvePath(path string) (string, error) {
	resolved, err := s.pathValidator.NormalizePath(path)
	if err != nil {
		return "", fmt.Errorf("security validation failed: %w", err)
	}
	return resolved, nil
}

// GetMaxFileSize returns the maximum file size limit
func (s *Service) GetMaxFileSize() int64 {
	return s.maxFileSize
}

// ConfiguredDirectory returns the directory sources are confined to
func (s *Service) ConfiguredDirectory() string {
	return s.pathValidator.GetConfiguredDirectory()
}
