package pdf

// FileInfo represents information about a source file
type FileInfo struct {
	Path         string `json:"path"`
	Name         string `json:"name"`
	Format       Format `json:"format"`
	Size         int64  `json:"size"`
	ModifiedTime string `json:"modified_time"`
}

// Format is the on-disk representation of a page source
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDump Format = "json"
)

// Request Types

// ValidateFileRequest represents a request to validate a source file
type ValidateFileRequest struct {
	Path string `json:"path"`
}

// SearchDirectoryRequest represents a request to find sources in a directory
type SearchDirectoryRequest struct {
	Directory string `json:"directory"`
	Query     string `json:"query"`
}

// StatsDirectoryRequest represents a request to summarize a directory
type StatsDirectoryRequest struct {
	Directory string `json:"directory"`
}

// ServerInfoRequest represents a request to get server information and capabilities
type ServerInfoRequest struct{}

// Response Types

// ValidateFileResult represents the result of a validation
type ValidateFileResult struct {
	Path    string `json:"path"`
	Valid   bool   `json:"valid"`
	Format  Format `json:"format,omitempty"`
	Pages   int    `json:"pages,omitempty"`
	Message string `json:"message,omitempty"`
}

// SearchDirectoryResult represents the result of a directory search
type SearchDirectoryResult struct {
	Files       []FileInfo `json:"files"`
	TotalCount  int        `json:"total_count"`
	Directory   string     `json:"directory"`
	SearchQuery string     `json:"search_query,omitempty"`
}

// Paths returns the path of every file found.
func (r *SearchDirectoryResult) Paths() []string {
	out := make([]string, 0, len(r.Files))
	for _, f := range r.Files {
		out = append(out, f.Path)
	}
	return out
}

// StatsDirectoryResult summarizes the sources found in a directory
type StatsDirectoryResult struct {
	Directory        string         `json:"directory"`
	TotalFiles       int            `json:"total_files"`
	TotalSize        int64          `json:"total_size"`
	ByFormat         map[Format]int `json:"by_format"`
	LargestFileSize  int64          `json:"largest_file_size"`
	LargestFileName  string         `json:"largest_file_name"`
	SmallestFileSize int64          `json:"smallest_file_size"`
	SmallestFileName string         `json:"smallest_file_name"`
	AverageFileSize  int64          `json:"average_file_size"`
}

// ToolInfo describes one tool offered by the server
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ServerInfoResult represents server information and usage guidance
type ServerInfoResult struct {
	ServerName        string     `json:"server_name"`
	Version           string     `json:"version"`
	DefaultDirectory  string     `json:"default_directory"`
	MaxFileSize       int64      `json:"max_file_size"`
	SupportedFormats  []Format   `json:"supported_formats"`
	AvailableTools    []ToolInfo `json:"available_tools"`
	DirectoryContents []FileInfo `json:"directory_contents"`
	FromCache         bool       `json:"from_cache"`
	UsageGuidance     string     `json:"usage_guidance"`
}
