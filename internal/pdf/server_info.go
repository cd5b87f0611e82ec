package pdf

import (
	"fmt"
	"sync"
	"time"

	"github.com/a3tai/tradedoc-reader/internal/descriptions"
)

// DirectoryCache provides TTL-based caching for directory contents
type DirectoryCache struct {
	entries map[string]cacheEntry
	ttl     time.Duration
	now     func() time.Time
	mu      sync.RWMutex
}

type cacheEntry struct {
	files      []FileInfo
	lastUpdate time.Time
}

// NewDirectoryCache creates a new directory cache with specified TTL
func NewDirectoryCache(ttl time.Duration) *DirectoryCache {
	return &DirectoryCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached contents of path, if still valid
func (c *DirectoryCache) Get(path string) ([]FileInfo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.entries[path]
	if !exists || c.now().Sub(entry.lastUpdate) > c.ttl {
		return nil, false
	}
	return entry.files, true
}

// Set stores directory contents in cache
func (c *DirectoryCache) Set(path string, files []FileInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[path] = cacheEntry{files: files, lastUpdate: c.now()}
}

// Clear removes expired entries from cache
func (c *DirectoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for path, entry := range c.entries {
		if now.Sub(entry.lastUpdate) > c.ttl {
			delete(c.entries, path)
		}
	}
}

// Len returns the number of cached directories, expired ones included
func (c *DirectoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// ServerInfo answers server info requests, caching the directory listing
type ServerInfo struct {
	cache   *DirectoryCache
	service *Service
}

// NewServerInfo creates a server info handler with a 5-minute listing cache
func NewServerInfo(service *Service) *ServerInfo {
	return &ServerInfo{
		cache:   NewDirectoryCache(5 * time.Minute),
		service: service,
	}
}

// GetServerInfo describes the server and lists the sources in the
// configured directory.
func (p *ServerInfo) GetServerInfo(serverName, version string) (*ServerInfoResult, error) {
	dir := p.service.ConfiguredDirectory()

	p.cache.Clear()
	files, fromCache := p.cache.Get(dir)
	if !fromCache {
		found, err := p.service.SearchDirectory(SearchDirectoryRequest{Directory: dir})
		if err != nil {
			return nil, err
		}
		files = found.Files
		p.cache.Set(dir, files)
	}

	tools := make([]ToolInfo, 0, len(descriptions.ToolDescriptions))
	for _, name := range descriptions.GetAllToolNames() {
		tools = append(tools, ToolInfo{Name: name, Description: descriptions.GetToolDescription(name)})
	}

	return &ServerInfoResult{
		ServerName:        serverName,
		Version:           version,
		DefaultDirectory:  dir,
		MaxFileSize:       p.service.GetMaxFileSize(),
		SupportedFormats:  []Format{FormatPDF, FormatDump},
		AvailableTools:    tools,
		DirectoryContents: files,
		FromCache:         fromCache,
		UsageGuidance:     p.usageGuidance(),
	}, nil
}

func (p *ServerInfo) usageGuidance() string {
	maxFileSizeMB := p.service.GetMaxFileSize() / (1024 * 1024)

	return fmt.Sprintf(`Trade Document Reader Usage Guide:

1. DISCOVER: 'tradedoc_search_directory' lists PDFs and JSON page dumps,
   'tradedoc_stats_directory' summarizes them.
2. CHECK: 'tradedoc_validate_file' verifies a file and reports its page count.
3. CLASSIFY: 'tradedoc_classify' tells invoice from packing list.
4. PARSE: 'tradedoc_parse_file' for one document, 'tradedoc_parse_batch' for many.
   Unreadable files in a batch become error entries.
5. EXPORT: 'tradedoc_export_xlsx' writes Invoice and Packing_List sheets.

NOTES:
- Relative paths resolve against the default directory
- Files up to %dMB are accepted
- Scanned documents without a text layer yield no records; there is no OCR
- Fields missing from a page are reported as null`, maxFileSizeMB)
}
