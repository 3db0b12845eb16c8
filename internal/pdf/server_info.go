package pdf

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/a3tai/mcp-liquidaciones/internal/descriptions"
)

// DefaultCacheTTL is how long a directory listing is reused by server info
const DefaultCacheTTL = 30 * time.Second

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

// Get retrieves cached directory contents if still valid
func (c *DirectoryCache) Get(path string) ([]FileInfo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.entries[path]
	if !exists || c.now().Sub(entry.lastUpdate) > c.ttl {
		return nil, false
	}
	return entry.files, true
}

// Set stores directory contents
func (c *DirectoryCache) Set(path string, files []FileInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[path] = cacheEntry{files: files, lastUpdate: c.now()}
}

// Clear removes every entry
func (c *DirectoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}

// ServerInfo assembles the server info answer
type ServerInfo struct {
	service *Service
	cache   *DirectoryCache
}

// NewServerInfo creates a server info provider for service
func NewServerInfo(service *Service, ttl time.Duration) *ServerInfo {
	return &ServerInfo{service: service, cache: NewDirectoryCache(ttl)}
}

// Get returns server information. A directory that cannot be listed yields
// empty contents rather than an error.
func (p *ServerInfo) Get(ctx context.Context, serverName, version, outputDirectory string) *ServerInfoResult {
	dir := p.service.Directory()
	files, fromCache := p.cache.Get(dir)
	if !fromCache && ctx.Err() == nil {
		listed, err := p.service.ListFiles(dir)
		if err != nil {
			listed = []FileInfo{}
		}
		p.cache.Set(dir, listed)
		files = listed
	}
	if files == nil {
		files = []FileInfo{}
	}

	return &ServerInfoResult{
		ServerName:        serverName,
		Version:           version,
		DefaultDirectory:  dir,
		OutputDirectory:   outputDirectory,
		MaxFileSize:       p.service.GetMaxFileSize(),
		Workers:           p.service.Workers(),
		AvailableTools:    availableTools(),
		DirectoryContents: files,
		FromCache:         fromCache,
		UsageGuidance:     p.usageGuidance(),
	}
}

// ClearCache drops cached directory listings
func (p *ServerInfo) ClearCache() {
	p.cache.Clear()
}

func availableTools() []ToolInfo {
	params := map[string]string{
		descriptions.ToolParseFile:      "path (required): path to the settlement PDF (absolute or relative to the default directory)",
		descriptions.ToolParseDirectory: "directory (optional): directory to scan (uses default if empty)",
		descriptions.ToolExport:         "directory (optional): directory to scan, prefix (optional): file name prefix for the workbooks",
		descriptions.ToolValidateFile:   "path (required): path to the PDF file",
		descriptions.ToolServerInfo:     "none",
	}

	names := descriptions.GetAllToolNames()
	tools := make([]ToolInfo, 0, len(names))
	for _, name := range names {
		tools = append(tools, ToolInfo{
			Name:        name,
			Description: descriptions.GetToolDescription(name),
			Parameters:  params[name],
		})
	}
	return tools
}

func (p *ServerInfo) usageGuidance() string {
	maxFileSizeMB := p.service.GetMaxFileSize() / (1024 * 1024)

	return fmt.Sprintf(`Settlement MCP Server Usage Guide:

1. DISCOVER: 'liquidacion_server_info' lists the settlement PDFs in the default directory.
2. VALIDATE: 'liquidacion_validate_file' checks a file before extraction.
3. EXTRACT: 'liquidacion_parse_file' for one settlement, 'liquidacion_parse_directory' for a batch.
4. EXPORT: 'liquidacion_export' writes the Ventas, Gastos and CPNs workbooks.

NOTES:
- Amounts of unified-adjustment (credit note) settlements are negative.
- Fields that cannot be found are empty or 0; only unreadable PDFs fail.
- Scanned settlements without a text layer are reported as no_text.
- Files up to %dMB are accepted.`, maxFileSizeMB)
}
