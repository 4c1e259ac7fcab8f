// Package catalog discovers sites and their data categories from the
// directory hierarchy of per-site parquet files.
package catalog

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/gridsight/gridsight/schema"
)

// yearSuffix matches year-partitioned file names such as
// site_generation_hourly_historical_2021.parquet.
var yearSuffix = regexp.MustCompile(`_(\d{4})\.parquet$`)

// FileInfo describes one discovered parquet file for inventory listings.
type FileInfo struct {
	Category  schema.Category `json:"category"`
	Kind      string          `json:"kind"`
	Name      string          `json:"name"`
	Path      string          `json:"-"`
	SizeBytes int64           `json:"size_bytes"`
}

// SourceFile is one loadable partition resolved for a (site, category,
// scope). Year is zero for consolidated (non-partitioned) files.
type SourceFile struct {
	Path string
	Year int
}

// Catalog walks the data root once and answers site/category questions from
// the cached scan. Rescan rebuilds the cache when the tree changes on disk.
type Catalog struct {
	root string
	log  *slog.Logger

	mu    sync.Mutex
	sites []schema.Site
}

// New builds a catalog over the given root. It fails with ErrNotFound when
// the root is absent; the initial scan is deferred until first use.
func New(root string, log *slog.Logger) (*Catalog, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("data root %q: %w", root, schema.ErrNotFound)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Catalog{root: root, log: log}, nil
}

// Root returns the catalog's data root.
func (c *Catalog) Root() string {
	return c.root
}

// Sites returns all discovered sites, sorted by name. A site missing some
// categories is still listed with its reduced category set.
func (c *Catalog) Sites() ([]schema.Site, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sites == nil {
		if err := c.scanLocked(); err != nil {
			return nil, err
		}
	}
	return c.sites, nil
}

// Rescan discards the cached scan and walks the tree again.
func (c *Catalog) Rescan() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scanLocked()
}

func (c *Catalog) scanLocked() error {
	entries, err := os.ReadDir(c.root)
	if err != nil {
		return fmt.Errorf("reading data root %q: %w", c.root, schema.ErrNotFound)
	}

	sites := make([]schema.Site, 0, len(entries))
	fileCount := 0
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		sitePath := filepath.Join(c.root, entry.Name())
		var cats []schema.Category
		for _, cat := range schema.AllCategories {
			if info, err := os.Stat(filepath.Join(sitePath, cat.Folder())); err == nil && info.IsDir() {
				cats = append(cats, cat)
			}
		}
		if len(cats) == 0 {
			continue
		}
		files, _ := c.collectFiles(sitePath, cats)
		fileCount += len(files)
		sites = append(sites, schema.Site{
			Name:       entry.Name(),
			Path:       sitePath,
			Categories: cats,
		})
	}
	sort.Slice(sites, func(i, j int) bool { return sites[i].Name < sites[j].Name })

	c.sites = sites
	c.log.Info("catalog scan complete",
		"root", c.root, "sites", len(sites), "files", fileCount)
	return nil
}

// Site returns the named site, or ErrNotFound.
func (c *Catalog) Site(name string) (schema.Site, error) {
	sites, err := c.Sites()
	if err != nil {
		return schema.Site{}, err
	}
	for _, s := range sites {
		if s.Name == name {
			return s, nil
		}
	}
	return schema.Site{}, fmt.Errorf("site %q: %w", name, schema.ErrNotFound)
}

// Categories returns the category set available for a site.
func (c *Catalog) Categories(name string) ([]schema.Category, error) {
	site, err := c.Site(name)
	if err != nil {
		return nil, err
	}
	return site.Categories, nil
}

// Files enumerates every discovered parquet file for a site with its
// category, scope kind, and size.
func (c *Catalog) Files(name string) ([]FileInfo, error) {
	site, err := c.Site(name)
	if err != nil {
		return nil, err
	}
	return c.collectFiles(site.Path, site.Categories)
}

func (c *Catalog) collectFiles(sitePath string, cats []schema.Category) ([]FileInfo, error) {
	var out []FileInfo
	subdirs := []string{"historical", "forecast/timeseries", "forecast/distribution"}
	for _, cat := range cats {
		for _, sub := range subdirs {
			dir := filepath.Join(sitePath, cat.Folder(), filepath.FromSlash(sub))
			matches, err := filepath.Glob(filepath.Join(dir, "*.parquet"))
			if err != nil {
				continue
			}
			for _, m := range matches {
				info, err := os.Stat(m)
				if err != nil {
					continue
				}
				kind := sub
				if i := strings.LastIndex(sub, "/"); i >= 0 {
					kind = sub[i+1:]
				}
				out = append(out, FileInfo{
					Category:  cat,
					Kind:      kind,
					Name:      filepath.Base(m),
					Path:      m,
					SizeBytes: info.Size(),
				})
			}
		}
	}
	return out, nil
}

// Resolve returns the loadable source files for a (site, category, scope),
// newest partition first. Consolidated files sort after year partitions so a
// lookback-bounded loader prefers the finer-grained sources. Fails with
// ErrDataUnavailable when nothing matches.
func (c *Catalog) Resolve(name string, cat schema.Category, scope schema.Scope) ([]SourceFile, error) {
	site, err := c.Site(name)
	if err != nil {
		return nil, err
	}
	if !site.HasCategory(cat) {
		return nil, fmt.Errorf("site %q category %q: %w", name, cat, schema.ErrNotFound)
	}

	dir := filepath.Join(site.Path, cat.Folder(), filepath.FromSlash(scope.Subdir()))
	prefix := fmt.Sprintf("%s_%s_%s", site.Name, cat, scope.FileSuffix())
	matches, _ := filepath.Glob(filepath.Join(dir, prefix+"*.parquet"))

	var files []SourceFile
	for _, m := range matches {
		base := filepath.Base(m)
		if base == prefix+".parquet" {
			files = append(files, SourceFile{Path: m})
			continue
		}
		if sub := yearSuffix.FindStringSubmatch(base); sub != nil {
			year, _ := strconv.Atoi(sub[1])
			files = append(files, SourceFile{Path: m, Year: year})
		}
	}
	if len(files) == 0 {
		c.log.Warn("no source files for scope",
			"site", name, "category", cat, "scope", scope.FileSuffix())
		return nil, fmt.Errorf("site %q category %q scope %q: %w",
			name, cat, scope.FileSuffix(), schema.ErrDataUnavailable)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Year > files[j].Year })
	return files, nil
}
