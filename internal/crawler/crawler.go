package crawler

import (
	"io/fs"
	"path/filepath"
	"strings"

	"stubdex/internal/builder"
	"stubdex/internal/stub"
)

// Crawler scans a directory tree for Kotlin source files.
type Crawler struct {
	builder *builder.Builder
	ignored []string
}

// NewCrawler creates a crawler with the default ignore list.
func NewCrawler(b *builder.Builder) *Crawler {
	return &Crawler{
		builder: b,
		ignored: []string{".git", "build", "out", "node_modules", "testdata"},
	}
}

// SetIgnored replaces the directory names skipped during a scan.
func (c *Crawler) SetIgnored(names []string) {
	c.ignored = names
}

// ScanProject walks the root directory, builds a stub tree for every
// Kotlin file and streams it to the callback. Files that cannot be
// read or parsed are skipped rather than failing the whole scan.
func (c *Crawler) ScanProject(root string, onFile func(path string, fileStub *stub.FileStub)) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			for _, ign := range c.ignored {
				if d.Name() == ign {
					return filepath.SkipDir
				}
			}
			return nil
		}

		if !strings.HasSuffix(d.Name(), ".kt") && !strings.HasSuffix(d.Name(), ".kts") {
			return nil
		}

		fileStub, err := c.builder.BuildFile(path)
		if err != nil {
			// Skip unreadable files instead of failing the whole scan
			return nil
		}

		onFile(path, fileStub)
		return nil
	})
}
