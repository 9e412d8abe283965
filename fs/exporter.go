// Package fs exports ingested sections as markdown files on disk.
package fs

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/docpipe"
)

// SectionPath converts a section tree path to a relative file path.
// Example: /docs/api/users → docs/api/users.md
func SectionPath(path string) string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return "index.md"
	}
	return trimmed + ".md"
}

// FormatSection renders a section as markdown with YAML frontmatter.
func FormatSection(section *docpipe.Section) string {
	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("source: ")
	b.WriteString(section.URL)
	b.WriteString("\ntitle: ")
	b.WriteString(section.Title)
	b.WriteString("\nchecksum: ")
	b.WriteString(section.Checksum)
	b.WriteString("\n---\n\n")
	b.WriteString(section.Content)
	return b.String()
}

// Exporter writes a documentation's sections to a directory with atomic
// update semantics. Sections are saved to a temporary directory, then
// moved into place on Commit.
type Exporter struct {
	baseDir string
	name    string
}

// NewExporter creates a new Exporter.
// baseDir is the parent directory, name is the output directory name.
// Files are saved to baseDir/name.tmp and moved to baseDir/name on Commit.
func NewExporter(baseDir, name string) *Exporter {
	return &Exporter{
		baseDir: baseDir,
		name:    name,
	}
}

func (e *Exporter) tempDir() string {
	return filepath.Join(e.baseDir, e.name+".tmp")
}

func (e *Exporter) finalDir() string {
	return filepath.Join(e.baseDir, e.name)
}

// Save writes a single section to the temporary directory.
func (e *Exporter) Save(ctx context.Context, section *docpipe.Section) error {
	if err := section.Validate(); err != nil {
		return err
	}

	fullPath := filepath.Join(e.tempDir(), SectionPath(section.Path))

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	content := FormatSection(section)
	return os.WriteFile(fullPath, []byte(content), 0644)
}

// Commit replaces the final directory with the temporary one.
func (e *Exporter) Commit() error {
	if err := os.RemoveAll(e.finalDir()); err != nil {
		return err
	}
	return os.Rename(e.tempDir(), e.finalDir())
}

// Abort discards the temporary directory.
func (e *Exporter) Abort() error {
	return os.RemoveAll(e.tempDir())
}

// ExportSections writes all sections of a documentation to
// baseDir/name, replacing any previous export atomically.
func ExportSections(ctx context.Context, sections docpipe.SectionService, documentationID, baseDir, name string) error {
	found, err := sections.FindSections(ctx, docpipe.SectionFilter{DocumentationID: &documentationID})
	if err != nil {
		return err
	}
	if len(found) == 0 {
		return docpipe.Errorf(docpipe.ENOTFOUND, "no sections found for documentation %q", documentationID)
	}

	exporter := NewExporter(baseDir, name)
	for _, section := range found {
		if err := exporter.Save(ctx, section); err != nil {
			if abortErr := exporter.Abort(); abortErr != nil {
				return abortErr
			}
			return err
		}
	}
	return exporter.Commit()
}
