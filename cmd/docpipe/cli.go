package main

import (
	"context"
	"io"

	"github.com/fwojciec/docpipe"
	"github.com/fwojciec/docpipe/ingest"
	"github.com/fwojciec/docpipe/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	DB       *sqlite.DB
	Docs     docpipe.DocumentationService
	Sections docpipe.SectionService
	Jobs     docpipe.JobService
	Sitemaps docpipe.SitemapService
	Ingest   *ingest.Service
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool `short:"v" help:"Enable debug logging to stderr"`

	Add      AddCmd      `cmd:"" help:"Register a documentation site"`
	Ingest   IngestCmd   `cmd:"" help:"Run an ingestion job for a documentation site"`
	Status   StatusCmd   `cmd:"" help:"Show the status of an ingestion job"`
	Stop     StopCmd     `cmd:"" help:"Request a running ingestion job to stop"`
	Jobs     JobsCmd     `cmd:"" help:"List ingestion jobs for a documentation site"`
	List     ListCmd     `cmd:"" help:"List all registered documentation sites"`
	Sections SectionsCmd `cmd:"" help:"List sections for a documentation site"`
	Delete   DeleteCmd   `cmd:"" help:"Delete a documentation site and its sections"`
	Export   ExportCmd   `cmd:"" help:"Export sections as markdown files"`
}

// AddCmd is the "add" subcommand.
type AddCmd struct {
	URL     string   `arg:"" help:"Documentation root URL"`
	Title   string   `short:"t" help:"Display title"`
	Depth   int      `short:"d" default:"2" help:"Maximum crawl depth"`
	Include []string `short:"i" help:"Include URL glob pattern (repeatable)"`
	Exclude []string `short:"e" help:"Exclude URL glob pattern (repeatable)"`
	Force   bool     `short:"f" help:"Delete existing documentation with the same URL first"`
}

// IngestCmd is the "ingest" subcommand.
type IngestCmd struct {
	URL           string `arg:"" help:"Documentation root URL"`
	Preview       bool   `short:"p" help:"Show discovered URLs without ingesting"`
	Browser       bool   `help:"Fetch pages with a headless browser instead of plain HTTP"`
	Extractor     string `default:"trafilatura" enum:"trafilatura,readability" help:"Content extraction engine"`
	StoreRawPages bool   `help:"Persist raw crawled pages for auditing"`
	Model         string `help:"Embedding model name"`
	Dimension     int    `default:"768" help:"Embedding vector dimension"`
	MinTokens     int    `name:"min-tokens" help:"Minimum tokens per section before merging"`
}

// StatusCmd is the "status" subcommand.
type StatusCmd struct {
	JobID string `arg:"" help:"Ingestion job ID"`
}

// StopCmd is the "stop" subcommand.
type StopCmd struct {
	JobID string `arg:"" help:"Ingestion job ID"`
}

// JobsCmd is the "jobs" subcommand.
type JobsCmd struct {
	URL string `arg:"" help:"Documentation root URL"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct{}

// SectionsCmd is the "sections" subcommand.
type SectionsCmd struct {
	URL  string `arg:"" help:"Documentation root URL"`
	Full bool   `help:"Show full section content"`
}

// DeleteCmd is the "delete" subcommand.
type DeleteCmd struct {
	URL   string `arg:"" help:"Documentation root URL"`
	Force bool   `help:"Confirm deletion"`
}

// ExportCmd is the "export" subcommand.
type ExportCmd struct {
	URL  string `arg:"" help:"Documentation root URL"`
	Dir  string `default:"." help:"Parent directory for the export"`
	Name string `help:"Export directory name (defaults to the site host)"`
}
