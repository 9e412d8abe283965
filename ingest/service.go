// Package ingest orchestrates documentation ingestion runs: crawl, parse,
// delta application against stored sections, embedding, and job state
// bookkeeping. Job state lives in storage, not in process memory, so status
// and the stop flag are always observed fresh.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fwojciec/docpipe"
)

// Progress checkpoints reported at phase boundaries.
const (
	progressCrawling  = 10
	progressCrawled   = 40
	progressParsing   = 55
	progressEmbedding = 60
	progressEmbedded  = 85
	progressIndexing  = 90
	progressCompleted = 100
)

// Service runs ingestion jobs for documentation sites.
type Service struct {
	Docs     docpipe.DocumentationService
	Sections docpipe.SectionService
	Jobs     docpipe.JobService
	Crawler  docpipe.Crawler
	Embedder docpipe.Embedder

	// RawPages, when set together with StoreRawPages, persists the crawled
	// pages verbatim as an audit artifact.
	RawPages      docpipe.RawPageService
	StoreRawPages bool

	// MinSectionTokens is the parser merge threshold. Defaults to
	// docpipe.DefaultMinSectionTokens.
	MinSectionTokens int

	// EmbeddingModel and EmbeddingDimension are stamped on the
	// documentation after a successful run. A positive dimension is also
	// enforced against every vector before indexing.
	EmbeddingModel     string
	EmbeddingDimension int

	Logger *slog.Logger
}

// Start validates the documentation and creates a new job in PENDING state.
// The caller decides whether to Run the job synchronously or in a goroutine.
func (s *Service) Start(ctx context.Context, documentationID string) (*docpipe.Job, error) {
	if _, err := s.Docs.FindDocumentationByID(ctx, documentationID); err != nil {
		return nil, err
	}

	job := &docpipe.Job{DocumentationID: documentationID}
	if err := s.Jobs.CreateJob(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

// FindJob returns the current job snapshot.
func (s *Service) FindJob(ctx context.Context, jobID string) (*docpipe.Job, error) {
	return s.Jobs.FindJobByID(ctx, jobID)
}

// RequestStop flags a job to stop at its next phase boundary.
func (s *Service) RequestStop(ctx context.Context, jobID string) (*docpipe.Job, error) {
	return s.Jobs.RequestStop(ctx, jobID)
}

// Run executes the pipeline for a previously created job until it reaches a
// terminal state. Whatever happens inside the run, the job never stays
// non-terminal: errors mark it FAILED, a stop request marks it STOPPED, and
// a safety net sweeps anything left over.
func (s *Service) Run(ctx context.Context, jobID string) (err error) {
	defer s.forceTerminal(context.WithoutCancel(ctx), jobID)
	defer func() {
		if r := recover(); r != nil {
			err = docpipe.Errorf(docpipe.EINTERNAL, "ingestion panic: %v", r)
			s.fail(context.WithoutCancel(ctx), jobID, err)
		}
	}()

	if err := s.run(ctx, jobID); err != nil {
		s.fail(context.WithoutCancel(ctx), jobID, err)
		return err
	}
	return nil
}

// run advances the job through the pipeline phases.
func (s *Service) run(ctx context.Context, jobID string) error {
	job, err := s.Jobs.FindJobByID(ctx, jobID)
	if err != nil {
		return err
	}
	if job.Status.Terminal() {
		return docpipe.Errorf(docpipe.ECONFLICT, "job %s is already %s", jobID, job.Status)
	}

	doc, err := s.Docs.FindDocumentationByID(ctx, job.DocumentationID)
	if err != nil {
		return err
	}

	// Crawl phase.
	if stopped, err := s.checkStop(ctx, jobID); err != nil || stopped {
		return err
	}
	if err := s.transition(ctx, jobID, docpipe.JobCrawling, progressCrawling); err != nil {
		return err
	}
	s.log(ctx, "crawl started", "job_id", jobID, "doc_id", doc.ID, "url", doc.URL)

	pages, err := s.Crawler.Crawl(ctx, docpipe.CrawlConfig{
		StartURL:        doc.URL,
		MaxDepth:        doc.CrawlDepth,
		IncludePatterns: doc.IncludePatterns,
		ExcludePatterns: doc.ExcludePatterns,
	})
	if err != nil {
		return err
	}

	pageCount := len(pages)
	progress := progressCrawled
	if _, err := s.Jobs.UpdateJob(ctx, jobID, docpipe.JobUpdate{
		ProgressPercent: &progress,
		PagesProcessed:  &pageCount,
	}); err != nil {
		return err
	}
	s.log(ctx, "crawl finished", "job_id", jobID, "pages", pageCount)

	if s.StoreRawPages && s.RawPages != nil {
		rawPages := make([]*docpipe.RawPage, len(pages))
		for i, page := range pages {
			rawPages[i] = &docpipe.RawPage{
				URL:             page.URL,
				HTMLContent:     page.HTML,
				MarkdownContent: page.Markdown,
			}
		}
		if err := s.RawPages.ReplaceRawPages(ctx, doc.ID, rawPages); err != nil {
			return err
		}
	}

	// Parse phase.
	if stopped, err := s.checkStop(ctx, jobID); err != nil || stopped {
		return err
	}
	if err := s.transition(ctx, jobID, docpipe.JobParsing, progressParsing); err != nil {
		return err
	}

	parsed := docpipe.ParseSections(pages, s.MinSectionTokens)
	changedIDs, err := applyDelta(ctx, s.Sections, doc.ID, parsed)
	if err != nil {
		return err
	}
	s.log(ctx, "delta applied", "job_id", jobID, "sections", len(parsed), "changed", len(changedIDs))

	// Embed phase. Unchanged content costs nothing: the embedder is never
	// invoked for an empty changed set.
	if stopped, err := s.checkStop(ctx, jobID); err != nil || stopped {
		return err
	}
	if err := s.transition(ctx, jobID, docpipe.JobEmbedding, progressEmbedding); err != nil {
		return err
	}

	if len(changedIDs) > 0 {
		if err := s.embedSections(ctx, jobID, changedIDs); err != nil {
			return err
		}
	}
	if err := s.setProgress(ctx, jobID, progressEmbedded); err != nil {
		return err
	}

	// Index phase: validate persisted vectors and stamp the documentation.
	if stopped, err := s.checkStop(ctx, jobID); err != nil || stopped {
		return err
	}
	if err := s.transition(ctx, jobID, docpipe.JobIndexing, progressIndexing); err != nil {
		return err
	}

	if err := s.validateEmbeddings(ctx, changedIDs); err != nil {
		return err
	}

	now := time.Now().UTC()
	if _, err := s.Docs.UpdateDocumentation(ctx, doc.ID, docpipe.DocumentationUpdate{
		EmbeddingModel:     &s.EmbeddingModel,
		EmbeddingDimension: &s.EmbeddingDimension,
		LastSynced:         &now,
	}); err != nil {
		return err
	}

	if err := s.transition(ctx, jobID, docpipe.JobCompleted, progressCompleted); err != nil {
		return err
	}
	s.log(ctx, "ingestion completed", "job_id", jobID, "doc_id", doc.ID, "pages", pageCount, "changed", len(changedIDs))

	return nil
}

// embedSections embeds and persists vectors for the changed sections.
func (s *Service) embedSections(ctx context.Context, jobID string, changedIDs []string) error {
	sections := make([]*docpipe.Section, 0, len(changedIDs))
	texts := make([]string, 0, len(changedIDs))
	for _, id := range changedIDs {
		section, err := s.Sections.FindSectionByID(ctx, id)
		if err != nil {
			return err
		}
		sections = append(sections, section)
		texts = append(texts, embeddingText(section))
	}

	vectors, err := s.Embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return err
	}
	if len(vectors) != len(sections) {
		return docpipe.Errorf(docpipe.EINTERNAL, "expected %d vectors, got %d", len(sections), len(vectors))
	}

	for i, section := range sections {
		if err := s.Sections.SetSectionEmbedding(ctx, section.ID, vectors[i]); err != nil {
			return err
		}
	}
	return nil
}

// validateEmbeddings checks that every changed section carries a vector of
// the configured dimension before the run is declared complete.
func (s *Service) validateEmbeddings(ctx context.Context, changedIDs []string) error {
	if s.EmbeddingDimension <= 0 {
		return nil
	}
	for _, id := range changedIDs {
		section, err := s.Sections.FindSectionByID(ctx, id)
		if err != nil {
			return err
		}
		if len(section.Embedding) != s.EmbeddingDimension {
			return docpipe.Errorf(docpipe.EINVALID,
				"section %s embedding dimension %d does not match configured %d",
				id, len(section.Embedding), s.EmbeddingDimension)
		}
	}
	return nil
}

// embeddingText is the canonical text representation sent to the embedder.
func embeddingText(section *docpipe.Section) string {
	return section.Title + "\n" + section.Summary + "\n" + section.Content
}

// checkStop re-reads the job and, if a stop was requested, marks it STOPPED.
func (s *Service) checkStop(ctx context.Context, jobID string) (bool, error) {
	job, err := s.Jobs.FindJobByID(ctx, jobID)
	if err != nil {
		return false, err
	}
	if !job.StopRequested {
		return false, nil
	}

	status := docpipe.JobStopped
	if _, err := s.Jobs.UpdateJob(ctx, jobID, docpipe.JobUpdate{Status: &status}); err != nil {
		return false, err
	}
	s.log(ctx, "ingestion stopped", "job_id", jobID)
	return true, nil
}

// transition moves the job to a new status and progress checkpoint.
func (s *Service) transition(ctx context.Context, jobID string, status docpipe.JobStatus, progress int) error {
	_, err := s.Jobs.UpdateJob(ctx, jobID, docpipe.JobUpdate{
		Status:          &status,
		ProgressPercent: &progress,
	})
	return err
}

func (s *Service) setProgress(ctx context.Context, jobID string, progress int) error {
	_, err := s.Jobs.UpdateJob(ctx, jobID, docpipe.JobUpdate{ProgressPercent: &progress})
	return err
}

// fail marks the job FAILED with the error message. An ECONFLICT from the
// job service means the job already reached a terminal state and the
// failure resolves in its favor.
func (s *Service) fail(ctx context.Context, jobID string, cause error) {
	status := docpipe.JobFailed
	message := docpipe.ErrorMessage(cause)
	if _, err := s.Jobs.UpdateJob(ctx, jobID, docpipe.JobUpdate{
		Status:       &status,
		ErrorMessage: &message,
	}); err != nil && docpipe.ErrorCode(err) != docpipe.ECONFLICT {
		s.log(ctx, "failed to mark job FAILED", "job_id", jobID, "error", err)
	}
}

// forceTerminal is the safety net: any job left non-terminal after a run is
// forced to FAILED so no job lingers mid-pipeline forever.
func (s *Service) forceTerminal(ctx context.Context, jobID string) {
	job, err := s.Jobs.FindJobByID(ctx, jobID)
	if err != nil || job.Status.Terminal() {
		return
	}
	s.fail(ctx, jobID, fmt.Errorf("ingestion aborted in %s", job.Status))
}

func (s *Service) log(ctx context.Context, msg string, args ...any) {
	if s.Logger != nil {
		s.Logger.InfoContext(ctx, msg, args...)
	}
}
