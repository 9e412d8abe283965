package ingest_test

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/fwojciec/docpipe"
	"github.com/fwojciec/docpipe/ingest"
	"github.com/fwojciec/docpipe/mock"
	"github.com/fwojciec/docpipe/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testEnv wires an ingest.Service against in-memory storage with mock
// crawler and embedder collaborators.
type testEnv struct {
	db       *sqlite.DB
	docs     *sqlite.DocumentationService
	sections *sqlite.SectionService
	jobs     *sqlite.JobService
	rawPages *sqlite.RawPageService
	crawler  *mock.Crawler
	embedder *mock.Embedder
	svc      *ingest.Service
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()

	db := sqlite.NewDB(":memory:")
	require.NoError(t, db.Open())
	t.Cleanup(func() { db.Close() })

	env := &testEnv{
		db:       db,
		docs:     sqlite.NewDocumentationService(db),
		sections: sqlite.NewSectionService(db),
		jobs:     sqlite.NewJobService(db),
		rawPages: sqlite.NewRawPageService(db),
		crawler:  &mock.Crawler{},
		embedder: &mock.Embedder{},
	}
	env.svc = &ingest.Service{
		Docs:               env.docs,
		Sections:           env.sections,
		Jobs:               env.jobs,
		Crawler:            env.crawler,
		Embedder:           env.embedder,
		RawPages:           env.rawPages,
		EmbeddingModel:     "test-embedding-model",
		EmbeddingDimension: 3,
	}
	return env
}

func (e *testEnv) createDocumentation(t *testing.T) *docpipe.Documentation {
	t.Helper()
	doc := &docpipe.Documentation{URL: "https://example.com/docs", CrawlDepth: 2}
	require.NoError(t, e.docs.CreateDocumentation(context.Background(), doc))
	return doc
}

// fixedVectors returns one dim-3 vector per input text.
func fixedVectors(texts []string) [][]float32 {
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = []float32{0.1, 0.2, 0.3}
	}
	return vectors
}

func TestService_Run_CompletesPipeline(t *testing.T) {
	t.Parallel()

	env := setupEnv(t)
	doc := env.createDocumentation(t)
	ctx := context.Background()

	env.crawler.CrawlFn = func(_ context.Context, cfg docpipe.CrawlConfig) ([]*docpipe.Page, error) {
		assert.Equal(t, doc.URL, cfg.StartURL)
		assert.Equal(t, 2, cfg.MaxDepth)
		return []*docpipe.Page{
			{URL: "https://example.com/docs", Markdown: "# Welcome\n\nIntro text.", Depth: 0},
			{URL: "https://example.com/docs/guide", Markdown: "# Guide\n\nGuide text.", Depth: 1},
		}, nil
	}
	env.embedder.EmbedBatchFn = func(_ context.Context, texts []string) ([][]float32, error) {
		return fixedVectors(texts), nil
	}

	job, err := env.svc.Start(ctx, doc.ID)
	require.NoError(t, err)
	require.NoError(t, env.svc.Run(ctx, job.ID))

	final, err := env.jobs.FindJobByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, docpipe.JobCompleted, final.Status)
	assert.Equal(t, 100, final.ProgressPercent)
	assert.Equal(t, 2, final.PagesProcessed)
	assert.Empty(t, final.ErrorMessage)

	// Every section carries an embedding of the configured dimension.
	sections, err := env.sections.FindSections(ctx, docpipe.SectionFilter{DocumentationID: &doc.ID})
	require.NoError(t, err)
	require.NotEmpty(t, sections)
	for _, section := range sections {
		assert.Len(t, section.Embedding, 3, "section %s", section.Path)
	}

	// The documentation is stamped with embedding metadata.
	stamped, err := env.docs.FindDocumentationByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "test-embedding-model", stamped.EmbeddingModel)
	assert.Equal(t, 3, stamped.EmbeddingDimension)
	assert.NotNil(t, stamped.LastSynced)
}

func TestService_Run_UnchangedContentSkipsEmbedder(t *testing.T) {
	t.Parallel()

	env := setupEnv(t)
	doc := env.createDocumentation(t)
	ctx := context.Background()

	env.crawler.CrawlFn = func(context.Context, docpipe.CrawlConfig) ([]*docpipe.Page, error) {
		return []*docpipe.Page{
			{URL: "https://example.com/docs", Markdown: "# Welcome\n\nStable content.", Depth: 0},
		}, nil
	}

	var embedCalls atomic.Int32
	env.embedder.EmbedBatchFn = func(_ context.Context, texts []string) ([][]float32, error) {
		embedCalls.Add(1)
		return fixedVectors(texts), nil
	}

	job1, err := env.svc.Start(ctx, doc.ID)
	require.NoError(t, err)
	require.NoError(t, env.svc.Run(ctx, job1.ID))
	require.Equal(t, int32(1), embedCalls.Load())

	// Second run over identical content: no section changes, no embed calls.
	job2, err := env.svc.Start(ctx, doc.ID)
	require.NoError(t, err)
	require.NoError(t, env.svc.Run(ctx, job2.ID))

	assert.Equal(t, int32(1), embedCalls.Load(), "embedder must not run for an empty changed set")

	final, err := env.jobs.FindJobByID(ctx, job2.ID)
	require.NoError(t, err)
	assert.Equal(t, docpipe.JobCompleted, final.Status)
	assert.Equal(t, 100, final.ProgressPercent)
}

func TestService_Run_StopBeforeCrawl(t *testing.T) {
	t.Parallel()

	env := setupEnv(t)
	doc := env.createDocumentation(t)
	ctx := context.Background()

	crawlerInvoked := false
	env.crawler.CrawlFn = func(context.Context, docpipe.CrawlConfig) ([]*docpipe.Page, error) {
		crawlerInvoked = true
		return nil, nil
	}

	job, err := env.svc.Start(ctx, doc.ID)
	require.NoError(t, err)

	_, err = env.svc.RequestStop(ctx, job.ID)
	require.NoError(t, err)

	require.NoError(t, env.svc.Run(ctx, job.ID))

	final, err := env.jobs.FindJobByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, docpipe.JobStopped, final.Status)
	assert.False(t, crawlerInvoked, "crawler must not run after a stop request")
}

func TestService_Run_CrawlFailureMarksJobFailed(t *testing.T) {
	t.Parallel()

	env := setupEnv(t)
	doc := env.createDocumentation(t)
	ctx := context.Background()

	env.crawler.CrawlFn = func(context.Context, docpipe.CrawlConfig) ([]*docpipe.Page, error) {
		return nil, docpipe.Errorf(docpipe.EINTERNAL, "connection refused")
	}

	job, err := env.svc.Start(ctx, doc.ID)
	require.NoError(t, err)

	err = env.svc.Run(ctx, job.ID)
	require.Error(t, err)

	final, err := env.jobs.FindJobByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, docpipe.JobFailed, final.Status)
	assert.Contains(t, final.ErrorMessage, "connection refused")
}

func TestService_Run_DimensionMismatchFails(t *testing.T) {
	t.Parallel()

	env := setupEnv(t)
	doc := env.createDocumentation(t)
	ctx := context.Background()

	env.crawler.CrawlFn = func(context.Context, docpipe.CrawlConfig) ([]*docpipe.Page, error) {
		return []*docpipe.Page{
			{URL: "https://example.com/docs", Markdown: "# Welcome\n\nContent.", Depth: 0},
		}, nil
	}
	// Wrong dimension: configured 3, returned 2.
	env.embedder.EmbedBatchFn = func(_ context.Context, texts []string) ([][]float32, error) {
		vectors := make([][]float32, len(texts))
		for i := range texts {
			vectors[i] = []float32{0.1, 0.2}
		}
		return vectors, nil
	}

	job, err := env.svc.Start(ctx, doc.ID)
	require.NoError(t, err)

	err = env.svc.Run(ctx, job.ID)
	require.Error(t, err)
	assert.Equal(t, docpipe.EINVALID, docpipe.ErrorCode(err))

	final, err := env.jobs.FindJobByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, docpipe.JobFailed, final.Status)
	assert.Contains(t, final.ErrorMessage, "dimension")
}

func TestService_Run_StoresRawPagesWhenEnabled(t *testing.T) {
	t.Parallel()

	env := setupEnv(t)
	env.svc.StoreRawPages = true
	doc := env.createDocumentation(t)
	ctx := context.Background()

	env.crawler.CrawlFn = func(context.Context, docpipe.CrawlConfig) ([]*docpipe.Page, error) {
		return []*docpipe.Page{
			{URL: "https://example.com/docs", Markdown: "# Welcome", HTML: "<h1>Welcome</h1>", Depth: 0},
		}, nil
	}
	env.embedder.EmbedBatchFn = func(_ context.Context, texts []string) ([][]float32, error) {
		return fixedVectors(texts), nil
	}

	job, err := env.svc.Start(ctx, doc.ID)
	require.NoError(t, err)
	require.NoError(t, env.svc.Run(ctx, job.ID))

	pages, err := env.rawPages.FindRawPages(ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, "https://example.com/docs", pages[0].URL)
	assert.Equal(t, "<h1>Welcome</h1>", pages[0].HTMLContent)
}

func TestService_Start_UnknownDocumentation(t *testing.T) {
	t.Parallel()

	env := setupEnv(t)

	_, err := env.svc.Start(context.Background(), "nonexistent-id")
	require.Error(t, err)
	assert.Equal(t, docpipe.ENOTFOUND, docpipe.ErrorCode(err))
}
