package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/docpipe"
	"github.com/fwojciec/docpipe/crawl"
	"github.com/fwojciec/docpipe/gemini"
	"github.com/fwojciec/docpipe/goquery"
	"github.com/fwojciec/docpipe/htmltomarkdown"
	dochttp "github.com/fwojciec/docpipe/http"
	"github.com/fwojciec/docpipe/ingest"
	"github.com/fwojciec/docpipe/readability"
	"github.com/fwojciec/docpipe/rod"
	docslog "github.com/fwojciec/docpipe/slog"
	"github.com/fwojciec/docpipe/sqlite"
	"github.com/fwojciec/docpipe/trafilatura"
	"google.golang.org/genai"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	DocumentationService docpipe.DocumentationService
	SectionService       docpipe.SectionService
	JobService           docpipe.JobService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("docpipe"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle help flags using Kong
	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'docpipe --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	var logger *slog.Logger
	if cli.Verbose {
		logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	// Open database
	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set DOCPIPE_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	// Wire core services into dependencies
	m.DocumentationService = sqlite.NewDocumentationService(m.DB)
	m.SectionService = sqlite.NewSectionService(m.DB)
	m.JobService = sqlite.NewJobService(m.DB)
	deps.DB = m.DB
	deps.Docs = m.DocumentationService
	deps.Sections = m.SectionService
	deps.Jobs = m.JobService
	deps.Sitemaps = dochttp.NewSitemapService(nil)
	if logger != nil {
		deps.Sitemaps = docslog.NewLoggingSitemapService(deps.Sitemaps, logger)
	}

	// Wire the ingestion pipeline only when it is actually going to run.
	if cmd == "ingest" && !cli.Ingest.Preview {
		client, err := newHTMLClient(cli.Ingest.Browser)
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed for --browser")
			return fmt.Errorf("failed to create page client: %w", err)
		}
		defer client.Close()
		if logger != nil {
			client = docslog.NewLoggingClient(client, logger)
		}

		apiKey := os.Getenv("GEMINI_API_KEY")
		if apiKey == "" {
			fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
			return fmt.Errorf("GEMINI_API_KEY not set")
		}
		genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
			return fmt.Errorf("failed to connect to Gemini API: %w", err)
		}

		model := cli.Ingest.Model
		if model == "" {
			model = gemini.DefaultModel
		}
		geminiEmbedder, err := gemini.NewEmbedder(genaiClient, model, cli.Ingest.Dimension)
		if err != nil {
			return fmt.Errorf("failed to create embedder: %w", err)
		}
		var embedder docpipe.Embedder = &docpipe.BatchEmbedder{Inner: geminiEmbedder}
		if logger != nil {
			embedder = docslog.NewLoggingEmbedder(embedder, logger)
		}

		crawler := &crawl.Crawler{
			Fetcher: &crawl.RenderFetcher{
				Client:    client,
				Extractor: newExtractor(cli.Ingest.Extractor),
				Converter: htmltomarkdown.NewConverter(),
				Links:     goquery.NewLinkExtractor(),
			},
			RateLimiter: crawl.NewDomainLimiter(1.0),
		}

		deps.Ingest = &ingest.Service{
			Docs:               deps.Docs,
			Sections:           deps.Sections,
			Jobs:               deps.Jobs,
			Crawler:            crawler,
			Embedder:           embedder,
			RawPages:           sqlite.NewRawPageService(m.DB),
			StoreRawPages:      cli.Ingest.StoreRawPages,
			MinSectionTokens:   cli.Ingest.MinTokens,
			EmbeddingModel:     model,
			EmbeddingDimension: cli.Ingest.Dimension,
			Logger:             logger,
		}
	}

	return kongCtx.Run(deps)
}

// newHTMLClient selects between browser rendering and plain HTTP fetching.
func newHTMLClient(browser bool) (docpipe.HTMLClient, error) {
	if browser {
		return rod.NewClient()
	}
	return dochttp.NewClient(), nil
}

// newExtractor selects the content extraction engine. The value is validated
// by Kong's enum tag before this is called.
func newExtractor(name string) docpipe.Extractor {
	if name == "readability" {
		return readability.NewExtractor()
	}
	return trafilatura.NewExtractor()
}

func defaultDBPath() string {
	if path := os.Getenv("DOCPIPE_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "docpipe.db"
	}
	dir := filepath.Join(home, ".docpipe")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "docpipe.db")
}
