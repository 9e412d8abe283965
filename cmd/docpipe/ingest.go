package main

import (
	"fmt"

	"github.com/fwojciec/docpipe"
)

// Run executes the ingest command.
func (c *IngestCmd) Run(deps *Dependencies) error {
	// Preview mode: show URLs without running a job
	if c.Preview {
		urls, err := deps.Sitemaps.DiscoverURLs(deps.Ctx, c.URL)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", docpipe.ErrorMessage(err))
			return err
		}
		for _, u := range urls {
			fmt.Fprintln(deps.Stdout, u)
		}
		return nil
	}

	doc, err := findDocumentation(deps, c.URL)
	if err != nil {
		return err
	}

	job, err := deps.Ingest.Start(deps.Ctx, doc.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docpipe.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "Started job %s for %q\n", job.ID, doc.URL)

	if err := deps.Ingest.Run(deps.Ctx, job.ID); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docpipe.ErrorMessage(err))
		return err
	}

	final, err := deps.Ingest.FindJob(deps.Ctx, job.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docpipe.ErrorMessage(err))
		return err
	}
	printJob(deps, final)
	return nil
}

// findDocumentation resolves a documentation by its root URL with a
// consistent not-found message.
func findDocumentation(deps *Dependencies, url string) (*docpipe.Documentation, error) {
	doc, err := deps.Docs.FindDocumentationByURL(deps.Ctx, url)
	if err != nil {
		if docpipe.ErrorCode(err) == docpipe.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: documentation %q not found. Use 'docpipe list' to see registered sites.\n", url)
		} else {
			fmt.Fprintf(deps.Stderr, "error: %s\n", docpipe.ErrorMessage(err))
		}
		return nil, err
	}
	return doc, nil
}

// printJob writes a one-job status summary.
func printJob(deps *Dependencies, job *docpipe.Job) {
	fmt.Fprintf(deps.Stdout, "%s  %s  %d%%  pages=%d\n", job.ID, job.Status, job.ProgressPercent, job.PagesProcessed)
	if job.ErrorMessage != "" {
		fmt.Fprintf(deps.Stdout, "  error: %s\n", job.ErrorMessage)
	}
}
