package main

import (
	"fmt"

	"github.com/fwojciec/docpipe"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	docs, err := deps.Docs.FindDocumentations(deps.Ctx, docpipe.DocumentationFilter{})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docpipe.ErrorMessage(err))
		return err
	}

	if len(docs) == 0 {
		fmt.Fprintln(deps.Stdout, "No documentation sites found. Use 'docpipe add' to register one.")
		return nil
	}

	for _, d := range docs {
		synced := "never"
		if d.LastSynced != nil {
			synced = d.LastSynced.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(deps.Stdout, "%s  %s  depth=%d  synced=%s\n", d.ID, d.URL, d.CrawlDepth, synced)
	}

	return nil
}
