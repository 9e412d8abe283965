package main

import (
	"fmt"

	"github.com/fwojciec/docpipe"
)

// Run executes the add command.
func (c *AddCmd) Run(deps *Dependencies) error {
	// Force mode: delete existing documentation first
	if c.Force {
		existing, err := deps.Docs.FindDocumentationByURL(deps.Ctx, c.URL)
		if err != nil && docpipe.ErrorCode(err) != docpipe.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: %s\n", docpipe.ErrorMessage(err))
			return err
		}
		if existing != nil {
			if err := deps.Docs.DeleteDocumentation(deps.Ctx, existing.ID); err != nil {
				fmt.Fprintf(deps.Stderr, "error: %s\n", docpipe.ErrorMessage(err))
				return err
			}
		}
	}

	doc := &docpipe.Documentation{
		URL:             c.URL,
		Title:           c.Title,
		CrawlDepth:      c.Depth,
		IncludePatterns: c.Include,
		ExcludePatterns: c.Exclude,
	}

	if err := deps.Docs.CreateDocumentation(deps.Ctx, doc); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docpipe.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Added documentation %q (%s)\n", c.URL, doc.ID)
	return nil
}
