package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/docpipe"
)

// Run executes the sections command.
func (c *SectionsCmd) Run(deps *Dependencies) error {
	doc, err := findDocumentation(deps, c.URL)
	if err != nil {
		return err
	}

	sections, err := deps.Sections.FindSections(deps.Ctx, docpipe.SectionFilter{DocumentationID: &doc.ID})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docpipe.ErrorMessage(err))
		return err
	}

	if len(sections) == 0 {
		fmt.Fprintf(deps.Stderr, "error: documentation %q has no sections. Use 'docpipe ingest' to populate it.\n", c.URL)
		return docpipe.Errorf(docpipe.ENOTFOUND, "documentation %q has no sections", c.URL)
	}

	if c.Full {
		for _, s := range sections {
			fmt.Fprintf(deps.Stdout, "## Section: %s (%s)\n\n%s\n\n", s.Title, s.Path, s.Content)
		}
		return nil
	}

	fmt.Fprintf(deps.Stdout, "Sections for %s (%d total)\n", doc.URL, len(sections))
	for _, s := range sections {
		embedded := " "
		if len(s.Embedding) > 0 {
			embedded = "*"
		}
		indent := strings.Repeat("  ", strings.Count(strings.Trim(s.Path, "/"), "/"))
		fmt.Fprintf(deps.Stdout, "%s %s%s  %s  tokens=%d\n", embedded, indent, s.Path, s.Title, s.TokenCount)
	}
	return nil
}
