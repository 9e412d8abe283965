package main

import (
	"fmt"
	"net/url"

	"github.com/fwojciec/docpipe"
	"github.com/fwojciec/docpipe/fs"
)

// Run executes the export command.
func (c *ExportCmd) Run(deps *Dependencies) error {
	doc, err := findDocumentation(deps, c.URL)
	if err != nil {
		return err
	}

	name := c.Name
	if name == "" {
		name = exportName(doc.URL)
	}

	if err := fs.ExportSections(deps.Ctx, deps.Sections, doc.ID, c.Dir, name); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docpipe.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Exported sections of %q to %s/%s\n", doc.URL, c.Dir, name)
	return nil
}

// exportName derives a directory name from the documentation URL host.
func exportName(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil && u.Host != "" {
		return u.Host
	}
	return "export"
}
