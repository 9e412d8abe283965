package main

import (
	"fmt"

	"github.com/fwojciec/docpipe"
)

// Run executes the delete command.
func (c *DeleteCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm deletion\n")
		return docpipe.Errorf(docpipe.EINVALID, "use --force to confirm deletion")
	}

	doc, err := findDocumentation(deps, c.URL)
	if err != nil {
		return err
	}

	if err := deps.Docs.DeleteDocumentation(deps.Ctx, doc.ID); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docpipe.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted documentation %q\n", doc.URL)
	return nil
}
