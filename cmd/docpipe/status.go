package main

import (
	"fmt"

	"github.com/fwojciec/docpipe"
)

// Run executes the status command.
func (c *StatusCmd) Run(deps *Dependencies) error {
	job, err := deps.Jobs.FindJobByID(deps.Ctx, c.JobID)
	if err != nil {
		if docpipe.ErrorCode(err) == docpipe.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: job %q not found\n", c.JobID)
		} else {
			fmt.Fprintf(deps.Stderr, "error: %s\n", docpipe.ErrorMessage(err))
		}
		return err
	}

	printJob(deps, job)
	return nil
}
