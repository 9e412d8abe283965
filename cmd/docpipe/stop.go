package main

import (
	"fmt"

	"github.com/fwojciec/docpipe"
)

// Run executes the stop command.
func (c *StopCmd) Run(deps *Dependencies) error {
	job, err := deps.Jobs.RequestStop(deps.Ctx, c.JobID)
	if err != nil {
		if docpipe.ErrorCode(err) == docpipe.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: job %q not found\n", c.JobID)
		} else {
			fmt.Fprintf(deps.Stderr, "error: %s\n", docpipe.ErrorMessage(err))
		}
		return err
	}

	if job.Status.Terminal() {
		fmt.Fprintf(deps.Stdout, "Job %s is already %s\n", job.ID, job.Status)
		return nil
	}

	fmt.Fprintf(deps.Stdout, "Stop requested for job %s (currently %s). The job stops at its next phase boundary.\n", job.ID, job.Status)
	return nil
}
