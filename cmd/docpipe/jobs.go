package main

import (
	"fmt"

	"github.com/fwojciec/docpipe"
)

// Run executes the jobs command.
func (c *JobsCmd) Run(deps *Dependencies) error {
	doc, err := findDocumentation(deps, c.URL)
	if err != nil {
		return err
	}

	jobs, err := deps.Jobs.FindJobs(deps.Ctx, docpipe.JobFilter{DocumentationID: &doc.ID})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docpipe.ErrorMessage(err))
		return err
	}

	if len(jobs) == 0 {
		fmt.Fprintln(deps.Stdout, "No jobs found. Use 'docpipe ingest' to start one.")
		return nil
	}

	for _, job := range jobs {
		printJob(deps, job)
	}
	return nil
}
