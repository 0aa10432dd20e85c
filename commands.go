package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"

	"github.com/bekirdag/jobdesk/internal/activity"
	"github.com/bekirdag/jobdesk/internal/job"
	"github.com/bekirdag/jobdesk/internal/jobfilter"
)

func jobsListAction(ctx context.Context, cmd *cli.Command) error {
	selector, err := jobfilter.ParseSelector(cmd.String("status"))
	if err != nil {
		return err
	}
	from, err := jobfilter.ParseDate(cmd.String("from"), time.Local)
	if err != nil {
		return err
	}
	to, err := jobfilter.ParseDate(cmd.String("to"), time.Local)
	if err != nil {
		return err
	}

	app, err := newAppContext(cmd, false)
	if err != nil {
		return err
	}
	defer app.Close()

	jobs, err := app.client.List(ctx)
	if err != nil {
		return fmt.Errorf("list jobs: %w", err)
	}
	criteria := jobfilter.Criteria{Status: selector, Start: from, End: to}
	filtered := jobfilter.Apply(job.SortByCreatedDesc(jobs), criteria)
	app.logger.Debug("jobs listed", "total", len(jobs), "shown", len(filtered), "criteria", criteria.String())

	out := outWriter(cmd)
	if len(filtered) == 0 {
		fmt.Fprintln(out, "No jobs match the current filters.")
		return nil
	}
	if err := renderJobsTable(out, filtered); err != nil {
		return err
	}
	fmt.Fprintf(out, "%d of %d jobs\n", len(filtered), len(jobs))
	return nil
}

func jobsSetStatusAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() != 2 {
		return fmt.Errorf("usage: jobdesk jobs set-status <id> <status>")
	}
	id := cmd.Args().Get(0)
	status, err := job.ParseStatus(cmd.Args().Get(1))
	if err != nil {
		return err
	}

	app, err := newAppContext(cmd, false)
	if err != nil {
		return err
	}
	defer app.Close()

	updated, err := app.client.SetStatus(ctx, id, status)
	if err != nil {
		return fmt.Errorf("set status of job %s: %w", id, err)
	}
	app.logger.Info("job status updated", "id", id, "status", updated.Status)
	renderJobDetail(outWriter(cmd), updated)
	return nil
}

func jobsDeleteAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() != 1 {
		return fmt.Errorf("usage: jobdesk jobs delete <id>")
	}
	id := cmd.Args().Get(0)
	out := outWriter(cmd)

	if !cmd.Bool("yes") {
		ok, err := confirm(inReader(cmd), out, fmt.Sprintf("Are you sure you want to delete job %s?", id))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "Aborted.")
			return nil
		}
	}

	app, err := newAppContext(cmd, false)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.client.Remove(ctx, id); err != nil {
		return fmt.Errorf("delete job %s: %w", id, err)
	}
	app.logger.Info("job deleted", "id", id)
	fmt.Fprintf(out, "Deleted job %s\n", id)
	return nil
}

func activityAction(ctx context.Context, cmd *cli.Command) error {
	app, err := newAppContext(cmd, false)
	if err != nil {
		return err
	}
	defer app.Close()

	jobs, err := app.client.List(ctx)
	if err != nil {
		return fmt.Errorf("load activities: %w", err)
	}
	feed := activity.New(nil).Synthesize(jobs)

	out := outWriter(cmd)
	if len(feed) == 0 {
		fmt.Fprintln(out, "No recent activity.")
		return nil
	}
	table := tablewriter.NewWriter(out)
	table.Header("When", "Type", "Description", "Job ID")
	for _, a := range feed {
		table.Append(
			a.Timestamp.Local().Format("2006-01-02 15:04"),
			string(a.Type),
			a.Description,
			a.JobID,
		)
	}
	return table.Render()
}

func renderJobsTable(w io.Writer, jobs []job.Job) error {
	table := tablewriter.NewWriter(w)
	table.Header("ID", "SKU", "Status", "Assigned", "Created")
	for _, j := range jobs {
		created := j.CreateAt
		if t, ok := j.CreatedTime(); ok {
			created = t.Local().Format("2006-01-02 15:04")
		}
		table.Append(
			j.ID,
			j.SKU,
			job.PresentationFor(j.Status).Label,
			orDash(j.AssignedUser),
			created,
		)
	}
	return table.Render()
}

func renderJobDetail(w io.Writer, j job.Job) {
	fmt.Fprintf(w, "ID:        %s\n", j.ID)
	fmt.Fprintf(w, "SKU:       %s\n", j.SKU)
	fmt.Fprintf(w, "Status:    %s\n", job.PresentationFor(j.Status).Label)
	fmt.Fprintf(w, "Assigned:  %s\n", orDash(j.AssignedUser))
	fmt.Fprintf(w, "Created:   %s\n", j.CreateAt)
	if details := strings.TrimSpace(j.Details); details != "" {
		fmt.Fprintf(w, "\n%s\n", details)
	}
}

// confirm asks a y/N question. Anything but y or yes declines.
func confirm(r io.Reader, w io.Writer, question string) (bool, error) {
	fmt.Fprintf(w, "%s [y/N]: ", question)
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("read confirmation: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
