// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/MKhiriev/go-link-keeper/internal/service"
	"github.com/MKhiriev/go-link-keeper/models"
)

const timeLayout = "2006-01-02 15:04:05"

func printRun(out io.Writer, run models.SyncRunResult, detailed bool) {
	fmt.Fprintf(out, "run %d  %s  %s  took %s  failures %d\n",
		run.ID,
		run.Started.Local().Format(timeLayout),
		run.Status,
		run.Finished.Sub(run.Started).Round(time.Millisecond),
		run.FailureCount,
	)
	if !detailed {
		return
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "COLLECTION\tUP\tDOWN\tCREATED\tUPDATED\tDELETED\tCONFLICTS\tFAILURES\tNOTE")
	for _, c := range models.Collections {
		s, ok := run.Collections[c]
		if !ok {
			continue
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%s\n",
			c, s.Uploaded, s.Downloaded, s.Created, s.Updated, s.Deleted, s.Conflicted, s.Failures, runNote(s))
	}
	tw.Flush()
}

func runNote(s models.RunStats) string {
	switch {
	case s.Aborted && s.Err != nil:
		return "aborted: " + s.Err.Error()
	case s.Aborted:
		return "aborted"
	case s.ShortCircuited:
		return "unchanged"
	case !s.Changed() && s.Failures == 0:
		return "no changes"
	}
	return ""
}

func printSummaries(out io.Writer, summaries []service.CollectionSummary) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "COLLECTION\tTOTAL\tPENDING\tCONFLICTED")
	for _, s := range summaries {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\n", s.Collection, s.Total, s.Pending, s.Conflicted)
	}
	tw.Flush()
}

func printConflict(out io.Writer, state service.ConflictState) {
	if state.Phase.Done() {
		fmt.Fprintf(out, "%s: %s\n", state.ID, state.Phase)
		return
	}

	local := string(state.Local.Label)
	if state.Local.ShownID != "" && state.Local.ShownID != state.ID {
		local += " (main " + state.Local.ShownID + ")"
	}
	fmt.Fprintf(out, "%s\n  local: %s\n  cloud: %s\n", state.ID, local, state.Cloud.Label)
	if state.Cloud.Err != nil {
		fmt.Fprintf(out, "  cloud error: %v\n", state.Cloud.Err)
	}

	actions := state.EnabledActions()
	names := make([]string, len(actions))
	for i, a := range actions {
		names[i] = string(a)
	}
	fmt.Fprintf(out, "  actions: %s\n", strings.Join(names, ", "))
}
