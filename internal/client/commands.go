// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/MKhiriev/go-link-keeper/internal/app"
	"github.com/MKhiriev/go-link-keeper/internal/service"
	"github.com/MKhiriev/go-link-keeper/internal/workers"
	"github.com/MKhiriev/go-link-keeper/models"
)

const defaultLogLimit = 10

func (a *App) watch(ctx context.Context) error {
	w := workers.NewWorkers(
		workers.NewNotificationWorker(a.services.Notifications, a.printNotification),
		workers.NewSyncWorker(a.services.SyncJob, a.cfg.Workers.SyncInterval),
	)

	fmt.Fprintln(a.out, app.MsgWatching)
	w.Run(ctx)
	<-ctx.Done()
	w.Stop()

	return nil
}

func (a *App) sync(ctx context.Context) error {
	result, err := a.services.Orchestrator.Run(ctx)
	if errors.Is(err, service.ErrSyncInProgress) {
		fmt.Fprintln(a.out, app.MsgSyncInProgress)
		return err
	}
	if result.Started.IsZero() {
		return err
	}

	printRun(a.out, result, true)
	return err
}

func (a *App) status(ctx context.Context) error {
	last, err := a.services.Orchestrator.LastSync(ctx)
	if err != nil {
		return err
	}
	summaries, err := a.services.Orchestrator.Summaries(ctx)
	if err != nil {
		return err
	}

	if last.Finished.IsZero() {
		fmt.Fprintln(a.out, app.MsgNeverSynced)
	} else {
		fmt.Fprintf(a.out, "last sync: %s %s\n", last.Finished.Local().Format(timeLayout), last.Status)
	}
	printSummaries(a.out, summaries)
	return nil
}

func (a *App) conflicts(ctx context.Context) error {
	summaries, err := a.services.Orchestrator.Summaries(ctx)
	if err != nil {
		return err
	}

	found := false
	for _, s := range summaries {
		for _, id := range s.ConflictedIDs {
			found = true
			fmt.Fprintf(a.out, "%s\t%s\n", s.Collection, id)
		}
	}
	if !found {
		fmt.Fprintln(a.out, app.MsgNoConflicts)
	}
	return nil
}

func (a *App) resolve(ctx context.Context, args []string) error {
	if len(args) != 3 {
		return a.usageError("resolve needs <collection> <id> <action>")
	}
	collection, err := models.ParseCollection(args[0])
	if err != nil {
		return err
	}
	action, err := service.ParseAction(args[2])
	if err != nil {
		return err
	}

	session, err := a.services.Conflicts.Open(ctx, collection, args[1])
	if err != nil {
		return err
	}
	printConflict(a.out, session.State())
	if session.State().Phase.Done() {
		return nil
	}

	state, err := session.Invoke(ctx, action)
	fmt.Fprintf(a.out, "%s: %s\n", action, state.Phase)
	return err
}

func (a *App) log(ctx context.Context, args []string) error {
	fs := newFlagSet("log")
	limit := fs.Int("n", defaultLogLimit, "number of runs")
	if err := fs.Parse(args); err != nil {
		return a.usageError(err.Error())
	}

	runs, err := a.services.Orchestrator.RecentRuns(ctx, *limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(a.out, app.MsgNoRuns)
		return nil
	}
	for _, run := range runs {
		printRun(a.out, run, false)
	}
	return nil
}

func (a *App) addLink(ctx context.Context, args []string) error {
	fs := newFlagSet("add-link")
	name := fs.String("name", "", "display name")
	tags := fs.String("tags", "", "comma separated tags")
	disabled := fs.Bool("disabled", false, "add the link disabled")
	if err := fs.Parse(args); err != nil || fs.NArg() != 1 {
		return a.usageError("add-link needs exactly one url")
	}

	id, err := a.services.Editor.AddLink(ctx, models.Link{
		URL:      fs.Arg(0),
		Name:     *name,
		Disabled: *disabled,
		Tags:     splitTags(*tags),
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, id)
	return nil
}

func (a *App) addNote(ctx context.Context, args []string) error {
	fs := newFlagSet("add-note")
	linkID := fs.String("link", "", "id of the link the note belongs to")
	tags := fs.String("tags", "", "comma separated tags")
	if err := fs.Parse(args); err != nil || fs.NArg() == 0 {
		return a.usageError("add-note needs a text")
	}

	id, err := a.services.Editor.AddNote(ctx, models.Note{
		Text:   strings.Join(fs.Args(), " "),
		LinkID: *linkID,
		Tags:   splitTags(*tags),
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, id)
	return nil
}

func (a *App) addFavorite(ctx context.Context, args []string) error {
	fs := newFlagSet("add-favorite")
	andGate := fs.Bool("and", false, "match all tags instead of any")
	tags := fs.String("tags", "", "comma separated tags")
	if err := fs.Parse(args); err != nil || fs.NArg() != 1 {
		return a.usageError("add-favorite needs exactly one name")
	}

	id, err := a.services.Editor.AddFavorite(ctx, models.Favorite{
		Name:    fs.Arg(0),
		AndGate: *andGate,
		Tags:    splitTags(*tags),
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, id)
	return nil
}

func (a *App) editLink(ctx context.Context, args []string) error {
	fs := newFlagSet("edit-link")
	name := fs.String("name", "", "display name")
	tags := fs.String("tags", "", "comma separated tags")
	disabled := fs.Bool("disabled", false, "disable the link")
	if err := fs.Parse(args); err != nil || fs.NArg() != 2 {
		return a.usageError("edit-link needs <id> <url>")
	}

	err := a.services.Editor.EditLink(ctx, fs.Arg(0), models.Link{
		URL:      fs.Arg(1),
		Name:     *name,
		Disabled: *disabled,
		Tags:     splitTags(*tags),
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, app.MsgUpdated)
	return nil
}

func (a *App) editNote(ctx context.Context, args []string) error {
	fs := newFlagSet("edit-note")
	linkID := fs.String("link", "", "id of the link the note belongs to")
	tags := fs.String("tags", "", "comma separated tags")
	if err := fs.Parse(args); err != nil || fs.NArg() < 2 {
		return a.usageError("edit-note needs <id> and a text")
	}

	err := a.services.Editor.EditNote(ctx, fs.Arg(0), models.Note{
		Text:   strings.Join(fs.Args()[1:], " "),
		LinkID: *linkID,
		Tags:   splitTags(*tags),
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, app.MsgUpdated)
	return nil
}

func (a *App) editFavorite(ctx context.Context, args []string) error {
	fs := newFlagSet("edit-favorite")
	andGate := fs.Bool("and", false, "match all tags instead of any")
	tags := fs.String("tags", "", "comma separated tags")
	if err := fs.Parse(args); err != nil || fs.NArg() != 2 {
		return a.usageError("edit-favorite needs <id> <name>")
	}

	err := a.services.Editor.EditFavorite(ctx, fs.Arg(0), models.Favorite{
		Name:    fs.Arg(1),
		AndGate: *andGate,
		Tags:    splitTags(*tags),
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, app.MsgUpdated)
	return nil
}

func (a *App) remove(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return a.usageError("rm needs <collection> <id>")
	}
	collection, err := models.ParseCollection(args[0])
	if err != nil {
		return err
	}

	if err = a.services.Editor.Remove(ctx, collection, args[1]); err != nil {
		return err
	}
	fmt.Fprintln(a.out, app.MsgRemoved)
	return nil
}

func (a *App) usage() error {
	_, err := io.WriteString(a.out, app.Usage)
	return err
}

func (a *App) usageError(msg string) error {
	a.usage()
	return fmt.Errorf("%w: %s", ErrUsage, msg)
}

func (a *App) printNotification(n models.Notification) {
	fmt.Fprintf(a.out, "%s %s %s\n", n.Kind, n.Collection, n.ID)
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func splitTags(raw string) models.Tags {
	if raw == "" {
		return nil
	}
	return models.Tags(strings.Split(raw, ",")).Normalize()
}
