package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/petrijr/pointer"
)

func newJournalCommand() command {
	return command{
		name:        "journal",
		description: "Print the actors or one actor's history from a SQLite journal",
		configure: func(fs *flag.FlagSet) {
			fs.String("journal", "", "SQLite journal file (overrides POINTER_JOURNAL_PATH)")
			fs.String("actor", "", "Actor whose events to print; lists actors when empty")
		},
		run: runJournal,
	}
}

func runJournal(fs *flag.FlagSet, args []string, app *AppContext, stdout io.Writer, stderr io.Writer) error {
	path := firstNonEmpty(stringFlag(fs, "journal"), app.Config.JournalPath)
	if path == "" {
		return errors.New("journal: -journal or POINTER_JOURNAL_PATH is required")
	}

	db, err := openSQLite(path)
	if err != nil {
		return err
	}
	defer db.Close()
	store, err := pointer.NewSQLiteEventStore(db)
	if err != nil {
		return err
	}
	ctx := context.Background()

	actor := stringFlag(fs, "actor")
	if actor == "" {
		actors, err := store.ListActors(ctx)
		if err != nil {
			return err
		}
		for _, id := range actors {
			fmt.Fprintln(stdout, id)
		}
		return nil
	}

	events, err := store.ListEvents(ctx, actor)
	if errors.Is(err, pointer.ErrNoEvents) {
		fmt.Fprintf(stdout, "no events recorded for %s\n", actor)
		return nil
	}
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "AT\tTYPE\tQUEUE\tACTION\tDETAIL")
	for _, ev := range events {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			ev.At.UTC().Format(time.RFC3339Nano), ev.Type, ev.Queue, ev.Action, ev.Detail)
	}
	return tw.Flush()
}
