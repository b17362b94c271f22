package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/petrijr/pointer/internal/scenario"
	"github.com/petrijr/pointer/pkg/worker"
)

func newSendCommand() command {
	return command{
		name:        "send",
		description: "Queue a command for a running demo's inbox",
		configure: func(fs *flag.FlagSet) {
			fs.String("inbox", "", "SQLite task inbox (overrides POINTER_INBOX_PATH)")
			fs.String("redis", "", "Redis address of a task inbox, used instead of -inbox (overrides POINTER_INBOX_REDIS_ADDR)")
			fs.String("actor", "", "Actor id for -steps and -reset")
			fs.String("steps", "", "YAML file holding a list of steps to play")
			fs.String("trigger", "", "Selector of the element to fire -event on")
			fs.String("event", "click", "Event fired by -trigger")
			fs.Bool("reset", false, "Reset -actor, or every actor when -actor is empty")
		},
		run: runSend,
	}
}

func runSend(fs *flag.FlagSet, args []string, app *AppContext, stdout io.Writer, stderr io.Writer) error {
	inbox := inboxTarget{
		redisAddr: firstNonEmpty(stringFlag(fs, "redis"), app.Config.InboxRedisAddr),
		path:      firstNonEmpty(stringFlag(fs, "inbox"), app.Config.InboxPath),
	}
	if !inbox.configured() {
		return errors.New("send: -inbox, -redis, POINTER_INBOX_PATH or POINTER_INBOX_REDIS_ADDR is required")
	}
	actor := stringFlag(fs, "actor")
	stepsPath := stringFlag(fs, "steps")
	trigger := stringFlag(fs, "trigger")
	reset := boolFlag(fs, "reset")

	chosen := 0
	for _, set := range []bool{stepsPath != "", trigger != "", reset} {
		if set {
			chosen++
		}
	}
	if chosen != 1 {
		return errors.New("send: exactly one of -steps, -trigger or -reset is required")
	}

	var steps []scenario.Step
	if stepsPath != "" {
		data, err := os.ReadFile(stepsPath)
		if err != nil {
			return fmt.Errorf("send: %w", err)
		}
		if steps, err = scenario.ParseSteps(data); err != nil {
			return fmt.Errorf("send: %s: %w", stepsPath, err)
		}
	}

	ctx := context.Background()
	q, closeInbox, err := openInbox(ctx, inbox, app.Logger)
	if err != nil {
		return err
	}
	defer closeInbox()
	w := worker.New(nil, q, app.Logger)

	switch {
	case stepsPath != "":
		if err := w.EnqueuePlay(ctx, actor, steps); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "queued %d steps for %s\n", len(steps), actor)
	case trigger != "":
		event := stringFlag(fs, "event")
		if err := w.EnqueueTrigger(ctx, trigger, event); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "queued %s on %s\n", event, trigger)
	default:
		if err := w.EnqueueReset(ctx, actor); err != nil {
			return err
		}
		if actor == "" {
			actor = "every actor"
		}
		fmt.Fprintf(stdout, "queued reset of %s\n", actor)
	}
	return nil
}
