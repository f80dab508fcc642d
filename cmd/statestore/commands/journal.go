package commands

import (
	"context"
	"fmt"
	"time"

	"git.home.luguber.info/inful/statestore/internal/journal"
)

// JournalCmd implements the 'journal' command.
type JournalCmd struct {
	DSN   string `help:"SQLite journal DSN (defaults to journal.dsn)"`
	Type  string `help:"State type to list" default:"commands.Counter"`
	Store string `help:"Restrict to one store ID"`
}

func (j *JournalCmd) Run(g *Global, root *CLI) error {
	cfg, _, err := root.Setup()
	if err != nil {
		return err
	}
	dsn := j.DSN
	if dsn == "" {
		dsn = cfg.Journal.DSN
	}
	return PrintJournal(context.Background(), g, dsn, j.Store, j.Type)
}

// PrintJournal writes one line per transition of stateType.
func PrintJournal(ctx context.Context, g *Global, dsn, storeID, stateType string) error {
	jr, err := journal.NewSQLiteJournal(dsn)
	if err != nil {
		return err
	}
	defer func() { _ = jr.Close() }()

	transitions, err := jr.ByStateType(ctx, storeID, stateType)
	if err != nil {
		return err
	}
	for _, t := range transitions {
		if _, err := fmt.Fprintf(g.out(), "%s\t%s\trev=%d\t%s\n",
			t.AppliedAt.UTC().Format(time.RFC3339Nano), t.StoreID, t.Revision, t.Payload); err != nil {
			return err
		}
	}
	return nil
}
