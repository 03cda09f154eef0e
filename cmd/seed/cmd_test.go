package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"tgpcet-it/internal/memstore"
	"tgpcet-it/internal/models"
	"tgpcet-it/internal/seed"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T, input string, tty bool) (*commandLine, *memstore.Store, *bytes.Buffer) {
	t.Helper()
	db := memstore.New()
	require.NoError(t, db.AddStaff(context.Background(), models.Staff{Name: "Old"}))

	out := &bytes.Buffer{}
	cli := &commandLine{in: strings.NewReader(input), out: out}
	cli.seeder = seed.NewSeeder(db, cli.confirm)

	prev := isTerminalFunc
	isTerminalFunc = func(int) bool { return tty }
	t.Cleanup(func() { isTerminalFunc = prev })
	return cli, db, out
}

func staffCount(t *testing.T, db *memstore.Store) int {
	t.Helper()
	st, err := db.ListStaff(context.Background())
	require.NoError(t, err)
	return len(st)
}

func Test_commandLine_staff(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		input     string
		tty       bool
		wantErr   error
		wantCount int
	}{
		{name: "no subcommand", args: []string{"seed"}, wantErr: errHelp, wantCount: 1},
		{name: "unknown subcommand", args: []string{"seed", "events"}, wantErr: errHelp, wantCount: 1},
		{name: "confirmed", args: []string{"seed", "staff"}, input: "y\n", tty: true, wantCount: 13},
		{name: "confirmed long form", args: []string{"seed", "staff"}, input: "YES\n", tty: true, wantCount: 13},
		{name: "declined", args: []string{"seed", "staff"}, input: "n\n", tty: true, wantErr: seed.ErrAborted, wantCount: 1},
		{name: "no input", args: []string{"seed", "staff"}, input: "", tty: true, wantErr: seed.ErrAborted, wantCount: 1},
		{name: "not a terminal", args: []string{"seed", "staff"}, wantErr: errNotATerm, wantCount: 1},
		{name: "yes flag", args: []string{"seed", "staff", "-yes"}, wantCount: 13},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cli, db, _ := setup(t, tt.input, tt.tty)

			err := cli.run(context.Background(), tt.args)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantCount, staffCount(t, db))
		})
	}
}

func Test_commandLine_prompt(t *testing.T) {
	cli, _, out := setup(t, "y\n", true)
	require.NoError(t, cli.run(context.Background(), []string{"seed", "staff"}))
	assert.Contains(t, out.String(), seed.Prompt+" [y/N]: ")
	assert.Contains(t, out.String(), "Staff seeded successfully!")
}
