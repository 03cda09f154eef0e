package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"syscall"

	"golang.org/x/term"

	"tgpcet-it/internal/seed"
)

var (
	isTerminalFunc = term.IsTerminal // mockable

	errHelp     = errors.New("help provided")
	errNotATerm = errors.New("stdin is not a terminal, pass -yes to seed without confirmation")
)

type commandLine struct {
	seeder *seed.Seeder
	in     io.Reader
	out    io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  staff [-yes] - clear the staff collection and add the default list")
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	staffCmd := flag.NewFlagSet("staff", flag.ContinueOnError)
	staffCmd.SetOutput(cli.out)
	staffYes := staffCmd.Bool("yes", false, "Do not ask for confirmation.")

	switch args[1] {
	case "staff":
		if err := staffCmd.Parse(args[2:]); err != nil {
			return err
		}
		confirm := !*staffYes
		if confirm && !isTerminalFunc(int(syscall.Stdin)) {
			return errNotATerm
		}
		if err := cli.seeder.SeedStaff(ctx, confirm); err != nil {
			return err
		}
		fmt.Fprintln(cli.out, "Staff seeded successfully!")
		return nil
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) confirm(prompt string) bool {
	fmt.Fprintf(cli.out, "%s [y/N]: ", prompt)
	line, err := bufio.NewReader(cli.in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
