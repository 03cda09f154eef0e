package main

import (
	"context"
	"log"
	"os"

	"tgpcet-it/internal/backend"
	"tgpcet-it/internal/config"
	"tgpcet-it/internal/seed"
)

var logger *log.Logger

func main() {
	logger = log.New(os.Stdout, "SEED : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	cfg, err := config.FromEnv()
	errAndDie(err)

	ctx := context.Background()
	b, err := backend.Open(ctx, cfg)
	errAndDie(err)
	defer b.Close()
	errAndDie(b.Ping(ctx))

	cli := &commandLine{in: os.Stdin, out: os.Stdout}
	cli.seeder = seed.NewSeeder(b.Staff, cli.confirm)

	if err := cli.run(ctx, os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		b.Close()
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
