// Command farmindex is the thin CLI wrapper spec.md §6 describes as the
// contract consumed by a caller of the farmindex library: everything
// here is out of the core's correctness scope (argument parsing,
// progress reporting, retry orchestration) and exists to exercise that
// contract, not to gold-plate it.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/cenkalti/backoff/v4"
	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v2"

	"github.com/datahen/farmindex"
	"github.com/datahen/farmindex/internal/indexfile"
	"github.com/datahen/farmindex/internal/lockfile"
	"github.com/datahen/farmindex/internal/utils"
)

// Exit codes, per spec.md §6.
const (
	exitOK                  = 0
	exitGenericError        = 1
	exitFingerprintMismatch = 2
	exitCorruptedIndex      = 3
)

func main() {
	app := &cli.App{
		Name:      "farmindex",
		Usage:     "build and inspect a gid-indexed AVL index over a CSV or JSON input file",
		ArgsUsage: "<input_path>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "index-path",
				Usage: "path to the on-disk index file (created if absent)",
			},
			&cli.StringFlag{
				Name:  "input-type",
				Usage: "input format: csv or json",
				Value: "csv",
			},
			&cli.IntFlag{
				Name:  "retry-limit",
				Usage: "maximum number of resume attempts when a build is interrupted",
				Value: 3,
			},
		},
		Action: runBuild,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
}

func exitCodeFor(err error) int {
	var idxErr *farmindex.StatusError
	if errors.As(err, &idxErr) {
		switch idxErr.Status {
		case farmindex.StatusWrongInputFile:
			return exitFingerprintMismatch
		case farmindex.StatusCorrupted:
			return exitCorruptedIndex
		}
	}
	return exitGenericError
}

func runBuild(c *cli.Context) error {
	inputPath := c.Args().Get(0)
	if inputPath == "" {
		return cli.Exit("missing input_path argument", exitGenericError)
	}

	indexPath := c.String("index-path")
	if indexPath == "" {
		indexPath = inputPath + ".idx"
	}

	var kind indexfile.InputKind
	switch c.String("input-type") {
	case "csv":
		kind = indexfile.InputKindCSV
	case "json":
		kind = indexfile.InputKindJSON
	default:
		return cli.Exit(fmt.Sprintf("unknown --input-type %q", c.String("input-type")), exitGenericError)
	}

	retryLimit := c.Int("retry-limit")

	info, err := os.Stat(inputPath)
	if err != nil {
		return cli.Exit(err.Error(), exitGenericError)
	}

	lock, err := lockfile.Acquire(indexPath + ".lock")
	if err != nil {
		if err == lockfile.ErrLocked {
			return cli.Exit("another farmindex build already holds this index", exitGenericError)
		}
		return cli.Exit(err.Error(), exitGenericError)
	}
	defer lock.Release()

	bar := progressbar.DefaultBytes(info.Size(), "indexing")
	defer bar.Close()

	ix := farmindex.New(farmindex.Config{
		InputPath:  inputPath,
		IndexPath:  indexPath,
		InputKind:  kind,
		RetryLimit: retryLimit,
	})
	defer ix.Close()

	boff := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(retryLimit))

	var status farmindex.Status
	op := func() error {
		var buildErr error
		status, buildErr = ix.Build()
		if buildErr != nil {
			classified := farmindex.ClassifyBuildError(status, buildErr)
			if status == farmindex.StatusWrongInputFile || status == farmindex.StatusCorrupted {
				return backoff.Permanent(classified)
			}
			return classified
		}
		if status == farmindex.StatusIncomplete {
			return fmt.Errorf("build left the index incomplete, retrying")
		}
		return nil
	}

	if err := backoff.Retry(op, boff); err != nil {
		// A StatusError means Build failed permanently; anything else
		// surviving Retry means the retry budget ran out on a
		// recoverable failure.
		var statusErr *farmindex.StatusError
		if !errors.As(err, &statusErr) {
			err = utils.NewError(utils.KindRetryLimit,
				fmt.Sprintf("build did not complete within %d retries", retryLimit), err)
		}
		return wrapCLIError(err)
	}

	_ = bar.Set64(info.Size())
	count, err := ix.IndexedCount()
	if err != nil {
		return cli.Exit(err.Error(), exitGenericError)
	}
	fmt.Fprintf(os.Stderr, "\nindexed %s rows from %s (%s) into %s\n",
		humanize.Comma(int64(count)), inputPath, humanize.Bytes(uint64(info.Size())), indexPath)
	return nil
}

func wrapCLIError(err error) error {
	return cli.Exit(err.Error(), exitCodeFor(err))
}
