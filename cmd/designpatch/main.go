// Command designpatch switches the text and voice language a game client
// offers by rewriting its AllowedLanguage design table in place.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/meigma/designpatch"
	"github.com/meigma/designpatch/backup"
	"github.com/meigma/designpatch/internal/gamedir"
)

// version is set at build time.
var version = "dev"

const defaultBackupDir = ".designpatch"

func main() {
	var wait bool

	app := &cli.App{
		Name:      "designpatch",
		Usage:     "set the text and voice language of the game client",
		ArgsUsage: "[game-path]",
		Version:   version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "game-path",
				Usage:   "game root containing " + gamedir.Executable + " (defaults to the first argument, then the working directory)",
				EnvVars: []string{"DESIGNPATCH_GAME_PATH"},
			},
			&cli.StringFlag{
				Name:    "lang",
				Usage:   "languages as 0<text>,1<voice>, e.g. 0en,1jp; prompts when unset",
				EnvVars: []string{"DESIGNPATCH_LANG"},
			},
			&cli.StringFlag{
				Name:    "backup-dir",
				Usage:   "directory for original table backups (defaults to " + defaultBackupDir + " in the game root)",
				EnvVars: []string{"DESIGNPATCH_BACKUP_DIR"},
			},
			&cli.BoolFlag{
				Name:    "no-backup",
				Usage:   "do not back up the original table before patching",
				EnvVars: []string{"DESIGNPATCH_NO_BACKUP"},
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "enable debug logging",
				EnvVars: []string{"DESIGNPATCH_DEBUG"},
			},
			&cli.BoolFlag{
				Name:        "wait",
				Usage:       "wait for enter before exiting",
				EnvVars:     []string{"DESIGNPATCH_WAIT"},
				Destination: &wait,
			},
		},
		Action: runPatch,
		Commands: []*cli.Command{
			inspectCommand(),
			restoreCommand(),
		},
	}

	err := app.Run(normalizeArgs(os.Args))
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
	}
	if wait {
		waitForEnter()
	}
	if err != nil {
		os.Exit(1)
	}
}

// normalizeArgs rewrites the single-dash "-lang:0en,1jp" form into "--lang=0en,1jp".
func normalizeArgs(args []string) []string {
	out := make([]string, 0, len(args))
	for _, arg := range args {
		if value, ok := strings.CutPrefix(arg, "-lang:"); ok {
			arg = "--lang=" + value
		}
		out = append(out, arg)
	}
	return out
}

func newLogger(cctx *cli.Context) *slog.Logger {
	level := slog.LevelWarn
	if cctx.Bool("debug") {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// signalContext returns a context canceled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// openPatcher resolves the game root and builds a patcher with a backup store
// unless backups are disabled.
func openPatcher(cctx *cli.Context, logger *slog.Logger) (*designpatch.Patcher, error) {
	gamePath := cctx.String("game-path")
	if gamePath == "" {
		gamePath = cctx.Args().First()
	}
	root, err := gamedir.Resolve(gamePath)
	if err != nil {
		return nil, err
	}
	logger.Debug("resolved game root", "root", root)

	opts := []designpatch.Option{designpatch.WithLogger(logger)}
	if !cctx.Bool("no-backup") {
		dir := cctx.String("backup-dir")
		if dir == "" {
			dir = filepath.Join(root, defaultBackupDir)
		}
		store, err := backup.NewStore(dir, backup.WithLogger(logger))
		if err != nil {
			return nil, err
		}
		opts = append(opts, designpatch.WithBackup(store))
	}
	return designpatch.New(gamedir.DesignDir(root), opts...)
}

func runPatch(cctx *cli.Context) error {
	ctx, cancel := signalContext()
	defer cancel()

	logger := newLogger(cctx)

	p, err := openPatcher(cctx, logger)
	if err != nil {
		return err
	}

	langs, err := resolveLanguages(cctx.String("lang"))
	if err != nil {
		return err
	}
	logger.Debug("patching", "text", langs.Text, "voice", langs.Voice)

	res, err := p.Patch(ctx, langs.Instructions())
	if err != nil {
		return err
	}

	if !res.Changed {
		fmt.Println("Languages already set")
	}
	if res.Backup != nil {
		fmt.Printf("Original table backed up (%s)\n", res.Backup.Original)
	}
	printDone()
	return nil
}

func resolveLanguages(flag string) (designpatch.Languages, error) {
	if flag != "" {
		return designpatch.ParseLanguageFlag(flag)
	}
	return promptLanguages()
}

func restoreCommand() *cli.Command {
	return &cli.Command{
		Name:      "restore",
		Usage:     "write the backed-up original table back",
		ArgsUsage: "[game-path]",
		Action: func(cctx *cli.Context) error {
			if cctx.Bool("no-backup") {
				return errors.New("restore needs a backup store; drop --no-backup")
			}

			ctx, cancel := signalContext()
			defer cancel()

			p, err := openPatcher(cctx, newLogger(cctx))
			if err != nil {
				return err
			}
			res, err := p.Restore(ctx)
			if err != nil {
				return err
			}
			if !res.Changed {
				fmt.Println("Table already original")
			}
			printDone()
			return nil
		},
	}
}

func printDone() {
	color.New(color.FgGreen, color.Bold).Println("Done")
}

func waitForEnter() {
	fmt.Print("Press enter to exit")
	_, _ = bufio.NewReader(os.Stdin).ReadString('\n')
}
