package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v2"

	"github.com/meigma/designpatch"
	"github.com/meigma/designpatch/excel"
)

func inspectCommand() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "show the AllowedLanguage table without changing it",
		ArgsUsage: "[game-path]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "print the inspection as JSON",
			},
		},
		Action: func(cctx *cli.Context) error {
			ctx, cancel := signalContext()
			defer cancel()

			p, err := openPatcher(cctx, newLogger(cctx))
			if err != nil {
				return err
			}
			insp, err := p.Inspect(ctx)
			if err != nil {
				return err
			}

			if cctx.Bool("json") {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(insp)
			}
			printInspection(os.Stdout, insp)
			return nil
		},
	}
}

func printInspection(w io.Writer, insp *designpatch.Inspection) {
	fmt.Fprintf(w, "Index:   DesignV_%s.bytes\n", insp.IndexHash)
	fmt.Fprintf(w, "Data:    %s\n", insp.File.DataFileName())
	fmt.Fprintf(w, "Slot:    offset %d, size %d (%d used, %d padding)\n",
		insp.Entry.Offset, insp.Entry.Size, insp.PayloadSize, int(insp.Entry.Size)-insp.PayloadSize)
	fmt.Fprintf(w, "Digest:  %s\n", insp.Digest)
	switch {
	case insp.Backup == nil:
		fmt.Fprintln(w, "Backup:  none")
	case insp.Patched():
		fmt.Fprintf(w, "Backup:  %s (patched)\n", insp.Backup.Created.Format("2006-01-02 15:04:05"))
	default:
		fmt.Fprintf(w, "Backup:  %s (slot changed since last patch)\n", insp.Backup.Created.Format("2006-01-02 15:04:05"))
	}

	fmt.Fprintf(w, "\n  %-6s %-6s %-8s %s\n", "AREA", "KIND", "DEFAULT", "LANGUAGES")
	for i := range insp.Rows {
		row := &insp.Rows[i]
		kind := "?"
		if k, ok := row.Kind(); ok {
			kind = k.String()
		}
		fmt.Fprintf(w, "  %-6s %-6s %-8s %s\n", orDash(row.AreaName()), kind, orDash(defaultLanguage(row)), strings.Join(row.LanguageList, ","))
	}
}

func defaultLanguage(row *excel.AllowedLanguageRow) string {
	if row.DefaultLanguage == nil {
		return ""
	}
	return *row.DefaultLanguage
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
