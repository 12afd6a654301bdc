// Copyright 2025 Clipkeep Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/clipkeep/clipkeep"
	"github.com/clipkeep/clipkeep/backup"
	"github.com/clipkeep/clipkeep/core"
	"github.com/clipkeep/clipkeep/export"
	"github.com/urfave/cli/v2"
)

var dbFlag = &cli.StringFlag{
	Name:     "db",
	Aliases:  []string{"d"},
	Usage:    "Path to BadgerDB database directory",
	Required: true,
}

func main() {
	app := &cli.App{
		Name:  "clipkeep",
		Usage: "Local-first store for notes clipped from the web",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "add",
				Usage:  "Save a new note",
				Action: addCommand,
				Flags: []cli.Flag{
					dbFlag,
					&cli.StringFlag{
						Name:     "title",
						Usage:    "Note title",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "url",
						Usage: "Source URL",
					},
					&cli.StringFlag{
						Name:  "text",
						Usage: "Note text",
					},
					&cli.StringFlag{
						Name:  "category",
						Usage: "Note category",
					},
					&cli.StringSliceFlag{
						Name:  "tag",
						Usage: "Note tag (repeatable)",
					},
					&cli.StringSliceFlag{
						Name:  "image",
						Usage: "Path to an image file to attach (repeatable)",
					},
				},
			},
			{
				Name:   "list",
				Usage:  "List all notes, newest first",
				Action: listCommand,
				Flags:  []cli.Flag{dbFlag},
			},
			{
				Name:      "search",
				Usage:     "Search notes by title, text, or url",
				Action:    searchCommand,
				ArgsUsage: "<query>",
				Flags:     []cli.Flag{dbFlag},
			},
			{
				Name:      "show",
				Usage:     "Show a single note",
				Action:    showCommand,
				ArgsUsage: "<note-id>",
				Flags:     []cli.Flag{dbFlag},
			},
			{
				Name:      "delete",
				Usage:     "Delete a note and its images",
				Action:    deleteCommand,
				ArgsUsage: "<note-id>",
				Flags:     []cli.Flag{dbFlag},
			},
			{
				Name:   "backup",
				Usage:  "Write a snapshot of all notes",
				Action: backupCommand,
				Flags: []cli.Flag{
					dbFlag,
					&cli.StringFlag{
						Name:  "dest",
						Usage: "Backup destination directory",
					},
					&cli.StringFlag{
						Name:  "downloads",
						Usage: "Fallback download directory",
						Value: "./downloads",
					},
					&cli.BoolFlag{
						Name:  "include-images",
						Usage: "Embed image payloads in the snapshot",
					},
				},
			},
			{
				Name:   "config",
				Usage:  "Show or change the persisted backup settings",
				Action: configCommand,
				Flags: []cli.Flag{
					dbFlag,
					&cli.BoolFlag{
						Name:  "auto",
						Usage: "Enable or disable automatic backups",
					},
					&cli.StringFlag{
						Name:  "frequency",
						Usage: "Automatic backup frequency (manual, every-save, daily, weekly)",
					},
					&cli.StringFlag{
						Name:  "dest",
						Usage: "Persist a backup destination directory",
					},
				},
			},
			{
				Name:      "restore",
				Usage:     "Import notes from a snapshot file",
				Action:    restoreCommand,
				ArgsUsage: "<snapshot-file>",
				Flags: []cli.Flag{
					dbFlag,
					&cli.StringFlag{
						Name:  "mode",
						Usage: "Restore mode (merge, replace)",
						Value: "merge",
					},
				},
			},
			{
				Name:   "sweep",
				Usage:  "Remove orphaned image blobs",
				Action: sweepCommand,
				Flags:  []cli.Flag{dbFlag},
			},
			{
				Name:   "export",
				Usage:  "Export all notes as Markdown files",
				Action: exportCommand,
				Flags: []cli.Flag{
					dbFlag,
					&cli.StringFlag{
						Name:  "out",
						Usage: "Output directory",
						Value: "./export",
					},
					&cli.BoolFlag{
						Name:  "include-images",
						Usage: "Inline image payloads as data URIs",
					},
				},
			},
			{
				Name:   "size",
				Usage:  "Estimate total image storage size",
				Action: sizeCommand,
				Flags:  []cli.Flag{dbFlag},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func openNotebook(c *cli.Context, opts ...clipkeep.NotebookOption) (*clipkeep.Notebook, error) {
	dbPath := c.String("db")
	if dbPath == "" {
		return nil, fmt.Errorf("database path is required")
	}
	nb, err := clipkeep.Open(dbPath, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return nb, nil
}

func addCommand(c *cli.Context) error {
	ctx := context.Background()

	nb, err := openNotebook(c)
	if err != nil {
		return err
	}
	defer nb.Close()

	note := &core.Note{
		Title:    c.String("title"),
		URL:      c.String("url"),
		Text:     c.String("text"),
		Category: c.String("category"),
		Tags:     c.StringSlice("tag"),
	}
	for _, path := range c.StringSlice("image") {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read image %s: %w", path, err)
		}
		note.Images = append(note.Images, data)
	}

	saved, err := nb.SaveNote(ctx, note)
	if err != nil {
		return fmt.Errorf("failed to save note: %w", err)
	}

	fmt.Printf("saved %s\n", saved.ID)
	return nil
}

func listCommand(c *cli.Context) error {
	ctx := context.Background()

	nb, err := openNotebook(c)
	if err != nil {
		return err
	}
	defer nb.Close()

	notes, err := nb.NoteRepository().ListAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to list notes: %w", err)
	}

	printNotes(notes)
	return nil
}

func searchCommand(c *cli.Context) error {
	ctx := context.Background()

	query := c.Args().First()
	if query == "" {
		return fmt.Errorf("search query is required")
	}

	nb, err := openNotebook(c)
	if err != nil {
		return err
	}
	defer nb.Close()

	notes, err := nb.NoteRepository().Search(ctx, query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	printNotes(notes)
	return nil
}

func showCommand(c *cli.Context) error {
	ctx := context.Background()

	id := c.Args().First()
	if id == "" {
		return fmt.Errorf("note id is required")
	}

	nb, err := openNotebook(c)
	if err != nil {
		return err
	}
	defer nb.Close()

	note, err := nb.NoteRepository().Get(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load note: %w", err)
	}
	if note == nil {
		return fmt.Errorf("note %s not found", id)
	}

	fmt.Println(export.Markdown([]*core.Note{note}, false, time.Now()))
	return nil
}

func deleteCommand(c *cli.Context) error {
	ctx := context.Background()

	id := c.Args().First()
	if id == "" {
		return fmt.Errorf("note id is required")
	}

	nb, err := openNotebook(c)
	if err != nil {
		return err
	}
	defer nb.Close()

	if err := nb.DeleteNote(ctx, id); err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}

	fmt.Printf("deleted %s\n", id)
	return nil
}

func backupCommand(c *cli.Context) error {
	ctx := context.Background()

	opts := []clipkeep.NotebookOption{
		clipkeep.WithBackupFallback(backup.NewDownloadDir(c.String("downloads"))),
	}
	if dest := c.String("dest"); dest != "" {
		opts = append(opts, clipkeep.WithBackupDestination(backup.NewDirDestination(dest)))
	}

	nb, err := openNotebook(c, opts...)
	if err != nil {
		return err
	}
	defer nb.Close()

	descriptor, err := nb.BackupService().CreateBackup(ctx, c.Bool("include-images"))
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}

	fmt.Println(descriptor)
	return nil
}

func configCommand(c *cli.Context) error {
	ctx := context.Background()

	nb, err := openNotebook(c)
	if err != nil {
		return err
	}
	defer nb.Close()

	svc := nb.BackupService()

	if c.IsSet("auto") || c.IsSet("frequency") {
		cfg, err := svc.Settings(ctx)
		if err != nil {
			return fmt.Errorf("failed to load backup settings: %w", err)
		}
		auto := cfg.AutoBackup
		if c.IsSet("auto") {
			auto = c.Bool("auto")
		}
		frequency := cfg.Frequency.String()
		if c.IsSet("frequency") {
			frequency = c.String("frequency")
		}
		if err := svc.Configure(ctx, auto, frequency); err != nil {
			return fmt.Errorf("failed to update backup settings: %w", err)
		}
	}
	if dest := c.String("dest"); dest != "" {
		if err := svc.SetDestination(ctx, backup.NewDirDestination(dest)); err != nil {
			return fmt.Errorf("failed to set backup destination: %w", err)
		}
	}

	cfg, err := svc.Settings(ctx)
	if err != nil {
		return fmt.Errorf("failed to load backup settings: %w", err)
	}
	fmt.Printf("auto backup: %v\n", cfg.AutoBackup)
	fmt.Printf("frequency: %s\n", cfg.Frequency)
	fmt.Printf("cloud backup: %v\n", cfg.CloudBackup)
	if cfg.DestinationPath != "" {
		fmt.Printf("destination: %s\n", cfg.DestinationPath)
	}
	if !cfg.LastBackupAt.IsZero() {
		fmt.Printf("last backup: %s\n", cfg.LastBackupAt.Format(time.RFC3339))
	}
	return nil
}

func restoreCommand(c *cli.Context) error {
	ctx := context.Background()

	file := c.Args().First()
	if file == "" {
		return fmt.Errorf("snapshot file is required")
	}
	mode, err := backup.ParseMode(c.String("mode"))
	if err != nil {
		return err
	}

	raw, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("failed to read snapshot: %w", err)
	}

	nb, err := openNotebook(c)
	if err != nil {
		return err
	}
	defer nb.Close()

	restorer, err := nb.NewRestorer()
	if err != nil {
		return err
	}

	result, err := restorer.Restore(ctx, raw, mode)
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}

	fmt.Printf("imported %d, skipped %d\n", result.Imported, result.Skipped)
	return nil
}

func sweepCommand(c *cli.Context) error {
	ctx := context.Background()

	nb, err := openNotebook(c)
	if err != nil {
		return err
	}
	defer nb.Close()

	removed, err := nb.SweepOrphans(ctx)
	if err != nil {
		return fmt.Errorf("sweep failed: %w", err)
	}

	fmt.Printf("removed %d orphaned blobs\n", removed)
	return nil
}

func exportCommand(c *cli.Context) error {
	ctx := context.Background()

	nb, err := openNotebook(c)
	if err != nil {
		return err
	}
	defer nb.Close()

	notes, err := nb.NoteRepository().ListAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to list notes: %w", err)
	}
	if c.Bool("include-images") {
		for i, n := range notes {
			hydrated, err := nb.NoteRepository().GetWithImages(ctx, n.ID)
			if err != nil {
				return fmt.Errorf("failed to load images: %w", err)
			}
			if hydrated != nil {
				notes[i] = hydrated
			}
		}
	}

	paths, err := export.WriteFiles(notes, c.String("out"), c.Bool("include-images"), time.Now())
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	fmt.Printf("wrote %d files to %s\n", len(paths), c.String("out"))
	return nil
}

func sizeCommand(c *cli.Context) error {
	ctx := context.Background()

	nb, err := openNotebook(c)
	if err != nil {
		return err
	}
	defer nb.Close()

	size, err := nb.BlobStore().EstimateTotalSize(ctx)
	if err != nil {
		return fmt.Errorf("failed to estimate size: %w", err)
	}

	fmt.Printf("%d bytes of image data\n", size)
	return nil
}

func printNotes(notes []*core.Note) {
	for _, n := range notes {
		images := len(n.ImageIDs)
		if images == 0 {
			images = len(n.Images)
		}
		line := fmt.Sprintf("%s  %s", n.ID, n.Title)
		if images > 0 {
			line += fmt.Sprintf("  [%d images]", images)
		}
		if n.URL != "" {
			line += "  " + n.URL
		}
		fmt.Println(line)
	}
	fmt.Printf("%d notes\n", len(notes))
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
