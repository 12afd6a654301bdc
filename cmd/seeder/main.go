package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/clipkeep/clipkeep"
	"github.com/clipkeep/clipkeep/core"
)

// Sample notes for exercising list, search, backup, and export against a
// realistic database.
var seedNotes = []core.Note{
	{
		Title:    "Go Proverbs",
		URL:      "https://go-proverbs.github.io/",
		Text:     "Clear is better than clever. Errors are values. Don't communicate by sharing memory, share memory by communicating.",
		Category: "programming",
		Tags:     []string{"go", "design"},
	},
	{
		Title:    "BadgerDB transaction limits",
		URL:      "https://dgraph.io/docs/badger/",
		Text:     "A single transaction has a maximum size. Large batch writes must be split across transactions.",
		Category: "databases",
		Tags:     []string{"badger", "storage"},
	},
	{
		Title:    "Sourdough starter schedule",
		Text:     "Feed twice daily at room temperature. Refrigerate after it doubles within four hours of feeding.",
		Category: "cooking",
		Tags:     []string{"baking"},
	},
	{
		Title:    "Backus-Naur form cheat sheet",
		URL:      "https://en.wikipedia.org/wiki/Backus%E2%80%93Naur_form",
		Text:     "Angle brackets name nonterminals. The ::= operator defines a production. Alternatives separate with a vertical bar.",
		Category: "programming",
		Tags:     []string{"parsing", "reference"},
	},
	{
		Title:    "Hiking checklist",
		Text:     "Water, map, headlamp, first aid, extra layer. Check the weather the night before.",
		Category: "outdoors",
		Tags:     []string{"checklist"},
	},
	{
		Title:    "HTTP cache headers",
		URL:      "https://developer.mozilla.org/en-US/docs/Web/HTTP/Caching",
		Text:     "Cache-Control max-age wins over Expires. ETag enables revalidation without a full transfer.",
		Category: "programming",
		Tags:     []string{"http", "reference"},
	},
	{
		Title:    "Tomato sauce, the short version",
		Text:     "Canned whole tomatoes, olive oil, garlic, salt. Simmer forty minutes, crush as you stir.",
		Category: "cooking",
		Tags:     []string{"recipe"},
	},
	{
		Title: "Untitled clipping",
		URL:   "https://example.com/article",
		Text:  "The interesting part was buried in the third paragraph.",
	},
}

var dbPath = flag.String("db", "./clipkeep_db", "database directory")

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
	flag.Parse()
}

func main() {
	nb, err := clipkeep.Open(*dbPath)
	if err != nil {
		panic(err)
	}
	defer nb.Close()

	ctx := context.Background()

	for i := range seedNotes {
		note := seedNotes[i]
		saved, err := nb.SaveNote(ctx, &note)
		if err != nil {
			slog.Error("failed to seed note", "title", note.Title, "error", err)
			continue
		}
		slog.Info("seeded note", "id", saved.ID, "title", saved.Title)
	}

	fmt.Printf("seeded %d notes into %s\n", len(seedNotes), *dbPath)
}
