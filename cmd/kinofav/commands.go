package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/mmcdole/kinofav/internal/domain"
)

const commandTimeout = 10 * time.Second

func (a *app) list(args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	showKeys := fs.Bool("keys", false, "print composite keys")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	items, err := a.svc.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load favorites: %w", err)
	}
	if len(items) == 0 {
		fmt.Fprintln(a.out, "No favorites yet")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for _, item := range items {
		cols := []string{item.Title, item.Year, item.SourceName, progressLabel(item)}
		if *showKeys {
			cols = append([]string{item.Key()}, cols...)
		}
		fmt.Fprintln(w, strings.Join(cols, "\t"))
	}
	return w.Flush()
}

func progressLabel(item domain.FavoriteItem) string {
	switch {
	case item.CurrentEpisode == nil:
		return ""
	case item.Episodes > 0:
		return fmt.Sprintf("EP %d/%d", *item.CurrentEpisode, item.Episodes)
	default:
		return fmt.Sprintf("EP %d", *item.CurrentEpisode)
	}
}

func (a *app) add(args []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	source := fs.String("source", "", "source site key (required)")
	id := fs.String("id", "", "item id within the source (required)")
	var rec domain.FavoriteRecord
	fs.StringVar(&rec.Title, "title", "", "display title")
	fs.StringVar(&rec.Year, "year", "", "release year")
	fs.StringVar(&rec.SourceName, "source-name", "", "human-readable source name")
	fs.StringVar(&rec.Cover, "cover", "", "poster URL")
	fs.IntVar(&rec.TotalEpisodes, "episodes", 0, "total episode count")
	fs.StringVar(&rec.SearchTitle, "search-title", "", "title to search for when reopening")
	fs.StringVar(&rec.Origin, "origin", "", "origin tag, e.g. vod or live")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *source == "" || *id == "" {
		return errors.New("add requires -source and -id")
	}
	if rec.Title == "" {
		rec.Title = *id
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	if err := a.svc.Add(ctx, *source, *id, rec); err != nil {
		return fmt.Errorf("failed to save favorite: %w", err)
	}
	fmt.Fprintf(a.out, "✓ Saved %s\n", rec.Title)
	return nil
}

func (a *app) remove(args []string) error {
	fs := flag.NewFlagSet("remove", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	query := strings.Join(fs.Args(), " ")
	if strings.TrimSpace(query) == "" {
		return errors.New("remove requires a key or title")
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	item, err := a.svc.Find(ctx, query)
	if err != nil {
		return err
	}
	if err := a.svc.Remove(ctx, item.Key()); err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	fmt.Fprintf(a.out, "✓ Removed %s\n", item.Title)
	return nil
}

func (a *app) progress(args []string) error {
	fs := flag.NewFlagSet("progress", flag.ContinueOnError)
	source := fs.String("source", "", "source site key (required)")
	id := fs.String("id", "", "item id within the source (required)")
	var rec domain.PlayRecord
	fs.IntVar(&rec.Index, "episode", 1, "episode being watched (1-based)")
	fs.IntVar(&rec.TotalEpisodes, "episodes", 0, "total episode count")
	fs.Int64Var(&rec.PlayTime, "time", 0, "position in seconds")
	fs.StringVar(&rec.Title, "title", "", "display title")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *source == "" || *id == "" {
		return errors.New("progress requires -source and -id")
	}
	if rec.Index < 1 {
		return fmt.Errorf("episode must be at least 1, got %d", rec.Index)
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	if err := a.svc.RecordProgress(ctx, *source, *id, rec); err != nil {
		return fmt.Errorf("failed to record progress: %w", err)
	}
	fmt.Fprintf(a.out, "✓ %s at episode %d\n", domain.FormatKey(*source, *id), rec.Index)
	return nil
}

func (a *app) clear(args []string) error {
	fs := flag.NewFlagSet("clear", flag.ContinueOnError)
	yes := fs.Bool("y", false, "do not ask for confirmation")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if !*yes {
		fmt.Fprint(a.out, "Clear all favorites? [y/N] ")
		answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		if !strings.EqualFold(strings.TrimSpace(answer), "y") {
			fmt.Fprintln(a.out, "Cancelled")
			return nil
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	if err := a.svc.ClearAll(ctx); err != nil {
		return fmt.Errorf("failed to clear favorites: %w", err)
	}
	fmt.Fprintln(a.out, "✓ Cleared all favorites")
	return nil
}
