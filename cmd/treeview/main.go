package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"

	"treeview/internal/client"
	"treeview/internal/config"
	models "treeview/internal/domain/models/tree"
	serviceTree "treeview/internal/service/tree"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	_ = godotenv.Load()
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "invalid configuration: %v\n", err)
		return 2
	}

	fs := flag.NewFlagSet("treeview", flag.ContinueOnError)
	fs.SetOutput(stderr)
	baseURL := fs.String("url", cfg.BaseURL, "Base URL of the payload server")
	selectIDs := fs.String("select", "", "Comma-separated item ids to toggle")
	toggleFolders := fs.String("toggle-folder", "", "Comma-separated folder ids (e.g. folder:1) to toggle")
	collapse := fs.String("collapse", "", "Comma-separated folder ids to collapse")
	verbose := fs.Bool("v", false, "Log requests and retries to stderr")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	source := client.NewPayloadClient(*baseURL, client.Options{
		DataPath: cfg.DataPath,
		Timeout:  cfg.RequestTimeout,
		Retries:  cfg.RetryAttempts,
	}, logger)

	var mu sync.Mutex
	store := serviceTree.NewStore()
	loader := serviceTree.NewLoader(source, store, &mu, logger)

	if err := loader.Load(context.Background()); err != nil {
		fmt.Fprintf(stderr, "no data available: %v\n", err)
		return 1
	}

	mu.Lock()
	defer mu.Unlock()

	itemIDs, err := parseItemIDs(*selectIDs)
	if err != nil {
		fmt.Fprintf(stderr, "invalid -select: %v\n", err)
		return 2
	}
	for _, id := range itemIDs {
		store.ToggleItem(id)
	}
	for _, id := range splitList(*toggleFolders) {
		store.ToggleFolder(id)
	}
	for _, id := range splitList(*collapse) {
		store.SetExpanded(id, false)
	}

	render(stdout, serviceTree.VisibleNodes(store))
	fmt.Fprintf(stdout, "\nSelected item IDs: %s\n", serviceTree.SelectionSummary(store.SelectedItemIDs()))
	return 0
}

// render prints one line per visible node, indented by level
func render(w io.Writer, nodes []models.VisibleNode) {
	for _, n := range nodes {
		indent := strings.Repeat("  ", n.Level)
		switch n.Kind {
		case models.KindFolder:
			chevron := " "
			if n.HasChildren != nil && *n.HasChildren {
				chevron = "+"
				if n.Expanded != nil && *n.Expanded {
					chevron = "-"
				}
			}
			fmt.Fprintf(w, "%s%s %s %s\n", indent, chevron, stateMarker(n.State), n.Title)
		case models.KindItem:
			marker := "[ ]"
			if n.Selected != nil && *n.Selected {
				marker = "[x]"
			}
			fmt.Fprintf(w, "%s  %s %s\n", indent, marker, n.Title)
		}
	}
}

func stateMarker(state models.CheckboxState) string {
	switch state {
	case models.Checked:
		return "[x]"
	case models.Indeterminate:
		return "[-]"
	default:
		return "[ ]"
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseItemIDs(s string) ([]int64, error) {
	parts := splitList(s)
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(strings.TrimPrefix(p, "item:"), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not an item id", p)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
