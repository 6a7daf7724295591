package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"ai-dinner-planner/internal/config"
	"ai-dinner-planner/internal/database"
	"ai-dinner-planner/internal/history"
	"ai-dinner-planner/internal/llm"
	"ai-dinner-planner/internal/menu"
	"ai-dinner-planner/internal/metrics"
)

// cliClientID keys menus generated from this tool in the history table.
const cliClientID = "cli"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading configuration from the environment")
	}

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	metricsStore := metrics.NewStore(db.SQL)
	historyRepo := history.NewRepository(db.SQL)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "generate":
		runGenerate(ctx, cfg, metricsStore, historyRepo, os.Args[2:])
	case "usage":
		runUsage(ctx, cfg, metricsStore, os.Args[2:])
	case "cleanup":
		runCleanup(ctx, metricsStore, os.Args[2:])
	case "history":
		runHistory(ctx, historyRepo, os.Args[2:])
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func runGenerate(ctx context.Context, cfg *config.Config, metricsStore *metrics.Store, historyRepo *history.Repository, args []string) {
	generateCmd := flag.NewFlagSet("generate", flag.ExitOnError)
	timeToMake := generateCmd.String("time", "30 minutes", "Preparation time per meal")
	priceRange := generateCmd.String("price", "average", "Price tier: budget, average or gourmet")
	restrictions := generateCmd.String("restrictions", "", "Comma-separated dietary restrictions")
	format := generateCmd.String("format", "table", "Output format: table, json or yaml")
	generateCmd.Parse(args)

	if err := cfg.RequireGeminiAPIKey(); err != nil {
		log.Fatalf("Cannot generate a menu: %v", err)
	}

	geminiClient, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Fatalf("Failed to create Gemini client: %v", err)
	}
	defer geminiClient.Close()

	var textGen llm.TextGenerator = geminiClient
	if cfg.UpstreamMaxRPM > 0 {
		textGen = llm.NewThrottledTextGenerator(geminiClient, cfg.UpstreamMaxRPM)
	}

	prefs := menu.Preferences{
		TimeToMake: *timeToMake,
		PriceRange: *priceRange,
	}
	if *restrictions != "" {
		for _, r := range strings.Split(*restrictions, ",") {
			prefs.Restrictions = append(prefs.Restrictions, strings.TrimSpace(r))
		}
	}

	prompt, err := menu.BuildPrompt(prefs)
	if err != nil {
		log.Fatalf("Failed to build prompt: %v", err)
	}

	items, meta, genErr := menu.NewGenerator(textGen).Generate(ctx, prompt)
	status := metrics.StatusOK
	if genErr != nil {
		status = metrics.StatusError
	}
	if err := metricsStore.RecordMeta(ctx, meta, status); err != nil {
		log.Printf("Warning: failed to record metric: %v", err)
	}
	if genErr != nil {
		log.Fatalf("Menu generation failed: %v", genErr)
	}

	if data, err := json.Marshal(items); err == nil {
		saveErr := historyRepo.Save(ctx, history.SavedMenu{
			ClientID:     cliClientID,
			TimeToMake:   prefs.TimeToMake,
			PriceRange:   prefs.PriceRange,
			Restrictions: prefs.Restrictions,
			Model:        meta.Usage.Model,
			MenuData:     data,
		})
		if saveErr != nil {
			log.Printf("Warning: failed to save menu: %v", saveErr)
		}
	}

	if err := printMenu(items, *format); err != nil {
		log.Fatalf("Failed to print menu: %v", err)
	}
	fmt.Printf("\nGenerated with %s in %s (%d tokens).\n",
		meta.Usage.Model, meta.Latency.Round(time.Millisecond), meta.Usage.TotalTokens)
}

func runUsage(ctx context.Context, cfg *config.Config, metricsStore *metrics.Store, args []string) {
	usageCmd := flag.NewFlagSet("usage", flag.ExitOnError)
	days := usageCmd.Int("days", 7, "Show usage for the last N days")
	usageCmd.Parse(args)

	daily, err := metricsStore.GetDailyUsage(ctx, *days)
	if err != nil {
		log.Fatalf("Failed to load usage: %v", err)
	}
	if len(daily) == 0 {
		fmt.Println("No generation calls recorded yet.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tCALLS\tERRORS\tPROMPT TOKENS\tCOMPLETION TOKENS\tAVG LATENCY")
	for _, u := range daily {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%dms\n",
			u.Date, u.Calls, u.Errors, u.TotalPrompt, u.TotalCompletion, u.AvgLatencyMS)
	}
	if err := w.Flush(); err != nil {
		log.Fatalf("Failed to print usage: %v", err)
	}

	health := metrics.GetSysHealth(filepath.Dir(cfg.DatabasePath))
	fmt.Printf("\nData on disk: %s | heap: %d MB | goroutines: %d\n",
		health.DataDiskSize, health.AllocMB, health.Goroutines)
}

func runCleanup(ctx context.Context, metricsStore *metrics.Store, args []string) {
	cleanupCmd := flag.NewFlagSet("cleanup", flag.ExitOnError)
	days := cleanupCmd.Int("days", 30, "Keep records for the last N days")
	cleanupCmd.Parse(args)

	affected, err := metricsStore.Cleanup(ctx, *days)
	if err != nil {
		log.Fatalf("Cleanup failed: %v", err)
	}
	fmt.Printf("Successfully removed %d old metric records.\n", affected)
}

func runHistory(ctx context.Context, historyRepo *history.Repository, args []string) {
	historyCmd := flag.NewFlagSet("history", flag.ExitOnError)
	client := historyCmd.String("client", cliClientID, "Client identifier to list menus for")
	limit := historyCmd.Int("limit", 5, "Maximum number of menus to show")
	historyCmd.Parse(args)

	menus, err := historyRepo.ListRecent(ctx, *client, *limit)
	if err != nil {
		log.Fatalf("Failed to list menus: %v", err)
	}
	if len(menus) == 0 {
		fmt.Printf("No saved menus for client %s.\n", *client)
		return
	}

	for _, saved := range menus {
		fmt.Printf("#%d %s (%s, %s", saved.ID, saved.CreatedAt.Format("2006-01-02 15:04"), saved.TimeToMake, saved.PriceRange)
		if len(saved.Restrictions) > 0 {
			fmt.Printf(", %s", strings.Join(saved.Restrictions, ", "))
		}
		fmt.Println(")")

		var items []menu.MenuItem
		if err := json.Unmarshal(saved.MenuData, &items); err != nil {
			log.Printf("Warning: menu #%d is not readable: %v", saved.ID, err)
			continue
		}
		for _, item := range items {
			fmt.Printf("  %-10s %s\n", item.Day, item.MealName)
		}
		fmt.Println()
	}
}

func printMenu(items []menu.MenuItem, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(items, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode menu as JSON: %w", err)
		}
		fmt.Println(string(data))
	case "yaml":
		data, err := yaml.Marshal(items)
		if err != nil {
			return fmt.Errorf("failed to encode menu as YAML: %w", err)
		}
		fmt.Print(string(data))
	case "table":
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "DAY\tMEAL\tDESCRIPTION")
		for _, item := range items {
			fmt.Fprintf(w, "%s\t%s\t%s\n", item.Day, item.MealName, item.SimpleDescription)
		}
		return w.Flush()
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
	return nil
}

func printUsage() {
	fmt.Println("Usage: dinner-planner <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  generate    Generate a 7-day dinner menu from preference flags")
	fmt.Println("  usage       Show daily generation call and token totals")
	fmt.Println("  cleanup     Remove old metric records")
	fmt.Println("  history     Show recently saved menus")
}
