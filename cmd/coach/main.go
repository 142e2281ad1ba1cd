package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/xaenox/health-coach/internal/api"
	"github.com/xaenox/health-coach/internal/engine"
	"github.com/xaenox/health-coach/internal/models"
	"github.com/xaenox/health-coach/internal/session"
	"github.com/xaenox/health-coach/pkg/config"
)

// metricTile mirrors the dashboard tiles; /log <type> reports one of these.
type metricTile struct {
	label string
	typ   string
	value string
	unit  string
}

var metricTiles = []metricTile{
	{label: "Steps Today", typ: "steps", value: "8234", unit: "count"},
	{label: "Calories", typ: "calories", value: "1850", unit: "kcal"},
	{label: "Water", typ: "water", value: "6/8", unit: "glasses"},
	{label: "Sleep", typ: "sleep", value: "7.5", unit: "h"},
}

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Load configuration
	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err), zap.String("path", "config.yaml"))
	}

	// Session cell: config path, or the user config dir, or memory-only.
	var cell session.Cell
	if path := sessionCellPath(cfg, logger); path != "" {
		cell = session.NewFileCell(path)
	}
	sessions := session.NewStore(cell, logger)

	client := api.NewClient(&api.ClientConfig{
		BaseURL: cfg.Client.APIBaseURL,
		Timeout: time.Duration(cfg.Client.TimeoutSeconds) * time.Second,
	})

	eng := engine.New(engine.Config{
		QuickActionDelay: time.Duration(cfg.Client.QuickActionDelayMS) * time.Millisecond,
	}, client, sessions, logger)
	metrics := engine.NewMetricLogger(client, sessions, logger)
	profiles := engine.NewProfileLoader(client, sessions, logger)

	runREPL(eng, metrics, profiles)
}

func sessionCellPath(cfg *config.Config, logger *zap.Logger) string {
	if cfg.Client.SessionFile != "" {
		return cfg.Client.SessionFile
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		logger.Warn("no user config dir, session will not survive restarts", zap.Error(err))
		return ""
	}
	return filepath.Join(dir, "health-coach", session.DefaultCellName)
}

func runREPL(eng *engine.Engine, metrics *engine.MetricLogger, profiles *engine.ProfileLoader) {
	ctx := context.Background()

	if last, ok := eng.Transcript().Last(); ok {
		printAssistant(last)
	}
	printQuickActions()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		printPrompt(eng)
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "":
			continue
		case line == "/quit" || line == "/exit":
			return
		case line == "/help":
			printHelp()
		case line == "/profile":
			showProfile(ctx, profiles)
		case strings.HasPrefix(line, "/category"):
			handleCategory(eng, strings.TrimSpace(strings.TrimPrefix(line, "/category")))
		case strings.HasPrefix(line, "/quick"):
			handleQuick(ctx, eng, strings.TrimSpace(strings.TrimPrefix(line, "/quick")))
		case strings.HasPrefix(line, "/log"):
			handleLog(ctx, metrics, strings.Fields(strings.TrimPrefix(line, "/log")))
		default:
			submit(ctx, eng, line)
		}
	}
}

func submit(ctx context.Context, eng *engine.Engine, text string) {
	before := eng.Transcript().Len()
	eng.Submit(ctx, text)

	msgs := eng.Transcript().Messages()
	for _, msg := range msgs[before:] {
		if msg.Origin == models.OriginAssistant {
			printAssistant(msg)
		}
	}
	if eng.Transcript().IsFreshConversation() {
		printQuickActions()
	}
}

func handleCategory(eng *engine.Engine, arg string) {
	if arg == "" {
		eng.ClearCategory()
		fmt.Println("category cleared")
		return
	}
	c := models.Category(arg)
	if !c.Valid() {
		fmt.Printf("unknown category %q; one of:", arg)
		for _, known := range models.Categories() {
			fmt.Printf(" %s", known)
		}
		fmt.Println()
		return
	}
	if eng.SelectedCategory() == c {
		// Picking the active category again clears it.
		eng.ClearCategory()
		fmt.Println("category cleared")
		return
	}
	eng.SelectCategory(c)
	fmt.Printf("category set to %s\n", c)
}

func handleQuick(ctx context.Context, eng *engine.Engine, arg string) {
	actions := models.QuickActions()
	if arg == "" {
		printQuickActions()
		return
	}
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(actions) {
		fmt.Printf("usage: /quick [1-%d]\n", len(actions))
		return
	}
	action := actions[n-1]
	before := eng.Transcript().Len()
	eng.SubmitQuickAction(ctx, action.Text, action.Category)

	msgs := eng.Transcript().Messages()
	for _, msg := range msgs[before:] {
		if msg.Origin == models.OriginAssistant {
			printAssistant(msg)
		}
	}
}

func handleLog(ctx context.Context, metrics *engine.MetricLogger, args []string) {
	switch len(args) {
	case 1:
		for _, tile := range metricTiles {
			if tile.typ == args[0] {
				metrics.Log(ctx, models.MetricObservation{Type: tile.typ, Value: tile.value, Unit: tile.unit})
				fmt.Printf("logged %s: %s %s\n", tile.typ, tile.value, tile.unit)
				return
			}
		}
		fmt.Println("unknown metric; known:", knownMetricTypes())
	case 3:
		metrics.Log(ctx, models.MetricObservation{Type: args[0], Value: args[1], Unit: args[2]})
		fmt.Printf("logged %s: %s %s\n", args[0], args[1], args[2])
	default:
		fmt.Println("usage: /log <type> | /log <type> <value> <unit>")
	}
}

func knownMetricTypes() string {
	types := make([]string, len(metricTiles))
	for i, tile := range metricTiles {
		types[i] = tile.typ
	}
	return strings.Join(types, ", ")
}

func showProfile(ctx context.Context, profiles *engine.ProfileLoader) {
	profile := profiles.Load(ctx)
	if profile == nil {
		fmt.Println("profile unavailable right now")
		return
	}
	name := profile.Name
	if name == "" {
		name = "(not set)"
	}
	level := profile.FitnessLevel
	if level == "" {
		level = "(not set)"
	}
	fmt.Printf("name: %s\nfitness level: %s\n", name, level)
	if len(profile.HealthGoals) == 0 {
		fmt.Println("goals: none yet")
		return
	}
	fmt.Println("goals:")
	for _, goal := range profile.HealthGoals {
		fmt.Printf("  • %s\n", goal)
	}
}

func printQuickActions() {
	fmt.Println("Quick actions (/quick N):")
	for i, action := range models.QuickActions() {
		fmt.Printf("  %d. %s [%s]\n", i+1, action.Text, action.Category)
	}
}

func printPrompt(eng *engine.Engine) {
	if c := eng.SelectedCategory(); c != "" {
		fmt.Printf("[%s] > ", c)
		return
	}
	fmt.Print("> ")
}

func printHelp() {
	fmt.Println(`commands:
  /category [name]        select a category (repeat to clear, no arg clears)
  /quick [n]              list or send a quick action
  /log <type>             log a dashboard metric (or /log <type> <value> <unit>)
  /profile                show your profile
  /quit                   leave`)
}
