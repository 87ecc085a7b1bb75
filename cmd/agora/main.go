package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/resh-o/agora/internal/ai"
	"github.com/resh-o/agora/internal/config"
	"github.com/resh-o/agora/internal/core"
	"github.com/resh-o/agora/internal/debate"
	"github.com/resh-o/agora/internal/dialogue"
	"github.com/resh-o/agora/internal/export"
	"github.com/resh-o/agora/internal/philosopher"
	"github.com/resh-o/agora/internal/session"
	"github.com/resh-o/agora/internal/storage"
	"github.com/resh-o/agora/web/handlers"
)

var (
	cfgPath   string
	dbPath    string
	debugFlag bool
	appConfig *config.Config
	logger    *slog.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "agora",
	Short: "Converse and debate with history's great philosophers",
	Long: `agora lets you hold one-on-one dialogues with historical philosophers
or stage multi-philosopher debates on any topic, powered by Gemini.

Examples:
  agora chat socrates
  agora debate "Is free will an illusion?" --philosophers socrates,kant,nietzsche
  agora philosophers
  agora sessions list`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfgPath != "" {
			appConfig, err = config.LoadFrom(cfgPath)
		} else {
			appConfig, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if debugFlag {
			appConfig.Debug = true
		}

		opts := &slog.HandlerOptions{Level: slog.LevelWarn}
		if appConfig.Debug {
			opts.Level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Config file path (default: ~/.agora/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path (forces the sqlite backend)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(debateCmd)
	rootCmd.AddCommand(philosophersCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(serveCmd)
}

func getStore() (storage.Store, error) {
	if dbPath != "" {
		appConfig.Storage.Backend = "sqlite"
		appConfig.Storage.DBPath = dbPath
	}

	var store storage.Store
	switch appConfig.Storage.Backend {
	case "sqlite":
		s, err := storage.NewSQLiteStore(appConfig.Storage.DBPath)
		if err != nil {
			return nil, err
		}
		store = s
	default:
		store = storage.NewFileStore(appConfig.Storage.SessionsDir, logger)
	}

	if err := store.Initialize(); err != nil {
		return nil, err
	}
	return store, nil
}

func getGenerator() (ai.Generator, error) {
	if err := appConfig.Validate(); err != nil {
		if errors.Is(err, config.ErrMissingAPIKey) {
			return nil, fmt.Errorf("%w\n\nSet it in your environment or a .env file:\n  GEMINI_API_KEY=your-key-here", err)
		}
		return nil, err
	}
	client, err := ai.NewGeminiClient(
		appConfig.Gemini.APIKey,
		appConfig.Gemini.Model,
		appConfig.Gemini.MaxTokens,
		appConfig.Gemini.Temperature,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return client, nil
}

func newReadline(prompt string) (*readline.Instance, error) {
	return readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     filepath.Join(os.TempDir(), ".agora_history"),
		HistoryLimit:    100,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
}

// ============================================================================
// CHAT COMMAND
// ============================================================================

var chatCmd = &cobra.Command{
	Use:   "chat [philosopher]",
	Short: "Start a dialogue with a philosopher",
	Long: `Start an interactive dialogue with one philosopher.

Examples:
  agora chat socrates
  agora chat marcus_aurelius

Inside the dialogue:
  /help      Show available commands
  /history   Show the conversation so far
  /clear     Clear the conversation history
  /save      Save the session
  /end       End the dialogue`,
	Args: cobra.ExactArgs(1),
	RunE: runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	ptype := philosopher.Type(strings.ToLower(args[0]))
	if !philosopher.Valid(ptype) {
		return fmt.Errorf("unknown philosopher %q (run 'agora philosophers' to see who is available)", args[0])
	}

	generator, err := getGenerator()
	if err != nil {
		return err
	}

	svc := dialogue.NewService(generator, logger, appConfig.Conversation.MaxHistory)
	manager := session.NewManager(appConfig.SessionTimeoutDuration(), logger)

	// Autosave is best effort: a broken store degrades to an in-memory chat.
	store, err := getStore()
	if err != nil {
		logger.Warn("storage unavailable, session will not be saved", "error", err)
		store = nil
	} else {
		defer store.Close()
	}

	sess, err := svc.Start(ptype)
	if err != nil {
		return err
	}
	manager.TrackDialogue(sess)

	prof := svc.Info(sess)
	fmt.Printf("\n🏛  Dialogue with %s\n", prof.Name)
	fmt.Printf("   %s, %s\n\n", prof.Era, prof.School)
	fmt.Printf("%s: %s\n\n", prof.Name, sess.Messages[0].Content)
	fmt.Println("Type /help for commands, /end to finish.")

	rl, err := newReadline("you> ")
	if err != nil {
		return fmt.Errorf("failed to initialize input: %w", err)
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt || err == io.EOF {
			fmt.Println("\nFarewell!")
			return nil
		}
		if err != nil {
			return err
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			if done := handleChatCommand(input, sess, manager, store); done {
				return nil
			}
			continue
		}

		// Re-fetch through the manager so expiry applies.
		if _, err := manager.GetDialogue(sess.ID); err != nil {
			fmt.Println("This dialogue has expired. Start a new one with 'agora chat'.")
			return nil
		}

		reply, err := svc.Send(cmd.Context(), sess, input)
		if err != nil {
			return fmt.Errorf("dialogue failed: %w", err)
		}
		fmt.Printf("\n%s: %s\n\n", prof.Name, reply.Content)
		autosaveDialogue(store, sess)
	}
}

func autosaveDialogue(store storage.Store, sess *core.DialogueSession) {
	if store == nil {
		return
	}
	if err := store.SaveDialogue(sess); err != nil {
		logger.Warn("failed to save dialogue", "session_id", sess.ID, "error", err)
	}
}

func handleChatCommand(input string, sess *core.DialogueSession, manager *session.Manager, store storage.Store) (done bool) {
	switch input {
	case "/help":
		fmt.Println("Commands: /help /history /clear /save /end")
	case "/history":
		for _, msg := range sess.Messages {
			label := sess.PhilosopherName
			switch msg.Type {
			case core.MessageUser:
				label = "You"
			case core.MessageSystem:
				label = "System"
			}
			fmt.Printf("[%s] %s: %s\n", msg.Timestamp.Format("15:04"), label, msg.Content)
		}
	case "/clear":
		sess.ClearHistory()
		fmt.Println("Conversation history cleared.")
	case "/save":
		if store == nil {
			fmt.Println("Storage is unavailable.")
			return false
		}
		if err := store.SaveDialogue(sess); err != nil {
			fmt.Printf("Failed to save session: %v\n", err)
			return false
		}
		fmt.Printf("Session saved (%s).\n", sess.ID)
	case "/end":
		if err := manager.EndDialogue(sess.ID); err == nil {
			fmt.Println("The dialogue has ended. Farewell!")
		}
		autosaveDialogue(store, sess)
		return true
	default:
		fmt.Printf("Unknown command %s (try /help)\n", input)
	}
	return false
}

// ============================================================================
// DEBATE COMMAND
// ============================================================================

var (
	debatePhilosophers string
	debatePositions    string
	debateTurns        int
	debateAuto         bool
	debateSave         bool
)

var debateCmd = &cobra.Command{
	Use:   "debate [topic]",
	Short: "Stage a debate between philosophers",
	Long: `Create a debate on a topic between two or more philosophers.

Examples:
  agora debate "Is free will an illusion?" --philosophers socrates,kant
  agora debate "What is the good life?" -p aristotle,nietzsche,confucius --turns 4
  agora debate "Does the state serve justice?" -p plato,locke,marx --auto

Inside the debate, press Enter for the next response, or use:
  /say <text>   Address the debaters
  /pause        Pause the debate
  /resume       Resume a paused debate
  /status       Show turn counts
  /end          Conclude the debate early`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDebate,
}

func init() {
	debateCmd.Flags().StringVarP(&debatePhilosophers, "philosophers", "p", "", "Comma-separated philosopher ids (required)")
	debateCmd.Flags().StringVar(&debatePositions, "positions", "", "Comma-separated positions, matching --philosophers order")
	debateCmd.Flags().IntVarP(&debateTurns, "turns", "t", 0, "Turns per philosopher (default from config)")
	debateCmd.Flags().BoolVar(&debateAuto, "auto", false, "Run the whole debate without prompting between turns")
	debateCmd.Flags().BoolVar(&debateSave, "save", true, "Save the debate when it finishes")
	debateCmd.MarkFlagRequired("philosophers")
}

func runDebate(cmd *cobra.Command, args []string) error {
	topic := strings.Join(args, " ")

	generator, err := getGenerator()
	if err != nil {
		return err
	}

	turns := debateTurns
	if turns <= 0 {
		turns = appConfig.Debate.MaxTurnsPerParticipant
	}

	svc := debate.NewService(generator, logger, appConfig.Conversation.MaxHistory)
	manager := session.NewManager(appConfig.SessionTimeoutDuration(), logger)

	sess := svc.Create(topic, "", turns)
	manager.TrackDebate(sess)

	var positions []string
	if debatePositions != "" {
		positions = strings.Split(debatePositions, ",")
	}
	for i, raw := range strings.Split(debatePhilosophers, ",") {
		ptype := philosopher.Type(strings.ToLower(strings.TrimSpace(raw)))
		position := ""
		if i < len(positions) {
			position = strings.TrimSpace(positions[i])
		}
		if _, err := svc.AddParticipant(sess, ptype, position); err != nil {
			return err
		}
	}

	var store storage.Store
	if debateSave {
		store, err = getStore()
		if err != nil {
			return fmt.Errorf("failed to open storage: %w", err)
		}
		defer store.Close()
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\n\nInterrupted.")
		cancel()
	}()

	fmt.Printf("\n🏛  Debate: %s\n", topic)
	fmt.Printf("   Participants: %s\n", strings.Join(participantNames(sess), ", "))
	fmt.Printf("   Turns per participant: %d\n\n", turns)
	fmt.Println("Gathering opening statements...")

	if err := svc.Start(ctx, sess); err != nil {
		return fmt.Errorf("failed to start debate: %w", err)
	}
	printNewMessages(sess, 0)
	autosaveDebate(store, sess)

	if debateAuto {
		if err := runDebateAuto(ctx, svc, sess, store); err != nil {
			return err
		}
	} else if err := runDebateInteractive(ctx, svc, sess, store); err != nil {
		return err
	}

	if store != nil {
		if err := store.SaveDebate(sess); err != nil {
			return fmt.Errorf("failed to save debate: %w", err)
		}
		fmt.Printf("\nDebate saved (%s). Export it with 'agora export %s'.\n", sess.ID, sess.ID)
	}
	return nil
}

// autosaveDebate persists the debate after each turn so an interrupted
// run loses at most the response in flight.
func autosaveDebate(store storage.Store, sess *core.DebateSession) {
	if store == nil {
		return
	}
	if err := store.SaveDebate(sess); err != nil {
		logger.Warn("failed to autosave debate", "session_id", sess.ID, "error", err)
	}
}

func runDebateAuto(ctx context.Context, svc *debate.Service, sess *core.DebateSession, store storage.Store) error {
	for sess.Status == core.StatusActive {
		if ctx.Err() != nil {
			return nil
		}
		seen := len(sess.Messages)
		if _, err := svc.NextResponse(ctx, sess); err != nil {
			return fmt.Errorf("debate failed: %w", err)
		}
		printNewMessages(sess, seen)
		autosaveDebate(store, sess)
	}
	return nil
}

func runDebateInteractive(ctx context.Context, svc *debate.Service, sess *core.DebateSession, store storage.Store) error {
	rl, err := newReadline("debate> ")
	if err != nil {
		return fmt.Errorf("failed to initialize input: %w", err)
	}
	defer rl.Close()

	fmt.Println("Press Enter for the next response, /help for commands.")

	for sess.Status != core.StatusCompleted {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt || err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return nil
		}

		input := strings.TrimSpace(line)
		switch {
		case input == "":
			if sess.Status != core.StatusActive {
				fmt.Println("The debate is paused. /resume to continue.")
				continue
			}
			seen := len(sess.Messages)
			if _, err := svc.NextResponse(ctx, sess); err != nil {
				return fmt.Errorf("debate failed: %w", err)
			}
			printNewMessages(sess, seen)
			autosaveDebate(store, sess)

		case input == "/help":
			fmt.Println("Commands: /say <text> /pause /resume /status /end")

		case strings.HasPrefix(input, "/say "):
			text := strings.TrimSpace(strings.TrimPrefix(input, "/say "))
			if _, err := svc.AddUserInput(sess, text); err != nil {
				fmt.Printf("Cannot add input: %v\n", err)
			}

		case input == "/pause":
			if err := svc.Pause(sess); err != nil {
				fmt.Printf("Cannot pause: %v\n", err)
			} else {
				fmt.Println("Debate paused.")
			}

		case input == "/resume":
			if err := svc.Resume(sess); err != nil {
				fmt.Printf("Cannot resume: %v\n", err)
			} else {
				fmt.Println("Debate resumed.")
			}

		case input == "/status":
			printDebateStatus(sess)

		case input == "/end":
			seen := len(sess.Messages)
			if err := sess.Complete(); err != nil {
				fmt.Printf("Cannot end: %v\n", err)
				continue
			}
			printNewMessages(sess, seen)
			autosaveDebate(store, sess)

		default:
			fmt.Printf("Unknown command %s (try /help)\n", input)
		}
	}
	return nil
}

func printNewMessages(sess *core.DebateSession, from int) {
	for _, msg := range sess.Messages[from:] {
		switch msg.Type {
		case core.MessageSystem:
			fmt.Printf("\n── %s ──\n", msg.Content)
		case core.MessageUser:
			fmt.Printf("\nYou: %s\n", msg.Content)
		default:
			fmt.Printf("\n%s:\n%s\n", msg.SpeakerName(), msg.Content)
		}
	}
}

func printDebateStatus(sess *core.DebateSession) {
	fmt.Printf("Status: %s\n", sess.Status)
	if speaker := sess.CurrentSpeaker(); speaker != nil {
		fmt.Printf("Next speaker: %s\n", speaker.Name)
	}
	for _, p := range sess.Participants {
		fmt.Printf("  %s: %d/%d turns\n", p.Name, p.TurnCount, sess.MaxTurnsPerParticipant)
	}
}

func participantNames(sess *core.DebateSession) []string {
	names := make([]string, len(sess.Participants))
	for i, p := range sess.Participants {
		names[i] = p.Name
	}
	return names
}

// ============================================================================
// PHILOSOPHERS COMMAND
// ============================================================================

var philosophersCmd = &cobra.Command{
	Use:   "philosophers [id]",
	Short: "List available philosophers",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			prof := philosopher.Get(philosopher.Type(strings.ToLower(args[0])))
			if prof == nil {
				return fmt.Errorf("unknown philosopher %q", args[0])
			}
			fmt.Printf("%s — %s (%s)\n", prof.Name, prof.Era, prof.Nationality)
			fmt.Printf("School: %s\n", prof.School)
			fmt.Printf("Key concepts: %s\n", strings.Join(prof.KeyConcepts, ", "))
			fmt.Printf("Famous works: %s\n", strings.Join(prof.FamousWorks, ", "))
			fmt.Printf("\n%s\n", prof.Description)
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tERA\tSCHOOL")
		for _, prof := range philosopher.Defaults() {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", prof.ID, prof.Name, prof.Era, prof.School)
		}
		return w.Flush()
	},
}

// ============================================================================
// SESSIONS COMMAND
// ============================================================================

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage saved sessions",
}

var sessionsTypeFlag string

func init() {
	sessionsListCmd.Flags().StringVarP(&sessionsTypeFlag, "type", "t", "", "Filter by type (dialogue or debate)")

	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsShowCmd)
	sessionsCmd.AddCommand(sessionsDeleteCmd)
	sessionsCmd.AddCommand(sessionsSearchCmd)
	sessionsCmd.AddCommand(sessionsCleanupCmd)
}

func printSummaries(summaries []storage.StoredSummary) error {
	if len(summaries) == 0 {
		fmt.Println("No sessions found.")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tTITLE\tSTATUS\tMESSAGES\tSAVED")
	for _, s := range summaries {
		id := s.ID
		if len(id) > 8 {
			id = id[:8]
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
			id, s.Kind, s.Title, s.Status, s.MessageCount, s.SavedAt.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := getStore()
		if err != nil {
			return err
		}
		defer store.Close()

		kinds := []storage.SessionKind{storage.KindDialogue, storage.KindDebate}
		switch sessionsTypeFlag {
		case "":
		case "dialogue":
			kinds = kinds[:1]
		case "debate":
			kinds = kinds[1:]
		default:
			return fmt.Errorf("unknown type %q (want dialogue or debate)", sessionsTypeFlag)
		}

		var all []storage.StoredSummary
		for _, kind := range kinds {
			summaries, err := store.List(kind)
			if err != nil {
				return err
			}
			all = append(all, summaries...)
		}
		return printSummaries(all)
	},
}

// findSession resolves an id (or unambiguous prefix) across both kinds.
func findSession(store storage.Store, id string) (storage.SessionKind, string, error) {
	var matches []storage.StoredSummary
	for _, kind := range []storage.SessionKind{storage.KindDialogue, storage.KindDebate} {
		summaries, err := store.List(kind)
		if err != nil {
			return "", "", err
		}
		for _, s := range summaries {
			if s.ID == id || strings.HasPrefix(s.ID, id) {
				matches = append(matches, s)
			}
		}
	}
	switch len(matches) {
	case 0:
		return "", "", fmt.Errorf("no session matches %q", id)
	case 1:
		return matches[0].Kind, matches[0].ID, nil
	default:
		return "", "", fmt.Errorf("%q matches %d sessions, be more specific", id, len(matches))
	}
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a saved session transcript",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := getStore()
		if err != nil {
			return err
		}
		defer store.Close()

		kind, id, err := findSession(store, args[0])
		if err != nil {
			return err
		}

		var messages []core.Message
		if kind == storage.KindDialogue {
			sess, err := store.GetDialogue(id)
			if err != nil {
				return err
			}
			fmt.Printf("Dialogue with %s (%s)\n\n", sess.PhilosopherName, sess.ID)
			messages = sess.Messages
		} else {
			sess, err := store.GetDebate(id)
			if err != nil {
				return err
			}
			fmt.Printf("Debate: %s (%s, %s)\n\n", sess.Topic, sess.ID, sess.Status)
			messages = sess.Messages
		}

		for _, msg := range messages {
			label := msg.SpeakerName()
			switch {
			case msg.Type == core.MessageUser:
				label = "You"
			case msg.Type == core.MessageSystem:
				label = "System"
			case label == "":
				label = "Philosopher"
			}
			fmt.Printf("[%s] %s: %s\n", msg.Timestamp.Format("15:04"), label, msg.Content)
		}
		return nil
	},
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a saved session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := getStore()
		if err != nil {
			return err
		}
		defer store.Close()

		kind, id, err := findSession(store, args[0])
		if err != nil {
			return err
		}
		if err := store.Delete(kind, id); err != nil {
			return err
		}
		fmt.Printf("Deleted %s %s.\n", kind, id)
		return nil
	},
}

var sessionsSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search saved sessions by topic or philosopher",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := getStore()
		if err != nil {
			return err
		}
		defer store.Close()

		matches, err := store.Search(strings.Join(args, " "))
		if err != nil {
			return err
		}
		return printSummaries(matches)
	},
}

var cleanupDays int

func init() {
	sessionsCleanupCmd.Flags().IntVar(&cleanupDays, "days", 30, "Delete sessions saved more than this many days ago")
}

var sessionsCleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete old saved sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := getStore()
		if err != nil {
			return err
		}
		defer store.Close()

		removed, err := store.CleanupOlderThan(time.Duration(cleanupDays) * 24 * time.Hour)
		if err != nil {
			return err
		}
		fmt.Printf("Removed %d session(s) older than %d days.\n", removed, cleanupDays)
		return nil
	},
}

// ============================================================================
// EXPORT COMMAND
// ============================================================================

var (
	exportFormat string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export [debate-id]",
	Short: "Export a debate transcript",
	Long: `Export a saved debate to markdown, JSON, or PDF.

Examples:
  agora export 3f2a91c7
  agora export 3f2a91c7 --format pdf
  agora export 3f2a91c7 --format json --output debate.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := getStore()
		if err != nil {
			return err
		}
		defer store.Close()

		kind, id, err := findSession(store, args[0])
		if err != nil {
			return err
		}
		if kind != storage.KindDebate {
			return fmt.Errorf("%s is a dialogue; only debates can be exported", id)
		}

		sess, err := store.GetDebate(id)
		if err != nil {
			return err
		}

		exporter, err := export.GetExporter(export.Format(exportFormat))
		if err != nil {
			return err
		}

		path := exportOutput
		if path == "" {
			path = export.GenerateFilename(sess, exporter.FileExtension())
		}

		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()

		if err := exporter.Export(sess, f); err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		fmt.Printf("Exported debate to %s\n", path)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "markdown", "Export format (markdown, json, pdf)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default: generated name)")
}

// ============================================================================
// CONFIG COMMAND
// ============================================================================

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

func init() {
	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the active configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("Config file: %s\n\n", config.DefaultConfigPath())
			fmt.Printf("Model:            %s\n", appConfig.Gemini.Model)
			fmt.Printf("Max tokens:       %d\n", appConfig.Gemini.MaxTokens)
			fmt.Printf("Temperature:      %g\n", appConfig.Gemini.Temperature)
			fmt.Printf("Max history:      %d\n", appConfig.Conversation.MaxHistory)
			fmt.Printf("Session timeout:  %ds\n", appConfig.Conversation.SessionTimeout)
			fmt.Printf("Debate turns:     %d\n", appConfig.Debate.MaxTurnsPerParticipant)
			fmt.Printf("Storage backend:  %s\n", appConfig.Storage.Backend)
			if appConfig.Gemini.APIKey != "" {
				fmt.Println("API key:          set")
			} else {
				fmt.Println("API key:          NOT SET (export GEMINI_API_KEY)")
			}
			return nil
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write an example config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.DefaultConfigPath()
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("config already exists at %s", path)
			}
			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return fmt.Errorf("failed to create config directory: %w", err)
			}
			if err := os.WriteFile(path, []byte(config.GenerateExample()), 0644); err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}
			fmt.Printf("Wrote example config to %s\n", path)
			return nil
		},
	})
}

// ============================================================================
// SERVE COMMAND
// ============================================================================

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := getStore()
		if err != nil {
			return err
		}
		defer store.Close()

		manager := session.NewManager(appConfig.SessionTimeoutDuration(), logger)
		h := handlers.New(store, manager, logger)

		port := servePort
		if port == 0 {
			port = appConfig.Server.Port
		}
		addr := fmt.Sprintf(":%d", port)
		server := &http.Server{Addr: addr, Handler: h.Router()}

		go func() {
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
			<-sigCh
			fmt.Println("\nShutting down...")
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			server.Shutdown(ctx)
		}()

		fmt.Printf("agora API listening on http://localhost%s\n", addr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Server port (default from config)")
}
