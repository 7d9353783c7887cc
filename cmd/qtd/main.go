package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/pinnacledb/qtd"
	"github.com/pinnacledb/qtd/fs"
	"github.com/pinnacledb/qtd/gemini"
	"github.com/pinnacledb/qtd/gocache"
	"github.com/pinnacledb/qtd/goquery"
	"github.com/pinnacledb/qtd/htmltomarkdown"
	qtdhttp "github.com/pinnacledb/qtd/http"
	qtdslog "github.com/pinnacledb/qtd/slog"
	"github.com/pinnacledb/qtd/sqlite"
	"github.com/pinnacledb/qtd/trafilatura"
	"google.golang.org/genai"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A missing .env is fine; the environment and flags still apply.
	_ = godotenv.Load()

	m := NewMain()
	m.Stdin = os.Stdin

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Terminal input for the tui command.
	Stdin io.Reader

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing. When set they replace the services
	// Run would otherwise build.
	Client    qtd.QueryClient
	Answerer  qtd.QueryClient
	Documents qtd.DocumentService
}

// NewMain returns a new instance of Main.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdin:  m.Stdin,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("qtd"),
		kong.Description("Ask questions about SuperDuperDB, LangChain and FastChat documentation."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
		kong.Vars{"default_db": defaultDBPath()},
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) > 0 && (args[0] == "help" || args[0] == "--help" || args[0] == "-h") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	logger, closeLog, err := newLogger(cli, cmd, stderr)
	if err != nil {
		return err
	}
	defer closeLog()
	deps.Logger = logger
	deps.Timeout = cli.Timeout

	switch cmd {
	case "tui", "ask":
		client := m.Client
		if client == nil {
			client = qtdhttp.NewClient(cli.BackendURL, qtdhttp.WithTimeout(cli.Timeout))
		}
		deps.Client = qtdslog.NewLoggingClient(client, logger)

	case "serve", "ingest", "docs", "purge":
		docs := m.Documents
		if docs == nil {
			m.DB = sqlite.NewDB(cli.DB)
			if err := m.DB.Open(); err != nil {
				fmt.Fprintf(stderr, "Hint: Set QTD_DB to use a different database path\n")
				return fmt.Errorf("failed to open database at %q: %w", cli.DB, err)
			}
			defer m.Close()
			docs = sqlite.NewDocumentService(m.DB)
		}
		deps.Documents = qtdslog.NewLoggingDocumentService(docs, logger)
		loader := fs.NewLoader(htmltomarkdown.NewConverter())
		loader.Extractor = goquery.NewExtractor(trafilatura.NewExtractor())
		deps.Loader = qtdslog.NewLoggingDocumentLoader(loader, logger)
	}

	if cmd == "serve" {
		answerer := m.Answerer
		if answerer == nil {
			if answerer, err = newGeminiAsker(ctx, cli.Serve, deps.Documents, logger); err != nil {
				fmt.Fprintln(stderr, "Hint: Set GEMINI_API_KEY. Get a key at https://aistudio.google.com/apikey")
				return err
			}
		}
		answerer = qtdslog.NewLoggingClient(gocache.NewClient(answerer, cli.Serve.CacheTTL), logger)

		srv := qtdhttp.NewServer(answerer)
		srv.AllowedOrigins = cli.Serve.AllowedOrigins
		srv.Limiter = qtdhttp.NewKnowledgeBaseLimiter(cli.Serve.Rate, cli.Serve.Burst)
		srv.Logger = logger
		deps.Server = srv
	}

	return kongCtx.Run(deps)
}

// newGeminiAsker builds the answering backend for the serve command.
func newGeminiAsker(ctx context.Context, c ServeCmd, docs qtd.DocumentService, logger *slog.Logger) (qtd.QueryClient, error) {
	if c.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  c.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
	}

	asker := gemini.NewAsker(client, docs)
	asker.Model = c.Model
	asker.MaxDocuments = c.MaxSnippets

	counter, err := gemini.NewTokenCounter(tokenizerModel)
	if err != nil {
		logger.Warn("prompt budget disabled", "err", err)
	} else {
		asker.Counter = counter
	}
	return asker, nil
}

// tokenizerModel is the model whose tokenizer bounds prompt size. The local
// tokenizer does not know every serving model.
const tokenizerModel = "gemini-2.5-flash"

// newLogger returns the logger for cmd. The TUI owns the terminal, so it logs
// to --log-file or nowhere.
func newLogger(cli *CLI, cmd string, stderr io.Writer) (*slog.Logger, func(), error) {
	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}

	w, closeFn := stderr, func() {}
	if cli.LogFile != "" {
		f, err := os.OpenFile(cli.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		w, closeFn = f, func() { _ = f.Close() }
	} else if cmd == "tui" {
		w = io.Discard
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), closeFn, nil
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "qtd.db"
	}
	dir := filepath.Join(home, ".qtd")
	_ = os.MkdirAll(dir, 0o755)
	return filepath.Join(dir, "qtd.db")
}
