package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/pinnacledb/qtd"
	qtdhttp "github.com/pinnacledb/qtd/http"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	// Bound on each backend call made by tui and ask.
	Timeout time.Duration

	Client    qtd.QueryClient
	Documents qtd.DocumentService
	Loader    qtd.DocumentLoader
	Server    *qtdhttp.Server
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose    bool          `short:"v" help:"Enable debug logging"`
	LogFile    string        `name:"log-file" env:"QTD_LOG_FILE" help:"Write logs to this file"`
	BackendURL string        `name:"backend-url" env:"QTD_BACKEND_URL" default:"http://localhost:8000" help:"Question-answering backend"`
	Timeout    time.Duration `env:"QTD_TIMEOUT" default:"30s" help:"Maximum time to wait for an answer"`
	DB         string        `name:"db" env:"QTD_DB" default:"${default_db}" help:"SQLite database path"`

	TUI    TUICmd    `cmd:"" name:"tui" default:"1" help:"Open the interactive terminal app"`
	Ask    AskCmd    `cmd:"" help:"Ask a single question and print the answer"`
	KBs    KBsCmd    `cmd:"" name:"kbs" help:"List the knowledge bases"`
	Serve  ServeCmd  `cmd:"" help:"Run the question-answering backend"`
	Ingest IngestCmd `cmd:"" help:"Load markdown and HTML docs from a directory into a knowledge base"`
	Docs   DocsCmd   `cmd:"" help:"List stored documents of a knowledge base"`
	Purge  PurgeCmd  `cmd:"" help:"Delete stored documents of a knowledge base"`
}

// TUICmd is the "tui" subcommand.
type TUICmd struct {
	KnowledgeBase string `name:"kb" help:"Preselect a knowledge base"`
}

// AskCmd is the "ask" subcommand.
type AskCmd struct {
	KnowledgeBase string `arg:"" name:"kb" help:"Knowledge base (pinnacledb, langchain, fastchat)"`
	Question      string `arg:"" help:"Question to ask about the documentation"`
}

// KBsCmd is the "kbs" subcommand.
type KBsCmd struct{}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr           string        `env:"QTD_ADDR" default:"localhost:8000" help:"Listen address"`
	AllowedOrigins []string      `name:"allowed-origins" env:"QTD_ALLOWED_ORIGINS" sep:"," default:"http://localhost:3000" help:"CORS origins allowed to call the backend (* for any)"`
	CacheTTL       time.Duration `name:"cache-ttl" env:"QTD_CACHE_TTL" default:"10m" help:"How long answers are cached"`
	Rate           float64       `env:"QTD_RATE" default:"2" help:"Questions per second allowed per knowledge base (0 disables)"`
	Burst          int           `default:"5" help:"Burst of questions allowed per knowledge base"`
	APIKey         string        `name:"api-key" env:"GEMINI_API_KEY" help:"Gemini API key"`
	Model          string        `env:"QTD_MODEL" default:"gemini-2.5-flash" help:"Gemini model answering questions"`
	MaxSnippets    int           `name:"max-snippets" default:"8" help:"Snippets given to the model per question"`
	Seed           []string      `name:"seed" placeholder:"KB=DIR" help:"Ingest DIR into KB at startup when KB has no documents (repeatable)"`
}

// IngestCmd is the "ingest" subcommand.
type IngestCmd struct {
	KnowledgeBase string `arg:"" name:"kb" help:"Knowledge base"`
	Dir           string `arg:"" type:"existingdir" help:"Directory with markdown or HTML documentation"`
	Replace       bool   `short:"r" help:"Delete existing documents of the knowledge base first"`
}

// DocsCmd is the "docs" subcommand.
type DocsCmd struct {
	KnowledgeBase string `arg:"" name:"kb" help:"Knowledge base"`
	ID            string `name:"id" help:"Print the full document with this ID"`
	Limit         int    `short:"n" default:"50" help:"Maximum documents to list (0 for all)"`
}

// PurgeCmd is the "purge" subcommand.
type PurgeCmd struct {
	KnowledgeBase string `arg:"" name:"kb" help:"Knowledge base"`
	Force         bool   `help:"Confirm deletion"`
}
