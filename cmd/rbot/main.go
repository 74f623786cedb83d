// Package main is the RBOT CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/OuhabYouceff/RBOT/internal/chat"
	"github.com/OuhabYouceff/RBOT/internal/cli"
	"github.com/OuhabYouceff/RBOT/internal/config"
	"github.com/OuhabYouceff/RBOT/internal/forms"
	"github.com/OuhabYouceff/RBOT/internal/keyword"
	"github.com/OuhabYouceff/RBOT/internal/llm"
	"github.com/OuhabYouceff/RBOT/internal/loader"
	"github.com/OuhabYouceff/RBOT/internal/models"
	"github.com/OuhabYouceff/RBOT/internal/search"
	"github.com/OuhabYouceff/RBOT/internal/semantic"
	"github.com/OuhabYouceff/RBOT/internal/server"
	"github.com/OuhabYouceff/RBOT/internal/storage"
	"github.com/OuhabYouceff/RBOT/internal/textproc"
	"github.com/OuhabYouceff/RBOT/internal/watcher"
	"github.com/OuhabYouceff/RBOT/pkg/utils"
	"go.uber.org/zap"
)

var version = "dev"

const (
	defaultConfigPath = "/usr/local/etc/rbot/config.yaml"
	defaultServerURL  = "http://localhost:5001"
)

// loadConfig loads config from path. When path is the default, it first looks for
// config.yaml in the current directory (for development); if that exists it is used,
// so that "rbot server" from the project dir uses the project's config.
// Returns the config and the path that was actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "index":
		runIndex()
	case "search":
		runSearch()
	case "chat":
		runChat()
	case "status":
		runStatus()
	case "forms":
		runForms()
	case "version", "--version", "-v":
		fmt.Printf("rbot version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	// Rebuilds may come from the watcher and the rebuild endpoint at once;
	// serialize them.
	var rebuildMu sync.Mutex
	rebuild := func(ctx context.Context) error {
		rebuildMu.Lock()
		defer rebuildMu.Unlock()
		return rebuildIndexes(ctx, cfg, components, logger)
	}

	// Build indexes at startup when no snapshot was restored.
	if !components.Keyword.Stats().FrenchIndexBuilt && len(cfg.Storage.DataPaths) > 0 {
		if err := rebuild(context.Background()); err != nil {
			logger.Warn("initial index build failed", zap.Error(err))
		}
	}

	var watchSvc *watcher.Watcher
	if cfg.Watch.Enabled && len(cfg.Storage.DataPaths) > 0 {
		watchSvc = watcher.New(cfg.Storage.DataPaths, func() {
			if err := rebuild(context.Background()); err != nil {
				logger.Warn("watch rebuild failed", zap.Error(err))
			}
		}, logger)
		if err := watchSvc.Start(context.Background()); err != nil {
			logger.Fatal("Failed to start watcher", zap.Error(err))
		}
		defer watchSvc.Stop()
	}

	srv := server.NewServer(
		components.Pipeline,
		components.Engine,
		components.Keyword,
		components.Semantic,
		components.Store,
		rebuild,
		cfg,
		logger,
	)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

func runIndex() {
	fs := flag.NewFlagSet("index", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])

	cfg, logger, components := mustInitialize(*configPath)
	defer logger.Sync()
	defer components.Close()

	if err := rebuildIndexes(context.Background(), cfg, components, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Index build failed: %v\n", err)
		os.Exit(1)
	}
	stats := components.Keyword.Stats()
	fmt.Printf("Indexed %d document(s) (%d French, %d Arabic)\n",
		stats.TotalDocuments, stats.FrenchDocuments, stats.ArabicDocuments)
}

// buildQuery joins all positional args with spaces so multi-word queries
// work the same with or without shell quoting.
func buildQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// argsReorder moves any flags (and their values) that appear after the query
// to the front of the slice so that flag.Parse() sees them. Go's flag package
// stops at the first non-flag argument.
func argsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

func runSearch() {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", defaultServerURL, "server URL (empty = use direct storage when server is not running)")
	topK := fs.Int("top-k", 0, "number of results (0 = config default)")
	lang := fs.String("lang", "", "query language: fr or ar (empty = auto-detect)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(argsReorder(os.Args[2:]))

	queryStr := buildQuery(fs.Args())
	if queryStr == "" {
		fmt.Println("Usage: rbot search [flags] <query>")
		os.Exit(1)
	}
	format, err := cli.ParseFormat(*outputFormat)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	if *serverURL != "" {
		req := models.SearchRequest{Query: queryStr, TopK: *topK, Language: *lang}
		response, err := searchViaHTTP(*serverURL, req)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
			os.Exit(1)
		}
		if err := cli.WriteSearchResults(os.Stdout, response, format); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	cfg, logger, components := mustInitialize(*configPath)
	defer logger.Sync()
	defer components.Close()

	k := *topK
	if k <= 0 {
		k = cfg.Retrieval.TopK
	}
	start := time.Now()
	results, err := components.Engine.Search(context.Background(), queryStr, k, *lang)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
		os.Exit(1)
	}
	response := &models.SearchResponse{
		Results:   results,
		Total:     len(results),
		Language:  *lang,
		QueryTime: time.Since(start).Milliseconds(),
		Query:     queryStr,
	}
	if response.Language == "" && len(results) > 0 {
		response.Language = results[0].Document.Language
	}
	if err := cli.WriteSearchResults(os.Stdout, response, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func searchViaHTTP(serverURL string, query models.SearchRequest) (*models.SearchResponse, error) {
	body, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}
	resp, err := http.Post(serverURL+"/api/v1/search", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var response models.SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &response, nil
}

func runChat() {
	fs := flag.NewFlagSet("chat", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", defaultServerURL, "server URL (empty = run the pipeline locally)")
	lang := fs.String("lang", "", "message language: fr or ar (empty = auto-detect)")
	conversationID := fs.String("conversation", "", "conversation ID to continue")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(argsReorder(os.Args[2:]))

	message := buildQuery(fs.Args())
	if message == "" {
		fmt.Println("Usage: rbot chat [flags] <message>")
		os.Exit(1)
	}
	format, err := cli.ParseFormat(*outputFormat)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	req := models.ChatRequest{
		Message:        message,
		Language:       *lang,
		ConversationID: *conversationID,
	}

	if *serverURL != "" {
		response, err := chatViaHTTP(*serverURL, req)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Chat failed: %v\n", err)
			os.Exit(1)
		}
		if err := cli.WriteChatResponse(os.Stdout, response, format); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	_, logger, components := mustInitialize(*configPath)
	defer logger.Sync()
	defer components.Close()

	response, err := components.Pipeline.Process(context.Background(), req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Chat failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteChatResponse(os.Stdout, response, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func chatViaHTTP(serverURL string, req models.ChatRequest) (*models.ChatResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	resp, err := http.Post(serverURL+"/api/v1/chat", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var response models.ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &response, nil
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", defaultServerURL, "server URL (empty = use direct storage)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	var status map[string]interface{}
	if *serverURL != "" {
		res, err := statusViaHTTP(*serverURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
			os.Exit(1)
		}
		status = res
	} else {
		_, logger, components := mustInitialize(*configPath)
		defer logger.Sync()
		defer components.Close()

		docCount, err := components.Store.CountDocuments(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Count documents failed: %v\n", err)
			os.Exit(1)
		}
		engineStats := components.Engine.Stats()
		status = map[string]interface{}{
			"documents":     docCount,
			"keyword_index": engineStats.Keyword,
			"weights": map[string]float64{
				"keyword":  engineStats.KeywordWeight,
				"semantic": engineStats.SemanticWeight,
			},
		}
		if engineStats.Semantic != nil {
			status["semantic_index"] = engineStats.Semantic
		}
	}

	switch *outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(status); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	case "text":
		b, err := json.MarshalIndent(status, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(b))
	default:
		fmt.Fprintf(os.Stderr, "Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}
}

func statusViaHTTP(serverURL string) (map[string]interface{}, error) {
	resp, err := http.Get(serverURL + "/api/v1/status")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var s map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return s, nil
}

func runForms() {
	fs := flag.NewFlagSet("forms", flag.ExitOnError)
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	format, err := cli.ParseFormat(*outputFormat)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := cli.WriteForms(os.Stdout, forms.All(), format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

// Components holds initialized services.
type Components struct {
	Store    storage.DocumentStore
	Keyword  *keyword.Index
	Semantic *semantic.Retriever
	Engine   *search.Engine
	Client   llm.Client
	Forms    *forms.Service
	Pipeline *chat.Pipeline
}

func (c *Components) Close() {
	if c.Store != nil {
		_ = c.Store.Close()
	}
}

func mustInitialize(configPath string) (*config.Config, *zap.Logger, *Components) {
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	components, err := initializeComponents(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	return cfg, logger, components
}

func initializeComponents(cfg *config.Config, logger *zap.Logger) (*Components, error) {
	processor := textproc.New(cfg.Language.Supported, cfg.Language.Default)

	kw, err := keyword.NewIndex(processor, cfg.Storage.SnapshotPath, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize keyword index: %w", err)
	}
	if kw.Load() {
		logger.Info("keyword index restored from snapshot",
			zap.String("path", cfg.Storage.SnapshotPath))
	}

	store, err := storage.NewSQLiteStore(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	var embedder semantic.Embedder
	apiKey := cfg.LLM.APIKey()
	if apiKey != "" {
		openaiEmbedder, err := semantic.NewOpenAIEmbedder(cfg.LLM.Host, apiKey, cfg.LLM.EmbeddingModel, cfg.LLM.Dimensions)
		if err != nil {
			logger.Warn("embedding client unavailable, using mock embedder", zap.Error(err))
			embedder = semantic.NewMockEmbedder(cfg.LLM.Dimensions)
		} else {
			embedder = semantic.NewCachedEmbedder(openaiEmbedder, 1024)
		}
	} else {
		logger.Info("no API key configured, using mock embedder")
		embedder = semantic.NewMockEmbedder(cfg.LLM.Dimensions)
	}
	sem, err := semantic.NewRetriever(embedder, cfg.Storage.VectorIndexPath, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize semantic retriever: %w", err)
	}
	if sem.Load() {
		logger.Info("vector index restored",
			zap.String("path", cfg.Storage.VectorIndexPath))
	}

	engine, err := search.NewEngine(kw, sem, store,
		cfg.Retrieval.KeywordWeight, cfg.Retrieval.SemanticWeight, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize search engine: %w", err)
	}

	client, err := llm.NewOpenAIClient(cfg.LLM.Host, apiKey, cfg.LLM.Model, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize chat model client: %w", err)
	}
	formsSvc := forms.NewService(client, logger)

	pipeline, err := chat.NewPipeline(client, engine, formsSvc, processor, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize chat pipeline: %w", err)
	}

	return &Components{
		Store:    store,
		Keyword:  kw,
		Semantic: sem,
		Engine:   engine,
		Client:   client,
		Forms:    formsSvc,
		Pipeline: pipeline,
	}, nil
}

// rebuildIndexes reloads the JSON corpus and rebuilds the keyword index, the
// vector index, and the document store.
func rebuildIndexes(ctx context.Context, cfg *config.Config, components *Components, logger *zap.Logger) error {
	texts, docs, err := loader.New(cfg.Storage.DataPaths, logger).Load()
	if err != nil {
		return fmt.Errorf("load corpus: %w", err)
	}
	stats, err := components.Keyword.Build(texts, docs)
	if err != nil {
		return fmt.Errorf("build keyword index: %w", err)
	}
	logger.Info("keyword index built",
		zap.Int("french", stats.FrenchIndexed),
		zap.Int("arabic", stats.ArabicIndexed),
		zap.Int("dropped_empty", stats.DroppedEmpty),
		zap.Int("dropped_language", stats.DroppedLanguage),
	)
	if components.Semantic != nil {
		if err := components.Semantic.Build(ctx, texts, docs); err != nil {
			logger.Warn("vector index build failed, continuing keyword-only", zap.Error(err))
		}
	}
	if err := components.Store.ReplaceAll(ctx, docs); err != nil {
		return fmt.Errorf("store documents: %w", err)
	}
	return nil
}

func printUsage() {
	fmt.Println(`rbot - Bilingual RNE business-registration assistant

Usage:
  rbot server [flags]             Start the HTTP server
  rbot chat [flags] <message>     Ask the assistant a question
  rbot search [flags] <query>     Search the registry corpus
  rbot index [flags]              Rebuild indexes from the data files
  rbot status [flags]             Show index and storage status
  rbot forms [flags]              List the official RNE forms
  rbot version                    Show version
  rbot help                       Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/rbot/config.yaml)
  --debug            Enable debug logging

Chat Flags:
  --config string        Config file path (for local mode)
  --server string        Server URL (default: http://localhost:5001). Use empty (--server "") to run the pipeline locally.
  --lang string          Message language: fr or ar (default: auto-detect)
  --conversation string  Conversation ID to continue
  --output string        Output format: text or json (default: text)

Search Flags:
  --config string    Config file path (for direct storage mode)
  --server string    Server URL (default: http://localhost:5001). Use empty (--server "") for direct storage.
  --top-k int        Number of results (default from config)
  --lang string      Query language: fr or ar (default: auto-detect)
  --output string    Output format: text or json (default: text)

Examples:
  rbot server
  rbot chat "Quel est le capital minimum d'une SARL ?"
  rbot chat --lang ar "ما هي وثائق تسجيل شركة؟"
  rbot search capital minimum sarl
  rbot search --output json "immatriculation personne morale"
  rbot index
  rbot status --output json
  rbot forms`)
}
