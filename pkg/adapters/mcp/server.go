package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/algotrace"
	"github.com/aretw0/algotrace/internal/logging"
	"github.com/aretw0/algotrace/pkg/algorithms"
	"github.com/aretw0/algotrace/pkg/domain"
	"github.com/aretw0/algotrace/pkg/permalink"
	"github.com/aretw0/algotrace/pkg/playback"
)

// CatalogURI is the resource listing every algorithm.
const CatalogURI = "algotrace://algorithms"

// Engine defines what the MCP server needs from the algotrace core.
type Engine interface {
	Algorithms() []algorithms.Definition
	Build(ctx context.Context, algorithmID string, in domain.Input) (*domain.Run, error)
}

// RunSummary is the structured result of build_run.
type RunSummary struct {
	AlgorithmID string                  `json:"algorithmId" jsonschema_description:"The algorithm that was run"`
	Steps       int                     `json:"steps" jsonschema_description:"Number of recorded steps"`
	Kinds       map[domain.StepKind]int `json:"kinds" jsonschema_description:"Step count per operation kind"`
	Final       domain.VisualState      `json:"final" jsonschema_description:"Snapshot after the last step"`
	Permalink   string                  `json:"permalink" jsonschema_description:"Encoded state parameter reproducing this run"`
}

// Server wraps the algotrace Engine and exposes it as an MCP Server.
type Server struct {
	engine    Engine
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine, opts ...Option) *Server {
	s := &Server{
		engine:    engine,
		mcpServer: server.NewMCPServer("algotrace-mcp", strings.TrimSpace(algotrace.Version)),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer exposes the underlying server for custom transports.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the SSE transport on addr until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: list_algorithms
	s.mcpServer.AddTool(mcp.NewTool("list_algorithms",
		mcp.WithDescription("List the available algorithms with their default inputs."),
		mcp.WithString("category", mcp.Description("Only list this category (optional)")),
	), s.handleListAlgorithms)

	// TOOL: build_run
	s.mcpServer.AddTool(mcp.NewTool("build_run",
		mcp.WithDescription("Run an algorithm on an input and summarize the recorded trace."),
		mcp.WithString("algorithm_id", mcp.Required(), mcp.Description("Algorithm ID, see list_algorithms")),
		mcp.WithString("input", mcp.Description("JSON object with the input fields (optional, defaults apply)")),
		mcp.WithOutputSchema[RunSummary](),
	), mcp.NewStructuredToolHandler(s.handleBuildRun))

	// TOOL: get_step
	s.mcpServer.AddTool(mcp.NewTool("get_step",
		mcp.WithDescription("Get one step of a run with its snapshot and the variables accumulated up to it."),
		mcp.WithString("algorithm_id", mcp.Required(), mcp.Description("Algorithm ID")),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("Step index; -1 is the initial snapshot")),
		mcp.WithString("input", mcp.Description("JSON object with the input fields (optional)")),
		mcp.WithOutputSchema[playback.Emission](),
	), mcp.NewStructuredToolHandler(s.handleGetStep))

	// TOOL: encode_permalink
	s.mcpServer.AddTool(mcp.NewTool("encode_permalink",
		mcp.WithDescription("Encode an algorithm and input as a shareable state parameter."),
		mcp.WithString("algorithm_id", mcp.Required(), mcp.Description("Algorithm ID")),
		mcp.WithString("input", mcp.Description("JSON object with the input fields (optional)")),
	), s.handleEncodePermalink)

	// TOOL: decode_permalink
	s.mcpServer.AddTool(mcp.NewTool("decode_permalink",
		mcp.WithDescription("Decode a state parameter back into an algorithm and input."),
		mcp.WithString("state", mcp.Required(), mcp.Description("The encoded state parameter")),
	), s.handleDecodePermalink)
}

func (s *Server) handleListAlgorithms(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category, _ := request.GetArguments()["category"].(string)

	list := s.engine.Algorithms()
	if category != "" {
		filtered := list[:0:0]
		for _, d := range list {
			if strings.EqualFold(d.Category, category) {
				filtered = append(filtered, d)
			}
		}
		list = filtered
	}
	jsonBytes, err := json.Marshal(list)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleBuildRun(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (RunSummary, error) {
	id, _ := args["algorithm_id"].(string)
	in, err := parseInput(args)
	if err != nil {
		return RunSummary{}, err
	}

	run, err := s.engine.Build(ctx, id, in)
	if err != nil {
		return RunSummary{}, fmt.Errorf("build failed: %w", err)
	}

	kinds := make(map[domain.StepKind]int)
	for _, st := range run.Steps {
		kinds[st.Kind]++
	}
	return RunSummary{
		AlgorithmID: run.Algorithm,
		Steps:       run.Len(),
		Kinds:       kinds,
		Final:       run.Final(),
		Permalink:   permalink.Encode(id, in),
	}, nil
}

func (s *Server) handleGetStep(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (playback.Emission, error) {
	id, _ := args["algorithm_id"].(string)
	index, ok := args["index"].(float64)
	if !ok || index != float64(int(index)) {
		return playback.Emission{}, fmt.Errorf("index must be an integer")
	}
	in, err := parseInput(args)
	if err != nil {
		return playback.Emission{}, err
	}

	run, err := s.engine.Build(ctx, id, in)
	if err != nil {
		return playback.Emission{}, fmt.Errorf("build failed: %w", err)
	}
	target := int(index)
	if target < -1 || target >= run.Len() {
		return playback.Emission{}, fmt.Errorf("index %d out of range [-1, %d]", target, run.Len()-1)
	}

	p := playback.New(playback.WithLogger(s.logger))
	p.Load(run, nil)
	for i := -1; i < target; i++ {
		p.StepForward()
	}
	return p.Current(), nil
}

func (s *Server) handleEncodePermalink(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	id, _ := args["algorithm_id"].(string)
	if _, ok := algorithms.Lookup(id); !ok {
		return mcp.NewToolResultError(fmt.Sprintf("%v: %q", domain.ErrAlgorithmNotFound, id)), nil
	}
	in, err := parseInput(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(permalink.Encode(id, in)), nil
}

func (s *Server) handleDecodePermalink(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	state, _ := request.GetArguments()["state"].(string)
	p, err := permalink.Decode(state)
	if err != nil {
		s.logger.Warn("MCP decode_permalink: rejected", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	jsonBytes, _ := json.Marshal(p)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

// parseInput reads the optional "input" argument, given either as a JSON
// string or as an object.
func parseInput(args map[string]interface{}) (domain.Input, error) {
	var raw map[string]any
	switch v := args["input"].(type) {
	case nil:
		return domain.Input{}, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return domain.Input{}, nil
		}
		if err := json.Unmarshal([]byte(v), &raw); err != nil {
			return domain.Input{}, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
	case map[string]any:
		raw = v
	default:
		return domain.Input{}, fmt.Errorf("%w: input must be a JSON object", domain.ErrInvalidInput)
	}
	return domain.DecodeInput(raw)
}

func (s *Server) registerResources() {
	// EXPOSE: algotrace://algorithms
	s.mcpServer.AddResource(mcp.NewResource(CatalogURI, "Algorithm Catalog",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.engine.Algorithms())
		if err != nil {
			return nil, fmt.Errorf("failed to encode catalog: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      CatalogURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
