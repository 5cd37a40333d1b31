// Package mcp provides a Model Context Protocol server for Data Sorter.
//
// It exposes the extraction engine as an MCP tool and, when a history
// store is configured, run statistics and the most recent run as a tool
// and resource. Transport is stdio.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/iniakponode/data-sorter-app/internal/config"
	"github.com/iniakponode/data-sorter-app/internal/engine"
	"github.com/iniakponode/data-sorter-app/internal/store"
)

// ServerConfig holds configuration for the MCP server.
type ServerConfig struct {
	Store   store.Store // optional; history tools need it
	Version string
}

// dbMu serializes tool calls that touch the history database. The
// mcp-go library dispatches handlers concurrently via goroutines and
// SQLite supports only one writer at a time.
var dbMu sync.Mutex

// NewServer creates a configured MCP server with the Data Sorter tools
// and resources.
func NewServer(cfg ServerConfig) *server.MCPServer {
	ver := cfg.Version
	if ver == "" {
		ver = "dev"
	}

	s := server.NewMCPServer(
		"Data Sorter",
		ver,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(true, false),
	)

	registerExtractTool(s)
	if cfg.Store != nil {
		registerStatsTool(s, cfg.Store)
		registerRecentResource(s, cfg.Store)
	}
	return s
}

// ServeStdio runs the server over stdin/stdout until the client
// disconnects.
func ServeStdio(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

func registerExtractTool(s *server.MCPServer) {
	tool := mcp.NewTool("extract_records",
		mcp.WithDescription("Extract structured member records from noisy roster text. Returns column headers, rows, and rows grouped by organization name."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Raw roster text (pasted or extracted from a document)"),
		),
		mcp.WithString("columns",
			mcp.Description("Comma-separated output column names (default: S/N, CO-OP NAME, NAME, PHONE NO, BANK NAME, ACCT NO, SEX)"),
		),
		mcp.WithString("start_field",
			mcp.Description("Field name that starts a new record (default: NAME)"),
		),
		mcp.WithString("end_field",
			mcp.Description("Field name that ends a record (default: SEX)"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := req.RequireString("text")
		if err != nil {
			return mcp.NewToolResultError("text is required"), nil
		}

		cfg := engine.DefaultConfig()
		if cols, err := req.RequireString("columns"); err == nil && strings.TrimSpace(cols) != "" {
			cfg.Columns = config.SplitColumns(cols)
		}
		if v, err := req.RequireString("start_field"); err == nil && strings.TrimSpace(v) != "" {
			cfg.StartField = v
		}
		if v, err := req.RequireString("end_field"); err == nil && strings.TrimSpace(v) != "" {
			cfg.EndField = v
		}

		pipeline, err := engine.NewPipeline(cfg)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid configuration: %v", err)), nil
		}

		res := pipeline.Process(text)
		groups := engine.GroupRows(res.Rows, pipeline.GroupColumnIndex())

		type groupPayload struct {
			Name string     `json:"name"`
			Rows [][]string `json:"rows"`
		}
		out := make([]groupPayload, 0, len(groups))
		for _, g := range groups {
			out = append(out, groupPayload{Name: g.Name, Rows: g.Rows})
		}

		payload := map[string]interface{}{
			"headers":      res.Headers,
			"rows":         res.Rows,
			"groups":       out,
			"record_count": len(res.Rows),
		}
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("encoding result: %v", err)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	})
}

func registerStatsTool(s *server.MCPServer, st store.Store) {
	tool := mcp.NewTool("sorter_stats",
		mcp.WithDescription("Aggregate statistics over the extraction run history: run count, record count, distinct groups, last run time."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dbMu.Lock()
		defer dbMu.Unlock()

		stats, err := st.Stats(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("reading stats: %v", err)), nil
		}

		payload := map[string]interface{}{
			"run_count":    stats.RunCount,
			"record_count": stats.RecordCount,
			"group_count":  stats.GroupCount,
		}
		if !stats.LastRunAt.IsZero() {
			payload["last_run_at"] = stats.LastRunAt
		}
		data, _ := json.MarshalIndent(payload, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	})
}

func registerRecentResource(s *server.MCPServer, st store.Store) {
	resource := mcp.NewResource(
		"datasorter://recent",
		"Most Recent Run",
		mcp.WithResourceDescription("Summary and records of the most recent extraction run."),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(resource, func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		dbMu.Lock()
		defer dbMu.Unlock()

		runs, err := st.ListRuns(ctx, 1)
		if err != nil {
			return nil, fmt.Errorf("listing runs: %w", err)
		}

		payload := map[string]interface{}{"available": false}
		if len(runs) > 0 {
			run := runs[0]
			records, err := st.RunRecords(ctx, run.ID)
			if err != nil {
				return nil, fmt.Errorf("reading run %d records: %w", run.ID, err)
			}
			payload = map[string]interface{}{
				"available":    true,
				"run_id":       run.ID,
				"input_name":   run.InputName,
				"record_count": run.RecordCount,
				"group_count":  run.GroupCount,
				"created_at":   run.CreatedAt,
				"records":      records,
			}
		}

		data, _ := json.MarshalIndent(payload, "", "  ")
		return []mcp.ResourceContents{
			mcp.TextResourceContents{URI: req.Params.URI, MIMEType: "application/json", Text: string(data)},
		}, nil
	})
}
