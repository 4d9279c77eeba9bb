package mcp

import (
	"context"
	"fmt"
	"strconv"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

type DatabaseInfoInput struct{}

type DatabaseInfoOutput struct {
	Backend   string `json:"backend"`
	Reachable bool   `json:"reachable"`
	Error     string `json:"error,omitempty"`
}

type RunSQLInput struct {
	Query  string `json:"query" jsonschema:"SQL statement to run"`
	Params []any  `json:"params,omitempty" jsonschema:"positional parameters, bound in order"`
}

type RunSQLOutput struct {
	Rows []map[string]any `json:"rows"`
}

func (s *Server) registerTools() {
	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "database_info",
		Description: "Report the resolved database backend and whether it is reachable",
	}, s.handleDatabaseInfo)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "run_sql",
		Description: "Run a SQL statement against the resolved database and return its rows",
	}, s.handleRunSQL)
}

func (s *Server) handleDatabaseInfo(ctx context.Context, req *sdk.CallToolRequest, input DatabaseInfoInput) (*sdk.CallToolResult, DatabaseInfoOutput, error) {
	out := DatabaseInfoOutput{Backend: string(s.db.Backend()), Reachable: true}
	if err := s.db.Ping(ctx); err != nil {
		out.Reachable = false
		out.Error = err.Error()
	}
	return nil, out, nil
}

func (s *Server) handleRunSQL(ctx context.Context, req *sdk.CallToolRequest, input RunSQLInput) (*sdk.CallToolResult, RunSQLOutput, error) {
	if input.Query == "" {
		return nil, RunSQLOutput{}, fmt.Errorf("query is required")
	}

	params := make(map[string]any, len(input.Params))
	for i, value := range input.Params {
		params[strconv.Itoa(i+1)] = value
	}

	rows, err := s.db.RunSQL(ctx, input.Query, params)
	if err != nil {
		return nil, RunSQLOutput{}, err
	}
	return nil, RunSQLOutput{Rows: rows}, nil
}
