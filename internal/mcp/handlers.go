package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/isncsci-mcp-server/internal/domain"
)

// ListLevelsParams defines parameters for the list_levels tool. It takes none.
type ListLevelsParams struct{}

// ListLevelsResult defines the result structure for the list_levels tool
type ListLevelsResult struct {
	Levels []domain.LevelInfo `json:"levels"`
}

// handleClassifyExam handles the classify_exam tool invocation
func (s *Server) handleClassifyExam(ctx context.Context, _ *mcp.CallToolRequest, params domain.ExamRequest) (*mcp.CallToolResult, any, error) {
	s.logger.WithField("tool", toolClassifyExam).Info("Tool invoked")

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.classifier.Classify(ctx, &params)
	if err != nil {
		return s.createErrorResult(err), nil, nil
	}

	headline := fmt.Sprintf("ASIA Impairment Scale %s, neurological level of injury %s",
		resp.Summary.AsiaImpairmentScale, resp.Summary.NeurologicalLevelOfInjury)

	result, err := jsonResult(headline, resp)
	if err != nil {
		return s.createErrorResult(err), nil, nil
	}
	return result, resp, nil
}

// handleSummarizeExam handles the summarize_exam tool invocation
func (s *Server) handleSummarizeExam(ctx context.Context, _ *mcp.CallToolRequest, params domain.ExamRequest) (*mcp.CallToolResult, any, error) {
	s.logger.WithField("tool", toolSummarizeExam).Info("Tool invoked")

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	summary, err := s.classifier.Summarize(ctx, &params)
	if err != nil {
		return s.createErrorResult(err), nil, nil
	}

	result, err := jsonResult(fmt.Sprintf("ASIA Impairment Scale %s", summary.AsiaImpairmentScale), summary)
	if err != nil {
		return s.createErrorResult(err), nil, nil
	}
	return result, summary, nil
}

// handleListLevels handles the list_levels tool invocation
func (s *Server) handleListLevels(_ context.Context, _ *mcp.CallToolRequest, _ ListLevelsParams) (*mcp.CallToolResult, any, error) {
	levels := ListLevelsResult{Levels: domain.ChainLevels()}

	result, err := jsonResult(fmt.Sprintf("%d levels from C1 to S4_5", len(levels.Levels)), levels)
	if err != nil {
		return s.createErrorResult(err), nil, nil
	}
	return result, levels, nil
}

func (s *Server) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.config.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.config.RequestTimeout)
}

// jsonResult renders a headline followed by the value as indented JSON
func jsonResult(headline string, v any) (*mcp.CallToolResult, error) {
	body, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode tool result: %w", err)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: headline},
			&mcp.TextContent{Text: string(body)},
		},
	}, nil
}

// createErrorResult reports a failed call as a tool error carrying an
// MCPError, so the client sees the code rather than a protocol failure
func (s *Server) createErrorResult(err error) *mcp.CallToolResult {
	code := domain.ErrorCode(err)
	s.logger.WithError(err).WithField("code", code).Warn("Tool call failed")

	mcpErr := domain.NewMCPError(code, err.Error(), "", "")
	body, marshalErr := json.Marshal(mcpErr)
	if marshalErr != nil {
		body = []byte(mcpErr.Error())
	}

	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: string(body)}},
	}
}
