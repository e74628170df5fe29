package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/campusmap/internal/directory"
)

// handleFindLocation returns one location without its contact details.
func (s *Server) handleFindLocation(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil || strings.TrimSpace(name) == "" {
		return mcp.NewToolResultError("missing required parameter: name"), nil
	}

	loc, ok := s.dir.FindByName(name)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("Could not find the location: %s", strings.TrimSpace(name))), nil
	}
	return mcp.NewToolResultText(formatLocation(loc.Public())), nil
}

func (s *Server) handleListCategories(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cats := s.dir.ListCategories()
	if len(cats) == 0 {
		return mcp.NewToolResultText("The directory has no categories."), nil
	}
	return mcp.NewToolResultText(strings.Join(cats, "\n")), nil
}

func (s *Server) handleLocationsInCategory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category, err := request.RequireString("category")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: category"), nil
	}

	locs := s.dir.FilterByCategory(category)
	if len(locs) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No locations in category %q.", category)), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d location(s) in %s:\n", len(locs), category))
	for i, l := range locs {
		sb.WriteString(fmt.Sprintf("\n--- %d ---\n", i+1))
		sb.WriteString(formatLocation(l.Public()))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func formatLocation(l directory.PublicLocation) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name: %s\n", l.Name))
	sb.WriteString(fmt.Sprintf("Category: %s\n", l.Category))
	sb.WriteString(fmt.Sprintf("Coordinates: %.6f, %.6f\n", l.Latitude, l.Longitude))
	if l.Timing != "" {
		sb.WriteString(fmt.Sprintf("Timing: %s\n", l.Timing))
	}
	if l.ImageURL != "" {
		sb.WriteString(fmt.Sprintf("Image: %s\n", l.ImageURL))
	}
	if l.Description != "" {
		sb.WriteString("\n")
		sb.WriteString(l.Description)
		sb.WriteString("\n")
	}
	return sb.String()
}
