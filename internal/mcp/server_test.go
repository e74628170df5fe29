package mcp

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/campusmap/internal/directory"
)

func testDirectory() *directory.Directory {
	return directory.New([]directory.Location{
		{Name: "Library", Category: "Academic", Latitude: 27.80, Longitude: 75.03,
			Description: "Central library.", Timing: "9 AM - 8 PM",
			Phone: "01582-123456", Email: directory.EmailContact{Single: "library@modyuniversity.ac.in"}},
		{Name: "Lab Block", Category: "Academic", Latitude: 27.801, Longitude: 75.031},
		{Name: "Food Court", Category: "Food", Latitude: 27.7995, Longitude: 75.0351},
	})
}

// resultText concatenates all text content of a tool result.
func resultText(r *mcp.CallToolResult) string {
	var sb strings.Builder
	for _, c := range r.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			sb.WriteString(tc.Text)
		}
	}
	return sb.String()
}

func TestToolDefinitions(t *testing.T) {
	tests := []struct {
		name     string
		tool     mcp.Tool
		wantName string
	}{
		{"find_location", findLocationTool, "find_location"},
		{"list_categories", listCategoriesTool, "list_categories"},
		{"locations_in_category", locationsInCategoryTool, "locations_in_category"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.tool.Name != tt.wantName {
				t.Errorf("tool name = %q, want %q", tt.tool.Name, tt.wantName)
			}
			if tt.tool.Description == "" {
				t.Error("tool description should not be empty")
			}
		})
	}
}

func TestNewServer(t *testing.T) {
	dir := testDirectory()
	srv := NewServer(dir)
	if srv.mcp == nil {
		t.Fatal("MCP server not initialized")
	}
	if srv.dir != dir {
		t.Error("directory not set correctly")
	}
}

func TestHandleFindLocation(t *testing.T) {
	srv := NewServer(testDirectory())
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"name": "  library "}

		result, err := srv.handleFindLocation(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}
		text := resultText(result)
		if !strings.Contains(text, "Name: Library") || !strings.Contains(text, "Central library.") {
			t.Errorf("text = %q", text)
		}
		if strings.Contains(text, "01582") || strings.Contains(text, "@modyuniversity") {
			t.Errorf("contact details leaked: %q", text)
		}
	})

	t.Run("not found", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"name": "Gym"}

		result, err := srv.handleFindLocation(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError || !strings.Contains(resultText(result), "Gym") {
			t.Errorf("result = %+v", result)
		}
	})

	t.Run("missing name", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{}

		result, err := srv.handleFindLocation(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error for missing name")
		}
	})
}

func TestHandleListCategories(t *testing.T) {
	ctx := context.Background()

	result, err := NewServer(testDirectory()).handleListCategories(ctx, mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := resultText(result); got != "Academic\nFood" {
		t.Errorf("categories = %q", got)
	}

	result, _ = NewServer(directory.New(nil)).handleListCategories(ctx, mcp.CallToolRequest{})
	if result.IsError || !strings.Contains(resultText(result), "no categories") {
		t.Errorf("empty directory result = %q", resultText(result))
	}
}

func TestHandleLocationsInCategory(t *testing.T) {
	srv := NewServer(testDirectory())
	ctx := context.Background()

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{"category": "Academic"}
	result, err := srv.handleLocationsInCategory(ctx, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	text := resultText(result)
	if !strings.Contains(text, "Found 2 location(s)") || !strings.Contains(text, "Lab Block") {
		t.Errorf("text = %q", text)
	}

	req.Params.Arguments = map[string]any{"category": "academic"}
	result, _ = srv.handleLocationsInCategory(ctx, req)
	if !strings.Contains(resultText(result), "No locations") {
		t.Errorf("category match should be exact: %q", resultText(result))
	}

	req.Params.Arguments = map[string]any{}
	result, _ = srv.handleLocationsInCategory(ctx, req)
	if !result.IsError {
		t.Error("expected error for missing category")
	}
}
