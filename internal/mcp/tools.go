package mcp

import "github.com/mark3labs/mcp-go/mcp"

var findLocationTool = mcp.NewTool("find_location",
	mcp.WithDescription("Look up a campus location by name (case-insensitive). Returns its category, coordinates, description and opening hours."),
	mcp.WithString("name",
		mcp.Required(),
		mcp.Description("Location name, e.g. \"Library\""),
	),
)

var listCategoriesTool = mcp.NewTool("list_categories",
	mcp.WithDescription("List the distinct location categories of the campus directory."),
)

var locationsInCategoryTool = mcp.NewTool("locations_in_category",
	mcp.WithDescription("List every location in a category."),
	mcp.WithString("category",
		mcp.Required(),
		mcp.Description("Exact category name as returned by list_categories"),
	),
)
