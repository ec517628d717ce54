// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the cookbook catalog as tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/cookbook/internal/apperr"
	"github.com/starford/cookbook/internal/catalog"
)

const ingredientsURI = "cookbook://ingredients"

// Server wraps the MCP server with catalog tools.
type Server struct {
	mcp *server.MCPServer
	svc *catalog.Service
}

// New creates a new MCP server with all catalog tools registered.
func New(svc *catalog.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"CookBook",
		catalog.Version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_recipes",
		mcp.WithDescription("List all recipes, most viewed first. Ties are ordered by cooking time, quickest first."),
	), s.listRecipes)

	s.mcp.AddTool(mcp.NewTool("get_recipe",
		mcp.WithDescription("Get a recipe with its description and ingredients. Counts as one view."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Recipe ID")),
	), s.getRecipe)

	s.mcp.AddTool(mcp.NewTool("create_recipe",
		mcp.WithDescription("Create a recipe from existing ingredients. "+
			"Ingredients are never created implicitly; look up ids with list_ingredients first."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Dish name, at most 200 characters")),
		mcp.WithNumber("cooking_time", mcp.Required(), mcp.Description("Cooking time in minutes, greater than 0")),
		mcp.WithString("description", mcp.Required(), mcp.Description("Preparation steps")),
		mcp.WithArray("ingredient_ids", mcp.Required(),
			mcp.Description("IDs of existing ingredients"),
			mcp.Items(map[string]any{"type": "integer"})),
	), s.createRecipe)

	s.mcp.AddTool(mcp.NewTool("list_ingredients",
		mcp.WithDescription("List every ingredient with its id."),
	), s.listIngredients)

	s.mcp.AddResource(
		mcp.NewResource(ingredientsURI, "Ingredients",
			mcp.WithResourceDescription("All ingredients that recipes may reference."),
			mcp.WithMIMEType("application/json"),
		),
		s.readIngredientsResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) listRecipes(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	items, err := s.svc.ListRecipes(ctx)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(items), nil
}

func (s *Server) getRecipe(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireFloat("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if id <= 0 || id != float64(int64(id)) {
		return mcp.NewToolResultError("id must be a positive integer"), nil
	}
	r, err := s.svc.GetRecipe(ctx, int64(id))
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(r), nil
}

func (s *Server) createRecipe(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	cookingTime, err := req.RequireFloat("cooking_time")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	description, err := req.RequireString("description")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	ids, err := intSlice(req.GetArguments()["ingredient_ids"])
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	in := catalog.CreateRecipeInput{
		Title:         title,
		CookingTime:   int(cookingTime),
		Description:   description,
		IngredientIDs: ids,
	}
	if err := validateInput(in, cookingTime); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	r, err := s.svc.CreateRecipe(ctx, in)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(r), nil
}

func (s *Server) listIngredients(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	items, err := s.svc.ListIngredients(ctx)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(items), nil
}

func (s *Server) readIngredientsResource(ctx context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	items, err := s.svc.ListIngredients(ctx)
	if err != nil {
		return nil, err
	}
	out, _ := json.MarshalIndent(items, "", "  ")
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      ingredientsURI,
			MIMEType: "application/json",
			Text:     string(out),
		},
	}, nil
}

func jsonResult(v any) *mcp.CallToolResult {
	out, _ := json.MarshalIndent(v, "", "  ")
	return mcp.NewToolResultText(string(out))
}

// toolError reports domain errors verbatim and hides store failures.
func toolError(err error) *mcp.CallToolResult {
	if errors.Is(err, apperr.ErrNotFound) {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultError("internal error")
}

func intSlice(v any) ([]int64, error) {
	raw, ok := v.([]any)
	if !ok {
		if ints, ok := v.([]int); ok {
			out := make([]int64, len(ints))
			for i, n := range ints {
				out[i] = int64(n)
			}
			return out, nil
		}
		return nil, fmt.Errorf("ingredient_ids must be an array of integers")
	}
	out := make([]int64, 0, len(raw))
	for _, item := range raw {
		switch n := item.(type) {
		case float64:
			if n != float64(int64(n)) {
				return nil, fmt.Errorf("ingredient_ids must be an array of integers")
			}
			out = append(out, int64(n))
		case int:
			out = append(out, int64(n))
		case int64:
			out = append(out, n)
		default:
			return nil, fmt.Errorf("ingredient_ids must be an array of integers")
		}
	}
	return out, nil
}
