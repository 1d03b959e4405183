package extensions

import "strings"

// ParamShape selects how tool input is translated into wire params.
type ParamShape int

const (
	// ShapeDocument sends {textDocument:{uri}}.
	ShapeDocument ParamShape = iota
	// ShapePosition sends {textDocument:{uri}, position:{line,character}}.
	ShapePosition
	// ShapeRaw forwards the validated tool input verbatim.
	ShapeRaw
)

// Extension describes one non-standard LSP method surfaced as an MCP tool.
type Extension struct {
	ToolName    string
	Method      string
	Description string
	Shape       ParamShape
}

// registration binds a command-line substring to the extensions its server
// speaks. Compile-time data.
type registration struct {
	commandMatch string
	extensions   []Extension
}

var registry = []registration{
	{
		commandMatch: "ruby-lsp",
		extensions: []Extension{
			{
				ToolName:    "ruby_discover_tests",
				Method:      "rubyLsp/discoverTests",
				Description: "Discover tests declared in a Ruby file",
				Shape:       ShapeDocument,
			},
			{
				ToolName:    "ruby_show_syntax_tree",
				Method:      "rubyLsp/showSyntaxTree",
				Description: "Show the Prism syntax tree for a Ruby file",
				Shape:       ShapeDocument,
			},
		},
	},
	{
		commandMatch: "clangd",
		extensions: []Extension{
			{
				ToolName:    "clangd_switch_source_header",
				Method:      "textDocument/switchSourceHeader",
				Description: "Jump between a C/C++ source file and its header",
				Shape:       ShapeDocument,
			},
		},
	},
	{
		commandMatch: "rust-analyzer",
		extensions: []Extension{
			{
				ToolName:    "rust_analyzer_expand_macro",
				Method:      "rust-analyzer/expandMacro",
				Description: "Expand the macro at a position",
				Shape:       ShapePosition,
			},
			{
				ToolName:    "rust_analyzer_view_syntax_tree",
				Method:      "rust-analyzer/viewSyntaxTree",
				Description: "View the syntax tree for a Rust file",
				Shape:       ShapeDocument,
			},
		},
	},
	{
		commandMatch: "typescript-language-server",
		extensions: []Extension{
			{
				ToolName:    "typescript_go_to_source_definition",
				Method:      "_typescript.goToSourceDefinition",
				Description: "Go to the implementation source rather than the declaration file",
				Shape:       ShapePosition,
			},
		},
	},
}

// ForCommand returns the extensions registered for a server command line.
// A registration applies when its substring occurs in any argv element.
func ForCommand(command []string) []Extension {
	var result []Extension

	for _, reg := range registry {
		if commandMatches(command, reg.commandMatch) {
			result = append(result, reg.extensions...)
		}
	}

	return result
}

func commandMatches(command []string, match string) bool {
	for _, arg := range command {
		if strings.Contains(arg, match) {
			return true
		}
	}
	return false
}
