package lsp

import (
	"path/filepath"
	"strings"
)

// languageIDs maps file extensions to LSP language identifiers. Static
// data; peers that care about other extensions still receive "plaintext".
var languageIDs = map[string]string{
	".bash":  "shellscript",
	".c":     "c",
	".cc":    "cpp",
	".cjs":   "javascript",
	".clj":   "clojure",
	".cpp":   "cpp",
	".cs":    "csharp",
	".css":   "css",
	".cxx":   "cpp",
	".dart":  "dart",
	".elm":   "elm",
	".erl":   "erlang",
	".ex":    "elixir",
	".exs":   "elixir",
	".fs":    "fsharp",
	".go":    "go",
	".h":     "c",
	".hpp":   "cpp",
	".hs":    "haskell",
	".html":  "html",
	".java":  "java",
	".jl":    "julia",
	".js":    "javascript",
	".json":  "json",
	".jsx":   "javascriptreact",
	".kt":    "kotlin",
	".lua":   "lua",
	".md":    "markdown",
	".mjs":   "javascript",
	".ml":    "ocaml",
	".php":   "php",
	".pl":    "perl",
	".py":    "python",
	".r":     "r",
	".rb":    "ruby",
	".rs":    "rust",
	".scala": "scala",
	".scss":  "scss",
	".sh":    "shellscript",
	".sql":   "sql",
	".swift": "swift",
	".tf":    "terraform",
	".toml":  "toml",
	".ts":    "typescript",
	".tsx":   "typescriptreact",
	".vue":   "vue",
	".xml":   "xml",
	".yaml":  "yaml",
	".yml":   "yaml",
	".zig":   "zig",
}

// LanguageIDForPath infers the LSP language identifier for a file path,
// falling back to "plaintext" for unknown extensions.
func LanguageIDForPath(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if id, ok := languageIDs[ext]; ok {
		return id
	}
	return "plaintext"
}
