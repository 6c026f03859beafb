// Package language maps file paths to language names, detects binary
// content, and carries the per-language tables used for structural stubs.
package language

import (
	"path"
	"strings"
)

// extensionLanguages maps lowercase file extensions (without dot) to
// language names.
var extensionLanguages = map[string]string{
	"go": "Go",

	"js": "JavaScript", "jsx": "JavaScript", "mjs": "JavaScript", "cjs": "JavaScript",
	"ts": "TypeScript", "tsx": "TypeScript", "mts": "TypeScript", "cts": "TypeScript",
	"vue": "Vue", "svelte": "Svelte",

	"py": "Python", "pyi": "Python", "pyw": "Python",
	"rb": "Ruby", "erb": "Ruby",
	"php": "PHP",
	"lua": "Lua",
	"r":  "R", "rmd": "R",

	"rs":  "Rust",
	"c":   "C", "h": "C",
	"cpp": "C++", "cc": "C++", "cxx": "C++", "hpp": "C++", "hxx": "C++",
	"zig": "Zig",

	"java":  "Java",
	"kt":    "Kotlin", "kts": "Kotlin",
	"scala": "Scala",
	"cs":    "C#", "csx": "C#",
	"swift": "Swift",
	"dart":  "Dart",

	"ex": "Elixir", "exs": "Elixir",
	"erl": "Erlang", "hrl": "Erlang",
	"hs":  "Haskell",

	"sh": "Shell", "bash": "Shell", "zsh": "Shell", "fish": "Shell",
	"ps1": "PowerShell", "psm1": "PowerShell", "psd1": "PowerShell",
	"bat": "Batch", "cmd": "Batch",

	"html": "HTML", "htm": "HTML",
	"css":  "CSS", "scss": "SCSS", "sass": "Sass", "less": "Less",
	"svg":  "SVG",

	"json": "JSON", "jsonc": "JSON",
	"yaml": "YAML", "yml": "YAML",
	"toml": "TOML",
	"xml":  "XML", "xsl": "XML", "xslt": "XML",
	"ini":  "INI",
	"env":  "Env",
	"properties": "Properties",

	"md": "Markdown", "mdx": "Markdown",
	"rst": "reStructuredText",
	"tex": "LaTeX",
	"txt": "Text",
	"csv": "CSV",

	"sql":     "SQL",
	"graphql": "GraphQL", "gql": "GraphQL",
	"proto":   "Protobuf",
	"tf":      "Terraform", "tfvars": "Terraform",
	"cmake":   "CMake",
	"gradle":  "Gradle",
	"makefile": "Makefile",
	"dockerfile": "Dockerfile",
}

// filenameLanguages maps exact lowercase basenames to language names,
// covering files that carry no usable extension.
var filenameLanguages = map[string]string{
	"makefile":       "Makefile",
	"gnumakefile":    "Makefile",
	"dockerfile":     "Dockerfile",
	"cmakelists.txt": "CMake",
	"gemfile":        "Ruby",
	"rakefile":       "Ruby",
	"go.mod":         "Go Module",
	"go.sum":         "Go Module",
	".gitignore":     "Git Config",
	".gitattributes": "Git Config",
	".env":           "Env",
	".env.local":     "Env",
	".env.example":   "Env",
}

// Detect returns the language name for a file path based on its basename or
// extension, or "Unknown" when unrecognized. Paths use forward slashes.
func Detect(filePath string) string {
	base := strings.ToLower(path.Base(filePath))
	if lang, ok := filenameLanguages[base]; ok {
		return lang
	}

	ext := strings.TrimPrefix(path.Ext(base), ".")
	if ext == "" {
		return "Unknown"
	}
	if lang, ok := extensionLanguages[ext]; ok {
		return lang
	}
	return "Unknown"
}
