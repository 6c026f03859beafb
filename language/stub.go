package language

// CommentStyle returns the line-comment delimiters for a language. The
// closing delimiter is empty except for markup languages.
func CommentStyle(lang string) (opener, closer string) {
	switch lang {
	case "Python", "Ruby", "Shell", "PowerShell", "Elixir", "Perl",
		"YAML", "TOML", "INI", "Env", "Makefile", "Dockerfile", "CMake",
		"Terraform", "R", "Properties", "Git Config":
		return "#", ""
	case "Lua", "Haskell", "SQL":
		return "--", ""
	case "HTML", "XML", "SVG", "Markdown", "Vue":
		return "<!--", " -->"
	case "LaTeX":
		return "%", ""
	case "Batch":
		return "REM", ""
	default:
		return "//", ""
	}
}

// declarationPrefixes lists the line prefixes that mark top-level
// declarations, per language. Lines are matched after left-trimming, so
// indented member declarations count too.
var declarationPrefixes = map[string][]string{
	"Go": {
		"package ", "func ", "type ", "var ", "const ", "import (",
	},
	"Python": {
		"def ", "async def ", "class ", "import ", "from ",
	},
	"JavaScript": {
		"function ", "async function ", "class ", "export ", "const ", "import ", "module.exports",
	},
	"TypeScript": {
		"function ", "async function ", "class ", "export ", "const ",
		"interface ", "type ", "enum ", "import ", "namespace ",
	},
	"Rust": {
		"fn ", "pub fn ", "pub(crate) fn ", "struct ", "pub struct ",
		"enum ", "pub enum ", "trait ", "pub trait ", "impl ", "mod ", "pub mod ", "use ",
	},
	"Java": {
		"package ", "import ", "public ", "private ", "protected ", "class ", "interface ", "enum ",
	},
	"Kotlin": {
		"package ", "import ", "fun ", "class ", "interface ", "object ", "data class ", "val ", "var ",
	},
	"C": {
		"#include", "#define", "typedef ", "struct ", "enum ", "static ", "extern ",
	},
	"C++": {
		"#include", "#define", "typedef ", "struct ", "class ", "enum ",
		"namespace ", "template", "using ",
	},
	"C#": {
		"using ", "namespace ", "public ", "private ", "internal ", "class ", "interface ",
	},
	"Ruby": {
		"def ", "class ", "module ", "require ",
	},
	"PHP": {
		"function ", "class ", "interface ", "trait ", "namespace ", "use ",
	},
	"Swift": {
		"func ", "class ", "struct ", "enum ", "protocol ", "extension ", "import ",
	},
	"Dart": {
		"class ", "void ", "import ", "abstract class ", "enum ", "extension ",
	},
	"Scala": {
		"package ", "import ", "def ", "class ", "object ", "trait ", "case class ",
	},
	"Elixir": {
		"def ", "defp ", "defmodule ", "defmacro ", "use ", "alias ",
	},
	"Shell": {
		"function ",
	},
}

// DeclarationPrefixes returns the declaration line prefixes for a language,
// or nil when the language has no table. Callers fall back to a header-only
// stub in that case.
func DeclarationPrefixes(lang string) []string {
	return declarationPrefixes[lang]
}
