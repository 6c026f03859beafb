package ignore

// DefaultIgnoreDirs are directory names skipped during traversal regardless
// of ignore files. Matched against any path component, case-insensitively.
var DefaultIgnoreDirs = []string{
	".git", ".svn", ".hg",
	"node_modules", "bower_components", "vendor",
	".npm", ".yarn", ".venv", "venv", "__pycache__",
	".idea", ".vscode", ".vs",
	"dist", "build", "out", "target", "obj",
	".next", ".nuxt", ".cache", ".parcel-cache",
	"coverage", ".nyc_output", "htmlcov",
}

// DefaultIgnoreGlobs are basename patterns excluded from indexing: compiled
// artifacts, archives, media, lock files, and other content that is never
// useful for code search.
var DefaultIgnoreGlobs = []string{
	// Compiled and linked output
	"*.exe", "*.dll", "*.so", "*.dylib",
	"*.o", "*.a", "*.lib", "*.class", "*.jar", "*.war",
	"*.pyc", "*.pyo",

	// Archives
	"*.zip", "*.tar", "*.tar.gz", "*.tgz", "*.rar", "*.7z",

	// Images, fonts, media
	"*.png", "*.jpg", "*.jpeg", "*.gif", "*.bmp", "*.ico", "*.webp", "*.tiff",
	"*.woff", "*.woff2", "*.ttf", "*.eot", "*.otf",
	"*.mp3", "*.mp4", "*.avi", "*.mov", "*.wav", "*.flac",

	// Documents
	"*.pdf", "*.doc", "*.docx", "*.xls", "*.xlsx", "*.ppt", "*.pptx",

	// Generated web assets
	"*.min.js", "*.min.css", "*.map",

	// Lock files
	"package-lock.json", "yarn.lock", "pnpm-lock.yaml",
	"Gemfile.lock", "poetry.lock", "Cargo.lock", "go.sum", "composer.lock",

	// Databases, logs, editor droppings
	"*.sqlite", "*.sqlite3", "*.db",
	"*.log",
	"*.swp", "*.swo", "*~",
	".DS_Store", "Thumbs.db", "desktop.ini",
}
