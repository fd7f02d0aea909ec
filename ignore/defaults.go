package ignore

// DefaultPatterns are names and globs excluded from index walks. These are
// caches, VCS metadata and other churn-heavy locations whose contents are
// never useful in a file index.
var DefaultPatterns = []string{
	// Version control
	".git",
	".svn",
	".hg",

	// Package manager caches
	"node_modules",
	"__pycache__",
	".npm",
	".yarn",
	".cargo",

	// Virtual environments
	".venv",
	"venv",

	// IDE / editor state
	".idea",
	".vscode",
	"*.swp",
	"*.swo",
	"*~",

	// OS metadata
	".DS_Store",
	"Thumbs.db",
	"desktop.ini",

	// Browser / application caches
	".cache",
	"Cache",
	"CacheStorage",

	// Trash
	".Trash",
	"$RECYCLE.BIN",
	"System Volume Information",
}
