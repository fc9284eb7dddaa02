package rules

// DefaultConfig returns the built-in rules used when no rule document is found.
func DefaultConfig() Config {
	return Config{
		IgnoredDirectories: []string{
			".git", ".hg", ".svn",
			"node_modules", "vendor", "bower_components",
			"__pycache__", ".venv", "venv", ".tox", ".pytest_cache", ".mypy_cache", "*.egg-info",
			".idea", ".vscode",
			"dist", "build", "target", ".next", ".cache",
		},
		IgnoredExtensions: []string{
			// images
			".png", ".jpg", ".jpeg", ".gif", ".webp", ".ico", ".bmp", ".tiff", ".svg",
			// audio and video
			".mp3", ".wav", ".ogg", ".flac", ".m4a", ".mp4", ".m4v", ".mov", ".mkv", ".webm", ".avi",
			// archives and binaries
			".pdf", ".zip", ".jar", ".gz", ".tgz", ".bz2", ".7z", ".exe", ".dll", ".dylib", ".so",
			".o", ".a", ".class", ".pyc", ".pyo", ".woff", ".woff2", ".ttf", ".eot",
		},
		EssentialFilenames: []string{
			"requirements.txt", "pyproject.toml", "setup.py", "setup.cfg", "pipfile",
			"package.json", "go.mod", "cargo.toml", "gemfile", "composer.json",
			"pom.xml", "build.gradle", "build.gradle.kts",
			"dockerfile", "docker-compose.yml", "docker-compose.yaml", ".dockerignore",
			"makefile", "procfile", ".gitignore", ".env.example",
		},
		StructuredExtensions: []string{
			".json", ".yaml", ".yml", ".toml", ".ini", ".cfg", ".conf", ".xml", ".properties", ".env",
		},
		SourceExtensions: []string{
			".go", ".py", ".pyw",
			".js", ".jsx", ".mjs", ".cjs", ".ts", ".tsx",
			".java", ".kt", ".kts", ".scala", ".cs",
			".c", ".h", ".cc", ".cpp", ".cxx", ".hpp", ".hh",
			".rb", ".rs", ".php", ".swift", ".lua", ".dart",
			".sh", ".bash", ".zsh",
		},
	}
}

// Default returns the built-in rule set.
func Default() RuleSet { return MustNew(DefaultConfig()) }
