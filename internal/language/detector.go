// Package language guesses the programming language of the code being
// edited, from a file extension or from the project markers around it.
package language

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var extensions = map[string]string{
	".go":    "go",
	".rs":    "rust",
	".py":    "python",
	".pyi":   "python",
	".js":    "javascript",
	".mjs":   "javascript",
	".cjs":   "javascript",
	".jsx":   "javascript",
	".ts":    "typescript",
	".tsx":   "typescript",
	".java":  "java",
	".kt":    "kotlin",
	".kts":   "kotlin",
	".swift": "swift",
	".c":     "c",
	".h":     "c",
	".cc":    "cpp",
	".cpp":   "cpp",
	".cxx":   "cpp",
	".hpp":   "cpp",
	".cs":    "csharp",
	".rb":    "ruby",
	".php":   "php",
	".scala": "scala",
	".lua":   "lua",
	".sh":    "shell",
	".bash":  "shell",
	".zsh":   "shell",
	".ps1":   "powershell",
	".sql":   "sql",
	".zig":   "zig",
	".ex":    "elixir",
	".exs":   "elixir",
	".hs":    "haskell",
	".dart":  "dart",
	".html":  "html",
	".css":   "css",
	".toml":  "toml",
	".yaml":  "yaml",
	".yml":   "yaml",
	".json":  "json",
	".md":    "markdown",
	".kdl":   "kdl",
}

// FromPath maps a file name to a language by extension.
func FromPath(path string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		switch strings.ToLower(filepath.Base(path)) {
		case "makefile":
			return "make", true
		case "dockerfile":
			return "dockerfile", true
		}
		return "", false
	}
	lang, ok := extensions[ext]
	return lang, ok
}

// Project describes a project root found by its marker file.
type Project struct {
	Path     string `json:"path"`
	Language string `json:"language"`
	Name     string `json:"name"`
	Marker   string `json:"marker"`
}

type marker struct {
	file     string
	language string
	name     func(path string) string
}

// Checked in order; tsconfig.json precedes package.json so TypeScript wins.
var markers = []marker{
	{"go.mod", "go", parseGoModuleName},
	{"Cargo.toml", "rust", parseCargoName},
	{"tsconfig.json", "typescript", nil},
	{"package.json", "javascript", parsePackageJSONName},
	{"pyproject.toml", "python", nil},
	{"setup.py", "python", nil},
	{"requirements.txt", "python", nil},
	{"pom.xml", "java", nil},
	{"build.gradle", "java", nil},
	{"build.gradle.kts", "kotlin", nil},
	{"Gemfile", "ruby", nil},
	{"composer.json", "php", nil},
	{"mix.exs", "elixir", nil},
}

// DetectProject walks up from dir looking for a project marker.
// It returns nil when no marker is found before the filesystem root.
func DetectProject(dir string) *Project {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil
	}
	if info, err := os.Stat(abs); err == nil && !info.IsDir() {
		abs = filepath.Dir(abs)
	}

	for {
		if proj := detectIn(abs); proj != nil {
			return proj
		}
		parent := filepath.Dir(abs)
		if parent == abs {
			return nil
		}
		abs = parent
	}
}

func detectIn(dir string) *Project {
	for _, m := range markers {
		path := filepath.Join(dir, m.file)
		if !fileExists(path) {
			continue
		}
		proj := &Project{
			Path:     dir,
			Language: m.language,
			Name:     filepath.Base(dir),
			Marker:   m.file,
		}
		if m.name != nil {
			if name := m.name(path); name != "" {
				proj.Name = name
			}
		}
		return proj
	}
	return nil
}

var (
	goModuleRe  = regexp.MustCompile(`(?m)^module\s+(\S+)`)
	cargoNameRe = regexp.MustCompile(`(?m)^name\s*=\s*"([^"]+)"`)
)

func parseGoModuleName(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	if m := goModuleRe.FindSubmatch(data); len(m) > 1 {
		parts := strings.Split(string(m[1]), "/")
		return parts[len(parts)-1]
	}
	return ""
}

func parseCargoName(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	if m := cargoNameRe.FindSubmatch(data); len(m) > 1 {
		return string(m[1])
	}
	return ""
}

func parsePackageJSONName(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	var pkg struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &pkg); err != nil {
		return ""
	}
	return pkg.Name
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Detector resolves a language from an explicit override, then the file
// extension, then the enclosing project.
type Detector struct {
	Override string
	FilePath string
	Dir      string
}

// DetectLanguage implements the dispatcher's language capability.
func (d Detector) DetectLanguage(context.Context) (string, bool) {
	if lang := strings.TrimSpace(d.Override); lang != "" {
		return strings.ToLower(lang), true
	}
	if d.FilePath != "" {
		if lang, ok := FromPath(d.FilePath); ok {
			return lang, true
		}
	}
	dir := d.Dir
	if dir == "" && d.FilePath != "" {
		dir = filepath.Dir(d.FilePath)
	}
	if dir == "" {
		return "", false
	}
	if proj := DetectProject(dir); proj != nil {
		return proj.Language, true
	}
	return "", false
}

// Static reports a fixed language, or none when empty.
type Static string

// DetectLanguage implements the dispatcher's language capability.
func (s Static) DetectLanguage(context.Context) (string, bool) {
	lang := strings.TrimSpace(string(s))
	return lang, lang != ""
}
