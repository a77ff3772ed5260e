package repo

import "sort"

// extensionLanguage maps file extensions to the language shown on graph nodes.
var extensionLanguage = map[string]string{
	"ts":     "TypeScript",
	"tsx":    "TypeScript",
	"js":     "JavaScript",
	"jsx":    "JavaScript",
	"mjs":    "JavaScript",
	"cjs":    "JavaScript",
	"py":     "Python",
	"java":   "Java",
	"kt":     "Kotlin",
	"rs":     "Rust",
	"go":     "Go",
	"rb":     "Ruby",
	"php":    "PHP",
	"cs":     "C#",
	"cpp":    "C++",
	"c":      "C",
	"h":      "C",
	"swift":  "Swift",
	"vue":    "Vue",
	"svelte": "Svelte",
	"html":   "HTML",
	"css":    "CSS",
	"scss":   "SCSS",
}

// statsLanguage extends extensionLanguage with the formats counted in
// repository language statistics.
var statsLanguage = map[string]string{
	"json":  "JSON",
	"md":    "Markdown",
	"yml":   "YAML",
	"yaml":  "YAML",
	"sh":    "Shell",
	"bash":  "Shell",
	"sql":   "SQL",
	"scala": "Scala",
	"dart":  "Dart",
	"lua":   "Lua",
	"r":     "R",
	"ex":    "Elixir",
	"exs":   "Elixir",
	"sass":  "Sass",
	"less":  "Less",
	"toml":  "TOML",
	"xml":   "XML",
}

var languageColors = map[string]string{
	"TypeScript": "#3178c6",
	"JavaScript": "#f1e05a",
	"Python":     "#3572A5",
	"Java":       "#b07219",
	"Kotlin":     "#A97BFF",
	"Rust":       "#dea584",
	"Go":         "#00ADD8",
	"Ruby":       "#701516",
	"PHP":        "#4F5D95",
	"C#":         "#178600",
	"C++":        "#f34b7d",
	"C":          "#555555",
	"Swift":      "#F05138",
	"Vue":        "#41b883",
	"Svelte":     "#ff3e00",
	"HTML":       "#e34c26",
	"CSS":        "#563d7c",
	"SCSS":       "#c6538c",
	"Sass":       "#a53b70",
	"Less":       "#1d365d",
	"JSON":       "#292929",
	"Markdown":   "#083fa1",
	"YAML":       "#cb171e",
	"Shell":      "#89e051",
	"SQL":        "#e38c00",
	"Scala":      "#c22d40",
	"Dart":       "#00B4AB",
	"Lua":        "#000080",
	"R":          "#198CE7",
	"Elixir":     "#6e4a7e",
	"TOML":       "#9c4221",
	"XML":        "#0060ac",
}

const defaultColor = "#8b8b8b"

// Language returns the source language of p, or "" if it is not a source file.
func Language(p string) string {
	return extensionLanguage[Ext(p)]
}

// StatsLanguage returns the language used for statistics, which also covers
// data and markup formats.
func StatsLanguage(p string) string {
	ext := Ext(p)
	if lang, ok := extensionLanguage[ext]; ok {
		return lang
	}
	return statsLanguage[ext]
}

// LanguageColor returns the display color of a language.
func LanguageColor(lang string) string {
	if c, ok := languageColors[lang]; ok {
		return c
	}
	return defaultColor
}

// TopLanguages counts the source language of each path and returns the n
// most frequent, ties broken by name.
func TopLanguages(paths []string, n int) []string {
	counts := make(map[string]int)
	for _, p := range paths {
		if lang := Language(p); lang != "" {
			counts[lang]++
		}
	}
	langs := make([]string, 0, len(counts))
	for lang := range counts {
		langs = append(langs, lang)
	}
	sort.Slice(langs, func(i, j int) bool {
		if counts[langs[i]] != counts[langs[j]] {
			return counts[langs[i]] > counts[langs[j]]
		}
		return langs[i] < langs[j]
	})
	if n >= 0 && len(langs) > n {
		langs = langs[:n]
	}
	return langs
}
