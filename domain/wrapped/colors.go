package wrapped

// OtherColor is the catch-all swatch for languages without a known color.
const OtherColor = "#8b949e"

// languageColors maps language names to the hex colors GitHub uses for them.
var languageColors = map[string]string{
	"JavaScript": "#f1e05a",
	"TypeScript": "#3178c6",
	"Python":     "#3572A5",
	"Java":       "#b07219",
	"C++":        "#f34b7d",
	"C":          "#555555",
	"C#":         "#178600",
	"Go":         "#00ADD8",
	"Rust":       "#dea584",
	"Ruby":       "#701516",
	"PHP":        "#4F5D95",
	"Swift":      "#F05138",
	"Kotlin":     "#A97BFF",
	"Dart":       "#00B4AB",
	"Scala":      "#c22d40",
	"Shell":      "#89e051",
	"HTML":       "#e34c26",
	"CSS":        "#563d7c",
	"SCSS":       "#c6538c",
	"Vue":        "#41b883",
	"Svelte":     "#ff3e00",
	"Lua":        "#000080",
	"R":          "#198CE7",
	"Julia":      "#a270ba",
	"Haskell":    "#5e5086",
	"Elixir":     "#6e4a7e",
	"Clojure":    "#db5855",
	"Erlang":     "#B83998",
	"OCaml":      "#3be133",
	"Zig":        "#ec915c",
	"Nim":        "#ffc200",
	"Crystal":    "#000100",
}

// ColorForLanguage resolves the display color for a language name, falling
// back to OtherColor for unknown names.
func ColorForLanguage(name string) string {
	if c, ok := languageColors[name]; ok {
		return c
	}
	return OtherColor
}
