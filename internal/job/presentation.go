package job

// Presentation holds the display tokens for one status. Color is a theme
// role (warn, accent, primary), Icon a Material icon name, Class a CSS-style
// modifier, Glyph the terminal symbol used in place of the icon.
type Presentation struct {
	Label string
	Color string
	Icon  string
	Class string
	Glyph string
}

var presentations = map[Status]Presentation{
	StatusPending: {
		Label: "Pending",
		Color: "warn",
		Icon:  "schedule",
		Class: "pending",
		Glyph: "◷",
	},
	StatusInProgress: {
		Label: "In Progress",
		Color: "accent",
		Icon:  "hourglass_empty",
		Class: "in-progress",
		Glyph: "⧗",
	},
	StatusCompleted: {
		Label: "Completed",
		Color: "primary",
		Icon:  "check_circle",
		Class: "completed",
		Glyph: "✔",
	},
}

var unknownPresentation = Presentation{
	Label: "Unknown",
	Icon:  "info",
	Glyph: "ℹ",
}

// PresentationFor returns the display tokens for status. Unknown values get
// an empty color and class with the info icon.
func PresentationFor(status Status) Presentation {
	if p, ok := presentations[status]; ok {
		return p
	}
	p := unknownPresentation
	if status != "" {
		p.Label = string(status)
	}
	return p
}
