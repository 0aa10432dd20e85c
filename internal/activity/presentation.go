package activity

// Presentation is the color role, icon name and terminal glyph of a type.
type Presentation struct {
	Color string
	Icon  string
	Glyph string
}

var presentations = map[Type]Presentation{
	TypeJobCreated:       {Color: "accent", Icon: "add_circle", Glyph: "+"},
	TypeJobStarted:       {Color: "", Icon: "start", Glyph: "▶"},
	TypeJobCompleted:     {Color: "primary", Icon: "check_circle", Glyph: "✔"},
	TypeWarehouseCreated: {Color: "primary", Icon: "warehouse", Glyph: "⌂"},
	TypeWarehouseUpdated: {Color: "warn", Icon: "edit_location", Glyph: "✎"},
}

func PresentationFor(t Type) Presentation {
	if p, ok := presentations[t]; ok {
		return p
	}
	return Presentation{Icon: "info", Glyph: "ℹ"}
}
