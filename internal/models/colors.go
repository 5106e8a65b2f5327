package models

// The six neon accent colors a participant can pick from.
var AccentColors = []string{
	"#ff2d92", // toxic pink
	"#d426ff", // neon purple
	"#00d4ff", // cyber blue
	"#39ff14", // acid green
	"#ff6b35", // sunset orange
	"#ffff00", // electric yellow
}

const (
	DefaultCreatorColor = "#ff2d92"
	DefaultGuestColor   = "#d426ff"
)

// IsAccentColor reports whether hex is one of the six allowed colors.
func IsAccentColor(hex string) bool {
	for _, c := range AccentColors {
		if c == hex {
			return true
		}
	}
	return false
}
