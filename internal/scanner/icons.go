package scanner

import "math/rand"

// courseIcons is the decorative palette a new stored course draws from.
// The pick is random at creation time and then persisted; scans never
// regenerate it.
var courseIcons = []string{
	"📼", "🎬", "🎥", "📚", "🎓", "💡", "🧠", "🛠️", "🌱", "🚀",
	"🎨", "🎹", "📐", "🔬", "🗺️", "🏋️", "🧩", "📈", "🌍", "⚙️",
}

// RandomIcon returns one icon from the palette.
func RandomIcon() string {
	return courseIcons[rand.Intn(len(courseIcons))]
}
