package welcome

import (
	"strings"
	"time"
)

// breathCycle is one inhale plus one exhale.
const breathCycle = 8 * time.Second

// breathFrames grow from a dot to a full circle. Every frame has the same
// size so the layout stays put while it animates.
var breathFrames = [][]string{
	{
		"           ",
		"           ",
		"     •     ",
		"           ",
		"           ",
	},
	{
		"           ",
		"    .-.    ",
		"   (   )   ",
		"    '-'    ",
		"           ",
	},
	{
		"   .---.   ",
		"  /     \\  ",
		" |       | ",
		"  \\     /  ",
		"   '---'   ",
	},
	{
		" .-------. ",
		"/         \\",
		"|         |",
		"\\         /",
		" '-------' ",
	},
}

// breathFrame returns the circle for a point in the cycle and whether the
// user should be breathing in.
func breathFrame(elapsed time.Duration) (string, bool) {
	half := breathCycle / 2
	pos := elapsed % breathCycle
	inhale := pos < half

	p := float64(pos) / float64(half)
	if !inhale {
		p = 1 - float64(pos-half)/float64(half)
	}
	i := int(p*float64(len(breathFrames)-1) + 0.5)
	if i >= len(breathFrames) {
		i = len(breathFrames) - 1
	}
	return strings.Join(breathFrames[i], "\n"), inhale
}
