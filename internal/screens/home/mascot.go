package home

import (
	"charm.land/lipgloss/v2"

	"github.com/mindcheck/mindcheck/internal/ui/theme"
)

// MascotVariant selects which mascot art to display.
type MascotVariant int

const (
	MascotCalm    MascotVariant = iota // default
	MascotCheered                      // checked in today
	MascotNudge                        // re-checks are due
)

const mascotCalm = `  .-~~~-.
 (  -  -  )
  (   ‿   )
   '-...-'`

const mascotCheered = `  .-~~~-.
 (  ^  ^  )
  (   ◡   )
   '-...-'  ✿`

const mascotNudge = `  .-~~~-.
 (  o  o  )  ?
  (   ‿   )
   '-...-'`

// RenderMascot returns the mascot art for the given variant.
func RenderMascot(variant ...MascotVariant) string {
	v := MascotCalm
	if len(variant) > 0 {
		v = variant[0]
	}

	art := mascotCalm
	fg := theme.Secondary

	switch v {
	case MascotCheered:
		art = mascotCheered
		fg = theme.Success
	case MascotNudge:
		art = mascotNudge
		fg = theme.Accent
	}

	return lipgloss.NewStyle().
		Foreground(fg).
		Render(art)
}
