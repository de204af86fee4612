package cli

import (
	"fmt"

	"github.com/charmbracelet/huh"
)

// confirmAction gates a destructive command. --yes skips the question; a
// non-interactive session without --yes is refused with what.
func (a *App) confirmAction(yes bool, what, title, affirmative string) (bool, error) {
	if yes {
		return true, nil
	}
	if !a.interactive() {
		return false, fmt.Errorf("refusing to %s without --yes", what)
	}
	confirmed := false
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(title).
			Affirmative(affirmative).
			Negative("Keep").
			Value(&confirmed),
	)).WithTheme(huhTheme()).WithShowHelp(false)
	if err := form.Run(); err != nil {
		return false, err
	}
	return confirmed, nil
}
