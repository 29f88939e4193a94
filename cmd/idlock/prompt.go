package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/rivo/tview"
	"golang.org/x/term"
)

var errPromptCancelled = errors.New("cancelled")

// readRescueCode prompts without echoing: rescue codes are credentials and
// should not end up in scrollback.
func readRescueCode(prompt string, tui bool) (string, error) {
	if tui {
		return promptForm(prompt)
	}
	fmt.Fprint(os.Stderr, prompt)
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func promptForm(prompt string) (string, error) {
	var (
		code      string
		cancelled bool
	)
	app := tview.NewApplication()
	form := tview.NewForm().
		AddPasswordField(prompt, "", 32, '*', func(text string) {
			code = text
		}).
		AddButton("OK", func() {
			app.Stop()
		}).
		AddButton("Cancel", func() {
			cancelled = true
			app.Stop()
		})
	form.SetBorder(true).SetTitle(" idlock ").SetTitleAlign(tview.AlignLeft)
	if err := app.SetRoot(form, true).Run(); err != nil {
		return "", err
	}
	if cancelled {
		return "", errPromptCancelled
	}
	return code, nil
}
