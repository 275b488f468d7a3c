package dialog

import (
	"context"
	"errors"
	"image/color"

	"github.com/ncruces/zenity"

	"github.com/opd-ai/go-radial/pkg/radial"
)

// prompter is the set of native dialogs the surfaces are built from.
// Canceled dialogs return radial.ErrCanceled.
type prompter interface {
	Entry(title, text, value string) (string, error)
	List(title, text string, items []string) (string, error)
	Confirm(title, text string) error
	Color(title string, current color.Color) (color.Color, error)
	OpenFile(title string) (string, error)
	SaveFile(title, filename string) (string, error)
	Error(title, text string) error
}

var commandFilter = zenity.FileFilters{
	{Name: "Lua command files", Patterns: []string{"*.lua"}, CaseFold: true},
}

type zenityPrompter struct {
	ctx context.Context
}

func (z zenityPrompter) common(title string) []zenity.Option {
	return []zenity.Option{zenity.Title(title), zenity.Context(z.ctx)}
}

func (z zenityPrompter) Entry(title, text, value string) (string, error) {
	s, err := zenity.Entry(text, append(z.common(title), zenity.EntryText(value))...)
	return s, mapErr(err)
}

func (z zenityPrompter) List(title, text string, items []string) (string, error) {
	s, err := zenity.List(text, items, append(z.common(title), zenity.DisallowEmpty())...)
	if err == nil && s == "" {
		err = radial.ErrCanceled
	}
	return s, mapErr(err)
}

func (z zenityPrompter) Confirm(title, text string) error {
	return mapErr(zenity.Question(text, z.common(title)...))
}

func (z zenityPrompter) Color(title string, current color.Color) (color.Color, error) {
	c, err := zenity.SelectColor(append(z.common(title), zenity.Color(current))...)
	return c, mapErr(err)
}

func (z zenityPrompter) OpenFile(title string) (string, error) {
	s, err := zenity.SelectFile(append(z.common(title), commandFilter)...)
	return s, mapErr(err)
}

func (z zenityPrompter) SaveFile(title, filename string) (string, error) {
	s, err := zenity.SelectFileSave(append(z.common(title),
		commandFilter, zenity.Filename(filename), zenity.ConfirmOverwrite())...)
	return s, mapErr(err)
}

func (z zenityPrompter) Error(title, text string) error {
	err := mapErr(zenity.Error(text, z.common(title)...))
	if errors.Is(err, radial.ErrCanceled) {
		// Closing a notice is not a cancellation.
		return nil
	}
	return err
}

// mapErr translates zenity cancellation, including a canceled context, into
// radial.ErrCanceled.
func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, zenity.ErrCanceled), errors.Is(err, context.Canceled):
		return radial.ErrCanceled
	default:
		return err
	}
}
