// Package radial opens transient radial menus and reports the chosen command.
//
// A Controller owns one menu session: it loads the settings snapshot, lays out
// the rings around the invoking cursor, feeds input into the selection state
// machine, recomposes the overlay when the hovered target changes and hands
// the final command token to its subscribers. A Manager keeps at most one
// Controller alive: opening a new menu closes the previous one.
//
// The overlay window and the edit dialogs are collaborators supplied through
// Options, so the whole session can be driven headlessly:
//
//	mgr := radial.NewManager(radial.Options{
//		ConfigPath: "settings.lua",
//		Presenter:  presenter,
//		Surfaces:   dialogs,
//		Logger:     radial.DefaultLogger(),
//	})
//	ctrl, err := mgr.Open(image.Pt(640, 400))
//	if err != nil {
//		log.Fatal(err)
//	}
//	ctrl.OnCommandSelected(func(token string) {
//		fmt.Println(token)
//	})
//
// Input events are delivered with Controller.HandleEvent and the debounce
// timer is driven by calling Controller.Tick from the UI loop.
package radial
