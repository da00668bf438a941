package main

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// Menu option values. Station choices carry the station name after the
// prefix; actions are fixed strings.
const (
	choiceStation = "station:"

	choiceStop      = "action:stop"
	choiceSearch    = "action:search"
	choiceFavorites = "action:favorites"
	choiceVolume    = "action:volume"
	choicePlayer    = "action:player"
	choiceHistory   = "action:history"
	choiceQuit      = "action:quit"
)

// cmdMenu runs the interactive menu loop. Without a terminal on stdin it
// degrades to the plain station listing.
func (a *app) cmdMenu() int {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return a.cmdList()
	}

	if err := a.checkPlayer(); err != nil {
		a.style.Error(err.Error())
		return 1
	}

	for {
		choice, err := a.selectFromMenu()
		if err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return 0
			}
			a.style.Error(err.Error())
			return 1
		}

		var actionErr error
		switch {
		case strings.HasPrefix(choice, choiceStation):
			actionErr = a.menuToggle(strings.TrimPrefix(choice, choiceStation))
		case choice == choiceStop:
			actionErr = a.menuStop()
		case choice == choiceSearch:
			actionErr = a.menuSearch()
		case choice == choiceFavorites:
			actionErr = a.menuFavorites()
		case choice == choiceVolume:
			actionErr = a.menuVolume()
		case choice == choicePlayer:
			actionErr = a.menuCyclePlayer()
		case choice == choiceHistory:
			actionErr = a.menuHistory()
		case choice == choiceQuit:
			return 0
		}

		if actionErr != nil {
			if errors.Is(actionErr, huh.ErrUserAborted) {
				continue
			}
			// Errors return to the menu rather than exiting.
			a.style.Error(actionErr.Error())
		}
	}
}

func (a *app) selectFromMenu() (string, error) {
	favorites, _ := a.store.ListFavorites()

	var playing string
	title := "tradio"
	if cur, ok := a.manager.Current(); ok {
		playing = cur.Station
		title = fmt.Sprintf("tradio - playing %s", cur.Station)
	}
	title += fmt.Sprintf("  [vol %d, %s]", a.cfg.Volume, a.cfg.Player)

	var opts []huh.Option[string]
	for i, st := range a.registry.All() {
		label := fmt.Sprintf("%2d. %s", i+1, st.Name)
		if favorites[st.Name] {
			label += " ★"
		}
		if st.Name == playing {
			label = "▶ " + label
		} else {
			label = "  " + label
		}
		opts = append(opts, huh.NewOption(label, choiceStation+st.Name))
	}
	opts = append(opts,
		huh.NewOption("  ── Stop playback", choiceStop),
		huh.NewOption("  ── Search", choiceSearch),
		huh.NewOption("  ── Favorites", choiceFavorites),
		huh.NewOption("  ── Volume", choiceVolume),
		huh.NewOption(fmt.Sprintf("  ── Player (%s)", a.cfg.Player), choicePlayer),
		huh.NewOption("  ── History", choiceHistory),
		huh.NewOption("  ── Quit", choiceQuit),
	)

	var choice string
	err := huh.NewSelect[string]().
		Title(title).
		Options(opts...).
		Value(&choice).
		Run()
	return choice, err
}

func (a *app) menuToggle(name string) error {
	st, err := a.registry.Lookup(name)
	if err != nil {
		return err
	}
	playing, err := a.manager.Toggle(st)
	if err != nil {
		return err
	}
	if playing {
		a.style.Success(fmt.Sprintf("Playing %s", a.style.Cyan(st.Name)))
	} else {
		a.style.Success(fmt.Sprintf("Stopped %s", a.style.Cyan(st.Name)))
	}
	return nil
}

func (a *app) menuStop() error {
	name, err := a.manager.Stop()
	if err != nil {
		return err
	}
	if name == "" {
		a.style.Println("Nothing is playing")
		return nil
	}
	a.style.Success(fmt.Sprintf("Stopped %s", a.style.Cyan(name)))
	return nil
}

func (a *app) menuSearch() error {
	var termStr string
	if err := huh.NewInput().
		Title("Search stations").
		Placeholder("name or /pattern/").
		Value(&termStr).
		Run(); err != nil {
		return err
	}

	matches := a.registry.Search(termStr)
	if len(matches) == 0 {
		a.style.Println("No stations match")
		return nil
	}

	var opts []huh.Option[string]
	for _, st := range matches {
		opts = append(opts, huh.NewOption(st.Name, st.Name))
	}

	var choice string
	if err := huh.NewSelect[string]().
		Title(fmt.Sprintf("%d stations match", len(matches))).
		Options(opts...).
		Value(&choice).
		Run(); err != nil {
		return err
	}
	return a.menuToggle(choice)
}

func (a *app) menuFavorites() error {
	favorites, err := a.store.ListFavorites()
	if err != nil {
		return err
	}

	var selected []string
	var opts []huh.Option[string]
	for _, st := range a.registry.All() {
		opt := huh.NewOption(st.Name, st.Name)
		if favorites[st.Name] {
			opt = opt.Selected(true)
			selected = append(selected, st.Name)
		}
		opts = append(opts, opt)
	}

	if err := huh.NewMultiSelect[string]().
		Title("Favorites").
		Options(opts...).
		Value(&selected).
		Run(); err != nil {
		return err
	}

	chosen := make(map[string]bool, len(selected))
	for _, name := range selected {
		chosen[name] = true
	}

	for name := range chosen {
		if !favorites[name] {
			if _, err := a.store.AddFavorite(name); err != nil {
				return err
			}
		}
	}
	var removed []string
	for name := range favorites {
		if !chosen[name] {
			removed = append(removed, name)
		}
	}
	sort.Strings(removed)
	for _, name := range removed {
		if err := a.store.RemoveFavorite(name); err != nil {
			return err
		}
	}

	a.style.Success(fmt.Sprintf("%d favorites saved", len(chosen)))
	return nil
}

func (a *app) menuVolume() error {
	value := strconv.Itoa(a.cfg.Volume)
	if err := huh.NewInput().
		Title("Volume (0-100)").
		Value(&value).
		Validate(func(s string) error {
			v, err := strconv.Atoi(strings.TrimSpace(s))
			if err != nil || v < 0 || v > 100 {
				return fmt.Errorf("enter a number between 0 and 100")
			}
			return nil
		}).
		Run(); err != nil {
		return err
	}

	v, _ := strconv.Atoi(strings.TrimSpace(value))
	if err := a.cfg.SetVolume(v); err != nil {
		return err
	}
	a.style.Success(fmt.Sprintf("Volume set to %d", v))
	if a.manager.IsPlaying() {
		a.style.Println(a.style.Dim("Takes effect on next station start"))
	}
	return nil
}

func (a *app) menuCyclePlayer() error {
	next, err := a.cfg.CyclePlayer()
	if err != nil {
		return err
	}
	a.style.Success(fmt.Sprintf("Player set to %s", next))
	if err := a.checkPlayer(); err != nil {
		a.style.Warn(err.Error())
	}
	return nil
}

func (a *app) menuHistory() error {
	entries, err := a.store.ReadHistory(10)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		a.style.Println("No history yet")
		return nil
	}
	for _, e := range entries {
		ts := ""
		if !e.Time.IsZero() {
			ts = e.Time.Format("2006-01-02 15:04")
		}
		a.style.Printf("  %s %s\n", a.style.Dim(ts), e.Station)
	}
	return nil
}
