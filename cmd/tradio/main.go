package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/sergeknystautas/tradio/internal/config"
	"github.com/sergeknystautas/tradio/internal/logger"
	"github.com/sergeknystautas/tradio/internal/player"
	"github.com/sergeknystautas/tradio/internal/session"
	"github.com/sergeknystautas/tradio/internal/state"
	"github.com/sergeknystautas/tradio/internal/station"
	"github.com/sergeknystautas/tradio/internal/store"
	"github.com/sergeknystautas/tradio/internal/version"
)

// app wires the registry, config, store, and session manager for one
// invocation.
type app struct {
	style    *termStyle
	cfg      *config.Config
	registry *station.Registry
	store    *store.Store
	manager  *session.Manager
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	// Optional .env next to the working directory, for overriding
	// TRADIO_CONFIG_DIR / TRADIO_RUNTIME_DIR / TRADIO_LOG_LEVEL.
	godotenv.Load()

	style := newTermStyle()

	cfgDir, err := config.Dir()
	if err != nil {
		style.Error(err.Error())
		return 1
	}
	if err := logger.Init(cfgDir); err != nil {
		style.Warn(fmt.Sprintf("logging disabled: %v", err))
	}
	defer logger.Sync()

	cfg, err := config.Load(cfgDir)
	if err != nil {
		style.Error(err.Error())
		return 1
	}

	extras, err := config.LoadUserStations(cfgDir)
	if err != nil {
		style.Warn(fmt.Sprintf("ignoring user stations: %v", err))
	}

	a := &app{
		style:    style,
		cfg:      cfg,
		registry: station.New(extras, cfg.DefaultStation),
		store:    store.New(cfgDir),
		manager:  session.New(cfg, state.NewFileStore(config.RuntimeDir()), store.New(cfgDir)),
	}

	if len(args) == 0 {
		return a.cmdMenu()
	}

	switch args[0] {
	case "--help", "-h", "help":
		printUsage()
		return 0

	case "--version", "-v":
		fmt.Printf("tradio %s\n", version.Version)
		return 0

	case "--list", "-l":
		return a.cmdList()

	case "--stop", "-s":
		return a.cmdStop()

	case "--toggle", "-t":
		if len(args) < 2 {
			a.style.Error("--toggle requires a station number")
			return 1
		}
		return a.cmdToggle(args[1])

	case "--player", "-p":
		return a.cmdCyclePlayer()

	case "--volume":
		if len(args) < 2 {
			a.style.Error("--volume requires a value (0-100)")
			return 1
		}
		return a.cmdVolume(args[1])

	case "--search":
		if len(args) < 2 {
			a.style.Error("--search requires a term")
			return 1
		}
		return a.cmdSearch(args[1])

	case "--status":
		return a.cmdStatus()

	case "--watch", "-w":
		return a.cmdWatch()

	default:
		if n, err := strconv.Atoi(args[0]); err == nil {
			return a.cmdPlayIndex(n)
		}
		a.style.Error(fmt.Sprintf("unknown argument: %s", args[0]))
		printUsage()
		return 1
	}
}

// checkPlayer verifies the configured player before any session logic runs.
func (a *app) checkPlayer() error {
	return player.Check(a.cfg.Player)
}

func (a *app) cmdPlayIndex(n int) int {
	st, err := a.registry.ByIndex(n)
	if err != nil {
		a.style.Error(err.Error())
		return 1
	}
	if err := a.checkPlayer(); err != nil {
		a.style.Error(err.Error())
		return 1
	}
	if _, err := a.manager.Start(st); err != nil {
		a.style.Error(err.Error())
		return 1
	}
	a.style.Success(fmt.Sprintf("Playing %s", a.style.Cyan(st.Name)))
	return 0
}

func (a *app) cmdToggle(arg string) int {
	n, err := strconv.Atoi(arg)
	if err != nil {
		a.style.Error(fmt.Sprintf("invalid station number: %s", arg))
		return 1
	}
	st, err := a.registry.ByIndex(n)
	if err != nil {
		a.style.Error(err.Error())
		return 1
	}
	if err := a.checkPlayer(); err != nil {
		a.style.Error(err.Error())
		return 1
	}
	playing, err := a.manager.Toggle(st)
	if err != nil {
		a.style.Error(err.Error())
		return 1
	}
	if playing {
		a.style.Success(fmt.Sprintf("Playing %s", a.style.Cyan(st.Name)))
	} else {
		a.style.Success(fmt.Sprintf("Stopped %s", a.style.Cyan(st.Name)))
	}
	return 0
}

func (a *app) cmdStop() int {
	name, err := a.manager.Stop()
	if err != nil {
		a.style.Error(err.Error())
		return 1
	}
	if name == "" {
		a.style.Println("Nothing is playing")
		return 0
	}
	a.style.Success(fmt.Sprintf("Stopped %s", a.style.Cyan(name)))
	return 0
}

func (a *app) cmdList() int {
	favorites, err := a.store.ListFavorites()
	if err != nil {
		a.style.Warn(err.Error())
	}

	var playing string
	if cur, ok := a.manager.Current(); ok {
		playing = cur.Station
	}

	for i, st := range a.registry.All() {
		marker := " "
		if st.Name == playing {
			marker = a.style.Green("▶")
		}
		name := st.Name
		if favorites[st.Name] {
			name += " ★"
		}
		a.style.Printf("%s %s %s\n", a.style.Dim(fmt.Sprintf("%2d.", i+1)), marker, name)
	}
	return 0
}

func (a *app) cmdSearch(term string) int {
	matches := a.registry.Search(term)
	if len(matches) == 0 {
		a.style.Println("No stations match")
		return 0
	}
	for _, st := range matches {
		a.style.Printf("  %s %s\n", st.Name, a.style.Dim(st.URL))
	}
	return 0
}

func (a *app) cmdCyclePlayer() int {
	next, err := a.cfg.CyclePlayer()
	if err != nil {
		a.style.Error(err.Error())
		return 1
	}
	a.style.Success(fmt.Sprintf("Player set to %s", next))
	if err := player.Check(next); err != nil {
		a.style.Warn(err.Error())
	}
	return 0
}

func (a *app) cmdVolume(arg string) int {
	v, err := strconv.Atoi(arg)
	if err != nil {
		a.style.Error(fmt.Sprintf("invalid volume: %s", arg))
		return 1
	}
	if err := a.cfg.SetVolume(v); err != nil {
		a.style.Error(err.Error())
		return 1
	}
	a.style.Success(fmt.Sprintf("Volume set to %d", v))
	return 0
}

func (a *app) cmdStatus() int {
	cur, ok := a.manager.Current()
	if !ok {
		a.style.Println("Nothing is playing")
		return 0
	}
	a.style.Printf("%s %s %s\n", a.style.Green("▶"), a.style.Cyan(cur.Station), a.style.Dim(fmt.Sprintf("(pid %d)", cur.PID)))
	return 0
}

func printUsage() {
	fmt.Println("tradio - terminal internet radio")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  tradio              Interactive menu")
	fmt.Println("  tradio <N>          Play station number N")
	fmt.Println("  tradio --toggle <N> Toggle station number N (stop if playing, else switch)")
	fmt.Println("  tradio --stop       Stop playback")
	fmt.Println("  tradio --list       List stations")
	fmt.Println("  tradio --search <t> Search stations by name")
	fmt.Println("  tradio --status     Show what is playing")
	fmt.Println("  tradio --watch      Follow now-playing changes")
	fmt.Println("  tradio --player     Switch between mpv and mplayer")
	fmt.Println("  tradio --volume <N> Set volume (0-100)")
	fmt.Println("  tradio --version    Show version")
	fmt.Println("  tradio --help       Show this help message")
}
