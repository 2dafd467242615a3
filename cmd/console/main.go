// The console command runs an interactive shell for setting up and
// rendering worlds without re-invoking the render binary per attempt.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ergochat/readline"

	rt "github.com/mwrenna/go-raytracer"
)

type Command struct {
	// Symbol is the canonical name of the command.
	// It should include the leading ":".
	Symbol       string
	Aliases      []string
	ExpectedArgs []string // For generating help.
	HelpText     string
	Run          func(*State) error
}

// Settings are the tweakable render parameters.
type Settings struct {
	Height  int
	Width   int
	Samples int
	Depth   int
	Fov     float64
	Aaa     int
}

type State struct {
	args     []string
	commands []*Command

	settings *Settings
	world    *rt.World
	capture  *rt.Capture
	stats    rt.Stats
}

// errQuit is a signal to the main loop to quit.
var errQuit = errors.New("quit")

func main() {
	rl, err := readline.NewFromConfig(&readline.Config{
		Prompt:       "trace> ",
		HistoryFile:  readlineHistoryFilePath(),
		HistoryLimit: 10000,
	})
	if err != nil {
		log.Fatalf("readline init error: %v", err)
	}

	settings := &Settings{
		Height:  240,
		Width:   320,
		Samples: 2,
		Depth:   4,
		Fov:     55,
		Aaa:     255,
	}
	state := &State{settings: settings}

	var commands []*Command
	commandLookup := make(map[string]*Command)

	registerCommand := func(command *Command) {
		mustAddToLookup := func(symbol string) {
			if commandLookup[symbol] != nil {
				log.Fatalf("duplicate command: %v vs %v", command, commandLookup[symbol])
			}
			commandLookup[symbol] = command
		}
		commands = append(commands, command)
		mustAddToLookup(command.Symbol)
		for _, alias := range command.Aliases {
			mustAddToLookup(alias)
		}
	}

	registerCommand(&Command{
		Symbol:       ":world",
		Aliases:      []string{":w"},
		ExpectedArgs: []string{"<name>"},
		HelpText:     "Select a built-in world",
		Run: func(st *State) error {
			if len(st.args) < 1 {
				names := worldNames()
				return fmt.Errorf("usage: :world <name> (available: %s)", strings.Join(names, ", "))
			}
			world, ok := rt.Worlds()[st.args[0]]
			if !ok {
				return fmt.Errorf("unknown world %q", st.args[0])
			}
			st.world = world
			fmt.Printf("world: %s\n", world.Name)
			return nil
		},
	})
	registerCommand(&Command{
		Symbol:       ":load",
		Aliases:      []string{":l"},
		ExpectedArgs: []string{"<filename>"},
		HelpText:     "Load a YAML world file",
		Run: func(st *State) error {
			if len(st.args) < 1 {
				return errors.New("usage: :load <filename>")
			}
			world, err := rt.LoadWorldFile(st.args[0])
			if err != nil {
				return err
			}
			st.world = world
			fmt.Printf("world: %s (%s)\n", world.Name, st.args[0])
			return nil
		},
	})
	registerCommand(&Command{
		Symbol:       ":set",
		ExpectedArgs: []string{"<key>", "<value>"},
		HelpText:     "Set width, height, samples, depth, fov or aaa",
		Run: func(st *State) error {
			if len(st.args) != 2 {
				return errors.New("usage: :set <key> <value>")
			}
			return st.settings.set(st.args[0], st.args[1])
		},
	})
	registerCommand(&Command{
		Symbol:   ":show",
		HelpText: "Show the current settings",
		Run: func(st *State) error {
			s := st.settings
			fmt.Printf("size: %dx%d samples: %d depth: %d fov: %.1f aaa: %d\n",
				s.Width, s.Height, s.Samples, s.Depth, s.Fov, s.Aaa)
			if st.world != nil {
				fmt.Printf("world: %s\n", st.world.Name)
			}
			return nil
		},
	})
	registerCommand(&Command{
		Symbol:   ":render",
		Aliases:  []string{":r"},
		HelpText: "Render the selected world",
		Run: func(st *State) error {
			if st.world == nil {
				return errors.New("no world selected; use :world or :load first")
			}
			scene, view, err := st.world.Build(st.settings.Height, st.settings.Width, st.settings.Fov)
			if err != nil {
				return err
			}
			start := time.Now()
			stats, err := scene.Render(context.Background(), view, rt.RenderOptions{
				Samples:         st.settings.Samples,
				ReflectionDepth: st.settings.Depth,
				MaskThreshold:   uint8(st.settings.Aaa),
			})
			if err != nil {
				return err
			}
			st.capture = view.Capture
			st.stats = stats
			fmt.Printf("rendered %dx%d in %v (%d rays)\n",
				st.settings.Width, st.settings.Height, time.Since(start).Round(time.Millisecond), stats.TracedRays)
			return nil
		},
	})
	registerCommand(&Command{
		Symbol:       ":save",
		ExpectedArgs: []string{"<filename>"},
		HelpText:     "Save the last render (.tga/.ppm/.pfm/.exr/.png)",
		Run: func(st *State) error {
			if st.capture == nil {
				return errors.New("nothing rendered yet")
			}
			name := st.world.OutputFilename
			if len(st.args) > 0 {
				name = st.args[0]
			}
			if name == "" {
				return errors.New("usage: :save <filename>")
			}
			if err := st.capture.WriteFile(name); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", name)
			return nil
		},
	})
	registerCommand(&Command{
		Symbol:   ":stats",
		HelpText: "Print counters from the last render",
		Run: func(st *State) error {
			s := st.stats
			fmt.Printf("camera rays: %d\n", s.CastRaysFromCamera)
			fmt.Printf("traced rays: %d\n", s.TracedRays)
			fmt.Printf("shadow rays: %d (occluded %d)\n", s.ShadowRays, s.OccludedRays)
			fmt.Printf("reflected: %d transmitted: %d\n", s.ReflectedRays, s.TransmittedRays)
			fmt.Printf("intersection tests: %d (pruned %d)\n", s.IntersectionTests, s.SavedByBounds)
			return nil
		},
	})
	registerCommand(&Command{
		Symbol:   ":help",
		Aliases:  []string{":h"},
		HelpText: "Prints this help text",
		Run:      showHelp,
	})
	registerCommand(&Command{
		Symbol:   ":quit",
		Aliases:  []string{":q"},
		HelpText: "Exit the shell",
		Run: func(st *State) error {
			return errQuit
		},
	})

	for {
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
				// Exit gracefully on expected errors.
				return
			}
			log.Fatalf("readline error: %v", err)
		}
		line = strings.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		if line[0] != ':' {
			fmt.Printf("commands start with ':'; try :help\n")
			continue
		}
		args := parseCommandArgs(line)
		if len(args) == 0 {
			log.Fatalf("bug in command parser: %q", line)
		}
		cmd := commandLookup[args[0]]
		if cmd == nil {
			fmt.Printf("Unknown command: %v\n", args[0])
			continue
		}
		state.args = args[1:]
		state.commands = commands
		err = cmd.Run(state)
		if errors.Is(err, errQuit) {
			return
		}
		if err != nil {
			fmt.Printf("command error: %v\n", err)
		}
	}
}

func (s *Settings) set(key, value string) error {
	switch key {
	case "width", "height", "samples", "depth", "aaa":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("%s needs a positive integer, got %q", key, value)
		}
		switch key {
		case "width":
			s.Width = n
		case "height":
			s.Height = n
		case "samples":
			s.Samples = n
		case "depth":
			s.Depth = n
		case "aaa":
			if n > 255 {
				n = 255
			}
			s.Aaa = n
		}
	case "fov":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f <= 0 || f >= 180 {
			return fmt.Errorf("fov needs degrees in (0, 180), got %q", value)
		}
		s.Fov = f
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
	return nil
}

func worldNames() []string {
	var names []string
	for name := range rt.Worlds() {
		names = append(names, name)
	}
	return names
}

func showHelp(st *State) error {
	usageHelp := make([]string, len(st.commands))
	maxLen := 0
	for i, command := range st.commands {
		parts := []string{command.Symbol}
		parts = append(parts, command.Aliases...)
		parts = append(parts, command.ExpectedArgs...)
		usageHelp[i] = strings.Join(parts, " ")
		maxLen = max(maxLen, len(usageHelp[i]))
	}
	fmt.Printf("Commands:\n")
	for i, command := range st.commands {
		fmt.Printf("  %-*s : %s\n", maxLen, usageHelp[i], command.HelpText)
	}
	return nil
}

func readlineHistoryFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		log.Printf("user home dir error: %v\n", err)
		return ""
	}
	return filepath.Join(home, ".trace_history")
}

func parseCommandArgs(line string) []string {
	var args []string
	var start int
	for i := range line {
		curr := line[i]
		if strings.IndexByte(" \t\n\r", curr) != -1 {
			if start < i {
				args = append(args, line[start:i])
			}
			start = i + 1
		}
	}
	if start < len(line) {
		args = append(args, line[start:])
	}
	return args
}
