package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/zaz600/go-musthave-shortener-client/internal/controller/sessionctl"
	"github.com/zaz600/go-musthave-shortener-client/internal/controller/view"
)

const prompt = "> "

var (
	// ErrUnknownCommand нет такой команды
	ErrUnknownCommand = errors.New("unknown command")
	// ErrUsage неверные аргументы команды
	ErrUsage = errors.New("usage")
	// ErrNotAvailable команда недоступна на текущем экране
	ErrNotAvailable = errors.New("command is not available on this screen")

	errQuit = errors.New("quit")
)

type command struct {
	usage string
	help  string
	args  int
	// screens разделы, хотя бы один из которых должен быть виден. Пусто - всегда доступна.
	screens []view.Section
	run     func(ctx context.Context, sh *shell, args []string) error
}

var commands map[string]command

// init заполняет commands: help ссылается на сам список
func init() {
	commands = map[string]command{
		"status": {
			usage: "status",
			help:  "show the screen",
			run:   func(context.Context, *shell, []string) error { return nil },
		},
		"login": {
			usage:   "login USERNAME PASSWORD",
			help:    "log in",
			args:    2,
			screens: []view.Section{view.SectionLogin},
			run: func(ctx context.Context, sh *shell, args []string) error {
				return sh.ctl.Login(ctx, args[0], args[1])
			},
		},
		"register": {
			usage:   "register EMAIL PASSWORD",
			help:    "create an account",
			args:    2,
			screens: []view.Section{view.SectionRegister},
			run: func(ctx context.Context, sh *shell, args []string) error {
				return sh.ctl.Register(ctx, args[0], args[1])
			},
		},
		"toggle": {
			usage:   "toggle",
			help:    "switch between login and register forms",
			screens: []view.Section{view.SectionLogin, view.SectionRegister},
			run: func(_ context.Context, sh *shell, _ []string) error {
				return sh.ctl.ToggleRegister()
			},
		},
		"logout": {
			usage:   "logout",
			help:    "log out",
			screens: []view.Section{view.SectionApp},
			run: func(ctx context.Context, sh *shell, _ []string) error {
				sh.ctl.Logout(ctx)
				return nil
			},
		},
		"links": {
			usage:   "links",
			help:    "reload the list of links",
			screens: []view.Section{view.SectionApp},
			run: func(ctx context.Context, sh *shell, _ []string) error {
				sh.ctl.LoadLinks(ctx)
				return nil
			},
		},
		"create": {
			usage:   "create URL",
			help:    "shorten a url",
			args:    1,
			screens: []view.Section{view.SectionApp},
			run: func(ctx context.Context, sh *shell, args []string) error {
				return sh.ctl.CreateLink(ctx, args[0])
			},
		},
		"delete": {
			usage:   "delete ID",
			help:    "delete a link",
			args:    1,
			screens: []view.Section{view.SectionApp},
			run: func(ctx context.Context, sh *shell, args []string) error {
				id, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return fmt.Errorf("%w: delete ID: %q is not a number", ErrUsage, args[0])
				}
				return sh.ctl.DeleteLink(ctx, id)
			},
		},
		"ping": {
			usage: "ping",
			help:  "check the backend",
			run: func(ctx context.Context, sh *shell, _ []string) error {
				msg, err := sh.ctl.Ping(ctx)
				if err != nil {
					sh.println("ping failed: " + err.Error())
					return err
				}
				sh.println(msg)
				return nil
			},
		},
		"request": {
			usage: "request METHOD PATH",
			help:  "send a request with the session headers",
			args:  2,
			run: func(ctx context.Context, sh *shell, args []string) error {
				resp, err := sh.ctl.Request(ctx, args[0], args[1], nil)
				if err != nil {
					sh.println("request failed: " + err.Error())
					return err
				}
				sh.println(fmt.Sprintf("%d %s", resp.Status, strings.TrimSpace(string(resp.Body))))
				return nil
			},
		},
		"help": {
			usage: "help",
			help:  "list commands",
			run: func(_ context.Context, sh *shell, _ []string) error {
				sh.printHelp()
				return nil
			},
		},
		"quit": {
			usage: "quit",
			help:  "exit",
			run:   func(context.Context, *shell, []string) error { return errQuit },
		},
	}
}

// shell текстовый фронтенд: выполняет команды по одной и перерисовывает экран
type shell struct {
	screen *view.Screen
	ctl    *sessionctl.Controller

	mu  sync.Mutex
	out io.Writer
}

func newShell(out io.Writer) *shell {
	return &shell{out: out}
}

// runOnce выполняет одну команду из аргументов командной строки
func (sh *shell) runOnce(ctx context.Context, args []string) error {
	err := sh.execute(ctx, args)
	if errors.Is(err, errQuit) {
		return nil
	}
	sh.redraw()
	return err
}

// loop читает команды построчно, пока не закончится ввод, не придет quit или сигнал
func (sh *shell) loop(ctx context.Context, in io.Reader) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			log.Error().Err(err).Msg("read commands")
		}
	}()

	sh.redraw()
	for {
		sh.print(prompt)
		var line string
		select {
		case <-ctx.Done():
			log.Info().Msg("Shutdown...")
			return nil
		case l, ok := <-lines:
			if !ok {
				return nil
			}
			line = l
		}

		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}
		err := sh.execute(ctx, args)
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			sh.reportError(err)
		}
		sh.redraw()
	}
}

// execute проверяет доступность команды на текущем экране и выполняет ее
func (sh *shell) execute(ctx context.Context, args []string) error {
	name := strings.ToLower(args[0])
	if name == "exit" {
		name = "quit"
	}
	cmd, ok := commands[name]
	if !ok {
		return fmt.Errorf("%w %q, try help", ErrUnknownCommand, args[0])
	}
	if len(args)-1 != cmd.args {
		return fmt.Errorf("%w: %s", ErrUsage, cmd.usage)
	}
	if !sh.available(cmd) {
		return fmt.Errorf("%s: %w", name, ErrNotAvailable)
	}
	return cmd.run(ctx, sh, args[1:])
}

func (sh *shell) available(cmd command) bool {
	if len(cmd.screens) == 0 {
		return true
	}
	for _, section := range cmd.screens {
		if sh.screen.Visible(section) {
			return true
		}
	}
	return false
}

// reportError печатает ошибки, о которых экран не сообщает сам.
// Ошибки операций с бэкендом уже выведены в области экрана.
func (sh *shell) reportError(err error) {
	switch {
	case errors.Is(err, ErrUnknownCommand),
		errors.Is(err, ErrUsage),
		errors.Is(err, ErrNotAvailable),
		errors.Is(err, sessionctl.ErrUnsupported):
		sh.println("error: " + err.Error())
	default:
		log.Debug().Err(err).Msg("command failed")
	}
}

func (sh *shell) printHelp() {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	var b strings.Builder
	for _, name := range names {
		fmt.Fprintf(&b, "  %-26s %s\n", commands[name].usage, commands[name].help)
	}
	sh.print(b.String())
}

// redraw выводит экран. Вызывается и из таймеров контроллера.
func (sh *shell) redraw() {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	if err := sh.screen.Render(sh.out); err != nil {
		log.Error().Err(err).Msg("render screen")
	}
}

func (sh *shell) print(s string) {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	_, _ = io.WriteString(sh.out, s)
}

func (sh *shell) println(s string) {
	sh.print(s + "\n")
}
