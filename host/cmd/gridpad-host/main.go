package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"gridpad/color"
	"gridpad/core"
	"gridpad/host/client"
	"gridpad/host/profile"
	"gridpad/host/serial"
)

var (
	device   = flag.String("device", "/dev/ttyUSB0", "Serial MIDI device path")
	baud     = flag.Int("baud", serial.MIDIBaud, "Baud rate (ignored for USB devices)")
	backend  = flag.String("backend", string(serial.BackendTarm), "Serial backend: tarm or bugst")
	timeout  = flag.Duration("timeout", client.DefaultTimeout, "Reply timeout")
	logLevel = flag.String("log-level", "info", "Log level (trace, debug, info, warn, error)")
	verbose  = flag.Bool("verbose", false, "Shorthand for -log-level=debug")
)

var errUsage = errors.New("usage")

func main() {
	flag.Usage = usage
	flag.Parse()

	log := newLogger()

	args := flag.Args()
	if len(args) > 0 && args[0] == "ports" {
		if err := listPorts(); err != nil {
			log.Fatal().Err(err).Msg("ports")
		}
		return
	}

	cfg := serial.DefaultConfig(*device)
	cfg.Baud = *baud
	cfg.Backend = serial.Backend(*backend)

	c, err := client.Dial(cfg, client.WithLogger(log))
	if err != nil {
		log.Fatal().Err(err).Str("device", *device).Msg("failed to connect")
	}
	defer c.Close()
	log.Debug().Str("device", *device).Int("baud", *baud).Msg("connected")

	if len(args) > 0 {
		if err := run(c, args[0], args[1:]); err != nil {
			if errors.Is(err, errUsage) {
				usage()
				os.Exit(2)
			}
			log.Fatal().Err(err).Str("command", args[0]).Msg("command failed")
		}
		return
	}

	interactive(c, log)
}

func newLogger() zerolog.Logger {
	level, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	if *verbose && level > zerolog.DebugLevel {
		level = zerolog.DebugLevel
	}
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(output).Level(level).With().Timestamp().Str("app", "gridpad-host").Logger()
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [flags] [command [args]]\n\n", os.Args[0])
	fmt.Fprintln(os.Stderr, "Without a command an interactive prompt is started.")
	printHelp(os.Stderr)
	fmt.Fprintln(os.Stderr, "Flags:")
	flag.PrintDefaults()
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w, "\nCommands:")
	fmt.Fprintln(w, "  ports                      - List serial ports")
	fmt.Fprintln(w, "  identify                   - Query the device identity")
	fmt.Fprintln(w, "  pull-config                - Print the stored configuration")
	fmt.Fprintln(w, "  push-config tag=value ...  - Store settings (tag by name or number)")
	fmt.Fprintln(w, "  pull-colors idle|active    - Print a color table")
	fmt.Fprintln(w, "  show button=color ...      - Set realtime button colors")
	fmt.Fprintln(w, "  clear                      - Turn off realtime colors")
	fmt.Fprintln(w, "  apply <profile.yaml>       - Store a profile")
	fmt.Fprintln(w, "  dump <profile.yaml>        - Save the device state as a profile")
	fmt.Fprintln(w, "  factory-reset              - Restore factory defaults")
	fmt.Fprintln(w, "  bootloader                 - Restart into firmware update mode")
	fmt.Fprintln(w)
}

func interactive(c *client.Client, log zerolog.Logger) {
	fmt.Println("gridpad host - type 'help' for commands, 'quit' to exit")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "quit", "exit", "q":
			return
		case "help", "?":
			printHelp(os.Stdout)
		case "ports":
			if err := listPorts(); err != nil {
				log.Error().Err(err).Msg("ports")
			}
		default:
			if err := run(c, parts[0], parts[1:]); err != nil {
				log.Error().Err(err).Str("command", parts[0]).Msg("command failed")
			}
		}
	}

	if err := scanner.Err(); err != nil {
		log.Fatal().Err(err).Msg("error reading input")
	}
}

func listPorts() error {
	ports, err := serial.ListPorts()
	if err != nil {
		return err
	}
	if len(ports) == 0 {
		fmt.Println("No serial ports found")
	}
	for _, p := range ports {
		fmt.Println(p)
	}
	return nil
}

func run(c *client.Client, cmd string, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	switch cmd {
	case "identify":
		id, err := c.Identify(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("family %#02x model %#02x firmware %04d-%02d-%02d\n", id.Family, id.Model, id.Year, id.Month, id.Day)

	case "pull-config":
		rec, err := c.PullConfig(ctx)
		if err != nil {
			return err
		}
		printConfig(rec)

	case "push-config":
		if len(args) == 0 {
			return fmt.Errorf("push-config needs tag=value pairs: %w", errUsage)
		}
		rec, err := parseSettings(args)
		if err != nil {
			return err
		}
		echo, err := c.PushConfig(ctx, rec)
		printConfig(echo)
		return err

	case "pull-colors":
		if len(args) != 1 {
			return fmt.Errorf("pull-colors needs idle or active: %w", errUsage)
		}
		tag, err := parseTable(args[0])
		if err != nil {
			return err
		}
		table, err := c.PullColors(ctx, tag)
		if err != nil {
			return err
		}
		printTable(&table, tag)

	case "show":
		cells, err := parseCells(args)
		if err != nil {
			return err
		}
		return c.ShowColors(cells)

	case "clear":
		return c.Clear()

	case "apply":
		if len(args) != 1 {
			return fmt.Errorf("apply needs a profile path: %w", errUsage)
		}
		return apply(ctx, c, args[0])

	case "dump":
		if len(args) != 1 {
			return fmt.Errorf("dump needs a profile path: %w", errUsage)
		}
		return dump(ctx, c, args[0])

	case "factory-reset":
		rec, err := c.FactoryReset(ctx)
		if err != nil {
			return err
		}
		printConfig(rec)

	case "bootloader":
		return c.EnterBootloader()

	default:
		return fmt.Errorf("unknown command %q: %w", cmd, errUsage)
	}
	return nil
}

func printConfig(rec core.ConfigRecord) {
	for _, tag := range core.PullTags {
		if v, ok := rec.Get(tag); ok {
			fmt.Printf("  %2d %-12s %d\n", tag, core.TagName(tag), v)
		}
	}
}

func parseSettings(args []string) (core.ConfigRecord, error) {
	var rec core.ConfigRecord
	for _, arg := range args {
		key, val, ok := strings.Cut(arg, "=")
		if !ok {
			return rec, fmt.Errorf("setting %q: want tag=value", arg)
		}

		tag, known := core.TagByName(key)
		if !known {
			n, err := strconv.ParseUint(key, 0, 8)
			if err != nil || n >= core.ConfigTags {
				return rec, fmt.Errorf("setting %q: unknown tag", key)
			}
			tag = uint8(n)
		}

		v, err := strconv.ParseUint(val, 0, 8)
		if err != nil || v > 0x7F {
			return rec, fmt.Errorf("setting %q: value must be 0-127", arg)
		}
		rec.Set(tag, uint8(v))
	}
	return rec, nil
}

func parseTable(name string) (uint8, error) {
	switch name {
	case "idle":
		return core.TagIdleColors, nil
	case "active":
		return core.TagActiveColors, nil
	default:
		return 0, fmt.Errorf("unknown color table %q: %w", name, errUsage)
	}
}

func parseCells(args []string) ([]client.Cell, error) {
	cells := make([]client.Cell, 0, len(args))
	for _, arg := range args {
		key, name, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("cell %q: want button=color", arg)
		}
		b, err := strconv.ParseUint(key, 0, 8)
		if err != nil || b >= color.ButtonCount {
			return nil, fmt.Errorf("cell %q: button must be 0-%d", arg, color.ButtonCount-1)
		}
		id, ok := color.ParseID(name)
		if !ok {
			return nil, fmt.Errorf("cell %q: unknown color %q", arg, name)
		}
		cells = append(cells, client.Cell{Button: uint8(b), Color: id.RGB()})
	}
	return cells, nil
}

func printTable(t *client.ColorTable, tag uint8) {
	lim := client.LimiterFor(tag)
	for bank := uint8(0); bank < core.Banks; bank++ {
		fmt.Printf("bank %d\n", bank)
		for row := uint8(0); row < 8; row++ {
			fmt.Print(" ")
			for col := uint8(0); col < 8; col++ {
				fmt.Printf(" %-14s", t.ID(bank, row*8+col, lim))
			}
			fmt.Println()
		}
	}
}

func apply(ctx context.Context, c *client.Client, path string) error {
	p, err := profile.Load(path)
	if err != nil {
		return err
	}

	if len(p.Settings) > 0 {
		if _, err := c.PushConfig(ctx, p.Record()); err != nil {
			return err
		}
		fmt.Printf("stored %d settings\n", len(p.Settings))
	}

	for _, tag := range []uint8{core.TagIdleColors, core.TagActiveColors} {
		current, err := c.PullColors(ctx, tag)
		if err != nil {
			return err
		}
		table, ok := p.Table(tag, &current)
		if !ok {
			continue
		}
		if err := c.PushColors(tag, &table); err != nil {
			return err
		}

		stored, err := c.PullColors(ctx, tag)
		if err != nil {
			return err
		}
		if stored != table {
			return fmt.Errorf("color table %d differs after push", tag)
		}
		fmt.Printf("stored color table %d\n", tag)
	}
	return nil
}

func dump(ctx context.Context, c *client.Client, path string) error {
	rec, err := c.PullConfig(ctx)
	if err != nil {
		return err
	}
	idle, err := c.PullColors(ctx, core.TagIdleColors)
	if err != nil {
		return err
	}
	active, err := c.PullColors(ctx, core.TagActiveColors)
	if err != nil {
		return err
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if err := profile.FromDevice(name, rec, &idle, &active).Save(path); err != nil {
		return err
	}
	fmt.Printf("saved %s\n", path)
	return nil
}
