package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	ModeSolo = "solo"
	ModeHost = "host"
	ModeJoin = "join"

	// LinkScheme prefixes share links handed from host to peers.
	LinkScheme = "sketchboard://"

	DefaultFile = "sketchboard.toml"
)

type Config struct {
	Mode         string  `toml:"mode"`
	Join         string  `toml:"join"`
	Port         int     `toml:"port"`
	Name         string  `toml:"name"`
	PenWidth     float64 `toml:"pen_width"`
	EraserRadius float64 `toml:"eraser_radius"`
	Width        float64 `toml:"width"`
	Height       float64 `toml:"height"`
	ExportDir    string  `toml:"export_dir"`
	Debug        bool    `toml:"debug"`
}

func Default() Config {
	name, err := os.Hostname()
	if err != nil || name == "" {
		name = "sketchboard"
	}
	return Config{
		Mode:         ModeSolo,
		Port:         8888,
		Name:         name,
		PenWidth:     3,
		EraserRadius: 30,
		Width:        1024,
		Height:       768,
		ExportDir:    ".",
	}
}

// Load builds the configuration from defaults, then the TOML file named by
// -config (a missing file is fine), then the command-line flags that were
// actually given. A share link as the only argument selects join mode.
func Load(args []string) (Config, error) {
	conf := Default()

	fset := flag.NewFlagSet("sketchboard", flag.ContinueOnError)
	fset.SetOutput(io.Discard)
	file := fset.String("config", DefaultFile, "config filename")
	mode := fset.String("mode", conf.Mode, "solo, host or join")
	join := fset.String("join", "", "[join] host address or share link; empty discovers via mDNS")
	port := fset.Int("port", conf.Port, "[host] listen port")
	name := fset.String("name", conf.Name, "[host] advertised board name")
	pen := fset.Float64("pen", conf.PenWidth, "initial pen width")
	eraser := fset.Float64("eraser", conf.EraserRadius, "eraser radius")
	width := fset.Float64("width", conf.Width, "canvas width")
	height := fset.Float64("height", conf.Height, "canvas height")
	exportDir := fset.String("export-dir", conf.ExportDir, "directory for exported drawings")
	debug := fset.Bool("debug", false, "log canvas diagnostics")

	if err := fset.Parse(args); err != nil {
		return conf, fmt.Errorf("parse flags: %w", err)
	}

	if err := readConfig(*file, &conf); err != nil {
		return conf, err
	}

	fset.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "mode":
			conf.Mode = *mode
		case "join":
			conf.Join = *join
		case "port":
			conf.Port = *port
		case "name":
			conf.Name = *name
		case "pen":
			conf.PenWidth = *pen
		case "eraser":
			conf.EraserRadius = *eraser
		case "width":
			conf.Width = *width
		case "height":
			conf.Height = *height
		case "export-dir":
			conf.ExportDir = *exportDir
		case "debug":
			conf.Debug = *debug
		}
	})

	if rest := fset.Args(); len(rest) > 0 && strings.HasPrefix(rest[0], LinkScheme) {
		conf.Mode = ModeJoin
		conf.Join = rest[0]
	}

	return conf, conf.Validate()
}

func readConfig(fn string, conf *Config) error {
	if _, err := toml.DecodeFile(fn, conf); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", fn, err)
	}
	return nil
}

func (c Config) Validate() error {
	switch c.Mode {
	case ModeSolo, ModeHost, ModeJoin:
	default:
		return fmt.Errorf("unknown mode %q", c.Mode)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.PenWidth <= 0 {
		return fmt.Errorf("pen width must be positive, got %v", c.PenWidth)
	}
	if c.EraserRadius <= 0 {
		return fmt.Errorf("eraser radius must be positive, got %v", c.EraserRadius)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("canvas size must be positive, got %vx%v", c.Width, c.Height)
	}
	return nil
}

// JoinAddress strips the share link scheme, leaving host:port.
func (c Config) JoinAddress() string {
	addr := strings.TrimPrefix(c.Join, LinkScheme)
	return strings.TrimSuffix(addr, "/")
}

// ShareLink is the link a host hands to peers.
func ShareLink(ip string, port int) string {
	return fmt.Sprintf("%s%s:%d", LinkScheme, ip, port)
}
