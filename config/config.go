package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// RoomSpec is one preconfigured room from ROOMS.
type RoomSpec struct {
	Name     string
	Password string
}

type Config struct {
	Addr           string
	AllowedOrigins []string
	LogLevel       string
	LogPretty      bool
	Tick           time.Duration
	Rooms          []RoomSpec
	SendBuffer     int
	InputRate      float64
	InputBurst     int
}

func Default() Config {
	return Config{
		Addr:       ":3000",
		LogLevel:   "info",
		Tick:       16 * time.Millisecond,
		Rooms:      []RoomSpec{{Name: "test"}},
		SendBuffer: 256,
		InputRate:  120,
		InputBurst: 30,
	}
}

// InitConfig loads the given .env files (".env" when none are named) into the
// environment. Missing files are not an error.
func InitConfig(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// Load reads the optional .env file and then the environment on top of
// Default.
func Load() (Config, error) {
	if err := InitConfig(); err != nil {
		return Config{}, err
	}
	return FromEnv()
}

func FromEnv() (Config, error) {
	c := Default()
	var err error

	if v, ok := lookup("ADDR"); ok {
		c.Addr = v
	}
	if v, ok := lookup("ALLOWED_ORIGINS"); ok {
		c.AllowedOrigins = splitList(v)
	}
	if v, ok := lookup("LOG_LEVEL"); ok {
		c.LogLevel = v
	}
	if v, ok := lookup("LOG_PRETTY"); ok {
		if c.LogPretty, err = strconv.ParseBool(v); err != nil {
			return Config{}, fmt.Errorf("LOG_PRETTY: %w", err)
		}
	}
	if v, ok := lookup("TICK_MS"); ok {
		ms, err := strconv.Atoi(v)
		if err != nil || ms <= 0 {
			return Config{}, fmt.Errorf("TICK_MS must be a positive integer, got %q", v)
		}
		c.Tick = time.Duration(ms) * time.Millisecond
	}
	if v, ok := lookup("ROOMS"); ok {
		if c.Rooms, err = ParseRooms(v); err != nil {
			return Config{}, err
		}
	}
	if v, ok := lookup("SEND_BUFFER"); ok {
		if c.SendBuffer, err = positiveInt("SEND_BUFFER", v); err != nil {
			return Config{}, err
		}
	}
	if v, ok := lookup("INPUT_RATE"); ok {
		if c.InputRate, err = strconv.ParseFloat(v, 64); err != nil || c.InputRate <= 0 {
			return Config{}, fmt.Errorf("INPUT_RATE must be a positive number, got %q", v)
		}
	}
	if v, ok := lookup("INPUT_BURST"); ok {
		if c.InputBurst, err = positiveInt("INPUT_BURST", v); err != nil {
			return Config{}, err
		}
	}
	return c, nil
}

// ParseRooms parses a comma separated list of "name" or "name:password".
func ParseRooms(s string) ([]RoomSpec, error) {
	var out []RoomSpec
	seen := make(map[string]bool)
	for _, item := range splitList(s) {
		name, password, _ := strings.Cut(item, ":")
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("ROOMS: empty room name in %q", item)
		}
		if seen[name] {
			return nil, fmt.Errorf("ROOMS: duplicate room %q", name)
		}
		seen[name] = true
		out = append(out, RoomSpec{Name: name, Password: password})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("ROOMS: no rooms configured")
	}
	return out, nil
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func positiveInt(key, v string) (int, error) {
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, v)
	}
	return n, nil
}
