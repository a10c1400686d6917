package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// envPrefix namespaces the environment variables read by both binaries,
// e.g. MEMORIZER_SERVER overrides the "server" key.
const envPrefix = "MEMORIZER_"

// Client configures the terminal trainer.
type Client struct {
	Server string `koanf:"server" validate:"required,url"`
	User   string `koanf:"user" validate:"required"`
	Deck   string `koanf:"deck"`
}

// DefaultClient mirrors the defaults of the original web page: a fixed
// fallback user, deck selection up front.
func DefaultClient() Client {
	return Client{
		Server: "http://localhost:8080",
		User:   "default",
	}
}

// Server configures the scheduler backend.
type Server struct {
	Listen   string      `koanf:"listen" validate:"required"`
	DB       string      `koanf:"db" validate:"required"`
	ReposDir string      `koanf:"repos" validate:"required"`
	Users    []UserDecks `koanf:"users" validate:"required,min=1,dive"`
}

// UserDecks assigns a set of decks to one user.
type UserDecks struct {
	Name  string    `koanf:"name" validate:"required"`
	Decks []DeckRef `koanf:"decks" validate:"dive"`
}

// DeckRef names a deck and where its cards come from: a deck file, a
// directory of deck files, or a git URL to sync first.
type DeckRef struct {
	Name string `koanf:"name" validate:"required"`
	Path string `koanf:"path" validate:"required"`
}

// DefaultServer returns the server defaults; Users must come from the file.
func DefaultServer() Server {
	return Server{
		Listen:   ":8080",
		DB:       "memorizer.db",
		ReposDir: "repos",
	}
}

// LoadClient merges the optional YAML file, MEMORIZER_* environment
// variables and command-line flags, in that order of increasing precedence.
func LoadClient(path string, flags *pflag.FlagSet) (*Client, error) {
	cfg := DefaultClient()
	if err := load(path, flags, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadServer is like LoadClient for the server configuration; the file is
// required because it carries the user/deck listing.
func LoadServer(path string, flags *pflag.FlagSet) (*Server, error) {
	cfg := DefaultServer()
	if err := load(path, flags, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func load(path string, flags *pflag.FlagSet, out any) error {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	envMapper := func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "_", ".")
	}
	if err := k.Load(env.Provider(envPrefix, ".", envMapper), nil); err != nil {
		return fmt.Errorf("failed to load environment: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return fmt.Errorf("failed to load flags: %w", err)
		}
	}

	if err := k.Unmarshal("", out); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(out); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
