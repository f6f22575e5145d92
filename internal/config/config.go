// Package config loads harvest settings from a YAML file, the environment and
// interactive prompts, and validates the result.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"

	"github.com/lehigh-university-libraries/photomap/internal/finna"
	"github.com/lehigh-university-libraries/photomap/internal/gazetteer"
)

// Environment variables read by ApplyEnv
const (
	EnvAPIURL   = "PHOTOMAP_API_URL"
	EnvLanguage = "PHOTOMAP_LANGUAGE"
	EnvOutput   = "PHOTOMAP_OUTPUT"
)

// DefaultOutput is where harvested records are written when unset
const DefaultOutput = "photos.csv"

// GazetteerConfig locates the town list and its columns
type GazetteerConfig struct {
	Path       string `yaml:"path" validate:"required"`
	NameColumn string `yaml:"name_column" validate:"required"`
	LatColumn  string `yaml:"lat_column" validate:"required"`
	LonColumn  string `yaml:"lon_column" validate:"required"`
}

// Columns returns the configured gazetteer columns
func (g GazetteerConfig) Columns() gazetteer.Columns {
	return gazetteer.Columns{Name: g.NameColumn, Lat: g.LatColumn, Lon: g.LonColumn}
}

// Config holds everything a harvest run needs
type Config struct {
	APIURL      string          `yaml:"api_url" validate:"required,url"`
	Language    string          `yaml:"language" validate:"required"`
	PageSize    int             `yaml:"page_size" validate:"min=1,max=100"`
	Timeout     time.Duration   `yaml:"timeout" validate:"gt=0"`
	Retries     int             `yaml:"retries" validate:"min=0"`
	Gazetteer   GazetteerConfig `yaml:"gazetteer"`
	SearchWords string          `yaml:"search_words" validate:"required"`
	StartYear   int             `yaml:"start_year" validate:"required"`
	EndYear     int             `yaml:"end_year" validate:"required,gtefield=StartYear"`
	Output      string          `yaml:"output" validate:"required"`
}

// Default returns a config with every optional setting filled in
func Default() Config {
	cols := gazetteer.DefaultColumns()
	return Config{
		APIURL:   finna.DefaultBaseURL,
		Language: finna.DefaultLanguage,
		PageSize: finna.MaxPageSize,
		Timeout:  finna.DefaultTimeout,
		Gazetteer: GazetteerConfig{
			NameColumn: cols.Name,
			LatColumn:  cols.Lat,
			LonColumn:  cols.Lon,
		},
		Output: DefaultOutput,
	}
}

// Load reads a YAML config file on top of the defaults. An empty path returns
// the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// ApplyEnv overrides settings from the environment. getenv is usually os.Getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvAPIURL); v != "" {
		c.APIURL = v
	}
	if v := getenv(EnvLanguage); v != "" {
		c.Language = v
	}
	if v := getenv(EnvOutput); v != "" {
		c.Output = v
	}
}

// ClientOptions returns the search client settings
func (c Config) ClientOptions() finna.Options {
	return finna.Options{
		BaseURL:  c.APIURL,
		Language: c.Language,
		PageSize: c.PageSize,
		Timeout:  c.Timeout,
		Retries:  c.Retries,
	}
}

// Validate checks the config and returns a readable error listing each
// failing field
func (c Config) Validate() error {
	validate := validator.New()
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("failed to validate config: %w", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// Missing lists the interactive inputs that are still unset
func (c Config) Missing() []string {
	var missing []string
	if c.Gazetteer.Path == "" {
		missing = append(missing, "gazetteer")
	}
	if c.SearchWords == "" {
		missing = append(missing, "search words")
	}
	if c.StartYear == 0 {
		missing = append(missing, "start year")
	}
	if c.EndYear == 0 {
		missing = append(missing, "end year")
	}
	return missing
}

// StdinIsTerminal reports whether prompts can be shown
func StdinIsTerminal() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Prompt asks for each unset input on in, writing questions to out
func (c *Config) Prompt(in io.Reader, out io.Writer) error {
	reader := bufio.NewReader(in)

	ask := func(question string) (string, error) {
		fmt.Fprintf(out, "%s: ", question)
		line, err := reader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return "", fmt.Errorf("failed to read answer: %w", err)
		}
		return strings.TrimSpace(line), nil
	}

	askYear := func(question string) (int, error) {
		answer, err := ask(question)
		if err != nil {
			return 0, err
		}
		year, err := strconv.Atoi(answer)
		if err != nil {
			return 0, fmt.Errorf("failed to parse year %q: %w", answer, err)
		}
		return year, nil
	}

	var err error
	if c.Gazetteer.Path == "" {
		if c.Gazetteer.Path, err = ask("Gazetteer file"); err != nil {
			return err
		}
	}
	if c.SearchWords == "" {
		if c.SearchWords, err = ask("Search word file"); err != nil {
			return err
		}
	}
	if c.StartYear == 0 {
		if c.StartYear, err = askYear("Start year"); err != nil {
			return err
		}
	}
	if c.EndYear == 0 {
		if c.EndYear, err = askYear("End year"); err != nil {
			return err
		}
	}

	return nil
}
