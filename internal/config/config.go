package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/vango-dev/routesync/internal/errors"
)

const (
	// ConfigFileName is the name of the JSON route file.
	ConfigFileName = "routesync.json"

	// YAMLFileName is the name of the YAML route file.
	YAMLFileName = "routesync.yaml"

	// TOMLFileName is the name of the TOML route file.
	TOMLFileName = "routesync.toml"
)

// fileNames are the route file names looked up in a directory, in order.
var fileNames = []string{ConfigFileName, YAMLFileName, "routesync.yml", TOMLFileName}

// Format is the encoding of a route file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatOf picks the format from a file name extension. Anything that is
// not .yaml, .yml or .toml is JSON.
func FormatOf(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	}
	return FormatJSON
}

// File is a decoded route file.
type File struct {
	// BaseURL is prepended to every routed URL.
	BaseURL string `json:"baseUrl,omitempty" yaml:"baseUrl,omitempty" toml:"baseUrl,omitempty"`

	// OnlyHash routes the fragment only.
	OnlyHash bool `json:"onlyHash,omitempty" yaml:"onlyHash,omitempty" toml:"onlyHash,omitempty"`

	// AllowEscape lets unmatched navigation through.
	AllowEscape bool `json:"allowEscape,omitempty" yaml:"allowEscape,omitempty" toml:"allowEscape,omitempty"`

	// PreventAutostart skips routing the initial URL.
	PreventAutostart bool `json:"preventAutostart,omitempty" yaml:"preventAutostart,omitempty" toml:"preventAutostart,omitempty"`

	// FilterFalsy drops falsy values from signal URLs.
	FilterFalsy bool `json:"filterFalsy,omitempty" yaml:"filterFalsy,omitempty" toml:"filterFalsy,omitempty"`

	// Routes is the route tree.
	Routes []Route `json:"routes" yaml:"routes" toml:"routes"`

	// source stores where the file was loaded from.
	source string
}

// Route is one node of the route tree as written in a file.
type Route struct {
	Path   string            `json:"path" yaml:"path" toml:"path"`
	Signal string            `json:"signal,omitempty" yaml:"signal,omitempty" toml:"signal,omitempty"`
	Map    map[string]string `json:"map,omitempty" yaml:"map,omitempty" toml:"map,omitempty"`
	RMap   map[string]string `json:"rmap,omitempty" yaml:"rmap,omitempty" toml:"rmap,omitempty"`
	Routes []Route           `json:"routes,omitempty" yaml:"routes,omitempty" toml:"routes,omitempty"`
}

// New returns a starter route file with a single root route.
func New() *File {
	return &File{
		Routes: []Route{{Path: "/", Signal: "home"}},
	}
}

// Load reads the route file from the specified directory. It looks for
// routesync.json first, then routesync.yaml, routesync.yml and
// routesync.toml.
func Load(dir string) (*File, error) {
	for _, name := range fileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return nil, errors.New(errors.CodeConfigFile).
		WithDetail("No " + ConfigFileName + " or " + YAMLFileName + " found in " + dir).
		WithSuggestion("Run 'routesync init' to create a route file")
}

// LoadFile reads a route file from the specified path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.CodeConfigFile).
				WithDetail("No route file found at " + path).
				WithSuggestion("Check the path or run 'routesync init'")
		}
		return nil, errors.New(errors.CodeConfigFile).Wrap(err)
	}

	f, err := Parse(data, FormatOf(path))
	if err != nil {
		return nil, err
	}
	f.source = path
	return f, nil
}

// Parse decodes a route file. A "routes" entry that is not a list is
// reported as R001; any other decoding failure as R051.
func Parse(data []byte, format Format) (*File, error) {
	switch format {
	case FormatYAML:
		return parseYAML(data)
	case FormatTOML:
		return parseTOML(data)
	}
	return parseJSON(data)
}

func parseJSON(data []byte) (*File, error) {
	var raw struct {
		File
		Routes json.RawMessage `json:"routes"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, malformed(FormatJSON, err)
	}

	f := raw.File
	trimmed := bytes.TrimSpace(raw.Routes)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, notAList()
	}
	if err := json.Unmarshal(trimmed, &f.Routes); err != nil {
		return nil, malformed(FormatJSON, err)
	}
	return &f, nil
}

func parseYAML(data []byte) (*File, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, malformed(FormatYAML, err)
	}
	if routes := mappingValue(&doc, "routes"); routes == nil || routes.Kind != yaml.SequenceNode {
		return nil, notAList()
	}

	var f File
	if err := doc.Decode(&f); err != nil {
		return nil, malformed(FormatYAML, err)
	}
	return &f, nil
}

func parseTOML(data []byte) (*File, error) {
	var raw map[string]any
	if _, err := toml.Decode(string(data), &raw); err != nil {
		return nil, malformed(FormatTOML, err)
	}
	switch raw["routes"].(type) {
	case []map[string]any, []any:
	default:
		return nil, notAList()
	}

	var f File
	if _, err := toml.Decode(string(data), &f); err != nil {
		return nil, malformed(FormatTOML, err)
	}
	return &f, nil
}

// mappingValue returns the value node of key in the top-level mapping of a
// YAML document.
func mappingValue(doc *yaml.Node, key string) *yaml.Node {
	root := doc
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return nil
		}
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value == key {
			return root.Content[i+1]
		}
	}
	return nil
}

func notAList() error {
	return errors.Newf(errors.CodeRoutesNotArray, "routes must be defined as an array.").
		WithSuggestion("Write \"routes\" as a list of route objects")
}

func malformed(format Format, err error) error {
	return errors.New(errors.CodeConfigFileFormat).
		WithDetail("Failed to parse " + string(format) + " route file: " + err.Error()).
		WithSuggestion("Check that the route file is valid " + strings.ToUpper(string(format))).
		Wrap(err)
}

// Save writes the route file to the path it was loaded from.
func (f *File) Save() error {
	if f.source == "" || strings.HasPrefix(f.source, s3Scheme) {
		return errors.Newf(errors.CodeConfigFile, "no local path set")
	}
	return f.SaveTo(f.source)
}

// SaveTo writes the route file to path, encoded by its extension.
func (f *File) SaveTo(path string) error {
	var (
		data []byte
		err  error
	)
	switch FormatOf(path) {
	case FormatYAML:
		data, err = yaml.Marshal(f)
	case FormatTOML:
		var buf bytes.Buffer
		err = toml.NewEncoder(&buf).Encode(f)
		data = buf.Bytes()
	default:
		data, err = json.MarshalIndent(f, "", "  ")
		// Add newline at end of file
		data = append(data, '\n')
	}
	if err != nil {
		return errors.New(errors.CodeConfigFile).Wrap(err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New(errors.CodeConfigFile).Wrap(err)
	}

	f.source = path
	return nil
}

// Source returns where the file was loaded from: a path or an s3:// URI.
func (f *File) Source() string {
	return f.source
}

// Exists checks if a route file exists in the given directory.
func Exists(dir string) bool {
	for _, name := range fileNames {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing a route file, or an error if not found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New(errors.CodeConfigFile).
				WithDetail("No route file found in " + startDir + " or any parent directory").
				WithSuggestion("Run 'routesync init' to create one")
		}
		dir = parent
	}
}
