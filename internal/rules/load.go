package rules

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigurationError reports a rule document that is missing, malformed or
// lacks a required key. It is fatal: no traversal happens.
type ConfigurationError struct {
	Path string
	Key  string
	Err  error
}

func (e *ConfigurationError) Error() string {
	msg := "invalid rule document"
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Key != "" {
		msg += " (" + e.Key + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

var errMissingKey = errors.New("required key is missing")

// document mirrors the rule file layout:
//
//	directories:
//	  ignore: [".git", "node_modules", "*.egg-info"]
//	extensions:
//	  code: [".py", ".go"]
//	  other: [".yaml", ".json"]
//	  ignore: [".png"]
//	files:
//	  necessary: ["requirements.txt", "Dockerfile"]
//	output:
//	  file_name: myproject
type document struct {
	Directories *struct {
		Ignore *[]string `yaml:"ignore"`
	} `yaml:"directories"`
	Extensions *struct {
		Code   *[]string `yaml:"code"`
		Other  *[]string `yaml:"other"`
		Ignore []string  `yaml:"ignore"`
	} `yaml:"extensions"`
	Files *struct {
		Necessary *[]string `yaml:"necessary"`
	} `yaml:"files"`
	Output struct {
		FileName string `yaml:"file_name"`
	} `yaml:"output"`
}

// Load reads and parses the rule document at path.
func Load(path string) (RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RuleSet{}, &ConfigurationError{Path: path, Err: err}
	}
	rs, err := Parse(data)
	if err != nil {
		var ce *ConfigurationError
		if errors.As(err, &ce) {
			ce.Path = path
		}
		return RuleSet{}, err
	}
	return rs, nil
}

// Parse decodes a rule document. Unknown keys are rejected.
func Parse(data []byte) (RuleSet, error) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("document is empty")
		}
		return RuleSet{}, &ConfigurationError{Err: err}
	}

	switch {
	case doc.Directories == nil || doc.Directories.Ignore == nil:
		return RuleSet{}, &ConfigurationError{Key: "directories.ignore", Err: errMissingKey}
	case doc.Extensions == nil || doc.Extensions.Code == nil:
		return RuleSet{}, &ConfigurationError{Key: "extensions.code", Err: errMissingKey}
	case doc.Extensions.Other == nil:
		return RuleSet{}, &ConfigurationError{Key: "extensions.other", Err: errMissingKey}
	case doc.Files == nil || doc.Files.Necessary == nil:
		return RuleSet{}, &ConfigurationError{Key: "files.necessary", Err: errMissingKey}
	}

	return New(Config{
		IgnoredDirectories:   *doc.Directories.Ignore,
		IgnoredExtensions:    doc.Extensions.Ignore,
		EssentialFilenames:   *doc.Files.Necessary,
		StructuredExtensions: *doc.Extensions.Other,
		SourceExtensions:     *doc.Extensions.Code,
		ProjectName:          doc.Output.FileName,
	})
}

// FileNames are the rule document names looked up by Find.
var FileNames = []string{"rules.yml", "rules.yaml"}

// Find returns the first rule document found in dirs, or "" if there is none.
func Find(dirs ...string) string {
	for _, dir := range dirs {
		for _, name := range FileNames {
			p := filepath.Join(dir, name)
			if info, err := os.Stat(p); err == nil && !info.IsDir() {
				return p
			}
		}
	}
	return ""
}

// SearchPaths returns the default rule document locations: the user config
// directory first, then the working directory.
func SearchPaths() []string {
	var paths []string
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "doctorcodebase"))
	}
	return append(paths, ".")
}

// Resolve loads the rule document at path, or the first one found in the
// default locations, falling back to Default when none exists.
func Resolve(path string) (RuleSet, string, error) {
	if path == "" {
		path = Find(SearchPaths()...)
	}
	if path == "" {
		return Default(), "", nil
	}
	rs, err := Load(path)
	if err != nil {
		return RuleSet{}, path, fmt.Errorf("loading rules: %w", err)
	}
	return rs, path, nil
}
