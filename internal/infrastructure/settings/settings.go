// Package settings reads section-scoped connection parameters from a local
// settings file. INI files use configparser-style sections; YAML files map
// section names to flat key/value objects.
package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"
)

var ErrSectionNotFound = errors.New("section not found")

// Load returns the options of section in the file at path, keyed by
// lowercased option name.
func Load(path, section string) (map[string]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return loadYAML(path, section)
	default:
		return loadINI(path, section)
	}
}

func notFound(path, section string) error {
	return fmt.Errorf("section %s is not found in the %s file: %w", section, path, ErrSectionNotFound)
}

func loadINI(path, section string) (map[string]string, error) {
	f, err := ini.LoadSources(ini.LoadOptions{InsensitiveKeys: true}, path)
	if err != nil {
		return nil, fmt.Errorf("read settings %s: %w", path, err)
	}
	if !f.HasSection(section) {
		return nil, notFound(path, section)
	}
	out := map[string]string{}
	for _, k := range f.Section(section).Keys() {
		out[k.Name()] = k.String()
	}
	return out, nil
}

func loadYAML(path, section string) (map[string]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read settings %s: %w", path, err)
	}
	var doc map[string]map[string]any
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse settings %s: %w", path, err)
	}
	sec, ok := doc[section]
	if !ok {
		return nil, notFound(path, section)
	}
	out := make(map[string]string, len(sec))
	for k, v := range sec {
		if v == nil {
			out[strings.ToLower(k)] = ""
			continue
		}
		out[strings.ToLower(k)] = fmt.Sprint(v)
	}
	return out, nil
}
