package project

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/piwi3910/shapefit/internal/model"
)

// Library kinds, used to name the default store files.
const (
	KindShapes = "shapes"
	KindWorlds = "worlds"
)

// DefaultLibraryPath returns the JSON store for the given kind, e.g.
// ~/.shapefit/shapes.json.
func DefaultLibraryPath(kind string) string {
	return filepath.Join(DefaultConfigDir(), kind+".json")
}

// SaveLibrary writes the pattern library to a JSON file.
func SaveLibrary(path string, lib model.PatternLibrary) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(lib, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadLibrary reads a pattern library from a JSON file.
// If the file does not exist, returns an empty library.
func LoadLibrary(path string) (model.PatternLibrary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.NewPatternLibrary(), nil
		}
		return model.PatternLibrary{}, err
	}
	var lib model.PatternLibrary
	if err := json.Unmarshal(data, &lib); err != nil {
		return model.PatternLibrary{}, err
	}
	if lib.Patterns == nil {
		lib.Patterns = []model.Pattern{}
	}
	return lib, nil
}

// LoadDefaultLibrary loads the library of the given kind from the default path.
func LoadDefaultLibrary(kind string) (model.PatternLibrary, error) {
	return LoadLibrary(DefaultLibraryPath(kind))
}

// SaveDefaultLibrary saves the library of the given kind to the default path.
func SaveDefaultLibrary(kind string, lib model.PatternLibrary) error {
	return SaveLibrary(DefaultLibraryPath(kind), lib)
}
