package project

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/piwi3910/shapefit/internal/model"
)

// DefaultConfigDir returns the default directory for application data.
// On all platforms this is ~/.shapefit/
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".shapefit")
}

// DefaultConfigPath returns the default path for the application config file.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

// SaveAppConfig persists an AppConfig to the given path as JSON.
// It creates any missing parent directories automatically.
func SaveAppConfig(path string, config model.AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadAppConfig reads an AppConfig from the given path.
// If the file does not exist, it returns DefaultAppConfig with no error.
// Fields missing from the file keep their default values.
func LoadAppConfig(path string) (model.AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.DefaultAppConfig(), nil
		}
		return model.AppConfig{}, err
	}
	config := model.DefaultAppConfig()
	if err := json.Unmarshal(data, &config); err != nil {
		return model.AppConfig{}, err
	}
	// Ensure RecentPatterns is never nil
	if config.RecentPatterns == nil {
		config.RecentPatterns = []string{}
	}
	config.InitialShapeSize = model.ClampSize(config.InitialShapeSize, model.MinShapeSize, model.MaxShapeSize)
	config.InitialWorldSize = model.ClampSize(config.InitialWorldSize, model.MinWorldSize, model.MaxWorldSize)
	return config, nil
}
