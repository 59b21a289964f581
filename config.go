package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// Window size constants
const (
	defaultWidth  = 1024
	defaultHeight = 768
	minWidth      = 400
	minHeight     = 300
)

// getDefaultKeybindings returns the default keybinding configuration
func getDefaultKeybindings() map[string][]string {
	return GetDefaultKeybindings()
}

// validateKeybindings validates the keybindings configuration
func validateKeybindings(keybindings map[string][]string) error {
	// Check for valid key formats and detect conflicts
	keyToAction := make(map[string]string)
	validKeys := getValidKeyNames()

	for action, keys := range keybindings {
		for _, keyStr := range keys {
			if err := validateKeyString(keyStr, validKeys); err != nil {
				return fmt.Errorf("invalid key '%s' for action '%s': %v", keyStr, action, err)
			}

			if existingAction, exists := keyToAction[keyStr]; exists {
				return fmt.Errorf("key conflict: '%s' is bound to both '%s' and '%s'", keyStr, existingAction, action)
			}
			keyToAction[keyStr] = action
		}
	}

	return nil
}

// validateKeyString validates a single key string format
func validateKeyString(keyStr string, validKeys map[string]bool) error {
	parts := strings.Split(keyStr, "+")
	if len(parts) == 0 {
		return fmt.Errorf("empty key string")
	}

	// Last part should be the actual key
	keyName := parts[len(parts)-1]
	if !validKeys[keyName] {
		return fmt.Errorf("unknown key: %s", keyName)
	}

	for i := 0; i < len(parts)-1; i++ {
		modifier := strings.ToLower(parts[i])
		if modifier != "shift" && modifier != "ctrl" && modifier != "alt" {
			return fmt.Errorf("unknown modifier: %s", parts[i])
		}
	}

	return nil
}

// validateMousebindings validates the mousebindings configuration
func validateMousebindings(mousebindings map[string][]string) error {
	inputToAction := make(map[string]string)

	for action, inputs := range mousebindings {
		for _, in := range inputs {
			if !validMouseInputs[in] {
				return fmt.Errorf("unknown mouse input '%s' for action '%s'", in, action)
			}

			if existingAction, exists := inputToAction[in]; exists {
				return fmt.Errorf("mouse binding conflict: '%s' is bound to both '%s' and '%s'", in, existingAction, action)
			}
			inputToAction[in] = action
		}
	}

	return nil
}

// getValidKeyNames returns a set of valid key names
func getValidKeyNames() map[string]bool {
	validKeys := make(map[string]bool)
	for name := range getKeyMapping() {
		validKeys[name] = true
	}
	return validKeys
}

// ConfigLoadResult contains the result of loading configuration
type ConfigLoadResult struct {
	Config   Config
	HasError bool
	Warnings []string
	Status   string // "OK", "Default", "Warning", "Error"
}

type Config struct {
	WindowWidth   int                 `json:"window_width"`
	WindowHeight  int                 `json:"window_height"`
	Fullscreen    bool                `json:"fullscreen"`
	GridColumns   int                 `json:"grid_columns"`
	PageSize      int                 `json:"page_size"`
	CacheSize     int                 `json:"cache_size"`
	HelpFontSize  float64             `json:"help_font_size"`
	OrderMethod   int                 `json:"order_method"`
	ManifestURL   string              `json:"manifest_url"`
	ThumbnailBase string              `json:"thumbnail_base"`
	FullImageBase string              `json:"full_image_base"`
	Keybindings   map[string][]string `json:"keybindings"`
	Mousebindings map[string][]string `json:"mousebindings"`
	Gestures      GestureSettings     `json:"gestures"`
	ZoomPrefs     map[string]string   `json:"zoom_prefs"`
}

func getConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "rgv.json"
	}
	return filepath.Join(homeDir, ".rgv.json")
}

func loadConfig() ConfigLoadResult {
	return loadConfigFromPath(getConfigPath())
}

func loadConfigFromPath(configPath string) ConfigLoadResult {
	config := Config{
		WindowWidth:   defaultWidth,
		WindowHeight:  defaultHeight,
		Fullscreen:    false,
		GridColumns:   4,
		PageSize:      DefaultPageSize,
		CacheSize:     128, // LRU texture cache entries
		HelpFontSize:  24.0,
		OrderMethod:   OrderShuffle, // Shuffled on every launch
		Keybindings:   getDefaultKeybindings(),
		Mousebindings: GetDefaultMousebindings(),
		Gestures:      DefaultGestureSettings(),
		ZoomPrefs:     map[string]string{},
	}

	result := ConfigLoadResult{
		Config:   config,
		HasError: false,
		Warnings: []string{},
		Status:   "OK",
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		// Config file not found is not an error - use defaults
		result.Status = "Default"
		return result
	}

	if err := json.Unmarshal(data, &config); err != nil {
		// Invalid config file - log warning and use defaults
		log.Printf("Warning: Invalid config file %s, using defaults: %v", configPath, err)
		result.HasError = true
		result.Status = "Error"
		result.Warnings = append(result.Warnings, fmt.Sprintf("Invalid config file: %v", err))
		return result
	}

	// Validate minimum size
	if config.WindowWidth < minWidth {
		config.WindowWidth = defaultWidth
	}
	if config.WindowHeight < minHeight {
		config.WindowHeight = defaultHeight
	}

	// Validate grid columns (minimum 1, maximum 12)
	if config.GridColumns < 1 {
		config.GridColumns = 4
	} else if config.GridColumns > 12 {
		config.GridColumns = 12
	}

	// Validate page size (minimum 1, maximum 500)
	if config.PageSize < 1 {
		config.PageSize = DefaultPageSize
	} else if config.PageSize > 500 {
		config.PageSize = 500
	}

	// Validate cache size (minimum 16, maximum 1024)
	if config.CacheSize < 16 {
		config.CacheSize = 128
	} else if config.CacheSize > 1024 {
		config.CacheSize = 1024
	}

	// Validate help font size (minimum 12px for readability)
	if config.HelpFontSize <= 12.0 {
		config.HelpFontSize = 24.0
	}

	// Validate order method
	if config.OrderMethod < OrderShuffle || config.OrderMethod > OrderEntry {
		config.OrderMethod = OrderShuffle
	}

	// Validate gesture thresholds
	if config.Gestures.SwipeDistance <= 0 || config.Gestures.SwipeVelocity <= 0 ||
		config.Gestures.PanDistanceScale < 1.0 || config.Gestures.DoubleTapTime <= 0 {
		config.Gestures = DefaultGestureSettings()
	}

	if config.ZoomPrefs == nil {
		config.ZoomPrefs = map[string]string{}
	}

	// Validate keybindings - ensure defaults exist for missing actions
	if config.Keybindings == nil {
		config.Keybindings = getDefaultKeybindings()
	} else {
		// Fill in missing keybindings with defaults
		defaults := getDefaultKeybindings()
		for action, defaultKeys := range defaults {
			if _, exists := config.Keybindings[action]; !exists {
				config.Keybindings[action] = defaultKeys
			}
		}

		if err := validateKeybindings(config.Keybindings); err != nil {
			log.Printf("Warning: Invalid keybindings detected, using defaults: %v", err)
			config.Keybindings = getDefaultKeybindings()
			result.Status = "Warning"
			result.Warnings = append(result.Warnings, fmt.Sprintf("Keybinding errors: %v", err))
		}
	}

	// Validate mousebindings the same way
	if config.Mousebindings == nil {
		config.Mousebindings = GetDefaultMousebindings()
	} else {
		defaults := GetDefaultMousebindings()
		for action, defaultInputs := range defaults {
			if _, exists := config.Mousebindings[action]; !exists {
				config.Mousebindings[action] = defaultInputs
			}
		}

		if err := validateMousebindings(config.Mousebindings); err != nil {
			log.Printf("Warning: Invalid mousebindings detected, using defaults: %v", err)
			config.Mousebindings = GetDefaultMousebindings()
			result.Status = "Warning"
			result.Warnings = append(result.Warnings, fmt.Sprintf("Mousebinding errors: %v", err))
		}
	}

	// Update the result with the final config
	result.Config = config
	return result
}

func saveConfig(config Config) {
	saveConfigToPath(config, getConfigPath())
}

func saveConfigToPath(config Config, configPath string) {
	// Don't save if size is too small
	if config.WindowWidth < minWidth || config.WindowHeight < minHeight {
		log.Printf("Warning: Not saving config with invalid window size: %dx%d",
			config.WindowWidth, config.WindowHeight)
		return
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		log.Printf("Error: Failed to marshal config: %v", err)
		return
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		log.Printf("Error: Failed to save config to %s: %v", configPath, err)
	}
}

// configPrefStore persists zoom preferences through the config file's
// zoom_prefs map. Writes land on disk when the config is saved at exit.
type configPrefStore struct {
	config *Config
}

func (s *configPrefStore) Get(key string) (string, bool) {
	v, ok := s.config.ZoomPrefs[key]
	return v, ok
}

func (s *configPrefStore) Set(key, value string) {
	s.config.ZoomPrefs[key] = value
}
