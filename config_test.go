package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rgv.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	result := loadConfigFromPath(filepath.Join(t.TempDir(), "missing.json"))

	if result.Status != "Default" {
		t.Errorf("Status = %q, want Default", result.Status)
	}
	c := result.Config
	if c.WindowWidth != defaultWidth || c.WindowHeight != defaultHeight {
		t.Errorf("window = %dx%d, want %dx%d", c.WindowWidth, c.WindowHeight, defaultWidth, defaultHeight)
	}
	if c.PageSize != DefaultPageSize {
		t.Errorf("PageSize = %d, want %d", c.PageSize, DefaultPageSize)
	}
	if c.OrderMethod != OrderShuffle {
		t.Errorf("OrderMethod = %d, want shuffle", c.OrderMethod)
	}
	if c.Gestures != DefaultGestureSettings() {
		t.Errorf("Gestures = %+v", c.Gestures)
	}
	if len(c.Keybindings) == 0 {
		t.Error("default keybindings missing")
	}
}

func TestLoadConfigInvalidJSON(t *testing.T) {
	path := writeConfigFile(t, "{not json")
	result := loadConfigFromPath(path)

	if !result.HasError || result.Status != "Error" {
		t.Errorf("Status = %q HasError = %v, want Error/true", result.Status, result.HasError)
	}
	if result.Config.WindowWidth != defaultWidth {
		t.Error("invalid config should keep defaults")
	}
}

func TestConfigValidationClamps(t *testing.T) {
	tests := []struct {
		name  string
		json  string
		check func(t *testing.T, c Config)
	}{
		{
			"window too small",
			`{"window_width": 10, "window_height": 10}`,
			func(t *testing.T, c Config) {
				if c.WindowWidth != defaultWidth || c.WindowHeight != defaultHeight {
					t.Errorf("window = %dx%d", c.WindowWidth, c.WindowHeight)
				}
			},
		},
		{
			"grid columns out of range",
			`{"grid_columns": 99}`,
			func(t *testing.T, c Config) {
				if c.GridColumns != 12 {
					t.Errorf("GridColumns = %d, want 12", c.GridColumns)
				}
			},
		},
		{
			"page size zero",
			`{"page_size": 0}`,
			func(t *testing.T, c Config) {
				if c.PageSize != DefaultPageSize {
					t.Errorf("PageSize = %d, want %d", c.PageSize, DefaultPageSize)
				}
			},
		},
		{
			"cache size too small",
			`{"cache_size": 2}`,
			func(t *testing.T, c Config) {
				if c.CacheSize != 128 {
					t.Errorf("CacheSize = %d, want 128", c.CacheSize)
				}
			},
		},
		{
			"unknown order method",
			`{"order_method": 42}`,
			func(t *testing.T, c Config) {
				if c.OrderMethod != OrderShuffle {
					t.Errorf("OrderMethod = %d, want shuffle", c.OrderMethod)
				}
			},
		},
		{
			"negative gesture thresholds",
			`{"gestures": {"swipe_distance": -5}}`,
			func(t *testing.T, c Config) {
				if c.Gestures != DefaultGestureSettings() {
					t.Errorf("Gestures = %+v, want defaults", c.Gestures)
				}
			},
		},
		{
			"help font too small",
			`{"help_font_size": 6}`,
			func(t *testing.T, c Config) {
				if c.HelpFontSize != 24.0 {
					t.Errorf("HelpFontSize = %v, want 24", c.HelpFontSize)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := loadConfigFromPath(writeConfigFile(t, tt.json))
			tt.check(t, result.Config)
		})
	}
}

func TestConfigKeybindingValidation(t *testing.T) {
	t.Run("partial keybindings filled with defaults", func(t *testing.T) {
		path := writeConfigFile(t, `{"keybindings": {"exit": ["KeyX"]}}`)
		result := loadConfigFromPath(path)

		kb := result.Config.Keybindings
		if kb["exit"][0] != "KeyX" {
			t.Errorf("exit binding = %v, want override kept", kb["exit"])
		}
		if len(kb["next_image"]) == 0 {
			t.Error("missing actions should fall back to defaults")
		}
	})

	t.Run("conflicting keybindings rejected", func(t *testing.T) {
		path := writeConfigFile(t, `{"keybindings": {"exit": ["KeyX"], "help": ["KeyX"]}}`)
		result := loadConfigFromPath(path)

		if result.Status != "Warning" {
			t.Errorf("Status = %q, want Warning", result.Status)
		}
		if result.Config.Keybindings["exit"][0] == "KeyX" {
			t.Error("conflicting bindings should reset to defaults")
		}
	})

	t.Run("unknown key rejected", func(t *testing.T) {
		path := writeConfigFile(t, `{"keybindings": {"exit": ["KeyBanana"]}}`)
		result := loadConfigFromPath(path)

		if result.Status != "Warning" {
			t.Errorf("Status = %q, want Warning", result.Status)
		}
	})
}

func TestConfigMousebindingValidation(t *testing.T) {
	t.Run("partial mousebindings filled with defaults", func(t *testing.T) {
		path := writeConfigFile(t, `{"mousebindings": {"cycle_zoom": ["MiddleClick"]}}`)
		result := loadConfigFromPath(path)

		mb := result.Config.Mousebindings
		if mb["cycle_zoom"][0] != "MiddleClick" {
			t.Errorf("cycle_zoom binding = %v, want override kept", mb["cycle_zoom"])
		}
		if len(mb["next_image"]) == 0 {
			t.Error("missing actions should fall back to defaults")
		}
	})

	t.Run("unknown mouse input rejected", func(t *testing.T) {
		path := writeConfigFile(t, `{"mousebindings": {"cycle_zoom": ["TripleClick"]}}`)
		result := loadConfigFromPath(path)

		if result.Status != "Warning" {
			t.Errorf("Status = %q, want Warning", result.Status)
		}
		if result.Config.Mousebindings["cycle_zoom"][0] != "DoubleClick" {
			t.Error("invalid bindings should reset to defaults")
		}
	})

	t.Run("conflicting mousebindings rejected", func(t *testing.T) {
		// WheelUp collides with the default previous_image binding
		path := writeConfigFile(t, `{"mousebindings": {"next_image": ["WheelUp"]}}`)
		result := loadConfigFromPath(path)

		if result.Status != "Warning" {
			t.Errorf("Status = %q, want Warning", result.Status)
		}
		if result.Config.Mousebindings["next_image"][0] != "WheelDown" {
			t.Error("conflicting bindings should reset to defaults")
		}
	})
}

func TestValidateKeyString(t *testing.T) {
	validKeys := getValidKeyNames()

	tests := []struct {
		key     string
		wantErr bool
	}{
		{"KeyA", false},
		{"Shift+KeyS", false},
		{"Ctrl+Alt+KeyQ", false},
		{"Escape", false},
		{"Banana", true},
		{"Hyper+KeyA", true},
		{"", true},
	}

	for _, tt := range tests {
		err := validateKeyString(tt.key, validKeys)
		if (err != nil) != tt.wantErr {
			t.Errorf("validateKeyString(%q) err = %v, wantErr %v", tt.key, err, tt.wantErr)
		}
	}
}

func TestSaveAndReloadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rgv.json")

	config := loadConfigFromPath(path).Config
	config.WindowWidth = 1280
	config.WindowHeight = 720
	config.OrderMethod = OrderNatural
	config.ZoomPrefs["zoom_desktop"] = "3"
	saveConfigToPath(config, path)

	reloaded := loadConfigFromPath(path)
	if reloaded.Config.WindowWidth != 1280 || reloaded.Config.WindowHeight != 720 {
		t.Errorf("window = %dx%d", reloaded.Config.WindowWidth, reloaded.Config.WindowHeight)
	}
	if reloaded.Config.OrderMethod != OrderNatural {
		t.Errorf("OrderMethod = %d, want natural", reloaded.Config.OrderMethod)
	}
	if reloaded.Config.ZoomPrefs["zoom_desktop"] != "3" {
		t.Error("zoom preference lost on round trip")
	}
}

func TestSaveConfigRefusesInvalidSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rgv.json")

	saveConfigToPath(Config{WindowWidth: 10, WindowHeight: 10}, path)

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("config with invalid window size should not be written")
	}
}

func TestConfigPrefStore(t *testing.T) {
	config := Config{ZoomPrefs: map[string]string{}}
	store := &configPrefStore{config: &config}

	if _, ok := store.Get("zoom_desktop"); ok {
		t.Error("empty store should miss")
	}
	store.Set("zoom_desktop", "2")
	if v, ok := store.Get("zoom_desktop"); !ok || v != "2" {
		t.Errorf("Get = %q, %v", v, ok)
	}

	// The store writes through to the config that gets persisted
	data, _ := json.Marshal(config)
	var out Config
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if out.ZoomPrefs["zoom_desktop"] != "2" {
		t.Error("preference missing from serialized config")
	}
}
