package settings

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	settingsFileTypeConstant    = "json"
	mapstructureTagNameConstant = "mapstructure"
	jsonIndentConstant          = "  "

	loggerNotConfiguredMessageConstant   = "logger not configured"
	settingsPathMissingMessageConstant   = "settings path not configured"
	settingsReadFailedMessageConstant    = "settings file unreadable; using defaults"
	settingsParseFailedMessageConstant   = "settings file malformed; using defaults"
	settingsDecodeFailedMessageConstant  = "settings file has unusable values; using defaults"
	settingsMarshalErrorTemplateConstant = "failed to encode settings: %w"
	settingsMkdirErrorTemplateConstant   = "failed to create settings directory: %w"
	settingsWriteErrorTemplateConstant   = "failed to write settings file: %w"

	settingsPathFieldConstant = "settings_path"
)

// Configuration errors reported by NewStore.
var (
	ErrLoggerNotConfigured = errors.New(loggerNotConfiguredMessageConstant)
	ErrSettingsPathMissing = errors.New(settingsPathMissingMessageConstant)
)

// Store persists AppSettings as a JSON file. Loading never fails; saving
// reports errors so callers can decide how loudly to complain.
type Store struct {
	settingsPath string
	logger       *zap.Logger
}

// NewStore validates its dependencies and returns a settings store rooted at
// settingsPath.
func NewStore(settingsPath string, logger *zap.Logger) (*Store, error) {
	if len(strings.TrimSpace(settingsPath)) == 0 {
		return nil, ErrSettingsPathMissing
	}
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	return &Store{settingsPath: settingsPath, logger: logger}, nil
}

// Load reads the settings file and merges it over the defaults. Any failure
// along the way degrades to DefaultSettings with a warning instead of an
// error, so the tool always starts.
func (store *Store) Load() AppSettings {
	loadedSettings := DefaultSettings()

	settingsData, readError := os.ReadFile(store.settingsPath)
	if readError != nil {
		if !errors.Is(readError, os.ErrNotExist) {
			store.logger.Warn(settingsReadFailedMessageConstant,
				zap.String(settingsPathFieldConstant, store.settingsPath),
				zap.Error(readError))
		}
		return loadedSettings
	}

	viperInstance := viper.New()
	viperInstance.SetConfigType(settingsFileTypeConstant)
	if parseError := viperInstance.ReadConfig(bytes.NewReader(settingsData)); parseError != nil {
		store.logger.Warn(settingsParseFailedMessageConstant,
			zap.String(settingsPathFieldConstant, store.settingsPath),
			zap.Error(parseError))
		return loadedSettings
	}

	settingsDecoder, decoderError := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		TagName:          mapstructureTagNameConstant,
		Result:           &loadedSettings,
	})
	if decoderError != nil {
		store.logger.Warn(settingsDecodeFailedMessageConstant,
			zap.String(settingsPathFieldConstant, store.settingsPath),
			zap.Error(decoderError))
		return DefaultSettings()
	}
	if decodeError := settingsDecoder.Decode(viperInstance.AllSettings()); decodeError != nil {
		store.logger.Warn(settingsDecodeFailedMessageConstant,
			zap.String(settingsPathFieldConstant, store.settingsPath),
			zap.Error(decodeError))
		return DefaultSettings()
	}

	return loadedSettings
}

// Save writes the full settings record back to disk, creating the parent
// directory if needed.
func (store *Store) Save(applicationSettings AppSettings) error {
	encodedSettings, marshalError := json.MarshalIndent(applicationSettings, "", jsonIndentConstant)
	if marshalError != nil {
		return fmt.Errorf(settingsMarshalErrorTemplateConstant, marshalError)
	}

	if directoryError := os.MkdirAll(filepath.Dir(store.settingsPath), 0o755); directoryError != nil {
		return fmt.Errorf(settingsMkdirErrorTemplateConstant, directoryError)
	}

	if writeError := os.WriteFile(store.settingsPath, append(encodedSettings, '\n'), 0o644); writeError != nil {
		return fmt.Errorf(settingsWriteErrorTemplateConstant, writeError)
	}

	return nil
}
