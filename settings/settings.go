package settings

import (
	"fmt"
	"log"

	"github.com/milk9111/orchard/common"
	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

const (
	AppName = "orchard"

	settingsObject   = "settings"
	settingsProperty = "global"
)

// Settings are player preferences that survive restarts.
type Settings struct {
	SoundEnabled bool    `yaml:"sound_enabled"`
	SoundVolume  float64 `yaml:"sound_volume"`
	Fullscreen   bool    `yaml:"fullscreen"`
}

func Default() *Settings {
	return &Settings{
		SoundEnabled: true,
		SoundVolume:  0.8,
	}
}

// Manager loads and saves Settings through gdata. A nil gdata manager keeps
// settings in memory only.
type Manager struct {
	store    *gdata.Manager
	settings *Settings
}

// Open opens the per-user gdata store. On failure the manager still works
// from memory and the error is returned for logging.
func Open() (*Manager, error) {
	store, err := gdata.Open(gdata.Config{AppName: AppName})
	if err != nil {
		return NewManager(nil), fmt.Errorf("settings: open store: %w", err)
	}
	return NewManager(store), nil
}

func NewManager(store *gdata.Manager) *Manager {
	m := &Manager{store: store, settings: Default()}
	if err := m.Load(); err != nil {
		log.Printf("settings: %v (using defaults)", err)
	}
	return m
}

func (m *Manager) Load() error {
	m.settings = Default()
	if m.store == nil || !m.store.ObjectPropExists(settingsObject, settingsProperty) {
		return nil
	}

	data, err := m.store.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		return fmt.Errorf("settings: load: %w", err)
	}

	loaded := Default()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		return fmt.Errorf("settings: unmarshal: %w", err)
	}
	loaded.SoundVolume = clampVolume(loaded.SoundVolume)
	m.settings = loaded
	return nil
}

func (m *Manager) Save() error {
	if m.store == nil {
		return nil
	}
	data, err := yaml.Marshal(m.settings)
	if err != nil {
		return fmt.Errorf("settings: marshal: %w", err)
	}
	if err := m.store.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("settings: save: %w", err)
	}
	return nil
}

func (m *Manager) Settings() Settings {
	return *m.settings
}

// Volume is the effective sound volume, zero when sound is off.
func (m *Manager) Volume() float64 {
	if !m.settings.SoundEnabled {
		return 0
	}
	return m.settings.SoundVolume
}

func (m *Manager) SetSoundEnabled(enabled bool) {
	m.settings.SoundEnabled = enabled
}

func (m *Manager) ToggleSound() bool {
	m.settings.SoundEnabled = !m.settings.SoundEnabled
	return m.settings.SoundEnabled
}

func (m *Manager) SetSoundVolume(v float64) {
	m.settings.SoundVolume = clampVolume(v)
}

func (m *Manager) SetFullscreen(on bool) {
	m.settings.Fullscreen = on
}

func clampVolume(v float64) float64 {
	return common.Clamp(v, 0, 1)
}
