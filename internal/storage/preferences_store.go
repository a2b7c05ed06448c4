package storage

import "fyne.io/fyne/v2"

const missingSentinel = "\x00missing"

// PreferencesStore keeps values in the Fyne application preferences.
type PreferencesStore struct {
	prefs fyne.Preferences
}

// NewPreferencesStore wraps prefs.
func NewPreferencesStore(prefs fyne.Preferences) *PreferencesStore {
	return &PreferencesStore{prefs: prefs}
}

// Load returns the value for key.
func (store *PreferencesStore) Load(key string) (string, bool, error) {
	value := store.prefs.StringWithFallback(key, missingSentinel)
	if value == missingSentinel {
		return "", false, nil
	}
	return value, true, nil
}

// Save replaces the value for key. Fyne flushes preferences to disk itself.
func (store *PreferencesStore) Save(key, value string) error {
	store.prefs.SetString(key, value)
	return nil
}

func (store *PreferencesStore) Close() error { return nil }
