package types

// Preference keys recognized by the preference store.
const (
	PrefTheme            = "theme"
	PrefNotifications    = "notifications"
	PrefReminderTime     = "reminderTime"
	PrefWeekStart        = "weekStart"
	PrefLanguage         = "language"
	PrefAutoSync         = "autoSync"
	PrefSoundEnabled     = "soundEnabled"
	PrefVibrationEnabled = "vibrationEnabled"
)

// KnownPrefKeys is the fixed set of recognized preference keys.
var KnownPrefKeys = map[string]bool{
	PrefTheme:            true,
	PrefNotifications:    true,
	PrefReminderTime:     true,
	PrefWeekStart:        true,
	PrefLanguage:         true,
	PrefAutoSync:         true,
	PrefSoundEnabled:     true,
	PrefVibrationEnabled: true,
}

// Preferences is the flat set of user settings. The JSON field names are
// the persisted format and must not change without a migration.
type Preferences struct {
	Theme            string `json:"theme"`
	Notifications    bool   `json:"notifications"`
	ReminderTime     string `json:"reminderTime"`
	WeekStart        int    `json:"weekStart"` // 1 = Monday, 0 = Sunday
	Language         string `json:"language"`
	AutoSync         bool   `json:"autoSync"`
	SoundEnabled     bool   `json:"soundEnabled"`
	VibrationEnabled bool   `json:"vibrationEnabled"`
}

// DefaultPreferences returns the hard-coded default for every recognized
// preference key.
func DefaultPreferences() Preferences {
	return Preferences{
		Theme:            "light",
		Notifications:    true,
		ReminderTime:     "09:00",
		WeekStart:        1,
		Language:         "zh-CN",
		AutoSync:         true,
		SoundEnabled:     true,
		VibrationEnabled: true,
	}
}
