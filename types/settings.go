package types

// Display unit for durations. Durations on tasks are always stored in
// hours; the unit only affects display and the DurationCap value.
const (
	UnitHours   = "hours"
	UnitMinutes = "minutes"
)

// Display formats for dates.
const (
	DateFormatISO = "YYYY-MM-DD"
	DateFormatEU  = "DD/MM/YYYY"
	DateFormatUS  = "MM/DD/YYYY"
)

// DefaultDurationCap is the weekly goal, in hours, used when no cap has
// been configured.
const DefaultDurationCap = 40

// Settings holds process-wide user preferences. A single instance exists
// per store and is overwritten wholesale on save.
type Settings struct {
	TimeUnit            string  `json:"timeUnit" yaml:"timeUnit"`
	DateFormat          string  `json:"dateFormat" yaml:"dateFormat"`
	DueReminders        bool    `json:"dueReminders" yaml:"dueReminders"`
	GoalAlerts          bool    `json:"goalAlerts" yaml:"goalAlerts"`
	DurationCap         float64 `json:"durationCap" yaml:"durationCap"` // in TimeUnit at time of entry
	CaseSensitiveSearch bool    `json:"caseSensitiveSearch" yaml:"caseSensitiveSearch"`
}

// DefaultSettings returns the settings used for a fresh or corrupt store.
func DefaultSettings() Settings {
	return Settings{
		TimeUnit:     UnitHours,
		DateFormat:   DateFormatISO,
		DueReminders: true,
		GoalAlerts:   true,
		DurationCap:  DefaultDurationCap,
	}
}

// CapHours returns the weekly goal normalized to hours, falling back to
// the default when the cap is unset or nonsensical.
func (s Settings) CapHours() float64 {
	cap := s.DurationCap
	if s.TimeUnit == UnitMinutes {
		cap = cap / 60
	}
	if cap <= 0 {
		return DefaultDurationCap
	}
	return cap
}
