package model

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Defaults applied to new jobs
	DefaultMaxImageWidth  int `json:"default_max_image_width"`
	DefaultMaxImageHeight int `json:"default_max_image_height"`
	DefaultMaxImageSize   int `json:"default_max_image_size"`
	DefaultMinImageCount  int `json:"default_min_image_count"`
	DefaultFitCallsLimit  int `json:"default_fit_calls_limit"`

	// Application preferences
	RecentJobs []string `json:"recent_jobs"`
}

// DefaultAppConfig returns an AppConfig populated with the values from
// DefaultSettings().
func DefaultAppConfig() AppConfig {
	defaults := DefaultSettings()
	return AppConfig{
		DefaultMaxImageWidth:  defaults.MaxImageWidth,
		DefaultMaxImageHeight: defaults.MaxImageHeight,
		DefaultMaxImageSize:   defaults.MaxImageSize,
		DefaultMinImageCount:  defaults.MinImageCount,
		DefaultFitCallsLimit:  defaults.FitCallsLimit,
		RecentJobs:            []string{},
	}
}

// ApplyToSettings copies the default values from AppConfig into a FitSettings
// struct. Used when creating a new job so it inherits the saved defaults.
func (c AppConfig) ApplyToSettings(s *FitSettings) {
	s.MaxImageWidth = c.DefaultMaxImageWidth
	s.MaxImageHeight = c.DefaultMaxImageHeight
	s.MaxImageSize = c.DefaultMaxImageSize
	s.MinImageCount = c.DefaultMinImageCount
	s.FitCallsLimit = c.DefaultFitCallsLimit
}

// AddRecentJob prepends path to the recent-jobs list, dropping duplicates and
// keeping at most max entries.
func (c *AppConfig) AddRecentJob(path string, max int) {
	recent := []string{path}
	for _, p := range c.RecentJobs {
		if p != path && len(recent) < max {
			recent = append(recent, p)
		}
	}
	c.RecentJobs = recent
}
