package terminal

// Theme carries the prefixes printed before session messages.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
}

// Option configures a Session.
type Option func(*Session)

// WithPromptDriver overrides the survey driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(s *Session) {
		if driver != nil {
			s.driver = driver
		}
	}
}

// WithLabels overrides the prompt label of individual fields.
func WithLabels(labels map[string]string) Option {
	return func(s *Session) {
		for name, label := range labels {
			s.labels[name] = label
		}
	}
}

// WithMaxAttempts stops the session after n failed submissions. Zero means
// unlimited.
func WithMaxAttempts(n int) Option {
	return func(s *Session) {
		if n >= 0 {
			s.maxAttempts = n
		}
	}
}

// WithTheme applies message prefixes.
func WithTheme(theme Theme) Option {
	return func(s *Session) {
		s.theme = theme
	}
}
