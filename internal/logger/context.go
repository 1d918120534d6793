package logger

// Component-specific logger functions

// HTTP returns a logger for request handling
func HTTP() Logger {
	return WithField("component", "http")
}

// Auth returns a logger for session and credential checks
func Auth() Logger {
	return WithField("component", "auth")
}

// Store returns a logger for reminder storage operations
func Store() Logger {
	return WithField("component", "store")
}

// DB returns a logger for database operations
func DB() Logger {
	return WithField("component", "db")
}

// CLI returns a logger for CLI operations
func CLI() Logger {
	return WithField("component", "cli")
}
