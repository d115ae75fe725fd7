package internal

import "github.com/veckert/daybook/internal/store"

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config *Config
	store  store.Store
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithStore injects a pre-built item store, bypassing the configured
// driver. The caller keeps ownership of the store and closes it.
func WithStore(st store.Store) Option {
	return func(a *application) {
		a.store = st
	}
}
