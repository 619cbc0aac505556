// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package config holds the handful of knobs the langc CLI takes: the input
// path, version/build-info flags, and an optional history database path. No
// viper, no environment-variable magic — a plain struct populated by cobra
// flag bindings in cmd/langc.
package config
