// SPDX-License-Identifier: MPL-2.0

// Package config loads and persists the application configuration from a
// TOML file in the platform config directory.
package config
