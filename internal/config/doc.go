// Verdant - Cultivation Analytics and Recommendation Engine
// Copyright 2026 Verdant Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/verdant-labs/verdant

// Package config loads and validates application configuration.
//
// Configuration is layered with Koanf v2: built-in defaults first, then an
// optional YAML config file, then environment variables. Later layers
// override earlier ones, so a container deployment can run entirely on env
// vars while a bare-metal install keeps a config.yaml.
//
// The loaded Config is immutable; components receive the sections they need
// at construction time.
package config
