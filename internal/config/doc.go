// SPDX-License-Identifier: MIT

// Package config loads and persists the user settings of the uihelper tool.
//
// Settings are resolved with precedence ENV > file > defaults. The file is
// strict YAML: unknown keys are rejected with ErrUnknownConfigField.
package config
