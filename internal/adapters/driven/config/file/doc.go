// Package file implements the configuration loader port on top of a
// TOML project file.
package file
