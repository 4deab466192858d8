// Package common contains shared constants and sentinel errors used across
// gophtodo components.
package common

// AppName is shown in the REPL banner and attached to every log record.
const AppName = "gophtodo"

// MinTitleLength is the shortest accepted task title, in runes, after trimming.
const MinTitleLength = 3
