// Package utils provides small helpers shared by the showtime packages: optional
// value handling (trimmed strings, positive ints), percentages for completeness
// reports, and lenient integer parsing for query parameters and flags.
package utils
