// Package publish copies generated report documents into a clone of the
// team's documentation repository and commits and pushes them.
package publish
