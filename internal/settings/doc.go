// Package settings loads and saves the tool's persisted preferences. Loading
// is deliberately forgiving: a missing or malformed settings file yields the
// defaults so the tool can always run.
package settings
