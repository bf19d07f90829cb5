// Package store persists saved words, study groups, chat messages, and
// translation cache entries in a SQLite database. The schema is managed
// through embedded migrations applied at open time.
package store
