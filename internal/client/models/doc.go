// Package models defines the records persisted by the local store (users,
// tasks, the session pointer) and the transient notification type.
//
// JSON field names match the persisted layout exactly, so a record written by
// one version of the client is readable by the next.
package models
