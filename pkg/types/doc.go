// Package types defines the HostStorage interface, entity types, and
// standard errors for the Cairn habit-tracking storage core.
package types
