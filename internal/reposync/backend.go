// Package reposync reconciles the journal directory with its remote copy.
//
// The engine only sequences steps and decides what to do on failure; every
// repository operation goes through a Backend so the protocol can be tested
// without git.
package reposync

import "context"

// Backend is the set of repository operations the engine sequences.
type Backend interface {
	IsRepo(ctx context.Context) (bool, error)
	HasRemote(ctx context.Context) (bool, error)
	// InProgress names an interrupted merge or rebase, or returns "".
	InProgress(ctx context.Context) (string, error)

	HasLocalChanges(ctx context.Context) (bool, error)
	// StashPush reports whether a stash entry was created.
	StashPush(ctx context.Context, message string) (bool, error)
	StashPop(ctx context.Context) error

	Fetch(ctx context.Context) error
	// HasRemoteChanges is only meaningful after Fetch.
	HasRemoteChanges(ctx context.Context) (bool, error)
	Merge(ctx context.Context) error

	// Commit reports whether a commit was created.
	Commit(ctx context.Context, message string) (bool, error)
	NeedsPush(ctx context.Context) (bool, error)
	Push(ctx context.Context) error
}
