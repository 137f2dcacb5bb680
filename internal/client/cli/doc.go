// Package cli is the terminal front end: a cobra command tree that can run
// one command per process or inside an interactive shell.
//
// Every command that belongs to a view carries the view's path. Before the
// command runs the router resolves that path, so protected commands never
// run without a stored session and the user is sent to the login view
// instead.
package cli
