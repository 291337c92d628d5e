// Package hosting abstracts the GitHub-side operations needed to provision
// a repository with a published static page.
//
// The package includes:
// - Client interface covering create-repository, set-remote, push and enable-pages
// - A gh/git subprocess implementation (the default integration path)
// - A GitHub REST API implementation backed by go-github
// - A structured error taxonomy shared by both implementations
package hosting
