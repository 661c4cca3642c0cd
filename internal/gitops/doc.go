// Package gitops scripts branch-and-pull-request workflows by shelling
// out to the git and gh binaries.
package gitops
