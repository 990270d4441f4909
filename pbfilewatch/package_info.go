// Package pbfilewatch allows the SDK client to reload file-based consent state
// automatically whenever a source file changes. It should be used in conjunction with the
// pbfiledata package. The two packages are separate so as to avoid bringing additional
// dependencies for users who do not need automatic reloading.
package pbfilewatch
