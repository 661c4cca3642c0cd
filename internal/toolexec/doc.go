// Package toolexec runs external binaries synchronously and reports
// their exit code, stdout, and stderr as distinct fields.
package toolexec
