// Package cli is the headless front end: it parses command-line arguments,
// validates them, runs searches through the search controller and maps the
// outcome to a process exit code.
package cli
