// Package integration contains the end-to-end smoke tests for rescomp.
// Tests in this package build the real binary and run it against a temporary
// project with the test binary standing in for glslangValidator.
//
// Run with: go test ./integration/... -v -timeout 60s
package integration
