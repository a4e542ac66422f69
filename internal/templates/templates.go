// Package templates holds the files stamped into a project by `rescomp init`.
// They are compiled into the binary at build time via //go:embed.
//
// The init/ tree is copied as-is: init/rescomp.yaml to the project root and
// init/common/Resource.h next to the generated resources, where their
// #include "common/Resource.h" expects it.
package templates

import "embed"

// Init holds files copied to the target project by `rescomp init`.
//
//go:embed init
var Init embed.FS
