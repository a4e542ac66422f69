// Package walk discovers shader sources under a root directory.
package walk

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/robertgumeny/rescomp/internal/types"
)

// CollisionError is returned when two shader files map to the same resource
// symbol. Either one would silently overwrite the other's generated pair.
type CollisionError struct {
	Name   string
	First  string
	Second string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("resource name collision: %s and %s both produce resource %q (symbol %s); rename one of them",
		e.First, e.Second, e.Name, types.Symbol(e.Name))
}

// ResourceName derives the resource name from a shader filename: everything
// before the first dot. "glow.frag.glsl" yields "glow".
func ResourceName(filename string) string {
	base := filepath.Base(filename)
	if i := strings.IndexByte(base, '.'); i >= 0 {
		return base[:i]
	}
	return base
}

// Discover recursively enumerates files under root ending in ext and returns
// one Shader per match, in lexical path order. Each shader's bytecode path is
// bytecodeDir/<filename><compiledExt>.
//
// Returns *CollisionError if two files share a resource name, compared
// case-insensitively since the generated symbols are upper-cased.
func Discover(root, ext, bytecodeDir, compiledExt string) ([]types.Shader, error) {
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("shader directory %s does not exist", root)
		}
		return nil, fmt.Errorf("stat shader directory %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("shader directory %s is not a directory", root)
	}

	var shaders []types.Shader
	seen := make(map[string]string)

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ext) {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		name := ResourceName(d.Name())
		if name == "" {
			return fmt.Errorf("shader %s has no resource name before its first dot", rel)
		}

		key := types.Symbol(name)
		if prev, ok := seen[key]; ok {
			return &CollisionError{Name: name, First: prev, Second: rel}
		}
		seen[key] = rel

		shaders = append(shaders, types.Shader{
			SourcePath:   path,
			RelPath:      rel,
			Name:         name,
			BytecodePath: filepath.Join(bytecodeDir, d.Name()+compiledExt),
		})
		return nil
	})
	if err != nil {
		var ce *CollisionError
		if errors.As(err, &ce) {
			return nil, ce
		}
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	return shaders, nil
}
