// internal/form/builtin.go
//
// Harmony – Forms subsystem: embedded login and registration forms.
//
//------------------------------------------------------------------------------

package form

import (
	"embed"
	"fmt"
	"io/fs"
)

// IDs of the embedded forms.
const (
	LoginID    = "auth/login"
	RegisterID = "auth/register"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// RegisterBuiltin compiles and registers every embedded form.  Call once at
// startup before RegisterDir so directory overrides win.
func RegisterBuiltin() error {
	entries, err := fs.ReadDir(builtinFS, "builtin")
	if err != nil {
		return err
	}
	for _, e := range entries {
		path := "builtin/" + e.Name()
		raw, err := builtinFS.ReadFile(path)
		if err != nil {
			return err
		}
		fd, err := ParseFormDef(raw, path)
		if err != nil {
			return err
		}
		s, err := Compile(fd)
		if err != nil {
			return fmt.Errorf("compile %s: %w", path, err)
		}
		Register(s)
	}
	return nil
}
