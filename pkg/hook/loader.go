package hook

import (
	"os"

	pkgerrors "github.com/glorpus-work/photozip/pkg/errors"
)

// LoadScripts reads the script files named in paths and registers each one
// under its hook type. Empty paths are skipped, so an unset config entry
// simply means no hook. An unreadable file fails the whole load.
func LoadScripts(e *Executor, paths map[Type]string) error {
	for hookType, path := range paths {
		if path == "" {
			continue
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return pkgerrors.Wrapf(pkgerrors.ErrHookLoad, "%s: %v", hookType, err)
		}
		e.AddScript(hookType, string(content))
	}
	return nil
}
