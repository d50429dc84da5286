package hook

import (
	"sync"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	pkgerrors "github.com/glorpus-work/photozip/pkg/errors"
)

// Executor compiles and runs Tengo hook scripts.
type Executor struct {
	scripts map[Type]string
	mutex   sync.RWMutex
}

// NewExecutor creates an executor with no scripts registered.
func NewExecutor() *Executor {
	return &Executor{
		scripts: make(map[Type]string),
	}
}

// Execute runs the script registered for hookType, if any. The returned skip
// flag is true when the script set skip = true; it only carries meaning for
// PreAlbum hooks. Scripts signal failure by assigning a non-empty err
// variable.
func (e *Executor) Execute(hookType Type, hctx Context) (bool, error) {
	e.mutex.RLock()
	script, exists := e.scripts[hookType]
	e.mutex.RUnlock()
	if !exists {
		return false, nil
	}

	instance := tengo.NewScript([]byte(script))
	instance.SetImports(stdlib.GetModuleMap("fmt", "os", "strings", "time"))

	_ = instance.Add("albumId", hctx.AlbumID)
	_ = instance.Add("albumTitle", hctx.AlbumTitle)
	_ = instance.Add("archivePath", hctx.ArchivePath)
	_ = instance.Add("succeeded", hctx.Succeeded)
	_ = instance.Add("failed", hctx.Failed)
	_ = instance.Add("skip", false)
	for k, v := range hctx.Vars {
		_ = instance.Add(k, v)
	}

	compiled, err := instance.Run()
	if err != nil {
		return false, pkgerrors.Wrapf(pkgerrors.ErrHookExecution, "%s: %v", hookType, err)
	}

	if errVar := compiled.Get("err"); errVar != nil {
		switch v := errVar.Value().(type) {
		case error:
			return false, pkgerrors.Wrap(pkgerrors.ErrHookScript, v.Error())
		case string:
			if v != "" {
				return false, pkgerrors.Wrap(pkgerrors.ErrHookScript, v)
			}
		}
	}

	skip, _ := compiled.Get("skip").Value().(bool)
	return skip, nil
}

// AddScript adds or updates the script for the specified hook type.
func (e *Executor) AddScript(hookType Type, script string) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	e.scripts[hookType] = script
}

// RemoveScript removes the script for the specified hook type.
func (e *Executor) RemoveScript(hookType Type) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	delete(e.scripts, hookType)
}

// HasScript checks if a script exists for the specified hook type.
func (e *Executor) HasScript(hookType Type) bool {
	e.mutex.RLock()
	defer e.mutex.RUnlock()
	_, exists := e.scripts[hookType]
	return exists
}
