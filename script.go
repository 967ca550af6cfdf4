package addon

import (
	"context"
	"errors"
)

// ScriptFunctionName is the callable exposed to the host's script
// layer.
const ScriptFunctionName = "InteractNearest"

// ErrUsage is surfaced to the script layer when the argument list is
// malformed. The message is the user-facing usage string.
var ErrUsage = errors.New("Usage: InteractNearest(autoloot)")

// ScriptFunc is one callable registered with the host scripting
// engine. args carry the raw script values; the returned int is pushed
// back to the caller.
type ScriptFunc func(ctx context.Context, args []any) (int, error)

// ScriptRegistry is the host boundary for script function
// registration.
type ScriptRegistry interface {
	RegisterFunction(name string, fn ScriptFunc) error
}

// Bind registers InteractNearest with the host scripting engine.
func Bind(registry ScriptRegistry, engine *Engine) error {
	if registry == nil || engine == nil {
		return errors.New("addon: bind requires a registry and an engine")
	}
	return registry.RegisterFunction(ScriptFunctionName, engine.scriptInteractNearest)
}

func (e *Engine) scriptInteractNearest(ctx context.Context, args []any) (int, error) {
	autoloot, ok := numericArg(args, 0)
	if !ok {
		return 0, ErrUsage
	}
	return e.InteractNearest(ctx, autoloot), nil
}

// numericArg extracts an integer from the script value at idx.
// Script engines hand numbers over as float64 more often than not.
func numericArg(args []any, idx int) (int, bool) {
	if idx >= len(args) {
		return 0, false
	}
	switch v := args[idx].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

// Canonical action names for the host key-binding UI.
const (
	ActionNameInteract         = "interact"
	ActionNameInteractAutoloot = "interact_autoloot"
)

// BindingAction is one named bindable action.
type BindingAction struct {
	Name     string
	Title    string
	Autoloot int
}

// BindingActions returns the canonical action registry, in display
// order.
func BindingActions() []BindingAction {
	return []BindingAction{
		{Name: ActionNameInteract, Title: "Interact", Autoloot: 0},
		{Name: ActionNameInteractAutoloot, Title: "Interact (auto-loot)", Autoloot: 1},
	}
}

// KeyBinder is the host boundary for keybinding registration.
type KeyBinder interface {
	RegisterBinding(name, title string, press func())
}

// RegisterBindings exposes both interact actions to the host UI. The
// host delivers presses serially on its own input thread, so the press
// callback calls straight into the engine.
func RegisterBindings(binder KeyBinder, engine *Engine) error {
	if binder == nil || engine == nil {
		return errors.New("addon: binding registration requires a binder and an engine")
	}
	for _, action := range BindingActions() {
		autoloot := action.Autoloot
		binder.RegisterBinding(action.Name, action.Title, func() {
			engine.InteractNearest(context.Background(), autoloot)
		})
	}
	return nil
}
