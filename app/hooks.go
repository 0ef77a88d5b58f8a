// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package app

import (
	"context"
	"errors"
)

// HookFunc runs after a [Runtime] has completed.
type HookFunc func(context.Context) error

// HookRegistry collects post-run hooks while a [Runtime] is being built.
type HookRegistry struct {
	hooks []HookFunc
}

// OnPostRun registers a hook. Hooks run in registration order.
func (r *HookRegistry) OnPostRun(hook HookFunc) {
	r.hooks = append(r.hooks, hook)
}

type hookRuntime struct {
	inner Runtime
	hooks []HookFunc
}

// Run runs the inner runtime followed by every hook, even if the runtime
// or an earlier hook failed. Hooks receive a context which is not cancelled
// along with the runtime's, so they can still flush telemetry or close
// connections after a signal. All errors are joined.
func (rt hookRuntime) Run(ctx context.Context) error {
	runtimeErr := rt.inner.Run(ctx)

	hookCtx := context.WithoutCancel(ctx)

	var hookErrs []error
	for _, hook := range rt.hooks {
		hookErrs = append(hookErrs, hook(hookCtx))
	}

	return errors.Join(runtimeErr, errors.Join(hookErrs...))
}

// WithHooks builds a [Runtime] with f, giving it a [HookRegistry] for
// registering cleanup next to the resources it acquires.
//
//	builder := app.WithHooks(func(ctx context.Context, h *app.HookRegistry) (app.Runtime, error) {
//	    shutdown, err := otel.Initialize(ctx, cfg.OTel)
//	    if err != nil {
//	        return nil, err
//	    }
//	    h.OnPostRun(app.HookFunc(shutdown))
//	    return cmd, nil
//	})
//
// If f fails, hooks it already registered are run before the error is returned.
func WithHooks[T Runtime](f func(context.Context, *HookRegistry) (T, error)) Builder[Runtime] {
	return BuilderFunc[Runtime](func(ctx context.Context) (Runtime, error) {
		registry := &HookRegistry{}

		inner, err := f(ctx, registry)
		if err != nil {
			hookCtx := context.WithoutCancel(ctx)

			errs := []error{err}
			for _, hook := range registry.hooks {
				errs = append(errs, hook(hookCtx))
			}
			return nil, errors.Join(errs...)
		}

		return hookRuntime{
			inner: inner,
			hooks: registry.hooks,
		}, nil
	})
}
