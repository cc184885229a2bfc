package app

import (
	"context"

	"go.uber.org/fx"

	"github.com/opamp-commander/opamp-commander/internal/helper"
)

// AsController annotates a controller constructor so fx collects its result
// into the "controllers" group NewEngine consumes.
func AsController(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(Controller)),
		fx.ResultTags(`group:"controllers"`),
	)
}

// AsRunner annotates a background-service constructor so fx collects its
// result into the "runners" group Executor drives.
func AsRunner(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(helper.Runner)),
		fx.ResultTags(`group:"runners"`),
	)
}

// NoInheritContext provides a non-inherit context, used so a shutdown's
// stop-timeout isn't itself cancelled by the context it's shutting down.
// https://github.com/kkHAIKE/contextcheck#need-break-ctx-inheritance
func NoInheritContext(_ context.Context) context.Context {
	return context.Background()
}

// Identity returns its input. It lets a concrete constructor be re-provided
// under an interface type via fx.Annotate(Identity[*T], fx.As(new(Iface))).
func Identity[T any](a T) T {
	return a
}

// PointerFunc lifts a value into a zero-arg constructor of its pointer, for
// fx.Provide-ing one sub-struct of a larger settings value.
func PointerFunc[T any](a T) func() *T {
	return func() *T {
		return &a
	}
}

// ValueFunc lifts a value into a zero-arg constructor, for fx.Provide-ing a
// plain settings value that isn't itself constructed by fx.
func ValueFunc[T any](a T) func() T {
	return func() T {
		return a
	}
}
