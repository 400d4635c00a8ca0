package probe

import "context"

// Prober asks an external collaborator whether a model is usable right
// now. Implementations never fail past this boundary: any inability to
// reach or get an answer from the collaborator folds into false.
type Prober interface {
	Probe(ctx context.Context, modelID string) bool
}

// Func adapts a plain function to the Prober interface.
type Func func(ctx context.Context, modelID string) bool

func (f Func) Probe(ctx context.Context, modelID string) bool {
	return f(ctx, modelID)
}
