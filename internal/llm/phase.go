package llm

import "context"

type ctxKeyPhase struct{}

// Pipeline stages that call the oracle. Middleware labels logs and metrics
// with the phase found in the context.
const (
	PhaseRefine    = "refine"
	PhaseSecurity  = "security"
	PhaseTranspile = "transpile"
)

func WithPhase(ctx context.Context, phase string) context.Context {
	return context.WithValue(ctx, ctxKeyPhase{}, phase)
}

// PhaseFrom returns the phase string stored in the context.
func PhaseFrom(ctx context.Context) string {
	if ctx != nil {
		if v, ok := ctx.Value(ctxKeyPhase{}).(string); ok && v != "" {
			return v
		}
	}
	return "unknown"
}
