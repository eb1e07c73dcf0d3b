package scene

// EvaluatorBuilderOption is a functional option for configuring an Evaluator.
// Use the With* functions to create options.
type EvaluatorBuilderOption func(e *evaluator)

// WithSampler sets the pose source, typically the editor's keyframe store.
//
// Parameters:
//   - s: the sampler to read poses from
//
// Returns:
//   - EvaluatorBuilderOption: option function to apply
func WithSampler(s Sampler) EvaluatorBuilderOption {
	return func(e *evaluator) {
		if s != nil {
			e.sampler = s
		}
	}
}
