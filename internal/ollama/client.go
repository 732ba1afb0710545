package ollama

import "context"

// Client calls a text-generation service.
type Client interface {
	// Generate produces text for the prompt with the named model. The call
	// honors ctx cancellation mid-flight; retry policy belongs to the caller.
	Generate(ctx context.Context, model string, prompt string) (string, error)

	// ListModels returns the names of the models available on the service.
	ListModels(ctx context.Context) ([]string, error)
}
