// Package ollama provides a thin client for an Ollama-compatible
// text-generation service.
//
// # Overview
//
// The package exposes a small Client interface with two operations:
// Generate, which produces text for a prompt with a named model, and
// ListModels, which reports the models the service has pulled. HTTPClient
// is the shipped implementation speaking the Ollama REST API
// (POST /api/generate with stream disabled, GET /api/tags).
//
// # Errors
//
// Failures map onto the shared taxonomy in internal/common:
//
//   - the service cannot be reached at the transport level:
//     common.ErrUnreachable (wrapped, the cause is preserved in the text)
//   - the service answered with a non-2xx code: *common.StatusError
//     carrying the code
//   - the body does not decode into the expected shape: common.ErrMalformed
//
// Context cancellation and deadlines pass through untouched, so callers
// can test with errors.Is(err, context.Canceled) directly. The client
// applies no retry policy and no own timeout; both belong to the caller.
//
// # Typical Usage
//
//	client := ollama.NewHTTPClient("http://127.0.0.1:11434")
//
//	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
//	defer cancel()
//
//	text, err := client.Generate(ctx, "llama3.2", "say hi")
//	if err != nil {
//	    // handle per taxonomy
//	}
package ollama
