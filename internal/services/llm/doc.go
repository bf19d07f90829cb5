// Package llm provides an OpenAI-compatible chat client used by the
// etymology and prediction sources.
//
// The client sends system/user prompts with a JSON-only response format and
// returns the raw JSON payload. It retries on HTTP 408/429/5xx and network
// timeouts with exponential backoff; context cancellation aborts retries
// immediately.
//
// When the client is unconfigured (no API key) or a request ultimately
// fails, callers fall back to canned data so the visualization stays
// functional.
package llm
