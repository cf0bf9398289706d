// Package translate provides transcript.Translator backends: an external
// program fed through stdin and an OpenAI-compatible chat completion
// endpoint with retry and backoff.
package translate
