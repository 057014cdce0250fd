// Package openai implements the ai interfaces against any OpenAI-compatible
// API (OpenAI, Ollama, LocalAI, vLLM) via langchaingo. The embedding model
// and the chat model used for note writing are fixed at construction time by
// the ai.Config; neither is chosen per-request.
package openai
