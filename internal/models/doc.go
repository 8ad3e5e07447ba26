// Package models lists the chat models available at an OpenAI compatible
// endpoint, so users can pick one for translation.
package models
