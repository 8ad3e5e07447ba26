// Package translation talks to an OpenAI compatible chat completion
// endpoint. It translates between Japanese, Chinese and English, detects the
// language of a message, retries transient failures with exponential backoff
// and rejects replies that are not a translation of the input.
package translation
