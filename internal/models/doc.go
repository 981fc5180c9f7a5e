// Package models lists the speech models available for the configured OpenAI
// API key, so users can pick a value for the openai model setting.
package models
