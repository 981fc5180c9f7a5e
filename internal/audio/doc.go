// Package audio holds the speech synthesis providers, the voice table and the
// 16-bit PCM WAV codec used to decode clips and encode assembled card audio.
//
// Every provider returns a complete WAV file. Providers that stream raw PCM
// (OpenAI, Gemini) are wrapped with PCM16ToWAV before returning.
package audio
