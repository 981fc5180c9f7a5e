package cli

import (
	"os"
	"time"

	"github.com/spf13/viper"

	"github.com/vladimirpanonopm/levelc/internal/audio"
	"github.com/vladimirpanonopm/levelc/internal/config"
)

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	return apiKey(viper.GetViper(), "OPENAI_API_KEY", "audio.openai_key")
}

// GetGeminiKey retrieves the Gemini API key from environment or config
func GetGeminiKey() string {
	return apiKey(viper.GetViper(), "GEMINI_API_KEY", "audio.gemini_key")
}

func apiKey(v *viper.Viper, env, key string) string {
	// First check environment variable
	if k := os.Getenv(env); k != "" {
		return k
	}

	// Then check config file
	return v.GetString(key)
}

// BuildConfig materializes the effective configuration from v. Keys that are
// not set keep their config.Default value. The result is validated.
func BuildConfig(v *viper.Viper) (*config.Config, error) {
	cfg := config.Default()

	setString(v, "paths.source", &cfg.SourceDir)
	setString(v, "paths.assets", &cfg.AssetsDir)
	setString(v, "paths.cache", &cfg.CacheDir)

	setInt(v, "audio.default_pause_ms", &cfg.DefaultPauseMs)
	setBool(v, "audio.skip", &cfg.SkipAudio)
	setBool(v, "compile.clean_audio", &cfg.CleanAudio)
	setInt(v, "compile.workers", &cfg.Workers)
	setInt(v, "audio.fetch_concurrency", &cfg.FetchConcurrency)
	setString(v, "compile.script", &cfg.Script)

	a := &cfg.Audio
	setString(v, "audio.provider", &a.Provider)
	setString(v, "audio.fallback", &a.Fallback)
	setInt(v, "audio.requests_per_minute", &a.RequestsPerMinute)
	setString(v, "audio.openai_model", &a.OpenAIModel)
	setFloat(v, "audio.openai_speed", &a.OpenAISpeed)
	setString(v, "audio.openai_instruction", &a.OpenAIInstruction)
	setString(v, "audio.gemini_model", &a.GeminiModel)
	setInt(v, "audio.espeak_speed", &a.ESpeakSpeed)
	setInt(v, "audio.espeak_pitch", &a.ESpeakPitch)
	if v.IsSet("audio.breaker_max_failures") {
		a.BreakerMaxFailures = v.GetUint32("audio.breaker_max_failures")
	}
	if v.IsSet("audio.breaker_timeout") {
		a.BreakerTimeout = v.GetDuration("audio.breaker_timeout")
	}
	if a.BreakerTimeout <= 0 {
		a.BreakerTimeout = 30 * time.Second
	}

	a.OpenAIKey = apiKey(v, "OPENAI_API_KEY", "audio.openai_key")
	a.GeminiKey = apiKey(v, "GEMINI_API_KEY", "audio.gemini_key")

	// voices.<key> entries in the config file override the provider table
	cfg.Voices = audio.DefaultVoices(a.Provider).With(v.GetStringMapString("voices"))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setString(v *viper.Viper, key string, dst *string) {
	if v.IsSet(key) {
		*dst = v.GetString(key)
	}
}

func setInt(v *viper.Viper, key string, dst *int) {
	if v.IsSet(key) {
		*dst = v.GetInt(key)
	}
}

func setBool(v *viper.Viper, key string, dst *bool) {
	if v.IsSet(key) {
		*dst = v.GetBool(key)
	}
}

func setFloat(v *viper.Viper, key string, dst *float64) {
	if v.IsSet(key) {
		*dst = v.GetFloat64(key)
	}
}
