package cli

import "github.com/vladimirpanonopm/levelc/internal/config"

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile string
	Debug   bool

	// Paths
	SourceDir string
	AssetsDir string
	CacheDir  string

	// Compile flags
	DefaultPauseMs   int
	SkipAudio        bool
	CleanAudio       bool
	Workers          int
	FetchConcurrency int
	Script           string

	// Provider flags
	Provider          string
	Fallback          string
	RequestsPerMinute int

	// OpenAI flags
	OpenAIModel       string
	OpenAISpeed       float64
	OpenAIInstruction string

	// Gemini flags
	GeminiModel string
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	def := config.Default()
	return &Flags{
		SourceDir:         def.SourceDir,
		AssetsDir:         def.AssetsDir,
		CacheDir:          def.CacheDir,
		DefaultPauseMs:    def.DefaultPauseMs,
		Workers:           def.Workers,
		FetchConcurrency:  def.FetchConcurrency,
		Script:            def.Script,
		Provider:          def.Audio.Provider,
		Fallback:          def.Audio.Fallback,
		RequestsPerMinute: def.Audio.RequestsPerMinute,
		OpenAIModel:       def.Audio.OpenAIModel,
		OpenAISpeed:       def.Audio.OpenAISpeed,
		OpenAIInstruction: def.Audio.OpenAIInstruction,
		GeminiModel:       def.Audio.GeminiModel,
	}
}
