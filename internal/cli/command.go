package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/vladimirpanonopm/levelc/internal"
)

// flagKeys maps flag names to viper keys.
var flagKeys = map[string]string{
	"source":              "paths.source",
	"assets":              "paths.assets",
	"cache-dir":           "paths.cache",
	"default-pause":       "audio.default_pause_ms",
	"skip-audio":          "audio.skip",
	"clean-audio":         "compile.clean_audio",
	"workers":             "compile.workers",
	"fetch-concurrency":   "audio.fetch_concurrency",
	"script":              "compile.script",
	"provider":            "audio.provider",
	"fallback":            "audio.fallback",
	"requests-per-minute": "audio.requests_per_minute",
	"openai-model":        "audio.openai_model",
	"openai-speed":        "audio.openai_speed",
	"openai-instruction":  "audio.openai_instruction",
	"gemini-model":        "audio.gemini_model",
	"debug":               "debug",
}

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "levelc [files...]",
		Short: "Lesson level compiler",
		Long: `levelc compiles tag-based lesson sources into level documents
with synchronized speech audio.

Each level_<id>.txt source becomes level_<id>.json in the assets directory.
Cards with VOICES directives get one WAV track per card under assets/audio,
built from cached speech clips.

Examples:
  levelc                          # Compile every level_*.txt in --source
  levelc lessons/level_3.txt      # Compile one level
  levelc --provider gemini        # Synthesize with Gemini TTS
  levelc cache stats              # Show what the speech cache holds`,
		Args:          cobra.ArbitraryArgs,
		Version:       internal.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Set up flags
	setupFlags(rootCmd, flags)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.levelc.yaml)")
	pf.BoolVar(&flags.Debug, "debug", false, "Enable debug logging")

	pf.StringVar(&flags.SourceDir, "source", flags.SourceDir, "Directory holding level_*.txt sources")
	pf.StringVar(&flags.AssetsDir, "assets", flags.AssetsDir, "Directory receiving level documents and audio")
	pf.StringVar(&flags.CacheDir, "cache-dir", flags.CacheDir, "Speech clip cache directory")

	pf.IntVar(&flags.DefaultPauseMs, "default-pause", flags.DefaultPauseMs, "Pause in ms after a line whose VOICES entry sets none")
	pf.BoolVar(&flags.SkipAudio, "skip-audio", false, "Skip audio generation")
	pf.BoolVar(&flags.CleanAudio, "clean-audio", false, "Remove audio assets no compiled level refers to")
	pf.IntVar(&flags.Workers, "workers", flags.Workers, "Parallel block resolution workers")
	pf.IntVar(&flags.FetchConcurrency, "fetch-concurrency", flags.FetchConcurrency, "Parallel clip fetches per card")
	pf.StringVar(&flags.Script, "script", flags.Script, "Target-token script: hebrew or cyrillic")

	// Provider flags
	pf.StringVar(&flags.Provider, "provider", flags.Provider, "Speech provider: openai, gemini, espeak or fallback")
	pf.StringVar(&flags.Fallback, "fallback", flags.Fallback, "Secondary provider for --provider fallback: gemini or espeak")
	pf.IntVar(&flags.RequestsPerMinute, "requests-per-minute", flags.RequestsPerMinute, "Provider request limit (0 disables it)")

	// OpenAI flags
	pf.StringVar(&flags.OpenAIModel, "openai-model", flags.OpenAIModel, "OpenAI TTS model: tts-1, tts-1-hd, gpt-4o-mini-tts")
	pf.Float64Var(&flags.OpenAISpeed, "openai-speed", flags.OpenAISpeed, "OpenAI speech speed (0.25 to 4.0, may be ignored by gpt-4o-mini-tts)")
	pf.StringVar(&flags.OpenAIInstruction, "openai-instruction", flags.OpenAIInstruction, "Voice instructions for gpt-4o-mini-tts model")

	// Gemini flags
	pf.StringVar(&flags.GeminiModel, "gemini-model", flags.GeminiModel, "Gemini TTS model")

	// Bind flags to viper
	bindFlagsToViper(pf)
}

func bindFlagsToViper(fs *pflag.FlagSet) {
	for name, key := range flagKeys {
		if f := fs.Lookup(name); f != nil {
			viper.BindPFlag(key, f)
		}
	}
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".levelc" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".levelc")
	}

	// Environment variables: LEVELC_AUDIO_PROVIDER overrides audio.provider
	viper.SetEnvPrefix("LEVELC")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// NewLogger creates the process logger. Debug enables debug level and
// caller reporting.
func NewLogger(w io.Writer, debug bool) *log.Logger {
	level := log.InfoLevel
	if debug {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
		ReportCaller:    debug,
		Prefix:          "levelc",
	})
}
