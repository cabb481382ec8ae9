package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	Format        string   `mapstructure:"format"`
	OutDir        string   `mapstructure:"out"`
	Pretty        bool     `mapstructure:"pretty"`
	Jobs          int      `mapstructure:"jobs"`
	FailFast      bool     `mapstructure:"fail_fast"`
	Bank          string   `mapstructure:"bank"`
	Extensions    []string `mapstructure:"extensions"`
	ColorOK       string   `mapstructure:"color_ok"`
	ColorError    string   `mapstructure:"color_error"`
	ColorQuestion string   `mapstructure:"color_question"`
	ColorAnswer   string   `mapstructure:"color_answer"`
	ColorDim      string   `mapstructure:"color_dim"`
}

// C is the global config instance
var C Config

// Init initializes configuration with viper
func Init() error {
	SetDefaults()

	viper.SetConfigName("pitanja")
	viper.SetConfigType("yaml")

	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".config", "pitanja"))
		viper.AddConfigPath(home)
	}
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("PITANJA")
	viper.AutomaticEnv()

	// Try to read config, but don't fail if not found or malformed
	_ = viper.ReadInConfig()

	return viper.Unmarshal(&C)
}

// SetDefaults registers the default value of every key
func SetDefaults() {
	viper.SetDefault("format", "json")
	viper.SetDefault("out", "")                                  // Empty means stdout
	viper.SetDefault("pretty", false)                            // One compact document per line
	viper.SetDefault("jobs", runtime.NumCPU())                   // Files parsed in parallel
	viper.SetDefault("fail_fast", false)                         // Report every broken file
	viper.SetDefault("bank", "~/.local/share/pitanja/bank.db")   // SQLite question bank
	viper.SetDefault("extensions", []string{".pitanja", ".txt"}) // Watched source files
	viper.SetDefault("color_ok", "2")                            // Green
	viper.SetDefault("color_error", "1")                         // Red
	viper.SetDefault("color_question", "36")                     // Cyan
	viper.SetDefault("color_answer", "32")                       // Green
	viper.SetDefault("color_dim", "241")                         // Gray
}

// GetFormat returns the output format name
func GetFormat() string {
	return viper.GetString("format")
}

// GetOutDir returns the output directory with tilde expansion
func GetOutDir() string {
	return expandTilde(viper.GetString("out"))
}

// GetPretty returns whether output is indented
func GetPretty() bool {
	return viper.GetBool("pretty")
}

// GetJobs returns how many files are parsed at once
func GetJobs() int {
	if jobs := viper.GetInt("jobs"); jobs > 0 {
		return jobs
	}
	return 1
}

// GetFailFast returns whether conversion stops at the first broken file
func GetFailFast() bool {
	return viper.GetBool("fail_fast")
}

// GetBank returns the question bank database path with tilde expansion
func GetBank() string {
	return expandTilde(viper.GetString("bank"))
}

// GetExtensions returns the lower-cased source file extensions
func GetExtensions() []string {
	var exts []string
	for _, ext := range viper.GetStringSlice("extensions") {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts = append(exts, ext)
	}
	return exts
}

// GetColorOK returns ANSI color code for success lines
func GetColorOK() string {
	return viper.GetString("color_ok")
}

// GetColorError returns ANSI color code for error lines
func GetColorError() string {
	return viper.GetString("color_error")
}

// GetColorQuestion returns ANSI color code for question text
func GetColorQuestion() string {
	return viper.GetString("color_question")
}

// GetColorAnswer returns ANSI color code for answers
func GetColorAnswer() string {
	return viper.GetString("color_answer")
}

// GetColorDim returns ANSI color code for secondary text
func GetColorDim() string {
	return viper.GetString("color_dim")
}

// SetFormat sets output format at runtime
func SetFormat(format string) {
	viper.Set("format", format)
	C.Format = format
}

// SetOutDir sets output directory at runtime
func SetOutDir(dir string) {
	viper.Set("out", dir)
	C.OutDir = dir
}

// expandTilde expands ~ to the user's home directory
func expandTilde(path string) string {
	if len(path) == 0 {
		return path
	}
	if path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
