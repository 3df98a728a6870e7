package whisper

// Config captures runtime settings for one transcription profile.
type Config struct {
	// Model is the whisper model to load (e.g. "small", "large-v3").
	Model string
	// BeamSize is the decoding beam width; zero uses the CLI default.
	BeamSize int
	// CUDAEnabled enables GPU acceleration.
	CUDAEnabled bool
	// VADFilter toggles voice-activity filtering.
	VADFilter bool
	// Deterministic forces temperature-zero decoding.
	Deterministic bool
}

// Whisper CLI constants.
const (
	DefaultModel = "small"
	WhisperTool  = "whisper-ctranslate2"
	OutputFormat = "json"
	CPUDevice    = "cpu"
	CUDADevice   = "cuda"
)

// Command names for external tools.
const (
	UVXCommand = "uvx"
)
