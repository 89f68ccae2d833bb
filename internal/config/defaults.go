package config

// Default screening questions. Applications are expected to reproduce
// these prompts verbatim; the segmenter matches on a fragment of each.
var defaultQuestions = []string{
	"1. Please briefly illustrate the nature and scope of your previous experiences and interests, explaining relevant connections to this role (50-150 words) (essential to the job)",
	"2. Please illustrate the reasons why you would like to work in this position and industry, including your personal ambitions for the future (50-150 words) (essential to the job)",
	"3. Describe what algorithmic complexity is. (50-150 words) - Feel free to make examples, including your own experience if relevant. (essential to the job)",
	"4. Please explain what \"Variable scoping\" is, making an example of how it works in one or more programming languages that you know, possibly including Python. (50-150 words) (essential to the job)",
	"5. Please describe what overfitting means in data science/ML. (50-150 words) (essential to the job)",
}

// Marketing adjectives penalized by the scorer.
var defaultBuzzwords = []string{
	"cutting-edge", "state-of-the-art", "innovative", "revolutionary",
	"pioneering", "groundbreaking", "leading-edge", "sophisticated",
	"high-tech", "high-end", "high-quality", "high-performance",
	"high-impact", "high-value", "high-level", "high-precision",
}

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Output.Basename == "" {
		cfg.Output.Basename = "_candidate_applications"
	}
	if len(cfg.Output.Formats) == 0 {
		cfg.Output.Formats = []string{"csv"}
	}
	if cfg.Extract.Pdftoppm == "" {
		cfg.Extract.Pdftoppm = "pdftoppm"
	}
	if cfg.Extract.Tesseract == "" {
		cfg.Extract.Tesseract = "tesseract"
	}
	if cfg.Extract.DPI == 0 {
		cfg.Extract.DPI = 300
	}
	if cfg.Extract.TimeoutSeconds == 0 {
		cfg.Extract.TimeoutSeconds = 30
	}
	if cfg.Extract.MinWordsPerPage == 0 {
		cfg.Extract.MinWordsPerPage = 50
	}
	if len(cfg.Screening.Questions) == 0 {
		cfg.Screening.Questions = append([]string(nil), defaultQuestions...)
	}
	if len(cfg.Screening.Buzzwords) == 0 {
		cfg.Screening.Buzzwords = append([]string(nil), defaultBuzzwords...)
	}
	if cfg.Screening.Skills == (SkillTerms{}) {
		cfg.Screening.Skills = SkillTerms{
			PyTorch:        "pytorch",
			TensorFlow:     "tensorflow",
			CSharp:         "c#",
			ComputerVision: "computer vision",
			Azure:          "azure",
			AWS:            "aws",
		}
	}
	if cfg.Watch.DebounceSeconds == 0 {
		cfg.Watch.DebounceSeconds = 5
	}
}
