package model

// Replacement is a single literal substitution applied to the bundle.
type Replacement struct {
	Target      string `yaml:"target"`
	Replacement string `yaml:"replacement"`
}

// Step records what happened to one Replacement during a run.
type Step struct {
	Target      string
	Replacement string
	Found       bool
	Count       int
}

// Match is a route object found by the inspector.
type Match struct {
	Text    string
	Start   int
	End     int
	Pattern string
}

// Summary holds the results of an operation for display.
type Summary struct {
	Path    string
	Steps   []Step
	Changed bool
	Written bool
	Diff    string
	Message string
}
