package entities

// GitDiagnostics is a snapshot of the source-control configuration of one
// working copy, printed before processing and after any push failure.
type GitDiagnostics struct {
	Path          string
	IsRepository  bool
	UserName      string
	UserEmail     string
	Remotes       []string
	Status        string
	CurrentBranch string
	Environment   []EnvPresence
}

// EnvPresence reports whether an environment variable is set, with token values masked.
type EnvPresence struct {
	Name  string
	Set   bool
	Value string
}
