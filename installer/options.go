package installer

import "errors"

// ErrMissingOptions is returned by Validate when a required option is empty.
var ErrMissingOptions = errors.New("missing required options")

// Options are the command-line inputs of one installation. They are not
// modified once the run starts.
type Options struct {
	DBHost           string
	DBPort           string
	DBDatabase       string
	DBUsername       string
	DBPassword       string
	GithubRepository string
	GithubToken      string
	// Env is the deployment tier: local, staging, testing or production.
	Env string
}

// DefaultOptions returns the flag defaults.
func DefaultOptions() Options {
	return Options{
		DBHost:     "localhost",
		DBPort:     "3306",
		DBUsername: "root",
		Env:        "production",
	}
}

// Validate checks that the database name is set. Nothing else is required.
func (o Options) Validate() error {
	if o.DBDatabase == "" {
		return ErrMissingOptions
	}
	return nil
}

// Outcome is how a run ended when it did not return an error.
type Outcome int

const (
	OutcomeAborted Outcome = iota
	OutcomeMissingOptions
	OutcomeMigrationFailed
	OutcomeInstalled
)

func (o Outcome) String() string {
	switch o {
	case OutcomeMissingOptions:
		return "missing options"
	case OutcomeMigrationFailed:
		return "migration failed"
	case OutcomeInstalled:
		return "installed"
	default:
		return "aborted"
	}
}

// Status is 1 for a completed installation and 0 for every early stop.
func (o Outcome) Status() int {
	if o == OutcomeInstalled {
		return 1
	}
	return 0
}
