package models

// Result records the outcome of converting a single source file.
type Result struct {
	// Source is the path of the input log file.
	Source string
	// Dest is the path of the written output file (empty on failure).
	Dest string
	// Err is the conversion failure, nil on success.
	Err error
}

// Summary aggregates the outcomes of a batch run.
type Summary struct {
	Converted int
	Failed    int
}

// Summarize counts successes and failures across results.
func Summarize(results []Result) Summary {
	var s Summary
	for _, r := range results {
		if r.Err != nil {
			s.Failed++
		} else {
			s.Converted++
		}
	}
	return s
}
