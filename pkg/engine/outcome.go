package engine

// FailureMarker prefixes failure messages in a response so consumers can tell
// them apart from rendered output. It is fixed and not configurable.
const FailureMarker = "❌ "

// Outcome is the result of one engine rendering one template. When Err is
// non-nil the outcome is a failure and Text is ignored.
type Outcome struct {
	Text string
	Err  error
}

// Success builds a successful outcome.
func Success(text string) Outcome {
	return Outcome{Text: text}
}

// Failure builds a failed outcome.
func Failure(err error) Outcome {
	return Outcome{Err: err}
}

// Failed reports whether the outcome carries an error.
func (o Outcome) Failed() bool {
	return o.Err != nil
}

// String encodes the outcome as it appears in a response record: the raw
// rendered text, or the failure marker followed by the library's error
// message. Adapter stage prefixes stay on Err for logging.
func (o Outcome) String() string {
	if o.Err != nil {
		return FailureMarker + Message(o.Err)
	}
	return o.Text
}
