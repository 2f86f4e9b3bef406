package worker

// Job represents one file conversion unit of work
type Job struct {
	Path string
}
