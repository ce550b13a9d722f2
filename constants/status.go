package constants

// JobStatus is the canonical status for rows in analysis_jobs.
type JobStatus string

// Stable values (store these exact strings in DB).
const (
	JobStatusQueued   JobStatus = "QUEUED"   // queued for processing
	JobStatusRunning  JobStatus = "RUNNING"  // in progress
	JobStatusOCROK    JobStatus = "OCR_OK"   // stage 1 completed (text recognized)
	JobStatusDecided  JobStatus = "DECIDED"  // stage 2 completed (fields extracted, verdict derived)
	JobStatusEnriched JobStatus = "ENRICHED" // stage 3 completed (reputation + recommendations)
	JobStatusFailed   JobStatus = "FAILED"   // terminal failure
)
