package constants

// JobStatus is the canonical status for rows in extract_job.
type JobStatus string

// Stable values (store these exact strings in DB).
const (
	JobStatusQueued     JobStatus = "QUEUED"      // queued for processing
	JobStatusRunning    JobStatus = "RUNNING"     // in progress
	JobStatusClassified JobStatus = "CLASSIFIED"  // stage 1 completed (form type decided)
	JobStatusExtracted  JobStatus = "EXTRACTED"   // stage 2 completed (fields + tables fetched)
	JobStatusMapped     JobStatus = "MAPPED"      // stage 3 completed (record assembled)
	JobStatusRejected   JobStatus = "REJECTED"    // unrecognized document, no billable call made
	JobStatusFailed     JobStatus = "FAILED"      // terminal failure
)

// JobStatuses holds the allowed values for the status field in extract_job.
var JobStatuses = []string{
	string(JobStatusQueued),
	string(JobStatusRunning),
	string(JobStatusClassified),
	string(JobStatusExtracted),
	string(JobStatusMapped),
	string(JobStatusRejected),
	string(JobStatusFailed),
}
