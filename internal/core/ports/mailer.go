package ports

import "context"

// MailJob is a single outbound notification.
type MailJob struct {
	To      string
	Subject string
	Body    string
}

// Mailer delivers a single message synchronously.
type Mailer interface {
	Send(ctx context.Context, job MailJob) error
}

// MailQueue accepts jobs for asynchronous delivery. Enqueue returns as soon
// as the job is buffered.
type MailQueue interface {
	Enqueue(job MailJob)
}
