package myqueue

import (
	"context"
)

type Task struct {
	UID        string
	WebhookURL string
	Payload    []byte
}

// New is assigned in init() of either the gcloud or the fake implementation
var New func(c context.Context) (TaskQueuer, func(), error)

//go:generate mockgen -source=api.go -package myqueue -destination queuer_mock.go TaskQueuer
type TaskQueuer interface {
	Enqueue(c context.Context, task Task) error
}
