package mypubsub

import "context"

//go:generate mockgen -source=api.go -package mypubsub -destination pubsub_mock.go PubSub
type PubSub interface {
	Publish(c context.Context, topic string, data []byte) error
	CreateTopic(c context.Context, topic string) error
}

// New is assigned in init() of either the gcloud or the fake implementation
var New func(c context.Context) (PubSub, func(), error)
