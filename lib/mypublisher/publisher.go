package mypublisher

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/MarcGrol/bogrelay/lib/myevents"
	"github.com/MarcGrol/bogrelay/lib/mypubsub"
	"github.com/MarcGrol/bogrelay/lib/mytime"
)

type publisher struct {
	pubsub    mypubsub.PubSub
	enveloper enveloper
}

// New wraps every event in an envelope and pushes it to the pubsub topic right away.
func New(pubsub mypubsub.PubSub, nower mytime.Nower) Publisher {
	return &publisher{
		pubsub:    pubsub,
		enveloper: newEnveloper(nower),
	}
}

func (p *publisher) Publish(c context.Context, topic string, event myevents.Event) error {
	envelope, err := p.enveloper.do(topic, event)
	if err != nil {
		return fmt.Errorf("error creating envelope: %s", err)
	}

	data, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("error marshalling envelope %s: %s", envelope, err)
	}

	err = p.pubsub.Publish(c, topic, data)
	if err != nil {
		return fmt.Errorf("error publishing envelope %s: %s", envelope, err)
	}

	return nil
}
