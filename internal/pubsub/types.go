package pubsub

import "cloud.google.com/go/pubsub"

// Topics published by the ledger service.
const (
	TopicGameRecorded   = "game-recorded"
	TopicScoreCorrected = "score-corrected"
)

type client struct {
	client   *pubsub.Client
	teardown func()
}
