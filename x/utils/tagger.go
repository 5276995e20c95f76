package utils

import (
	"github.com/tendermint/tendermint/libs/common"
	"github.com/waynedobson/remittance"
)

const (
	// ActionKey is used by Tagger as the Key of the message path tag.
	ActionKey = "action"
	// EventKey is used by Tagger as the Key of every emitted event tag.
	EventKey = "event"
)

// Tagger will inspect the message being executed and add a tag
// `action = msg.Path()` followed by an `event = <name>` tag for every
// event emitted by the handler, so clients have a standard way to search
// the results.
type Tagger struct{}

var _ remittance.Decorator = Tagger{}

// NewTagger creates a Tagger decorator
func NewTagger() Tagger {
	return Tagger{}
}

// Check just passes the request along
func (Tagger) Check(ctx remittance.Context, db remittance.KVStore, tx remittance.Tx, next remittance.Checker) (*remittance.CheckResult, error) {
	return next.Check(ctx, db, tx)
}

// Deliver appends tags on the result if there is a success.
func (Tagger) Deliver(ctx remittance.Context, db remittance.KVStore, tx remittance.Tx, next remittance.Deliverer) (*remittance.DeliverResult, error) {
	// if we error in reporting, let's do so early before dispatching
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}

	res, err := next.Deliver(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	res.Tags = append(res.Tags, common.KVPair{
		Key:   []byte(ActionKey),
		Value: []byte(msg.Path()),
	})
	for _, e := range res.Events {
		res.Tags = append(res.Tags, common.KVPair{
			Key:   []byte(EventKey),
			Value: []byte(e.EventName()),
		})
	}
	return res, nil
}
