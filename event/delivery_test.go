// Copyright 2026 Agora Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelSubscriberDeliver(t *testing.T) {
	sub := newChannelSubscriber(1)
	evt := NewEvent("proposal.signed", "payload")
	require.NoError(t, sub.Deliver(evt))

	got := <-sub.ch
	assert.Equal(t, evt, got)
}

func TestChannelSubscriberClosedDropsSilently(t *testing.T) {
	sub := newChannelSubscriber(1)
	sub.Close()

	// A send after close is dropped rather than panicking the publisher
	require.NoError(t, sub.Deliver(NewEvent("proposal.signed", "payload")))

	_, ok := <-sub.ch
	assert.False(t, ok)
}

func TestChannelSubscriberCloseIdempotent(t *testing.T) {
	sub := newChannelSubscriber(1)
	sub.Close()
	assert.NotPanics(t, func() {
		sub.Close()
	})
}

func TestPublishAfterUnsubscribeDropsSilently(t *testing.T) {
	eb := NewEventBus(nil, nil)
	defer eb.Stop()

	const evtType EventType = "proposal.ready"
	subId, subCh := eb.Subscribe(evtType)
	eb.Unsubscribe(evtType, subId)

	assert.NotPanics(t, func() {
		eb.Publish(evtType, NewEvent(evtType, "x"))
	})

	_, ok := <-subCh
	assert.False(t, ok)
}
