package services

import (
	"testing"
)

// recordingSubscriber captures routed host events.
type recordingSubscriber struct {
	authenticated []uint
	loggedOut     []uint
	pushed        []uint
	payloads      []NotificationPayload
}

func (r *recordingSubscriber) UserAuthenticated(userID uint) {
	r.authenticated = append(r.authenticated, userID)
}

func (r *recordingSubscriber) UserLoggedOut(userID uint) {
	r.loggedOut = append(r.loggedOut, userID)
}

func (r *recordingSubscriber) PushNotification(userID uint, payload NotificationPayload) {
	r.pushed = append(r.pushed, userID)
	r.payloads = append(r.payloads, payload)
}

func testBusConsumer(sub HostSubscriber) *HostBusConsumer {
	return &HostBusConsumer{
		subscriber: sub,
		topics:     []string{"forum-events"},
		logger:     testLogger(),
	}
}

func TestHandleRoutesPushNotification(t *testing.T) {
	rec := &recordingSubscriber{}
	c := testBusConsumer(rec)

	c.Handle([]byte(`{"type":"push_notification","user_id":7,"title":"reply","body":"someone replied","data":{"topic_id":"42"}}`))

	if len(rec.pushed) != 1 || rec.pushed[0] != 7 {
		t.Fatalf("pushed = %v, want [7]", rec.pushed)
	}
	p := rec.payloads[0]
	if p.Title != "reply" || p.Body != "someone replied" || p.Data["topic_id"] != "42" {
		t.Errorf("payload = %+v, not carried through", p)
	}
}

func TestHandleRoutesLifecycleEvents(t *testing.T) {
	rec := &recordingSubscriber{}
	c := testBusConsumer(rec)

	c.Handle([]byte(`{"type":"user_logged_out","user_id":3}`))
	c.Handle([]byte(`{"type":"user_authenticated","user_id":4}`))

	if len(rec.loggedOut) != 1 || rec.loggedOut[0] != 3 {
		t.Errorf("loggedOut = %v, want [3]", rec.loggedOut)
	}
	if len(rec.authenticated) != 1 || rec.authenticated[0] != 4 {
		t.Errorf("authenticated = %v, want [4]", rec.authenticated)
	}
}

func TestHandleSkipsUnknownAndMalformedEvents(t *testing.T) {
	rec := &recordingSubscriber{}
	c := testBusConsumer(rec)

	c.Handle([]byte(`{"type":"topic_created","user_id":1}`))
	c.Handle([]byte(`not json at all`))

	if len(rec.pushed)+len(rec.loggedOut)+len(rec.authenticated) != 0 {
		t.Errorf("unexpected routing: %+v", rec)
	}
}
