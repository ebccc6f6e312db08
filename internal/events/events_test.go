package events

import (
	"context"
	"os"
	"testing"
)

func TestEventJSONRoundTrip(t *testing.T) {
	e := New(UserRoleChanged, 7)
	e.ActorID = 1
	e.Attrs = map[string]string{"role": "admin"}

	data, err := e.ToJSON()
	if err != nil {
		t.Fatal(err)
	}
	got, err := FromJSON(data)
	if err != nil {
		t.Fatal(err)
	}
	if got.Type != UserRoleChanged || got.UserID != 7 || got.ActorID != 1 || got.Attrs["role"] != "admin" {
		t.Fatalf("round trip lost data: %+v", got)
	}
	if !got.Timestamp.Equal(e.Timestamp) {
		t.Fatalf("timestamp %v != %v", got.Timestamp, e.Timestamp)
	}
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = Nop{}
	if err := p.Publish(context.Background(), New(UserLoggedIn, 1)); err != nil {
		t.Fatal(err)
	}
	if err := p.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestAMQPPublisherIntegration(t *testing.T) {
	url := os.Getenv("AMQP_TEST_URL")
	if url == "" {
		t.Skip("set AMQP_TEST_URL to run against a live broker")
	}
	p, err := NewAMQPPublisher(url, "fintrack.test")
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer p.Close()
	if err := p.Publish(context.Background(), New(UserRegistered, 1)); err != nil {
		t.Fatalf("publish: %v", err)
	}
}
