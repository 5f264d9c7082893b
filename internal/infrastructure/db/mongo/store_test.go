package mongo

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestStore(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("get existing key", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "eventbook.local_storage", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "token"},
			{Key: "value", Value: "abc.def.ghi"},
		}))
		s := NewStore(mt.Client, mt.DB, "")

		v, ok, err := s.Get(context.Background(), "token")
		if err != nil || !ok || v != "abc.def.ghi" {
			mt.Fatalf("unexpected result: %q %v %v", v, ok, err)
		}
	})

	mt.Run("get missing key", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "eventbook.local_storage", mtest.FirstBatch))
		s := NewStore(mt.Client, mt.DB, "")

		_, ok, err := s.Get(context.Background(), "currentUser")
		if err != nil || ok {
			mt.Fatalf("expected not found, got ok=%v err=%v", ok, err)
		}
	})

	mt.Run("set upserts", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}))
		s := NewStore(mt.Client, mt.DB, "sessions")

		if err := s.Set(context.Background(), "token", "x"); err != nil {
			mt.Fatalf("Set: %v", err)
		}
		started := mt.GetStartedEvent()
		if started == nil || started.CommandName != "update" {
			mt.Fatalf("expected an update command, got %+v", started)
		}
		if coll := started.Command.Lookup("update").StringValue(); coll != "sessions" {
			mt.Fatalf("expected collection sessions, got %s", coll)
		}
	})

	mt.Run("set surfaces write errors", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "duplicate key"}))
		s := NewStore(mt.Client, mt.DB, "")

		if err := s.Set(context.Background(), "token", "x"); err == nil {
			mt.Fatalf("expected error")
		}
	})

	mt.Run("remove", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))
		s := NewStore(mt.Client, mt.DB, "")

		if err := s.Remove(context.Background(), "token"); err != nil {
			mt.Fatalf("Remove: %v", err)
		}
	})

	mt.Run("ping", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		s := NewStore(mt.Client, mt.DB, "")

		if err := s.Ping(context.Background()); err != nil {
			mt.Fatalf("Ping: %v", err)
		}
	})
}

func TestOpen_Unreachable(t *testing.T) {
	s, err := Open(context.Background(), Config{
		URI:      "mongodb://127.0.0.1:1/?serverSelectionTimeoutMS=200",
		Database: "eventbook",
		Timeout:  300 * time.Millisecond,
	})
	if err == nil || s != nil {
		t.Fatalf("expected ping error, got store=%v err=%v", s, err)
	}
}
