package mongo

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/erickogi/cards-restful/internal/core/domain"
	"github.com/erickogi/cards-restful/internal/core/ports"
)

func strPtr(s string) *string { return &s }

func TestBuildFilter_Scope(t *testing.T) {
	if f := buildFilter(ports.CardFilter{}); len(f) != 0 {
		t.Fatalf("unrestricted filter must be empty, got %v", f)
	}

	f := buildFilter(ports.CardFilter{Scope: ports.Scope{CreatorID: "u1"}})
	if f["creator_id"] != "u1" || len(f) != 1 {
		t.Fatalf("expected creator_id only, got %v", f)
	}
}

func TestBuildFilter_AllFields(t *testing.T) {
	status := domain.StatusDone
	day := time.Date(2023, 8, 30, 0, 0, 0, 0, time.UTC)

	f := buildFilter(ports.CardFilter{
		Scope:       ports.Scope{CreatorID: "u1"},
		Name:        strPtr("n"),
		Description: strPtr(""),
		Color:       strPtr("#000000"),
		Status:      &status,
		CreatedOn:   &day,
	})

	if f["name"] != "n" || f["description"] != "" || f["color"] != "#000000" || f["status"] != "DONE" {
		t.Fatalf("unexpected equality predicates: %v", f)
	}
	rng, ok := f["created_at"].(bson.M)
	if !ok {
		t.Fatalf("expected created_at range, got %T", f["created_at"])
	}
	if rng["$gte"] != day || rng["$lt"] != day.Add(24*time.Hour) {
		t.Fatalf("unexpected day range: %v", rng)
	}
}

func TestScopedIDFilter(t *testing.T) {
	oid := primitive.NewObjectID()

	if _, ok := scopedIDFilter("not-hex", ports.Scope{}); ok {
		t.Fatal("invalid ObjectID must not produce a filter")
	}

	f, ok := scopedIDFilter(oid.Hex(), ports.Scope{})
	if !ok || f["_id"] != oid {
		t.Fatalf("unexpected filter: %v", f)
	}
	if _, has := f["creator_id"]; has {
		t.Fatal("unrestricted scope must not filter by creator")
	}

	f, _ = scopedIDFilter(oid.Hex(), ports.Scope{CreatorID: "u1"})
	if f["creator_id"] != "u1" {
		t.Fatalf("expected creator filter, got %v", f)
	}
}

func TestSortSpec(t *testing.T) {
	got := sortSpec(ports.PageRequest{Sort: ports.SortByID})
	if len(got) != 1 || got[0].Key != "_id" || got[0].Value != 1 {
		t.Fatalf("unexpected id sort: %v", got)
	}

	got = sortSpec(ports.PageRequest{Sort: ports.SortByCreatedAt, Desc: true})
	if len(got) != 2 || got[0].Key != "created_at" || got[0].Value != -1 || got[1].Key != "_id" {
		t.Fatalf("unexpected created_at sort: %v", got)
	}
}

func TestPatchSet(t *testing.T) {
	set := patchSet(domain.CardPatch{Name: strPtr("x"), Status: strPtr("IN_PROGRESS")})
	if len(set) != 2 || set["name"] != "x" || set["status"] != "IN_PROGRESS" {
		t.Fatalf("unexpected $set: %v", set)
	}
}
