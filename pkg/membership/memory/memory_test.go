package memory

import (
	"context"
	"reflect"
	"testing"

	"github.com/matzehuels/categorycloud/pkg/membership"
	"github.com/matzehuels/categorycloud/pkg/membership/membershiptest"
)

func TestStoreSubcategories(t *testing.T) {
	ctx := context.Background()
	s := New(membershiptest.Fixture())

	got, err := s.Subcategories(ctx, "Fruits", membership.OrderByCount)
	if err != nil {
		t.Fatalf("Subcategories: %v", err)
	}
	if !reflect.DeepEqual(got, membershiptest.FruitsByCount()) {
		t.Errorf("Subcategories = %v, want %v", got, membershiptest.FruitsByCount())
	}
}

func TestStoreCopiesDataset(t *testing.T) {
	ds := membershiptest.Fixture()
	s := New(ds)
	ds.Links = nil

	got, err := s.Subcategories(context.Background(), "Fruits", membership.OrderByName)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("store should not share the caller's dataset, got %v", got)
	}
}

func TestStoreLoad(t *testing.T) {
	ctx := context.Background()
	s := New(nil)

	if err := s.Load(ctx, membershiptest.Fixture()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	got, _ := s.Subcategories(ctx, "Vegetables", membership.OrderByName)
	if !reflect.DeepEqual(got, membershiptest.Vegetables()) {
		t.Errorf("Subcategories = %v, want %v", got, membershiptest.Vegetables())
	}

	// Loading the same pages twice duplicates their IDs.
	if err := s.Load(ctx, membershiptest.Fixture()); err == nil {
		t.Error("Load should reject duplicate page ids")
	}
}

func TestStoreCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := New(nil).Subcategories(ctx, "Fruits", membership.OrderByName); err != context.Canceled {
		t.Errorf("Subcategories error = %v, want context.Canceled", err)
	}
}
