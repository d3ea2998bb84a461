package repository

import (
	"context"
	"testing"
	"time"

	"bloodconnect/internal/domain"
)

func TestMemoryStore_MedicineCRUD(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	m := domain.Medicine{Name: "Aspirin", Description: "Painkiller", Price: 10, Stock: 5}
	if err := store.Create(ctx, &m); err != nil {
		t.Fatalf("create: %v", err)
	}
	if m.ID == "" {
		t.Fatalf("no id assigned")
	}

	got, err := store.GetByID(ctx, m.ID)
	if err != nil || got.ID != m.ID {
		t.Fatalf("get: %v", err)
	}

	m.Price = 12
	if err := store.Update(ctx, &m); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ = store.GetByID(ctx, m.ID)
	if got.Price != 12 {
		t.Fatalf("update not applied: %v", got.Price)
	}

	if err := store.Delete(ctx, m.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.GetByID(ctx, m.ID); err != ErrNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestMemoryStore_ListPreservesInsertionOrder(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	for _, name := range []string{"A", "B", "C"} {
		m := domain.Medicine{Name: name, Description: "d", Price: 1, Stock: 1}
		if err := store.Create(ctx, &m); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	list, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3, got %d", len(list))
	}
	for i, want := range []string{"A", "B", "C"} {
		if list[i].Name != want {
			t.Fatalf("order broken at %d: %s", i, list[i].Name)
		}
	}
}

func TestMemoryDonations_CreateAndList(t *testing.T) {
	ctx := context.Background()
	donations := NewMemoryDonations(NewMemoryStore())

	d := domain.Donation{
		Name:         "Sarah",
		Email:        "sarah@example.com",
		Phone:        "123",
		BloodType:    "O+",
		DonationDate: time.Now().AddDate(0, 0, 7),
		Status:       domain.DonationStatusScheduled,
	}
	if err := donations.Create(ctx, &d); err != nil {
		t.Fatalf("create: %v", err)
	}
	if d.ID == "" || d.CreatedAt.IsZero() {
		t.Fatalf("id/createdAt not assigned: %+v", d)
	}

	list, err := donations.List(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("list: %v, %d", err, len(list))
	}
	if list[0].Name != "Sarah" {
		t.Fatalf("unexpected donation: %+v", list[0])
	}
}

func TestMemoryUsers_GetByEmail(t *testing.T) {
	ctx := context.Background()
	users := NewMemoryUsers(NewMemoryStore())

	u := domain.User{FullName: "John", Email: "john@example.com", Role: "user"}
	if err := users.Create(ctx, &u); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := users.GetByEmail(ctx, "john@example.com")
	if err != nil || got.ID != u.ID {
		t.Fatalf("get by email: %v", err)
	}

	if _, err := users.GetByEmail(ctx, "nobody@example.com"); err != ErrNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestMemoryImages_GetByName(t *testing.T) {
	ctx := context.Background()
	images := NewMemoryImages(NewMemoryStore())

	img := domain.Image{URL: "/files/medicines/1_a.png", Name: "a.png", Timestamp: 1}
	if err := images.Create(ctx, &img); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := images.GetByName(ctx, "a.png")
	if err != nil || got.URL != img.URL {
		t.Fatalf("get by name: %v", err)
	}

	if _, err := images.GetByName(ctx, "b.png"); err != ErrNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
