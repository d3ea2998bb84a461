package service

import (
	"context"
	"testing"
	"time"

	"bloodconnect/internal/domain"
	"bloodconnect/internal/repository"
	"bloodconnect/internal/search"
)

func setupDS(t *testing.T) *DonationService {
	t.Helper()
	return NewDonationService(repository.NewMemoryDonations(repository.NewMemoryStore()))
}

func validDonation() domain.Donation {
	return domain.Donation{
		Name:         "Sarah",
		Email:        "sarah@example.com",
		Phone:        "123-456",
		BloodType:    "O+",
		DonationDate: time.Now().AddDate(0, 0, 7),
	}
}

func TestDonation_Schedule_Valid(t *testing.T) {
	ctx := context.Background()
	ds := setupDS(t)

	d, err := ds.Schedule(ctx, "user-1", validDonation())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if d.ID == "" || d.UserID != "user-1" {
		t.Fatalf("id/userID not set: %+v", d)
	}
	if d.Status != domain.DonationStatusScheduled {
		t.Fatalf("expected scheduled status, got %s", d.Status)
	}
}

func TestDonation_Schedule_Invalid(t *testing.T) {
	ctx := context.Background()
	ds := setupDS(t)

	if _, err := ds.Schedule(ctx, "", validDonation()); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for missing user, got %v", err)
	}

	d := validDonation()
	d.Name = ""
	if _, err := ds.Schedule(ctx, "u", d); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for missing name, got %v", err)
	}

	d = validDonation()
	d.DonationDate = time.Time{}
	if _, err := ds.Schedule(ctx, "u", d); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for missing date, got %v", err)
	}

	d = validDonation()
	d.BloodType = "C+"
	if _, err := ds.Schedule(ctx, "u", d); err != ErrInvalidBloodType {
		t.Fatalf("expected ErrInvalidBloodType, got %v", err)
	}
}

func TestDonation_SearchDonors(t *testing.T) {
	ctx := context.Background()
	ds := setupDS(t)

	d1 := validDonation() // Sarah O+
	d2 := validDonation()
	d2.Name = "Mike"
	d2.BloodType = "A-"
	for _, d := range []domain.Donation{d1, d2} {
		if _, err := ds.Schedule(ctx, "u", d); err != nil {
			t.Fatalf("schedule: %v", err)
		}
	}

	found, err := ds.SearchDonors(ctx, search.DonorCriteria{BloodType: "O+"})
	if err != nil || len(found) != 1 || found[0].Name != "Sarah" {
		t.Fatalf("unexpected result: %v %+v", err, found)
	}

	found, err = ds.SearchDonors(ctx, search.DonorCriteria{BloodType: search.AllTypes, Query: "mik"})
	if err != nil || len(found) != 1 || found[0].Name != "Mike" {
		t.Fatalf("unexpected result: %v %+v", err, found)
	}

	all, err := ds.SearchDonors(ctx, search.DonorCriteria{BloodType: search.AllTypes})
	if err != nil || len(all) != 2 {
		t.Fatalf("wildcard must return all, got %d", len(all))
	}
}
