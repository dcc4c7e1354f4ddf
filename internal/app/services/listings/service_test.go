package listings

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/carryspace/marketplace/internal/app/storage/memory"
	"github.com/carryspace/marketplace/internal/errors"
)

// fakeUploader records uploads and can be told to fail.
type fakeUploader struct {
	uploads []string
	fail    bool
}

func (f *fakeUploader) Upload(_ context.Context, bucket, path, _ string, _ []byte) (string, error) {
	if f.fail {
		return "", fmt.Errorf("storage unavailable")
	}
	f.uploads = append(f.uploads, path)
	return "https://storage.example.com/" + bucket + "/" + path, nil
}

func day(offset int) time.Time {
	return time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

func publishInput(capacity float64, date time.Time) PublishInput {
	return PublishInput{
		ProviderID:  "provider-1",
		Origin:      "dxb",
		Destination: "cai",
		TravelDate:  date,
		CapacityKg:  capacity,
		Currency:    "AED",
	}
}

func TestPublishSnapshotsPrice(t *testing.T) {
	svc := New(memory.New(), nil, "", nil)

	listing, err := svc.Publish(context.Background(), publishInput(20, day(1)))
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if listing.ID == "" {
		t.Fatal("listing id not assigned")
	}
	if listing.Origin != "DXB" || listing.Destination != "CAI" {
		t.Fatalf("route not normalised: %+v", listing)
	}
	// DXB->CAI maps to UAE->ME: 60 * 0.8.
	if listing.PricePerKg != 48 {
		t.Fatalf("price snapshot = %v, want 48", listing.PricePerKg)
	}
}

func TestPublishValidation(t *testing.T) {
	svc := New(memory.New(), nil, "", nil)

	cases := []struct {
		name string
		in   PublishInput
	}{
		{"missing provider", PublishInput{Origin: "DXB", Destination: "CAI", TravelDate: day(1), CapacityKg: 5}},
		{"missing route", PublishInput{ProviderID: "p", TravelDate: day(1), CapacityKg: 5}},
		{"zero capacity", publishInput(0, day(1))},
		{"negative capacity", publishInput(-3, day(1))},
		{"missing date", publishInput(5, time.Time{})},
	}
	for _, tc := range cases {
		if _, err := svc.Publish(context.Background(), tc.in); !errors.IsValidation(err) {
			t.Fatalf("%s: expected validation error, got %v", tc.name, err)
		}
	}
}

func TestPublishUploadsDocuments(t *testing.T) {
	uploader := &fakeUploader{}
	svc := New(memory.New(), uploader, "kyc-documents", nil)

	in := publishInput(20, day(1))
	in.Passport = &Document{Filename: "passport.pdf", ContentType: "application/pdf", Data: []byte("p")}
	in.FlightTicket = &Document{Filename: "ticket.pdf", ContentType: "application/pdf", Data: []byte("t")}

	listing, err := svc.Publish(context.Background(), in)
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if listing.Documents.PassportURL == "" || listing.Documents.FlightTicketURL == "" {
		t.Fatalf("document URLs missing: %+v", listing.Documents)
	}
	if len(uploader.uploads) != 2 {
		t.Fatalf("uploaded %d documents, want 2", len(uploader.uploads))
	}
}

func TestPublishSurfacesUploadFailureAsOneError(t *testing.T) {
	svc := New(memory.New(), &fakeUploader{fail: true}, "kyc-documents", nil)

	in := publishInput(20, day(1))
	in.Passport = &Document{Filename: "passport.pdf", Data: []byte("p")}

	if _, err := svc.Publish(context.Background(), in); !errors.IsCollaborator(err) {
		t.Fatalf("expected collaborator error, got %v", err)
	}
}

func TestFindProviders(t *testing.T) {
	store := memory.New()
	svc := New(store, nil, "", nil)

	// cap 5 first, then cap 20 on an earlier date, then cap 15 later.
	for _, l := range []struct {
		capacity float64
		date     time.Time
	}{
		{5, day(2)},
		{20, day(1)},
		{15, day(3)},
	} {
		if _, err := svc.Publish(context.Background(), publishInput(l.capacity, l.date)); err != nil {
			t.Fatalf("publish: %v", err)
		}
	}

	matched, err := svc.FindProviders(context.Background(), "DXB", "CAI", 10)
	if err != nil {
		t.Fatalf("find providers: %v", err)
	}
	if len(matched) != 2 {
		t.Fatalf("matched %d listings, want 2", len(matched))
	}
	if matched[0].CapacityKg != 20 || matched[1].CapacityKg != 15 {
		t.Fatalf("order = [%v, %v] kg, want [20, 15]", matched[0].CapacityKg, matched[1].CapacityKg)
	}
}

func TestFindProvidersEmptyIsSuccess(t *testing.T) {
	svc := New(memory.New(), nil, "", nil)

	matched, err := svc.FindProviders(context.Background(), "DXB", "CAI", 10)
	if err != nil {
		t.Fatalf("find providers: %v", err)
	}
	if len(matched) != 0 {
		t.Fatalf("matched %d listings, want 0", len(matched))
	}
}

func TestFindProvidersValidation(t *testing.T) {
	svc := New(memory.New(), nil, "", nil)

	if _, err := svc.FindProviders(context.Background(), "", "CAI", 10); !errors.IsValidation(err) {
		t.Fatalf("expected validation error for missing origin, got %v", err)
	}
	if _, err := svc.FindProviders(context.Background(), "DXB", "CAI", -1); !errors.IsValidation(err) {
		t.Fatalf("expected validation error for negative capacity, got %v", err)
	}
}
