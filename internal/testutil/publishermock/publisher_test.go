package publishermock

import (
	"context"
	"errors"
	"testing"

	"chapter-fund-ledger/internal/domain/ledgerevent"
)

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	ctx := context.Background()
	_ = r.Publish(ctx, ledgerevent.New(ledgerevent.DonationRecorded, "c", "d", "a"))
	_ = r.Publish(ctx, ledgerevent.New(ledgerevent.DonationApproved, "c", "d", "b"))

	kinds := r.Kinds()
	if len(kinds) != 2 || kinds[0] != ledgerevent.DonationRecorded || kinds[1] != ledgerevent.DonationApproved {
		t.Fatalf("kinds = %v", kinds)
	}

	r.Err = errors.New("down")
	if err := r.Publish(ctx, ledgerevent.Event{}); !errors.Is(err, r.Err) {
		t.Fatalf("want configured error, got %v", err)
	}
	if len(r.Events()) != 3 {
		t.Fatalf("failed publish must still be recorded")
	}
}
