package cleanup

import (
	"errors"
	"testing"
	"time"
)

func TestNormalize(t *testing.T) {
	got := CleanupConfig{DryRun: true}.Normalize()
	if got.RetentionDays != 90 || got.MaxDeletionCount != 10000 || !got.DryRun {
		t.Fatalf("normalized=%+v", got)
	}

	got = CleanupConfig{RetentionDays: 7, MaxDeletionCount: 5}.Normalize()
	if got.RetentionDays != 7 || got.MaxDeletionCount != 5 {
		t.Fatalf("explicit values overwritten: %+v", got)
	}
}

func TestCutoff(t *testing.T) {
	now := time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)
	want := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)
	if got := Cutoff(now, 90); !got.Equal(want) {
		t.Fatalf("Cutoff=%v want=%v", got, want)
	}
}

func TestCheckLimit(t *testing.T) {
	if err := CheckLimit(10, 10); err != nil {
		t.Fatalf("at the limit: %v", err)
	}
	if err := CheckLimit(11, 10); !errors.Is(err, ErrTooManyDeletions) {
		t.Fatalf("err=%v want ErrTooManyDeletions", err)
	}
}
