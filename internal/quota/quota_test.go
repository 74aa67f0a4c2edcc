package quota

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func fixedClock(day string) func() time.Time {
	return func() time.Time {
		ts, _ := time.Parse("2006-01-02", day)
		return ts
	}
}

func TestRemainingFresh(t *testing.T) {
	c := New(t.TempDir(), 3)

	left, err := c.Remaining()
	if err != nil {
		t.Fatal(err)
	}
	if left != 3 {
		t.Errorf("Remaining() = %d, want 3", left)
	}
}

func TestCommitDecrementsRemaining(t *testing.T) {
	c := New(t.TempDir(), 3)

	if err := c.Commit(); err != nil {
		t.Fatal(err)
	}
	if err := c.Commit(); err != nil {
		t.Fatal(err)
	}

	left, err := c.Remaining()
	if err != nil {
		t.Fatal(err)
	}
	if left != 1 {
		t.Errorf("Remaining() = %d, want 1", left)
	}
}

func TestRemainingNeverNegative(t *testing.T) {
	c := New(t.TempDir(), 1)

	c.Commit()
	c.Commit()

	left, err := c.Remaining()
	if err != nil {
		t.Fatal(err)
	}
	if left != 0 {
		t.Errorf("Remaining() = %d, want 0", left)
	}
}

func TestDateRolloverResets(t *testing.T) {
	dir := t.TempDir()
	c := New(dir, 2)
	c.now = fixedClock("2026-08-28")

	c.Commit()
	c.Commit()
	if left, _ := c.Remaining(); left != 0 {
		t.Fatalf("Remaining() = %d, want 0 before rollover", left)
	}

	c.now = fixedClock("2026-08-29")
	left, err := c.Remaining()
	if err != nil {
		t.Fatal(err)
	}
	if left != 2 {
		t.Errorf("Remaining() = %d after rollover, want 2", left)
	}
}

func TestCorruptFileResetsDay(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, fileName), []byte("{garbage"), 0644); err != nil {
		t.Fatal(err)
	}

	c := New(dir, 5)
	left, err := c.Remaining()
	if err != nil {
		t.Fatal(err)
	}
	if left != 5 {
		t.Errorf("Remaining() = %d, want 5 after corrupt state", left)
	}
}
