// Package quota tracks the daily video allowance: a counter keyed by
// calendar date, persisted as a small JSON file, reset implicitly on
// date rollover. The counter is committed only after a video artifact
// is fully assembled; failed runs never consume quota.
package quota

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const fileName = "usage.json"

type record struct {
	Date string `json:"date"`
	Used int    `json:"used"`
}

// Counter is the persisted daily usage counter.
type Counter struct {
	dir   string
	limit int
	now   func() time.Time
}

// New creates a Counter persisting under dir with the given daily
// limit.
func New(dir string, limit int) *Counter {
	return &Counter{dir: dir, limit: limit, now: time.Now}
}

func (c *Counter) today() string {
	return c.now().Format("2006-01-02")
}

// Remaining returns how many videos may still be produced today.
func (c *Counter) Remaining() (int, error) {
	rec, err := c.load()
	if err != nil {
		return 0, err
	}
	left := c.limit - rec.Used
	if left < 0 {
		left = 0
	}
	return left, nil
}

// Commit records one completed video. Called only after the artifact
// is fully assembled.
func (c *Counter) Commit() error {
	rec, err := c.load()
	if err != nil {
		return err
	}
	rec.Used++
	return c.save(rec)
}

func (c *Counter) load() (record, error) {
	data, err := os.ReadFile(filepath.Join(c.dir, fileName))
	if os.IsNotExist(err) {
		return record{Date: c.today()}, nil
	}
	if err != nil {
		return record{}, fmt.Errorf("read usage file: %w", err)
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		// A corrupt usage file resets the day rather than blocking
		// the pipeline.
		return record{Date: c.today()}, nil
	}
	if rec.Date != c.today() {
		return record{Date: c.today()}, nil
	}
	return rec, nil
}

func (c *Counter) save(rec record) error {
	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(c.dir, fileName), data, 0644); err != nil {
		return fmt.Errorf("write usage file: %w", err)
	}
	return nil
}
