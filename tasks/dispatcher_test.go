package tasks

import (
	"testing"
	"time"
)

func TestDispatcher(t *testing.T) {
	t.Run("RunsJob", func(t *testing.T) {
		d := NewDispatcher("test", 1, 10)
		d.Start()
		defer d.Stop()

		done := make(chan bool)
		if err := d.Dispatch("job", func() { done <- true }); err != nil {
			t.Fatal(err)
		}
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("job did not run")
		}
	})
	t.Run("InactiveRejects", func(t *testing.T) {
		d := NewDispatcher("test", 1, 10)
		if err := d.Dispatch("job", func() {}); err == nil {
			t.Error("expected an error before Start")
		}
	})
	t.Run("DispatchIn", func(t *testing.T) {
		d := NewDispatcher("test", 1, 10)
		d.Start()
		defer d.Stop()

		done := make(chan bool)
		if err := d.DispatchIn("job", func() { done <- true }, 10*time.Millisecond); err != nil {
			t.Fatal(err)
		}
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("delayed job did not run")
		}
	})
}
