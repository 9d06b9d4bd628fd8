package msg

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Iron-Ham/scanform/internal/host"
	"github.com/Iron-Ham/scanform/internal/scanqueue"
)

func TestWaitScan(t *testing.T) {
	q := scanqueue.New(nil, nil)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = q.Close(ctx)
	}()

	boom := errors.New("boom")
	ticket := q.Enqueue("8412345678900", func(context.Context) error { return boom })

	result := WaitScan(ticket)()
	settled, ok := result.(ScanSettledMsg)
	if !ok {
		t.Fatalf("WaitScan() returned %T, want ScanSettledMsg", result)
	}
	if settled.Token != "8412345678900" {
		t.Errorf("Token = %q", settled.Token)
	}
	if !errors.Is(settled.Err, boom) {
		t.Errorf("Err = %v, want %v", settled.Err, boom)
	}
}

func TestConfirmPrompt(t *testing.T) {
	var got string
	p := host.Prompt{Confirm: func(_ context.Context, value string) error {
		got = value
		return nil
	}}

	result := ConfirmPrompt(p, "12")()
	done, ok := result.(QuantityDoneMsg)
	if !ok {
		t.Fatalf("ConfirmPrompt() returned %T, want QuantityDoneMsg", result)
	}
	if got != "12" || done.Input != "12" || done.Err != nil {
		t.Errorf("confirmed %q, msg = %+v", got, done)
	}
}

func TestConfirmPrompt_NoConfirmFunc(t *testing.T) {
	done := ConfirmPrompt(host.Prompt{}, "3")().(QuantityDoneMsg)
	if done.Err != nil {
		t.Errorf("Err = %v, want nil", done.Err)
	}
}
