package trailer

import (
	"context"
	"errors"
	"slices"
	"testing"

	"reelsort/internal/services"
)

type call struct {
	name string
	args []string
}

func recordingRunner(calls *[]call, outputs [][]byte, errs []error) func(context.Context, string, []string) ([]byte, error) {
	return func(_ context.Context, name string, args []string) ([]byte, error) {
		i := len(*calls)
		*calls = append(*calls, call{name: name, args: args})
		return outputs[i], errs[i]
	}
}

func TestFetchBuildsExpectedArguments(t *testing.T) {
	var calls []call
	f := NewCommandFetcher("yt-dlp", false, nil)
	f.runner = recordingRunner(&calls, [][]byte{nil}, []error{nil})

	if err := f.Fetch(context.Background(), "https://youtu.be/abc", "/library/Heat (1995)/Heat (1995)"); err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if len(calls) != 1 || calls[0].name != "yt-dlp" {
		t.Fatalf("unexpected calls %+v", calls)
	}
	want := []string{
		"-f", "bv*+ba/best",
		"--merge-output-format", "mp4",
		"--embed-metadata",
		"--embed-thumbnail",
		"-o", "/library/Heat (1995)/Heat (1995) - trailer.%(ext)s",
		"https://youtu.be/abc",
	}
	if !slices.Equal(calls[0].args, want) {
		t.Fatalf("args = %v, want %v", calls[0].args, want)
	}
}

func TestFetchRetriesWithAndroidClientOnSABR(t *testing.T) {
	var calls []call
	f := NewCommandFetcher("yt-dlp", false, nil)
	f.runner = recordingRunner(&calls,
		[][]byte{[]byte("ERROR: Requested format is not available"), nil},
		[]error{errors.New("exit status 1"), nil})

	if err := f.Fetch(context.Background(), "https://youtu.be/abc", "/tmp/base"); err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if len(calls) != 2 {
		t.Fatalf("expected 2 attempts, got %d", len(calls))
	}
	if !slices.Contains(calls[1].args, "youtube:player_client=android") {
		t.Fatalf("retry must force the android client, got %v", calls[1].args)
	}
}

func TestFetchStrictDisablesRetry(t *testing.T) {
	var calls []call
	f := NewCommandFetcher("yt-dlp", true, nil)
	f.runner = recordingRunner(&calls,
		[][]byte{[]byte("ERROR: Requested format is not available")},
		[]error{errors.New("exit status 1")})

	err := f.Fetch(context.Background(), "https://youtu.be/abc", "/tmp/base")
	if err == nil {
		t.Fatal("expected error in strict mode")
	}
	if len(calls) != 1 {
		t.Fatalf("strict mode must not retry, got %d attempts", len(calls))
	}
	if !errors.Is(err, services.ErrFilesystem) {
		t.Fatalf("expected filesystem marker, got %v", err)
	}
}

func TestFetchUnrelatedFailureDoesNotRetry(t *testing.T) {
	var calls []call
	f := NewCommandFetcher("yt-dlp", false, nil)
	f.runner = recordingRunner(&calls,
		[][]byte{[]byte("ERROR: Video unavailable")},
		[]error{errors.New("exit status 1")})

	if err := f.Fetch(context.Background(), "https://youtu.be/abc", "/tmp/base"); err == nil {
		t.Fatal("expected error")
	}
	if len(calls) != 1 {
		t.Fatalf("unrelated failures must not retry, got %d attempts", len(calls))
	}
}

func TestFetchEmptyURLSkips(t *testing.T) {
	f := NewCommandFetcher("yt-dlp", false, nil)
	f.runner = func(context.Context, string, []string) ([]byte, error) {
		t.Fatal("runner must not be called for empty url")
		return nil, nil
	}
	if err := f.Fetch(context.Background(), "  ", "/tmp/base"); !errors.Is(err, services.ErrInputSkip) {
		t.Fatalf("expected skip marker, got %v", err)
	}
}
