package protocol_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-tplworker/pkg/dispatch"
	"github.com/goliatone/go-tplworker/pkg/engine"
	"github.com/goliatone/go-tplworker/pkg/protocol"
	"github.com/goliatone/go-tplworker/pkg/testsupport"
)

func serve(t *testing.T, d protocol.Dispatcher, input string) string {
	t.Helper()
	var out bytes.Buffer
	if err := protocol.NewServer(d, strings.NewReader(input), &out).Serve(testsupport.Context()); err != nil {
		t.Fatalf("serve: %v", err)
	}
	return out.String()
}

func echoAndFail() *dispatch.Dispatcher {
	return dispatch.New(engine.NewSet(
		testsupport.Echo("echo"),
		testsupport.Failing("fail", "boom"),
	))
}

func TestServe_SentinelFraming(t *testing.T) {
	got := serve(t, echoAndFail(), "\n<b>hi</b>\n")

	testsupport.Golden(t, filepath.Join("testdata", "framing.golden"), got)

	lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n")
	if len(lines) != 4 || lines[1] != protocol.Sentinel || lines[3] != protocol.Sentinel {
		t.Fatalf("expected JSON, sentinel, JSON, sentinel; got %q", lines)
	}
}

func TestServe_TrimsWhitespaceAndCRLF(t *testing.T) {
	got := serve(t, dispatch.New(engine.NewSet(testsupport.Echo("echo"))), "  {{ 7*7 }} \r\n\t\n")

	want := "{\"echo\":\"{{ 7*7 }}\"}\n__END__\n{\"echo\":\"\"}\n__END__\n"
	if got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

func TestServe_FinalLineWithoutNewline(t *testing.T) {
	got := serve(t, dispatch.New(engine.NewSet(testsupport.Echo("echo"))), "a\nb")

	want := "{\"echo\":\"a\"}\n__END__\n{\"echo\":\"b\"}\n__END__\n"
	if got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

func TestServe_EmptyInputWritesNothing(t *testing.T) {
	if got := serve(t, echoAndFail(), ""); got != "" {
		t.Fatalf("expected no output, got %q", got)
	}
}

func TestServe_NoLineLengthLimit(t *testing.T) {
	long := strings.Repeat("a", 1<<20)
	got := serve(t, dispatch.New(engine.NewSet(testsupport.Echo("echo"))), long+"\n")

	reader := bufio.NewReader(strings.NewReader(got))
	first, err := reader.ReadString('\n')
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	var resp map[string]string
	if err := json.Unmarshal([]byte(first), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp["echo"]) != len(long) {
		t.Fatalf("expected %d bytes echoed, got %d", len(long), len(resp["echo"]))
	}
}

func TestServe_KeySetStableAcrossLines(t *testing.T) {
	d := dispatch.New(engine.NewSet(
		testsupport.Echo("a"),
		testsupport.Failing("b", "bad"),
		testsupport.Panicking("c", "worse"),
	))
	got := serve(t, d, "\nx\n{{}}\n")

	lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n")
	if len(lines) != 6 {
		t.Fatalf("expected 6 output lines, got %d: %q", len(lines), lines)
	}
	for i := 0; i < len(lines); i += 2 {
		var resp dispatch.Response
		if err := json.Unmarshal([]byte(lines[i]), &resp); err != nil {
			t.Fatalf("line %d: decode: %v", i, err)
		}
		if diff := cmp.Diff([]string{"a", "b", "c"}, resp.Names()); diff != "" {
			t.Fatalf("line %d: key set mismatch (-want +got):\n%s", i, diff)
		}
		if lines[i+1] != protocol.Sentinel {
			t.Fatalf("line %d: expected sentinel, got %q", i+1, lines[i+1])
		}
	}
}

type eventLog struct {
	mu     sync.Mutex
	events []string
}

func (l *eventLog) add(event string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
}

type loggingDispatcher struct {
	log   *eventLog
	inner protocol.Dispatcher
}

func (d loggingDispatcher) Dispatch(ctx context.Context, tpl string) dispatch.Response {
	d.log.add("dispatch " + tpl)
	return d.inner.Dispatch(ctx, tpl)
}

type loggingWriter struct {
	log *eventLog
}

func (w loggingWriter) Write(p []byte) (int, error) {
	w.log.add("write " + string(p))
	return len(p), nil
}

func TestServe_ResponsesEmittedInInputOrder(t *testing.T) {
	events := &eventLog{}
	d := loggingDispatcher{log: events, inner: dispatch.New(engine.NewSet(testsupport.Echo("e")))}

	err := protocol.NewServer(d, strings.NewReader("one\ntwo\n"), loggingWriter{log: events}).Serve(testsupport.Context())
	if err != nil {
		t.Fatalf("serve: %v", err)
	}

	want := []string{
		"dispatch one",
		"write {\"e\":\"one\"}\n__END__\n",
		"dispatch two",
		"write {\"e\":\"two\"}\n__END__\n",
	}
	if diff := cmp.Diff(want, events.events); diff != "" {
		t.Fatalf("event order mismatch (-want +got):\n%s", diff)
	}
}

func TestServe_DoesNotReadAheadOfResponse(t *testing.T) {
	inR, inW := io.Pipe()
	outR, outW := io.Pipe()
	counter := testsupport.Counting(testsupport.Echo("e"))

	done := make(chan error, 1)
	go func() {
		done <- protocol.NewServer(dispatch.New(engine.NewSet(counter)), inR, outW).Serve(testsupport.Context())
		_ = outW.Close()
	}()

	out := bufio.NewReader(outR)
	readResponse := func() (string, string) {
		t.Helper()
		body, err := out.ReadString('\n')
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		sentinel, err := out.ReadString('\n')
		if err != nil {
			t.Fatalf("read sentinel: %v", err)
		}
		return body, sentinel
	}

	if _, err := io.WriteString(inW, "first\n"); err != nil {
		t.Fatalf("write first: %v", err)
	}
	body, sentinel := readResponse()
	if body != "{\"e\":\"first\"}\n" || sentinel != protocol.Sentinel+"\n" {
		t.Fatalf("unexpected first response %q %q", body, sentinel)
	}
	if counter.Calls() != 1 {
		t.Fatalf("expected one dispatch before second line, got %d", counter.Calls())
	}

	if _, err := io.WriteString(inW, "second\n"); err != nil {
		t.Fatalf("write second: %v", err)
	}
	body, _ = readResponse()
	if body != "{\"e\":\"second\"}\n" {
		t.Fatalf("unexpected second response %q", body)
	}

	_ = inW.Close()
	if err := <-done; err != nil {
		t.Fatalf("serve: %v", err)
	}
}

type failingReader struct{ err error }

func (r failingReader) Read([]byte) (int, error) { return 0, r.err }

type failingWriter struct{ err error }

func (w failingWriter) Write([]byte) (int, error) { return 0, w.err }

func TestServe_FatalIOErrors(t *testing.T) {
	broken := errors.New("broken pipe")

	err := protocol.NewServer(echoAndFail(), failingReader{err: broken}, io.Discard).Serve(testsupport.Context())
	if !errors.Is(err, broken) {
		t.Fatalf("expected read error, got %v", err)
	}

	err = protocol.NewServer(echoAndFail(), strings.NewReader("x\n"), failingWriter{err: broken}).Serve(testsupport.Context())
	if !errors.Is(err, broken) {
		t.Fatalf("expected write error, got %v", err)
	}
}

func TestServe_StopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	err := protocol.NewServer(echoAndFail(), strings.NewReader("x\n"), &out).Serve(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("expected no output, got %q", out.String())
	}
}

func TestWriteResponse_LeavesHTMLUnescaped(t *testing.T) {
	var buf bytes.Buffer
	if err := protocol.WriteResponse(&buf, dispatch.Response{"e": "<script>&</script>"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	want := "{\"e\":\"<script>&</script>\"}\n__END__\n"
	if buf.String() != want {
		t.Fatalf("want %q, got %q", want, buf.String())
	}
}
