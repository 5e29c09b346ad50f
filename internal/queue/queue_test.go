package queue

import (
	"bufio"
	"net"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vunf1/goalnotify/internal/model"
)

// startTestServer binds a server on a temp socket and returns it with
// its socket path. The server is stopped on test cleanup.
func startTestServer(t *testing.T) (*Server, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "notify.sock")
	srv := NewServer(path, nil)
	require.NoError(t, srv.Start())
	t.Cleanup(func() { _ = srv.Stop() })
	return srv, path
}

func TestNotify_BeforeInit(t *testing.T) {
	Init(nil)

	err := Notify("Goal", "2-1", nil)
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestProducer_NotifyDeliversInOrder(t *testing.T) {
	srv, path := startTestServer(t)

	const total = 20
	received := make(chan string, total)
	srv.SetNotifyHandler(func(req *model.Request) {
		received <- req.Title
	})

	producer, err := Dial(path)
	require.NoError(t, err)
	defer func() { _ = producer.Close() }()

	var want []string
	for i := 0; i < total; i++ {
		title := string(rune('a' + i))
		want = append(want, title)
		require.NoError(t, producer.Notify(title, "msg", nil))
	}

	var got []string
	for i := 0; i < total; i++ {
		select {
		case title := <-received:
			got = append(got, title)
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out after %d of %d requests", i, total)
		}
	}
	assert.Equal(t, want, got)
}

func TestProducer_NotifyAppliesDefaults(t *testing.T) {
	srv, path := startTestServer(t)

	received := make(chan *model.Request, 1)
	srv.SetNotifyHandler(func(req *model.Request) {
		received <- req
	})

	producer, err := Dial(path)
	require.NoError(t, err)
	defer func() { _ = producer.Close() }()

	require.NoError(t, producer.Notify("Goal", "2-1", nil))

	select {
	case req := <-received:
		assert.NotEmpty(t, req.ID)
		assert.Equal(t, "Goal", req.Title)
		assert.Equal(t, model.DefaultDuration, req.Options.Duration)
		assert.Equal(t, model.DefaultIcon, req.Options.Icon)
	case <-time.After(2 * time.Second):
		t.Fatal("request never delivered")
	}
}

func TestProducer_NotifyRejectsEmptyTitle(t *testing.T) {
	_, path := startTestServer(t)

	producer, err := Dial(path)
	require.NoError(t, err)
	defer func() { _ = producer.Close() }()

	assert.ErrorIs(t, producer.Notify("", "msg", nil), model.ErrEmptyTitle)
}

func TestProducer_PromptRoundTrip(t *testing.T) {
	srv, path := startTestServer(t)

	srv.SetPromptHandler(func(req *model.Request) bool {
		return req.Title == "Confirm"
	})

	producer, err := Dial(path)
	require.NoError(t, err)
	defer func() { _ = producer.Close() }()

	yes, err := producer.Prompt("Confirm", "Proceed?", nil)
	require.NoError(t, err)
	assert.True(t, yes)

	no, err := producer.Prompt("Other", "Proceed?", nil)
	require.NoError(t, err)
	assert.False(t, no)
}

func TestProducer_PromptRejectsEmptyTitle(t *testing.T) {
	srv, path := startTestServer(t)
	srv.SetPromptHandler(func(req *model.Request) bool { return true })

	producer, err := Dial(path)
	require.NoError(t, err)
	defer func() { _ = producer.Close() }()

	_, err = producer.Prompt("", "Proceed?", nil)
	assert.ErrorIs(t, err, model.ErrEmptyTitle)
}

func TestServer_RejectsInvalidPromptEnvelope(t *testing.T) {
	srv, path := startTestServer(t)

	var handled bool
	srv.SetPromptHandler(func(req *model.Request) bool {
		handled = true
		return true
	})

	// A raw envelope skipping the producer's own validation.
	conn, err := net.Dial("unix", path)
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	_, err = conn.Write([]byte(`{"op":"prompt","request":{"id":"x","title":"","message":"Proceed?"}}` + "\n"))
	require.NoError(t, err)

	reply, err := bufio.NewReader(conn).ReadString('\n')
	require.NoError(t, err)
	assert.Contains(t, reply, `"ok":false`)
	assert.Contains(t, reply, "title")
	assert.False(t, handled)
}

func TestProducer_PromptWithoutHandler(t *testing.T) {
	_, path := startTestServer(t)

	producer, err := Dial(path)
	require.NoError(t, err)
	defer func() { _ = producer.Close() }()

	_, err = producer.Prompt("Confirm", "Proceed?", nil)
	assert.Error(t, err)
}

func TestProducer_StatusRoundTrip(t *testing.T) {
	srv, path := startTestServer(t)

	srv.SetStatusHandler(func() StatusInfo {
		return StatusInfo{
			Active:    2,
			Served:    41,
			StartedAt: 1700000000,
			Version:   "1.2.3",
		}
	})

	producer, err := Dial(path)
	require.NoError(t, err)
	defer func() { _ = producer.Close() }()

	status, err := producer.Status()
	require.NoError(t, err)
	assert.Equal(t, 2, status.Active)
	assert.Equal(t, 41, status.Served)
	assert.Equal(t, int64(1700000000), status.StartedAt)
	assert.Equal(t, "1.2.3", status.Version)
}

func TestProducer_ConcurrentNotify(t *testing.T) {
	srv, path := startTestServer(t)

	const total = 50
	received := make(chan struct{}, total)
	srv.SetNotifyHandler(func(req *model.Request) {
		received <- struct{}{}
	})

	producer, err := Dial(path)
	require.NoError(t, err)
	defer func() { _ = producer.Close() }()

	var wg sync.WaitGroup
	for i := 0; i < total; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, producer.Notify("Goal", "msg", nil))
		}()
	}
	wg.Wait()

	for i := 0; i < total; i++ {
		select {
		case <-received:
		case <-time.After(2 * time.Second):
			t.Fatalf("only %d of %d requests delivered", i, total)
		}
	}
}

func TestServer_StartTwice(t *testing.T) {
	srv, _ := startTestServer(t)
	assert.Error(t, srv.Start())
}

func TestServer_StopIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notify.sock")
	srv := NewServer(path, nil)
	require.NoError(t, srv.Start())

	assert.NoError(t, srv.Stop())
	assert.NoError(t, srv.Stop())
}

func TestServer_ReplacesStaleSocket(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notify.sock")

	first := NewServer(path, nil)
	require.NoError(t, first.Start())
	require.NoError(t, first.Stop())

	second := NewServer(path, nil)
	require.NoError(t, second.Start())
	defer func() { _ = second.Stop() }()

	producer, err := Dial(path)
	require.NoError(t, err)
	_ = producer.Close()
}

func TestSocketPath(t *testing.T) {
	t.Run("env wins", func(t *testing.T) {
		t.Setenv(SocketEnv, "/tmp/env.sock")
		assert.Equal(t, "/tmp/env.sock", SocketPath("/tmp/override.sock"))
	})

	t.Run("override beats default", func(t *testing.T) {
		t.Setenv(SocketEnv, "")
		assert.Equal(t, "/tmp/override.sock", SocketPath("/tmp/override.sock"))
	})

	t.Run("default under runtime dir", func(t *testing.T) {
		t.Setenv(SocketEnv, "")
		path := SocketPath("")
		assert.Equal(t, "notify.sock", filepath.Base(path))
		assert.Contains(t, path, "goalnotify")
	})
}
