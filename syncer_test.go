package bucketsync

import (
	"context"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/input-output-hk/catalyst-forge-libs/fs/billy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wrenlabs/bucketsync/synctypes"
)

// recordLogger captures every message per channel for assertions.
type recordLogger struct {
	successes []string
	errors    []string
	debugs    []string
	pendings  []string
	watches   []string
}

func (l *recordLogger) Success(msg string)     { l.successes = append(l.successes, msg) }
func (l *recordLogger) Error(msg string)       { l.errors = append(l.errors, msg) }
func (l *recordLogger) Debug(msg string)       { l.debugs = append(l.debugs, msg) }
func (l *recordLogger) Pending(msg string)     { l.pendings = append(l.pendings, msg) }
func (l *recordLogger) WatchStatus(msg string) { l.watches = append(l.watches, msg) }

// fakeStorage implements Storage with customizable function fields.
// Unset fields behave as an empty store answering 200.
type fakeStorage struct {
	putFunc    func(ctx context.Context, key string, reader io.Reader, headers map[string]string) (*synctypes.PutResult, error)
	listFunc   func(ctx context.Context, prefix, marker string) (*synctypes.ListPage, error)
	deleteFunc func(ctx context.Context, keys []string) (*synctypes.DeleteResult, error)

	putCalls    []string
	listCalls   int
	deleteCalls [][]string
}

func (f *fakeStorage) PutStream(
	ctx context.Context,
	key string,
	reader io.Reader,
	headers map[string]string,
) (*synctypes.PutResult, error) {
	f.putCalls = append(f.putCalls, key)
	if f.putFunc != nil {
		return f.putFunc(ctx, key, reader, headers)
	}
	return &synctypes.PutResult{StatusCode: http.StatusOK}, nil
}

func (f *fakeStorage) List(ctx context.Context, prefix, marker string) (*synctypes.ListPage, error) {
	f.listCalls++
	if f.listFunc != nil {
		return f.listFunc(ctx, prefix, marker)
	}
	return &synctypes.ListPage{StatusCode: http.StatusOK}, nil
}

func (f *fakeStorage) DeleteMulti(ctx context.Context, keys []string) (*synctypes.DeleteResult, error) {
	f.deleteCalls = append(f.deleteCalls, keys)
	if f.deleteFunc != nil {
		return f.deleteFunc(ctx, keys)
	}
	return &synctypes.DeleteResult{StatusCode: http.StatusOK, Deleted: keys}, nil
}

// newTestSyncer builds a syncer over an in-memory filesystem seeded with
// the given files, recording every sleep instead of actually sleeping.
func newTestSyncer(t *testing.T, st Storage, cfg *synctypes.ClientConfig, files map[string]string) (*Syncer, *[]time.Duration) {
	t.Helper()

	memfs := billy.NewInMemoryFS()
	require.NoError(t, memfs.MkdirAll("/src", 0o755))
	for path, content := range files {
		require.NoError(t, memfs.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, memfs.WriteFile(path, []byte(content), 0o644))
	}

	if cfg == nil {
		cfg = &synctypes.ClientConfig{}
	}
	cfg.Filesystem = memfs

	syncer := NewSyncer(st, cfg)
	var slept []time.Duration
	syncer.sleep = func(d time.Duration) {
		slept = append(slept, d)
	}
	return syncer, &slept
}

func entriesFor(paths ...string) []synctypes.FileEntry {
	entries := make([]synctypes.FileEntry, 0, len(paths))
	for _, p := range paths {
		entries = append(entries, synctypes.FileEntry{
			RelativePath: p,
			LocalPath:    "/src/" + p,
		})
	}
	return entries
}

func TestSyncer_Upload(t *testing.T) {
	t.Run("zero wait introduces no delay", func(t *testing.T) {
		st := &fakeStorage{}
		memfs := billy.NewInMemoryFS()
		require.NoError(t, memfs.MkdirAll("/src", 0o755))
		require.NoError(t, memfs.WriteFile("/src/a.txt", []byte("a"), 0o644))

		syncer := NewSyncer(st, &synctypes.ClientConfig{Filesystem: memfs})

		start := time.Now()
		elapsed := syncer.Upload(context.Background(), "site/", entriesFor("a.txt"), NopLogger{})
		assert.Less(t, time.Since(start), 500*time.Millisecond)
		assert.GreaterOrEqual(t, elapsed, time.Duration(0))
	})

	t.Run("wait runs before the batch", func(t *testing.T) {
		st := &fakeStorage{}
		syncer, slept := newTestSyncer(t, st, &synctypes.ClientConfig{
			WaitBeforeUpload: 3 * time.Second,
		}, map[string]string{"/src/a.txt": "a"})

		syncer.Upload(context.Background(), "site/", entriesFor("a.txt"), NopLogger{})
		require.Len(t, *slept, 1)
		assert.Equal(t, 3*time.Second, (*slept)[0])
	})

	t.Run("logs one success per uploaded file", func(t *testing.T) {
		st := &fakeStorage{}
		syncer, _ := newTestSyncer(t, st, nil, map[string]string{
			"/src/a.txt": "alpha",
			"/src/b.txt": "bravo",
			"/src/c.txt": "charlie",
		})

		log := &recordLogger{}
		elapsed := syncer.Upload(context.Background(), "site/", entriesFor("a.txt", "b.txt", "c.txt"), log)

		assert.Len(t, log.successes, 3)
		assert.Empty(t, log.errors)
		assert.GreaterOrEqual(t, elapsed, time.Duration(0))
		assert.Equal(t, []string{"site/a.txt", "site/b.txt", "site/c.txt"}, st.putCalls)
	})

	t.Run("continues after a failed entry", func(t *testing.T) {
		st := &fakeStorage{}
		st.putFunc = func(_ context.Context, key string, _ io.Reader, _ map[string]string) (*synctypes.PutResult, error) {
			if key == "site/b.txt" {
				return &synctypes.PutResult{StatusCode: http.StatusInternalServerError, Body: "InternalError: upstream"}, nil
			}
			return &synctypes.PutResult{StatusCode: http.StatusOK}, nil
		}
		syncer, _ := newTestSyncer(t, st, nil, map[string]string{
			"/src/a.txt": "alpha",
			"/src/b.txt": "bravo",
			"/src/c.txt": "charlie",
		})

		log := &recordLogger{}
		syncer.Upload(context.Background(), "site/", entriesFor("a.txt", "b.txt", "c.txt"), log)

		require.Len(t, log.errors, 1)
		assert.Contains(t, log.errors[0], "site/b.txt")
		assert.Contains(t, log.errors[0], "InternalError")
		assert.Len(t, log.successes, 2)
		assert.Len(t, st.putCalls, 3)
	})

	t.Run("missing local file is logged and skipped", func(t *testing.T) {
		st := &fakeStorage{}
		syncer, _ := newTestSyncer(t, st, nil, map[string]string{
			"/src/a.txt": "alpha",
		})

		log := &recordLogger{}
		syncer.Upload(context.Background(), "site/", entriesFor("missing.txt", "a.txt"), log)

		require.Len(t, log.errors, 1)
		assert.Contains(t, log.errors[0], "site/missing.txt")
		assert.Len(t, log.successes, 1)
		// Only the readable file reached the store.
		assert.Equal(t, []string{"site/a.txt"}, st.putCalls)
	})

	t.Run("per-file access level wins over the global default", func(t *testing.T) {
		var captured []map[string]string
		st := &fakeStorage{}
		st.putFunc = func(_ context.Context, _ string, _ io.Reader, headers map[string]string) (*synctypes.PutResult, error) {
			captured = append(captured, headers)
			return &synctypes.PutResult{StatusCode: http.StatusOK}, nil
		}
		syncer, _ := newTestSyncer(t, st, &synctypes.ClientConfig{
			Headers: map[string]string{
				synctypes.HeaderCacheControl: "max-age=60",
				synctypes.HeaderObjectACL:    string(synctypes.ACLPrivate),
			},
		}, map[string]string{
			"/src/a.txt": "alpha",
			"/src/b.txt": "bravo",
		})

		entries := []synctypes.FileEntry{
			{RelativePath: "a.txt", LocalPath: "/src/a.txt", ACL: synctypes.ACLPublicRead},
			{RelativePath: "b.txt", LocalPath: "/src/b.txt"},
		}
		syncer.Upload(context.Background(), "site/", entries, NopLogger{})

		require.Len(t, captured, 2)
		assert.Equal(t, string(synctypes.ACLPublicRead), captured[0][synctypes.HeaderObjectACL])
		assert.Equal(t, string(synctypes.ACLPrivate), captured[1][synctypes.HeaderObjectACL])
		assert.Equal(t, "max-age=60", captured[0][synctypes.HeaderCacheControl])
	})
}

func TestSyncer_List(t *testing.T) {
	t.Run("concatenates pages in order with prefix stripped", func(t *testing.T) {
		st := &fakeStorage{}
		st.listFunc = func(_ context.Context, prefix, marker string) (*synctypes.ListPage, error) {
			switch marker {
			case "":
				return &synctypes.ListPage{
					StatusCode: http.StatusOK,
					Objects:    []string{"site/a.txt", "site/b.txt"},
					NextMarker: "page-2",
				}, nil
			case "page-2":
				return &synctypes.ListPage{
					StatusCode: http.StatusOK,
					Objects:    []string{"site/c/d.txt"},
				}, nil
			default:
				t.Fatalf("unexpected marker %q", marker)
				return nil, nil
			}
		}
		syncer, _ := newTestSyncer(t, st, nil, nil)

		paths := syncer.List(context.Background(), "site/", NopLogger{})

		assert.Equal(t, []string{"a.txt", "b.txt", "c/d.txt"}, paths)
		assert.Equal(t, 2, st.listCalls)
	})

	t.Run("failed first page returns empty and logs once", func(t *testing.T) {
		st := &fakeStorage{}
		st.listFunc = func(_ context.Context, _, _ string) (*synctypes.ListPage, error) {
			return &synctypes.ListPage{StatusCode: http.StatusForbidden, Body: "AccessDenied: no list permission"}, nil
		}
		syncer, _ := newTestSyncer(t, st, nil, nil)

		log := &recordLogger{}
		paths := syncer.List(context.Background(), "site/", log)

		assert.Empty(t, paths)
		require.Len(t, log.errors, 1)
		assert.Contains(t, log.errors[0], "AccessDenied")
		assert.Equal(t, 1, st.listCalls)
	})

	t.Run("failed later page returns the partial result", func(t *testing.T) {
		st := &fakeStorage{}
		st.listFunc = func(_ context.Context, _, marker string) (*synctypes.ListPage, error) {
			if marker == "" {
				return &synctypes.ListPage{
					StatusCode: http.StatusOK,
					Objects:    []string{"site/a.txt"},
					NextMarker: "page-2",
				}, nil
			}
			return &synctypes.ListPage{StatusCode: http.StatusBadGateway, Body: "BadGateway"}, nil
		}
		syncer, _ := newTestSyncer(t, st, nil, nil)

		log := &recordLogger{}
		paths := syncer.List(context.Background(), "site/", log)

		assert.Equal(t, []string{"a.txt"}, paths)
		assert.Len(t, log.errors, 1)
	})

	t.Run("prefix removal is plain substring removal", func(t *testing.T) {
		// A key containing the prefix string elsewhere loses that
		// occurrence too; this mirrors the store's addressing scheme.
		st := &fakeStorage{}
		st.listFunc = func(_ context.Context, _, _ string) (*synctypes.ListPage, error) {
			return &synctypes.ListPage{
				StatusCode: http.StatusOK,
				Objects:    []string{"site/nested/site/a.txt"},
			}, nil
		}
		syncer, _ := newTestSyncer(t, st, nil, nil)

		paths := syncer.List(context.Background(), "site/", NopLogger{})
		assert.Equal(t, []string{"nested/site/a.txt"}, paths)
	})
}

func TestSyncer_Delete(t *testing.T) {
	t.Run("maps paths to keys and issues one bulk request", func(t *testing.T) {
		st := &fakeStorage{}
		syncer, _ := newTestSyncer(t, st, nil, nil)

		log := &recordLogger{}
		elapsed := syncer.Delete(context.Background(), "site/", []string{"a.txt", "b/c.txt"}, log)

		require.Len(t, st.deleteCalls, 1)
		assert.Equal(t, []string{"site/a.txt", "site/b/c.txt"}, st.deleteCalls[0])
		assert.GreaterOrEqual(t, elapsed, time.Duration(0))
		assert.Empty(t, log.errors)
	})

	t.Run("unconfirmed keys are reported together", func(t *testing.T) {
		st := &fakeStorage{}
		st.deleteFunc = func(_ context.Context, keys []string) (*synctypes.DeleteResult, error) {
			return &synctypes.DeleteResult{
				StatusCode: http.StatusOK,
				Deleted:    []string{"site/a.txt", "site/c.txt"},
			}, nil
		}
		syncer, _ := newTestSyncer(t, st, nil, nil)

		log := &recordLogger{}
		elapsed := syncer.Delete(context.Background(), "site/", []string{"a.txt", "b.txt", "c.txt"}, log)

		require.Len(t, log.errors, 1)
		assert.Contains(t, log.errors[0], "site/b.txt")
		assert.NotContains(t, log.errors[0], "site/a.txt")
		assert.NotContains(t, log.errors[0], "site/c.txt")
		assert.Empty(t, log.successes)
		assert.GreaterOrEqual(t, elapsed, time.Duration(0))
	})

	t.Run("non-200 logs the raw response", func(t *testing.T) {
		st := &fakeStorage{}
		st.deleteFunc = func(_ context.Context, _ []string) (*synctypes.DeleteResult, error) {
			return &synctypes.DeleteResult{StatusCode: http.StatusForbidden, Body: "AccessDenied: delete refused"}, nil
		}
		syncer, _ := newTestSyncer(t, st, nil, nil)

		log := &recordLogger{}
		syncer.Delete(context.Background(), "site/", []string{"a.txt"}, log)

		require.Len(t, log.errors, 1)
		assert.Contains(t, log.errors[0], "AccessDenied")
	})

	t.Run("wait runs before the request", func(t *testing.T) {
		st := &fakeStorage{}
		syncer, slept := newTestSyncer(t, st, &synctypes.ClientConfig{
			WaitBeforeDelete: 2 * time.Second,
		}, nil)

		syncer.Delete(context.Background(), "site/", []string{"a.txt"}, NopLogger{})
		require.Len(t, *slept, 1)
		assert.Equal(t, 2*time.Second, (*slept)[0])
	})

	t.Run("empty path set issues no request", func(t *testing.T) {
		st := &fakeStorage{}
		syncer, _ := newTestSyncer(t, st, nil, nil)

		syncer.Delete(context.Background(), "site/", nil, NopLogger{})
		assert.Empty(t, st.deleteCalls)
	})
}

// memStorage is an in-memory store used for round-trip tests. Keys keep
// insertion order so listings are deterministic.
type memStorage struct {
	order   []string
	objects map[string][]byte
}

func newMemStorage() *memStorage {
	return &memStorage{objects: map[string][]byte{}}
}

func (m *memStorage) PutStream(
	_ context.Context,
	key string,
	reader io.Reader,
	_ map[string]string,
) (*synctypes.PutResult, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	if _, exists := m.objects[key]; !exists {
		m.order = append(m.order, key)
	}
	m.objects[key] = data
	return &synctypes.PutResult{StatusCode: http.StatusOK}, nil
}

func (m *memStorage) List(_ context.Context, prefix, _ string) (*synctypes.ListPage, error) {
	page := &synctypes.ListPage{StatusCode: http.StatusOK}
	for _, key := range m.order {
		if strings.HasPrefix(key, prefix) {
			page.Objects = append(page.Objects, key)
		}
	}
	return page, nil
}

func (m *memStorage) DeleteMulti(_ context.Context, keys []string) (*synctypes.DeleteResult, error) {
	result := &synctypes.DeleteResult{StatusCode: http.StatusOK}
	for _, key := range keys {
		if _, exists := m.objects[key]; exists {
			delete(m.objects, key)
			for i, k := range m.order {
				if k == key {
					m.order = append(m.order[:i], m.order[i+1:]...)
					break
				}
			}
			result.Deleted = append(result.Deleted, key)
		}
	}
	return result, nil
}

func TestSyncer_RoundTrip(t *testing.T) {
	st := newMemStorage()
	syncer, _ := newTestSyncer(t, st, nil, map[string]string{
		"/src/index.html":  "<html></html>",
		"/src/css/app.css": "body{}",
		"/src/js/app.js":   "void 0",
	})

	relative := []string{"index.html", "css/app.css", "js/app.js"}
	syncer.Upload(context.Background(), "site/", entriesFor(relative...), NopLogger{})

	listed := syncer.List(context.Background(), "site/", NopLogger{})
	assert.ElementsMatch(t, relative, listed)
}
