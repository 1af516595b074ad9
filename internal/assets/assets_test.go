package assets

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"

	"github.com/Faultbox/midgard-terrain/internal/config"
)

func TestManagerPriority(t *testing.T) {
	base := NewFSSource(fstest.MapFS{
		"models/ground.obj": {Data: []byte("base")},
		"textures/dirt.png": {Data: []byte("png")},
	})
	mod := NewFSSource(fstest.MapFS{
		"models/ground.obj": {Data: []byte("mod")},
	})

	m := NewManager(base)
	m.AddSource(mod)

	data, err := m.Load("models/ground.obj")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if string(data) != "mod" {
		t.Errorf("Load() = %q, want the last added source", data)
	}

	data, err = m.Load("/textures/dirt.png")
	if err != nil {
		t.Fatalf("Load() fallthrough error: %v", err)
	}
	if string(data) != "png" {
		t.Errorf("Load() = %q, want png", data)
	}
}

func TestManagerCache(t *testing.T) {
	fsys := fstest.MapFS{"a.obj": {Data: []byte("one")}}
	m := NewManager(NewFSSource(fsys))

	if _, err := m.Load("a.obj"); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	fsys["a.obj"] = &fstest.MapFile{Data: []byte("two")}

	rc, err := m.Open("a.obj")
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "one" {
		t.Errorf("Open() = %q, want cached bytes", data)
	}

	hits, misses := m.cache.Stats()
	if hits != 1 || misses != 1 {
		t.Errorf("Stats() = %d hits, %d misses; want 1, 1", hits, misses)
	}
}

func TestManagerUnavailable(t *testing.T) {
	m := NewManager(NewFSSource(fstest.MapFS{}))

	_, err := m.Load("missing.obj")
	var unavailable *AssetUnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("Load() error = %v, want *AssetUnavailableError", err)
	}
	if unavailable.Name != "missing.obj" {
		t.Errorf("Name = %q", unavailable.Name)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("error should unwrap to fs.ErrNotExist: %v", err)
	}

	if _, err := NewManager().Open("x"); !errors.As(err, &unavailable) {
		t.Errorf("manager without sources: error = %v", err)
	}
}

type failingSource struct{ err error }

func (f failingSource) Open(string) (io.ReadCloser, error) { return nil, f.err }

func TestManagerPrefersRealFailure(t *testing.T) {
	denied := errors.New("access denied")
	m := NewManager(failingSource{denied}, NewFSSource(fstest.MapFS{}))

	_, err := m.Load("terrain.obj")
	if !errors.Is(err, denied) {
		t.Errorf("Load() error = %v, want access denied cause", err)
	}
}

func TestDirSource(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "models"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "models", "hill.obj"), []byte("v 0 0 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	src := NewDirSource(dir)
	rc, err := src.Open("models/hill.obj")
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	rc.Close()

	if _, err := src.Open("../outside.obj"); err == nil {
		t.Error("Open() should reject paths escaping the root")
	}
	if _, err := src.Open("models/none.obj"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Open() missing error = %v, want fs.ErrNotExist", err)
	}
}

type fakeS3 struct {
	s3iface.S3API
	objects map[string]string
	keys    []string
}

func (f *fakeS3) GetObject(in *s3.GetObjectInput) (*s3.GetObjectOutput, error) {
	key := aws.StringValue(in.Bucket) + "/" + aws.StringValue(in.Key)
	f.keys = append(f.keys, key)
	body, ok := f.objects[key]
	if !ok {
		return nil, awserr.New(s3.ErrCodeNoSuchKey, "not found", nil)
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

func TestS3Source(t *testing.T) {
	svc := &fakeS3{objects: map[string]string{"assets/maps/models/hill.obj": "v 1 2 3\n"}}
	m := NewManager(NewS3SourceWithClient(svc, "assets", "/maps/"))

	data, err := m.Load("models\\hill.obj")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if string(data) != "v 1 2 3\n" {
		t.Errorf("Load() = %q", data)
	}

	_, err = m.Load("models/none.obj")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("missing object error = %v, want fs.ErrNotExist", err)
	}
	if got := svc.keys[len(svc.keys)-1]; got != "assets/maps/models/none.obj" {
		t.Errorf("requested key = %q", got)
	}
}

func TestFromConfig(t *testing.T) {
	low, high := t.TempDir(), t.TempDir()
	for dir, body := range map[string]string{low: "low", high: "high"} {
		if err := os.WriteFile(filepath.Join(dir, "terrain.obj"), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	m, err := FromConfig(config.AssetsConfig{Dirs: []string{low, high}})
	if err != nil {
		t.Fatalf("FromConfig() error: %v", err)
	}
	data, err := m.Load("terrain.obj")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if string(data) != "high" {
		t.Errorf("Load() = %q, want the later directory", data)
	}
}
