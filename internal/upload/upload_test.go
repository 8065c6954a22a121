package upload

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	kind, err := Classify("image/png")
	require.NoError(t, err)
	assert.Equal(t, KindImage, kind)

	kind, err = Classify("Video/MP4; codecs=avc1")
	require.NoError(t, err)
	assert.Equal(t, KindVideo, kind)

	_, err = Classify("application/pdf")
	assert.True(t, eris.Is(err, ErrUnsupportedMediaType))
}

func TestUnsupportedMessageListsFormats(t *testing.T) {
	t.Parallel()

	message := UnsupportedMessage()
	for _, contentType := range []string{"image/jpeg", "image/png", "image/gif", "image/webp", "video/mp4", "video/webm", "video/ogg", "video/quicktime"} {
		assert.Contains(t, message, contentType)
	}
}

func TestFileNameKeepsExtension(t *testing.T) {
	t.Parallel()

	first := FileName("Portrait.PNG", "image/png")
	second := FileName("Portrait.PNG", "image/png")

	assert.True(t, strings.HasSuffix(first, ".png"))
	assert.NotEqual(t, first, second)
	assert.Len(t, strings.TrimSuffix(first, ".png"), 36)
}

func TestFileNameFallsBackToContentType(t *testing.T) {
	t.Parallel()

	assert.True(t, strings.HasSuffix(FileName("clip", "video/quicktime"), ".mov"))
	assert.True(t, strings.HasSuffix(FileName("evil.p?hp", "image/webp"), ".webp"))
}

func TestLocalStoreSavePartitionsByKind(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	store, err := NewLocalStore(root)
	require.NoError(t, err)

	url, err := store.Save(context.Background(), KindVideo, "clip.mp4", strings.NewReader("frames"), 6, "video/mp4")
	require.NoError(t, err)
	assert.Equal(t, "/videos/clip.mp4", url)

	data, err := os.ReadFile(filepath.Join(root, "videos", "clip.mp4"))
	require.NoError(t, err)
	assert.Equal(t, "frames", string(data))

	_, err = store.Save(context.Background(), KindImage, "../escape.png", strings.NewReader("x"), 1, "image/png")
	assert.Error(t, err)
}

func TestServiceSaveRejectsUnsupportedType(t *testing.T) {
	t.Parallel()

	service := newTestService(t)

	_, err := service.Save(context.Background(), fileHeader(t, "notes.pdf", "application/pdf", "%PDF"))
	assert.True(t, eris.Is(err, ErrUnsupportedMediaType))
}

func TestServiceSaveStoresImage(t *testing.T) {
	t.Parallel()

	service := newTestService(t)

	url, err := service.Save(context.Background(), fileHeader(t, "map.png", "image/png", "png-bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/uploads/"))
	assert.True(t, strings.HasSuffix(url, ".png"))
}

func TestCopyDir(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "public")
	require.NoError(t, os.MkdirAll(filepath.Join(src, "images", "races"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "images", "races", "shade.png"), []byte("shade"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "logo.svg"), []byte("<svg/>"), 0o644))

	copied, err := CopyDir(src, dst)
	require.NoError(t, err)
	assert.Equal(t, 2, copied)

	data, err := os.ReadFile(filepath.Join(dst, "images", "races", "shade.png"))
	require.NoError(t, err)
	assert.Equal(t, "shade", string(data))
}

func newTestService(t *testing.T) *Service {
	t.Helper()

	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	service, err := NewService(store, nil)
	require.NoError(t, err)
	return service
}

func fileHeader(t *testing.T, name, contentType, body string) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+name+`"`)
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte(body))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	form, err := multipart.NewReader(&buf, writer.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	files := form.File["file"]
	require.Len(t, files, 1)
	return files[0]
}
