package handlers

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"io/fs"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	// register webp decoding for stored-asset assertions
	_ "golang.org/x/image/webp"

	"beatfolio/internal/media"
	"beatfolio/internal/middleware"
	"beatfolio/internal/services"
	"beatfolio/internal/storage"
	"beatfolio/internal/test"
)

func multipartBody(t *testing.T, field, filename string, content []byte) (io.Reader, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	return body, writer.FormDataContentType()
}

func (e *testEnv) upload(t *testing.T, target, field, filename string, content []byte, admin bool) *http.Response {
	t.Helper()

	body, contentType := multipartBody(t, field, filename, content)
	req := httptest.NewRequest("POST", target, body)
	req.Header.Set("Content-Type", contentType)
	if admin {
		req.Header.Set("X-Admin-Token", testAdminToken)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func storedFiles(t *testing.T, root string) []string {
	t.Helper()

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	require.NoError(t, err)
	return files
}

func pngImage(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.RGBA{200, 40, 40, 255}}, image.Point{}, draw.Src)

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestUploadCoverProducesSquareAsset(t *testing.T) {
	env := newTestEnv(t)

	resp := env.upload(t, "/api/upload/cover", "image", "cover.png", pngImage(t, 800, 600), true)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result struct {
		URL string `json:"url"`
	}
	decodeJSON(t, resp, &result)
	assert.True(t, strings.HasPrefix(result.URL, "/storage/covers/"), result.URL)

	files := storedFiles(t, env.diskRoot)
	require.Len(t, files, 1)

	stored, err := io.ReadAll(mustOpen(t, files[0]))
	require.NoError(t, err)
	decoded, _, err := image.Decode(bytes.NewReader(stored))
	require.NoError(t, err)
	assert.Equal(t, 1200, decoded.Bounds().Dx())
	assert.Equal(t, 1200, decoded.Bounds().Dy())
}

func mustOpen(t *testing.T, path string) io.Reader {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestUploadCoverRequiresFile(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest("POST", "/api/upload/cover", nil)
	req.Header.Set("X-Admin-Token", testAdminToken)

	resp, err := env.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestUploadCoverRejectsNonImage(t *testing.T) {
	env := newTestEnv(t)

	resp := env.upload(t, "/api/upload/cover", "image", "notes.txt", []byte("plain text, no pixels"), true)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Empty(t, storedFiles(t, env.diskRoot), "rejected upload must not write")
}

func TestUploadCoverRejectsCorruptImage(t *testing.T) {
	env := newTestEnv(t)

	// Valid PNG signature followed by garbage: passes the sniff, fails decode
	corrupt := append([]byte("\x89PNG\r\n\x1a\n"), []byte("garbage-not-a-real-png-stream")...)
	resp := env.upload(t, "/api/upload/cover", "image", "cover.png", corrupt, true)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Empty(t, storedFiles(t, env.diskRoot))
}

func TestUploadCoverRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)

	resp := env.upload(t, "/api/upload/cover", "image", "cover.png", pngImage(t, 100, 100), false)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Empty(t, storedFiles(t, env.diskRoot))
}

func TestUploadAudioStoresFile(t *testing.T) {
	env := newTestEnv(t)

	// One second of 8 kHz mono PCM
	resp := env.upload(t, "/api/upload/audio", "audio", "Space Cake.WAV", testWavBytes(8000, 8000), true)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result struct {
		URL      string `json:"url"`
		Duration string `json:"duration"`
	}
	decodeJSON(t, resp, &result)
	assert.True(t, strings.HasPrefix(result.URL, "/storage/audio/"), result.URL)
	assert.True(t, strings.HasSuffix(result.URL, ".wav"), "extension is lower-cased: %s", result.URL)
	assert.Equal(t, "0:01", result.Duration)

	require.Len(t, storedFiles(t, env.diskRoot), 1)
}

func TestUploadAudioRejectsDisallowedExtension(t *testing.T) {
	env := newTestEnv(t)

	resp := env.upload(t, "/api/upload/audio", "audio", "notes.txt", []byte("not audio"), true)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var parsed struct {
		Details string `json:"details"`
	}
	require.NoError(t, json.Unmarshal(body, &parsed))
	assert.Contains(t, parsed.Details, "audio:", "error names the audio field")

	assert.Empty(t, storedFiles(t, env.diskRoot), "rejected upload must not write")
}

func TestUploadAudioRejectsOversizedFile(t *testing.T) {
	db, tearDown := test.GetTestDB(t)
	t.Cleanup(tearDown)

	diskRoot := t.TempDir()
	app := fiber.New()
	RegisterRoutes(app,
		NewTrackHandler(services.NewRepository(db)),
		NewUploadHandler(storage.NewPublicDisk(diskRoot, "/storage", ""), media.NewCoverProcessor(), 1<<20, 64),
		middleware.AdminToken(testAdminToken),
	)
	env := &testEnv{app: app, diskRoot: diskRoot}

	resp := env.upload(t, "/api/upload/audio", "audio", "big.mp3", make([]byte, 256), true)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Empty(t, storedFiles(t, diskRoot))
}

// testWavBytes builds a minimal 16-bit mono PCM WAV file.
func testWavBytes(sampleRate, numSamples int) []byte {
	dataSize := numSamples * 2

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	writeLE(&buf, uint32(36+dataSize))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	writeLE(&buf, uint32(16))
	writeLE(&buf, uint16(1))
	writeLE(&buf, uint16(1))
	writeLE(&buf, uint32(sampleRate))
	writeLE(&buf, uint32(sampleRate*2))
	writeLE(&buf, uint16(2))
	writeLE(&buf, uint16(16))
	buf.WriteString("data")
	writeLE(&buf, uint32(dataSize))
	buf.Write(make([]byte, dataSize))
	return buf.Bytes()
}

func writeLE(buf *bytes.Buffer, v interface{}) {
	_ = binary.Write(buf, binary.LittleEndian, v)
}
