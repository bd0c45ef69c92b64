package handler

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"motor_rental/internal/config"
	"motor_rental/internal/logger"
	"motor_rental/internal/model"
	"motor_rental/internal/ratelimit"
	"motor_rental/internal/repository"
	"motor_rental/internal/repository/repotest"
	"motor_rental/internal/service"
	"motor_rental/internal/session"
	"motor_rental/internal/upload"
	"motor_rental/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// password "admin123"
const admin123Hash = "pbkdf2:sha256:1000$abcdefghijklmnop$c076c837c77f84bd968c14c8d07252136f663b51f3ad7ffe980ee4228a703430"

func init() {
	gin.SetMode(gin.TestMode)
}

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type fakeConns struct {
	mu       sync.Mutex
	err      error
	acquired int
	released int
}

func (f *fakeConns) Acquire(context.Context) (repository.Querier, func(), error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, nil, f.err
	}
	f.acquired++
	return nil, func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.released++
	}, nil
}

func (f *fakeConns) fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

type fakePinger struct {
	mu  sync.Mutex
	err error
}

func (p *fakePinger) Ping(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

func (p *fakePinger) fail(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

type testApp struct {
	store   *repotest.Store
	uploads *upload.Store
	clock   *testClock
	conns   *fakeConns
	pinger  *fakePinger
	handler http.Handler
	server  *httptest.Server
}

// uploadLimit mirrors the MAX_CONTENT_LENGTH default and bodyCap the
// request cap derived from it.
const (
	uploadLimit = 5 * 1024 * 1024
	bodyCap     = uploadLimit + config.FormAllowance
)

// newTestApp wires the real router, services and upload store over the
// in-memory repositories with the production body cap. csrf turns on
// the CSRF middleware.
func newTestApp(t *testing.T, csrf bool) *testApp {
	t.Helper()

	app := &testApp{
		store:  repotest.New(),
		clock:  &testClock{t: time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)},
		conns:  &fakeConns{},
		pinger: &fakePinger{},
	}

	uploads, err := upload.NewStore(upload.Config{
		Dir:               filepath.Join(t.TempDir(), "uploads"),
		AllowedExtensions: []string{"png", "jpg", "jpeg", "gif", "webp"},
		MaxSize:           uploadLimit,
		MaxPixels:         upload.DefaultMaxPixels,
	})
	require.NoError(t, err)
	app.uploads = uploads

	codec := utils.NewJWTUtil("test-secret", 2*time.Hour).WithClock(app.clock.now)
	sessions := session.NewManager(codec, session.Options{
		CookieName: "session",
		HTTPOnly:   true,
		SameSite:   http.SameSiteLaxMode,
		Lifetime:   2 * time.Hour,
	}).WithClock(app.clock.now)

	users, motors := app.store.Users(), app.store.Motors()
	router, err := NewRouter(Deps{
		Logger:    logger.Nop(),
		Sessions:  sessions,
		Conns:     app.conns,
		DB:        app.pinger,
		Auth:      service.NewAuthService(users, ratelimit.NewMemory(5, 5*time.Minute)),
		Users:     service.NewUserService(users, motors),
		Motors:    service.NewMotorService(motors, uploads),
		Uploads:   uploads,
		BodyLimit: bodyCap,
		CSRF:      csrf,
	})
	require.NoError(t, err)

	app.handler = router
	app.server = httptest.NewServer(router)
	t.Cleanup(app.server.Close)

	app.store.AddUser(model.User{Username: "superadmin", PasswordHash: admin123Hash, Role: model.RoleSuperadmin})
	return app
}

// serve runs req in-process, for bodies the server should refuse before
// reading them off a real connection.
func (app *testApp) serve(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	app.handler.ServeHTTP(w, req)
	return w
}

func (app *testApp) addAdmin(username string) int {
	return app.store.AddUser(model.User{Username: username, PasswordHash: admin123Hash, Role: model.RoleAdmin})
}

// browser is a cookie-keeping client that does not follow redirects.
type browser struct {
	t      *testing.T
	base   string
	client *http.Client
}

func (app *testApp) browser(t *testing.T) *browser {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &browser{
		t:    t,
		base: app.server.URL,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

type page struct {
	code     int
	location string
	header   http.Header
	body     string
}

func (b *browser) do(req *http.Request) page {
	b.t.Helper()
	resp, err := b.client.Do(req)
	require.NoError(b.t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(b.t, err)
	return page{
		code:     resp.StatusCode,
		location: resp.Header.Get("Location"),
		header:   resp.Header,
		body:     string(body),
	}
}

func (b *browser) get(path string) page {
	b.t.Helper()
	req, err := http.NewRequest(http.MethodGet, b.base+path, nil)
	require.NoError(b.t, err)
	return b.do(req)
}

func (b *browser) post(path string, form url.Values) page {
	b.t.Helper()
	req, err := http.NewRequest(http.MethodPost, b.base+path, strings.NewReader(form.Encode()))
	require.NoError(b.t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

// postMultipart sends form plus an optional "gambar" file.
func (b *browser) postMultipart(path string, form url.Values, filename string, data []byte) page {
	b.t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, vs := range form {
		for _, v := range vs {
			require.NoError(b.t, mw.WriteField(k, v))
		}
	}
	if filename != "" {
		fw, err := mw.CreateFormFile("gambar", filename)
		require.NoError(b.t, err)
		_, err = fw.Write(data)
		require.NoError(b.t, err)
	}
	require.NoError(b.t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, b.base+path, &body)
	require.NoError(b.t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return b.do(req)
}

func (b *browser) login(username, password string) page {
	b.t.Helper()
	return b.post("/login", url.Values{"username": {username}, "password": {password}})
}

func motorValues(name, plate string, status model.MotorStatus) url.Values {
	return url.Values{
		"nama_motor": {name},
		"plat_nomor": {plate},
		"status":     {string(status)},
		"deskripsi":  {"Matic 125cc"},
	}
}

func pngImage(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: 30, G: 90, B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// sizedPNG is a valid PNG padded after IEND to exactly size bytes.
func sizedPNG(t *testing.T, size int) []byte {
	t.Helper()
	data := pngImage(t, 4, 4)
	require.Less(t, len(data), size)
	return append(data, make([]byte, size-len(data))...)
}
