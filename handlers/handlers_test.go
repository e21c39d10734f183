package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"echonet/database"
	"echonet/handlers"
	"echonet/presence"
	"echonet/repositories"
	"echonet/routes"
	"echonet/session"
)

type testApp struct {
	server    *httptest.Server
	users     repositories.UserRepository
	posts     repositories.PostRepository
	messages  repositories.MessageRepository
	publicDir string
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	tmp := t.TempDir()
	publicDir := filepath.Join(tmp, "public")
	uploadDir := filepath.Join(publicDir, "uploads")
	require.NoError(t, os.MkdirAll(uploadDir, 0755))

	db, err := database.Connect(filepath.Join(tmp, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))

	userRepo := repositories.NewUserRepository(db)
	postRepo := repositories.NewPostRepository(db)
	messageRepo := repositories.NewMessageRepository(db)

	sessions := session.NewManager("test-secret")

	router := routes.SetupRoutes(
		handlers.NewAuthHandler(userRepo, sessions),
		handlers.NewPostHandler(postRepo, publicDir, uploadDir),
		handlers.NewMessageHandler(messageRepo),
		handlers.NewPresenceHandler(userRepo),
		sessions,
		publicDir,
	)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &testApp{
		server:    server,
		users:     userRepo,
		posts:     postRepo,
		messages:  messageRepo,
		publicDir: publicDir,
	}
}

// newClient returns an HTTP client with its own cookie jar, i.e. one browser.
func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func (a *testApp) register(t *testing.T, c *http.Client, username, email, password string) string {
	t.Helper()
	resp, err := c.PostForm(a.server.URL+"/register", url.Values{
		"username": {username},
		"email":    {email},
		"password": {password},
	})
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func (a *testApp) login(t *testing.T, c *http.Client, email, password string) {
	t.Helper()
	resp, err := c.PostForm(a.server.URL+"/login", url.Values{
		"email":    {email},
		"password": {password},
	})
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func (a *testApp) uploadPost(t *testing.T, c *http.Client, caption string, image []byte) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if image != nil {
		part, err := mw.CreateFormFile("imagem", "photo.png")
		require.NoError(t, err)
		_, err = part.Write(image)
		require.NoError(t, err)
	}
	if caption != "" {
		require.NoError(t, mw.WriteField("legenda", caption))
	}
	require.NoError(t, mw.Close())

	resp, err := c.Post(a.server.URL+"/postar", mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	return resp
}

func TestAnonymousAccess(t *testing.T) {
	app := newTestApp(t)

	// No redirect following, so we can see the gate's answers directly.
	client := &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	for _, path := range []string{"/", "/perfil", "/mensagens"} {
		resp, err := client.Get(app.server.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusFound, resp.StatusCode, path)
		assert.Equal(t, "/login.html", resp.Header.Get("Location"), path)
	}

	resp, err := client.Post(app.server.URL+"/atualizar-ativo", "", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	for _, path := range []string{"/online-users", "/conversas"} {
		resp, err := client.Get(app.server.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
	}

	// Public pages stay public.
	resp, err = client.Get(app.server.URL + "/login.html")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRegisterDuplicateEmailPage(t *testing.T) {
	app := newTestApp(t)
	client := newClient(t)

	body := app.register(t, client, "alice", "alice@example.com", "secret123")
	assert.Contains(t, body, "Cadastro realizado com sucesso!")

	body = app.register(t, client, "alice2", "alice@example.com", "other456")
	assert.Contains(t, body, "E-mail já cadastrado.")
}

func TestLoginFailures(t *testing.T) {
	app := newTestApp(t)
	client := newClient(t)

	app.register(t, client, "alice", "alice@example.com", "secret123")

	resp, err := client.PostForm(app.server.URL+"/login", url.Values{
		"email":    {"nobody@example.com"},
		"password": {"whatever1"},
	})
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(body), "Usuário não encontrado.")

	resp, err = client.PostForm(app.server.URL+"/login", url.Values{
		"email":    {"alice@example.com"},
		"password": {"wrongpass"},
	})
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(body), "Senha incorreta.")
}

func TestEchoNetScenario(t *testing.T) {
	app := newTestApp(t)
	alice := newClient(t)

	app.register(t, alice, "alice", "alice@example.com", "secret123")
	app.register(t, alice, "bob", "bob@example.com", "secret456")
	app.login(t, alice, "alice@example.com", "secret123")

	// Post with caption "hi" and an image.
	resp := app.uploadPost(t, alice, "hi", []byte("not-really-a-png"))
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	mine, err := app.posts.ListByAuthor("alice")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "hi", mine[0].Caption)

	onDisk := filepath.Join(app.publicDir, "uploads")
	entries, err := os.ReadDir(onDisk)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "uploaded image must land in the upload dir")

	// Message bob.
	resp, err = alice.PostForm(app.server.URL+"/mensagens", url.Values{
		"destinatario": {"bob"},
		"conteudo":     {"hello"},
	})
	require.NoError(t, err)
	resp.Body.Close()

	thread, err := app.messages.Thread("alice", "bob")
	require.NoError(t, err)
	require.Len(t, thread, 1)
	assert.Equal(t, "hello", thread[0].Content)

	// Contacts as JSON.
	resp, err = alice.Get(app.server.URL + "/conversas")
	require.NoError(t, err)
	var contacts []string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&contacts))
	resp.Body.Close()
	assert.Equal(t, []string{"bob"}, contacts)

	// Heartbeat, then check presence from alice's point of view.
	resp, err = alice.Post(app.server.URL+"/atualizar-ativo", "", nil)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = alice.Get(app.server.URL + "/online-users")
	require.NoError(t, err)
	var statuses []presence.UserStatus
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&statuses))
	resp.Body.Close()
	require.Len(t, statuses, 1)
	assert.Equal(t, "bob", statuses[0].Username)
	assert.Equal(t, presence.StatusOffline, statuses[0].Status)
}

func TestCreatePostMissingCaption(t *testing.T) {
	app := newTestApp(t)
	client := newClient(t)

	app.register(t, client, "alice", "alice@example.com", "secret123")
	app.login(t, client, "alice@example.com", "secret123")

	resp := app.uploadPost(t, client, "", []byte("img"))
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(body), "campos obrigatórios")

	posts, err := app.posts.ListByAuthor("alice")
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestDeletePostOnlyByAuthor(t *testing.T) {
	app := newTestApp(t)

	alice := newClient(t)
	app.register(t, alice, "alice", "alice@example.com", "secret123")
	app.register(t, alice, "bob", "bob@example.com", "secret456")
	app.login(t, alice, "alice@example.com", "secret123")

	resp := app.uploadPost(t, alice, "keep me", []byte("img"))
	resp.Body.Close()

	mine, err := app.posts.ListByAuthor("alice")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	postID := mine[0].ID
	imageOnDisk := filepath.Join(app.publicDir, "uploads")

	bob := newClient(t)
	app.login(t, bob, "bob@example.com", "secret456")

	resp, err = bob.Post(app.server.URL+"/deletar-post/"+strconv.FormatInt(postID, 10), "application/x-www-form-urlencoded", nil)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(body), "Post não encontrado ou não autorizado.")

	// Post and image untouched.
	mine, err = app.posts.ListByAuthor("alice")
	require.NoError(t, err)
	assert.Len(t, mine, 1)
	entries, err := os.ReadDir(imageOnDisk)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	// The author can delete, and the image goes with the row.
	resp, err = alice.Post(app.server.URL+"/deletar-post/"+strconv.FormatInt(postID, 10), "application/x-www-form-urlencoded", nil)
	require.NoError(t, err)
	resp.Body.Close()

	mine, err = app.posts.ListByAuthor("alice")
	require.NoError(t, err)
	assert.Empty(t, mine)
	entries, err = os.ReadDir(imageOnDisk)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSelfMessageIsDropped(t *testing.T) {
	app := newTestApp(t)
	client := newClient(t)

	app.register(t, client, "alice", "alice@example.com", "secret123")
	app.login(t, client, "alice@example.com", "secret123")

	resp, err := client.PostForm(app.server.URL+"/mensagens", url.Values{
		"destinatario": {"Alice "},
		"conteudo":     {"talking to myself"},
	})
	require.NoError(t, err)
	resp.Body.Close()

	thread, err := app.messages.Thread("alice", "alice")
	require.NoError(t, err)
	assert.Empty(t, thread)
}
