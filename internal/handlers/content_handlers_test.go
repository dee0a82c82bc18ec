package handlers

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// a 1x1 transparent PNG
var pngBytes = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0a, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

type upload struct {
	field, name string
	content     []byte
}

func (s *testServer) multipart(t *testing.T, method, target, userID string, fields map[string]string, file *upload) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if file != nil {
		part, err := w.CreateFormFile(file.field, file.name)
		require.NoError(t, err)
		_, err = part.Write(file.content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, target, &body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	req.Header.Set("X-User-ID", userID)
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) uploadCount(t *testing.T) int {
	t.Helper()
	entries, err := os.ReadDir(s.uploads)
	require.NoError(t, err)
	return len(entries)
}

func (s *testServer) storedUser(t *testing.T, id string) models.User {
	t.Helper()
	users, err := s.store.Users.LoadAll(context.Background())
	require.NoError(t, err)
	for _, u := range users {
		if u.ID == id {
			return u
		}
	}
	t.Fatalf("user %s not stored", id)
	return models.User{}
}

func TestUpdateProfileKeepsFieldsNotSent(t *testing.T) {
	u1 := account("u1")
	u1.Bio = "hello world"
	s := newTestServer(t, u1, account("u2"))

	rec := s.do(t, http.MethodPut, "/api/v1/profile", "u1", echo.Map{"username": "renamed"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	stored := s.storedUser(t, "u1")
	assert.Equal(t, "renamed", stored.Username)
	assert.Equal(t, "hello world", stored.Bio)

	rec = s.multipart(t, http.MethodPut, "/api/v1/profile", "u1", nil, &upload{"profilePicture", "me.png", pngBytes})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	stored = s.storedUser(t, "u1")
	assert.Equal(t, "hello world", stored.Bio)
	assert.Equal(t, "renamed", stored.Username)
	assert.NotEqual(t, models.DefaultProfilePicture, stored.ProfilePicture)
	assert.Equal(t, 1, s.uploadCount(t))

	rec = s.multipart(t, http.MethodPut, "/api/v1/profile", "u1", map[string]string{"bio": "new bio"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "new bio", s.storedUser(t, "u1").Bio)

	rec = s.do(t, http.MethodPut, "/api/v1/profile", "u1", echo.Map{"bio": ""})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, s.storedUser(t, "u1").Bio, "an explicit empty bio clears it")
}

func TestUpdateProfileRejectsBeforeStoring(t *testing.T) {
	s := newTestServer(t, account("u1"), account("u2"))

	rec := s.multipart(t, http.MethodPut, "/api/v1/profile", "u1", nil, &upload{"profilePicture", "notes.txt", []byte("plain text")})
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	assert.Zero(t, s.uploadCount(t))

	rec = s.multipart(t, http.MethodPut, "/api/v1/profile", "u1",
		map[string]string{"username": "user-u2"}, &upload{"profilePicture", "me.png", pngBytes})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Zero(t, s.uploadCount(t), "the picture of a rejected update is removed")
	assert.Equal(t, models.DefaultProfilePicture, s.storedUser(t, "u1").ProfilePicture)
}

func TestSendMessageRemovesMediaWhenStoreFails(t *testing.T) {
	s := newTestServer(t, account("u1"), account("u2"))
	s.messages.Err = assert.AnError

	rec := s.multipart(t, http.MethodPost, "/api/v1/messages", "u1",
		map[string]string{"receiverId": "u2"}, &upload{"media", "pic.png", pngBytes})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Zero(t, s.uploadCount(t))

	rec = s.multipart(t, http.MethodPost, "/api/v1/messages", "u1",
		map[string]string{"receiverId": "ghost"}, &upload{"media", "pic.png", pngBytes})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Zero(t, s.uploadCount(t), "nothing is stored for an unknown receiver")
}

func TestPostLifecycle(t *testing.T) {
	s := newTestServer(t, account("u1"), account("u2"))

	rec := s.do(t, http.MethodPost, "/api/v1/posts", "u1", echo.Map{"content": "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/posts", "u1", echo.Map{"content": "hello"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		Post models.PostView `json:"post"`
	}
	data(t, rec, &created)
	postID := created.Post.ID
	require.NotEmpty(t, postID)
	require.NotNil(t, created.Post.User)
	assert.Equal(t, "u1", created.Post.User.ID)

	rec = s.multipart(t, http.MethodPost, "/api/v1/posts", "u2", map[string]string{"anonymous": "true"}, &upload{"media", "a.png", pngBytes})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	data(t, rec, &created)
	assert.True(t, created.Post.Anonymous)
	require.NotNil(t, created.Post.User)
	assert.Equal(t, models.AnonymousUserID, created.Post.User.ID)
	require.NotNil(t, created.Post.Media)
	assert.Equal(t, models.MediaImage, created.Post.Media.Kind)

	var shared struct {
		Shares int `json:"shares"`
	}
	data(t, s.do(t, http.MethodPost, "/api/v1/posts/"+postID+"/share", "u2", nil), &shared)
	data(t, s.do(t, http.MethodPost, "/api/v1/posts/"+postID+"/share", "u2", nil), &shared)
	assert.Equal(t, 2, shared.Shares)

	var status struct {
		Liked bool `json:"liked"`
	}
	data(t, s.do(t, http.MethodGet, "/api/v1/posts/"+postID+"/like", "u2", nil), &status)
	assert.False(t, status.Liked)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/v1/posts/"+postID+"/like", "u2", nil).Code)
	data(t, s.do(t, http.MethodGet, "/api/v1/posts/"+postID+"/like", "u2", nil), &status)
	assert.True(t, status.Liked)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/v1/posts/missing/like", "u2", nil).Code)

	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodDelete, "/api/v1/posts/"+postID, "u2", nil).Code)
	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, "/api/v1/posts/"+postID, "u1", nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/v1/posts/"+postID, "u1", nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodPost, "/api/v1/posts/"+postID+"/share", "u1", nil).Code)
}

func TestCommentDeletePermissions(t *testing.T) {
	s := newTestServer(t, account("u1"), account("u2"), account("u3"))
	require.NoError(t, s.store.Posts.SaveAll(context.Background(), []models.Post{{
		ID: "p1", Author: models.Identified("u1"), Content: "post", Likes: []string{}, Comments: []models.Comment{}, CreatedAt: created,
	}}))

	comment := func(userID string) string {
		rec := s.do(t, http.MethodPost, "/api/v1/posts/p1/comments", userID, echo.Map{"content": "nice"})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		var resp struct {
			Comment models.CommentView `json:"comment"`
		}
		data(t, rec, &resp)
		return resp.Comment.ID
	}
	first, second := comment("u2"), comment("u2")

	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodDelete, "/api/v1/posts/p1/comments/"+first, "u3", nil).Code)
	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, "/api/v1/posts/p1/comments/"+first, "u2", nil).Code, "the comment author")
	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, "/api/v1/posts/p1/comments/"+second, "u1", nil).Code, "the post author")
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodDelete, "/api/v1/posts/p1/comments/"+second, "u1", nil).Code)

	var list struct {
		Comments []models.CommentView `json:"comments"`
	}
	data(t, s.do(t, http.MethodGet, "/api/v1/posts/p1/comments", "u3", nil), &list)
	assert.Empty(t, list.Comments)
}

func TestStoryRoutes(t *testing.T) {
	s := newTestServer(t, account("u1"), account("u2"))
	img := models.Media{URL: "/uploads/old.png", Kind: models.MediaImage}
	require.NoError(t, s.store.Stories.SaveAll(context.Background(), []models.Story{
		models.NewStory("expired", models.Identified("u1"), img, time.Now().Add(-25*time.Hour)),
	}))

	rec := s.do(t, http.MethodPost, "/api/v1/stories", "u1", echo.Map{"anonymous": false})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.multipart(t, http.MethodPost, "/api/v1/stories", "u1", nil, &upload{"media", "doc.txt", []byte("not media")})
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	assert.Zero(t, s.uploadCount(t))

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/v1/stories/expired", "u2", nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodPost, "/api/v1/stories/expired/view", "u2", nil).Code)

	rec = s.multipart(t, http.MethodPost, "/api/v1/stories", "u1", nil, &upload{"media", "s.png", pngBytes})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		Story models.Story `json:"story"`
	}
	data(t, rec, &created)

	var viewed struct {
		Views int `json:"views"`
	}
	data(t, s.do(t, http.MethodPost, "/api/v1/stories/"+created.Story.ID+"/view", "u2", nil), &viewed)
	data(t, s.do(t, http.MethodPost, "/api/v1/stories/"+created.Story.ID+"/view", "u2", nil), &viewed)
	assert.Equal(t, 1, viewed.Views)

	var mine struct {
		Stories []models.Story `json:"stories"`
	}
	data(t, s.do(t, http.MethodGet, "/api/v1/stories/user/u1", "u2", nil), &mine)
	require.Len(t, mine.Stories, 1)
	assert.Equal(t, created.Story.ID, mine.Stories[0].ID)

	var grouped struct {
		Stories []models.StoryGroup `json:"stories"`
	}
	data(t, s.do(t, http.MethodGet, "/api/v1/stories", "u2", nil), &grouped)
	require.Len(t, grouped.Stories, 1)
	assert.Equal(t, "u1", grouped.Stories[0].User.ID)
}

func TestFollowOverHTTP(t *testing.T) {
	s := newTestServer(t, account("u1"), account("u2"))

	var profile struct {
		User        models.PublicUser `json:"user"`
		IsFollowing bool              `json:"isFollowing"`
	}
	data(t, s.do(t, http.MethodGet, "/api/v1/users/u2", "u1", nil), &profile)
	assert.False(t, profile.IsFollowing)

	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/v1/users/u2/follow", "u1", nil).Code)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/v1/users/u2/follow", "u1", nil).Code)
	assert.Equal(t, []string{"follow-u1"}, s.notifier.events["u2"], "a repeated follow pushes nothing")

	data(t, s.do(t, http.MethodGet, "/api/v1/users/u2", "u1", nil), &profile)
	assert.True(t, profile.IsFollowing)
	data(t, s.do(t, http.MethodGet, "/api/v1/users/u1", "u2", nil), &profile)
	assert.False(t, profile.IsFollowing)

	var followers struct {
		Followers []models.PublicUser `json:"followers"`
	}
	data(t, s.do(t, http.MethodGet, "/api/v1/users/u2/followers", "u1", nil), &followers)
	require.Len(t, followers.Followers, 1)
	assert.Equal(t, "u1", followers.Followers[0].ID)

	require.Equal(t, http.StatusOK, s.do(t, http.MethodDelete, "/api/v1/users/u2/follow", "u1", nil).Code)
	data(t, s.do(t, http.MethodGet, "/api/v1/users/u2", "u1", nil), &profile)
	assert.False(t, profile.IsFollowing)

	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/api/v1/users/u1/follow", "u1", nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodPost, "/api/v1/users/ghost/follow", "u1", nil).Code)
}
