package activity

import (
	"slices"
	"time"

	"github.com/anonto42/nano-social/backend/internal/models"
)

// GroupActiveStories groups the stories still active at now by author, in order of
// each author's first story. Stories by users that no longer exist are dropped.
func GroupActiveStories(now time.Time, stories []models.Story, users []models.User) []models.StoryGroup {
	index := models.IndexUsers(users)

	groups := []models.StoryGroup{}
	position := make(map[models.Identity]int)
	for _, s := range stories {
		if !s.IsActive(now) {
			continue
		}
		if i, ok := position[s.Author]; ok {
			groups[i].Stories = append(groups[i].Stories, s)
			continue
		}
		author, ok := s.Author.Project(index)
		if !ok {
			continue
		}
		position[s.Author] = len(groups)
		groups = append(groups, models.StoryGroup{User: author, Stories: []models.Story{s}})
	}
	return groups
}

// EnrichPosts renders posts newest first with their author projections.
// viewerID may be empty, in which case no post is marked liked.
func EnrichPosts(posts []models.Post, users []models.User, viewerID string) []models.PostView {
	index := models.IndexUsers(users)

	sorted := slices.Clone(posts)
	slices.SortStableFunc(sorted, func(a, b models.Post) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	views := make([]models.PostView, 0, len(sorted))
	for _, p := range sorted {
		views = append(views, EnrichPost(p, index, viewerID))
	}
	return views
}

// EnrichPost renders a single post.
func EnrichPost(p models.Post, index models.UserIndex, viewerID string) models.PostView {
	view := models.PostView{
		ID:        p.ID,
		Content:   p.Content,
		Media:     p.Media,
		Anonymous: p.Author.Anonymous,
		Likes:     p.Likes,
		Comments:  make([]models.CommentView, 0, len(p.Comments)),
		Shares:    p.Shares,
		IsLiked:   viewerID != "" && p.LikedBy(viewerID),
		CreatedAt: p.CreatedAt,
	}
	if view.Likes == nil {
		view.Likes = []string{}
	}
	if author, ok := p.Author.Project(index); ok {
		view.User = &author
	}
	for _, c := range p.Comments {
		cv := models.CommentView{Comment: c}
		if u, ok := index[c.AuthorID]; ok {
			pu := u.ToPublic()
			cv.User = &pu
		}
		view.Comments = append(view.Comments, cv)
	}
	return view
}
