package activity

import (
	"testing"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListConversationsSingleThread(t *testing.T) {
	users := []models.User{user("u1"), user("u2")}
	messages := []models.Message{
		message("m1", models.Identified("u1"), "u2", 1),
		message("m2", models.Identified("u2"), "u1", 2),
	}

	summaries, err := ListConversations("u1", messages, users)
	require.NoError(t, err)
	require.Len(t, summaries, 1)

	s := summaries[0]
	require.NotNil(t, s.Partner)
	assert.Equal(t, "u2", s.Partner.ID)
	require.NotNil(t, s.LastMessage)
	assert.Equal(t, "m2", s.LastMessage.ID)
	assert.True(t, s.LastMessage.CreatedAt.Equal(at(2)))
	assert.Equal(t, 1, s.UnreadCount)
}

func TestListConversationsOrderAndCounts(t *testing.T) {
	users := []models.User{user("u1"), user("u2"), user("u3")}
	messages := []models.Message{
		message("m1", models.Identified("u2"), "u1", 1),
		message("m2", models.Identified("u3"), "u1", 5),
		message("m3", models.Identified("u2"), "u1", 3),
		message("m4", models.AnonymousIdentity(), "u1", 4),
		message("m5", models.AnonymousIdentity(), "u1", 2),
		message("m6", models.Identified("u2"), "u3", 9),
	}
	messages[0].Read = true

	summaries, err := ListConversations("u1", messages, users)
	require.NoError(t, err)
	require.Len(t, summaries, 3)

	partners := ids(summaries, func(s models.ConversationSummary) string { return s.Partner.ID })
	assert.Equal(t, []string{"u3", "anonymous", "u2"}, partners)

	assert.Equal(t, 1, summaries[0].UnreadCount)
	assert.Equal(t, 2, summaries[1].UnreadCount, "anonymous senders share one counterpart")
	assert.Equal(t, "m4", summaries[1].LastMessage.ID)
	assert.Equal(t, models.AnonymousPublicUser(), *summaries[1].Partner)
	assert.Equal(t, 1, summaries[2].UnreadCount)
	assert.Equal(t, "m3", summaries[2].LastMessage.ID)

	total := 0
	for _, s := range summaries {
		total += s.UnreadCount
	}
	assert.Equal(t, UnreadMessageCount("u1", messages), total)
}

func TestListConversationsMissingPartner(t *testing.T) {
	messages := []models.Message{message("m1", models.Identified("ghost"), "u1", 1)}

	summaries, err := ListConversations("u1", messages, []models.User{user("u1")})
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Nil(t, summaries[0].Partner)
	assert.Equal(t, 1, summaries[0].UnreadCount)
}

func TestListConversationsEmpty(t *testing.T) {
	summaries, err := ListConversations("u1", nil, nil)
	require.NoError(t, err)
	assert.Empty(t, summaries)

	_, err = ListConversations("", nil, nil)
	assert.ErrorIs(t, err, ErrMissingViewer)
}

func TestReadThreadAndMarkRead(t *testing.T) {
	messages := []models.Message{
		message("m3", models.Identified("u2"), "u1", 3),
		message("m1", models.Identified("u1"), "u2", 1),
		message("m2", models.Identified("u2"), "u1", 2),
		message("m4", models.Identified("u3"), "u1", 4),
	}

	thread := ReadThread("u1", models.Identified("u2"), messages)
	assert.Equal(t, []string{"m1", "m2", "m3"}, ids(thread, messageID))

	unread := UnreadFor("u1", thread)
	assert.Equal(t, []string{"m2", "m3"}, unread)

	marked, n := MarkRead(messages, unread)
	assert.Equal(t, 2, n)
	assert.False(t, messages[0].Read, "the input is not modified")
	assert.True(t, marked[0].Read)
	assert.True(t, marked[2].Read)
	assert.False(t, marked[1].Read, "messages the viewer sent stay as they were")
	assert.False(t, marked[3].Read)

	_, n = MarkRead(marked, unread)
	assert.Zero(t, n)
}
