package forum

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wrenchforum/backend/internal/models"
)

func TestCategoriesSeeded(t *testing.T) {
	svc := newTestService(t)

	cats, err := svc.Categories()
	require.NoError(t, err)
	assert.Len(t, cats, 5)

	slugs := make([]string, 0, len(cats))
	for _, c := range cats {
		slugs = append(slugs, c.Slug)
	}
	assert.Contains(t, slugs, "general")
	assert.Contains(t, slugs, "engine-drivetrain")
}

func TestCreatePostRoleGate(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.CreatePost(seedUser(t, models.RoleUnverified), "general", "Title", "Body")
	assert.ErrorIs(t, err, ErrPermissionDenied)

	post, err := svc.CreatePost(seedUser(t, models.RoleVerifiedMechanic), "general", "Title", "Body")
	require.NoError(t, err)
	assert.Equal(t, "general", post.Category.Slug)

	_, err = svc.CreatePost(seedUser(t, models.RoleModerator), "general", "Title", "Body")
	assert.NoError(t, err)
}

func TestCreatePostValidation(t *testing.T) {
	svc := newTestService(t)
	mechanic := seedUser(t, models.RoleVerifiedMechanic)

	_, err := svc.CreatePost(mechanic, "general", "   ", "Body")
	assert.ErrorIs(t, err, ErrEmptyTitle)

	_, err = svc.CreatePost(mechanic, "general", "Title", "")
	assert.ErrorIs(t, err, ErrEmptyBody)

	_, err = svc.CreatePost(mechanic, "no-such-category", "Title", "Body")
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestCreateCommentOpenToUnverified(t *testing.T) {
	svc := newTestService(t)
	author := seedUser(t, models.RoleVerifiedMechanic)
	post := seedPost(t, svc, author)

	comment, err := svc.CreateComment(seedUser(t, models.RoleUnverified), post.ID, nil, "Had the same on a 4G63, was a cracked pickup tube.")
	require.NoError(t, err)
	assert.Equal(t, post.ID, comment.PostID)
	assert.Equal(t, 0, comment.Score)
}

func TestCreateCommentParentRules(t *testing.T) {
	svc := newTestService(t)
	author := seedUser(t, models.RoleVerifiedMechanic)
	commenter := seedUser(t, models.RoleUnverified)
	postA := seedPost(t, svc, author)
	postB, err := svc.CreatePost(author, "general", "Clunk over bumps", "Front left, low speed only.")
	require.NoError(t, err)

	parent, err := svc.CreateComment(commenter, postA.ID, nil, "Sway bar end links, almost always.")
	require.NoError(t, err)

	reply, err := svc.CreateComment(author, postA.ID, &parent.ID, "Links were replaced last month.")
	require.NoError(t, err)
	require.NotNil(t, reply.ParentID)
	assert.Equal(t, parent.ID, *reply.ParentID)

	// Parent must exist and live on the same post.
	unknown := 99999
	_, err = svc.CreateComment(commenter, postA.ID, &unknown, "reply")
	assert.ErrorIs(t, err, ErrUnknownParent)

	_, err = svc.CreateComment(commenter, postB.ID, &parent.ID, "reply")
	assert.ErrorIs(t, err, ErrCrossPostParent)

	_, err = svc.CreateComment(commenter, postA.ID, nil, "   ")
	assert.ErrorIs(t, err, ErrEmptyBody)
}

func TestCreateCommentOnRemovedPost(t *testing.T) {
	svc := newTestService(t)
	author := seedUser(t, models.RoleVerifiedMechanic)
	mod := seedUser(t, models.RoleModerator)
	post := seedPost(t, svc, author)

	require.NoError(t, svc.RemovePost(mod, post.ID))

	_, err := svc.CreateComment(seedUser(t, models.RoleUnverified), post.ID, nil, "comment")
	assert.ErrorIs(t, err, ErrTargetRemoved)
}

func TestListPostsSorting(t *testing.T) {
	svc := newTestService(t)
	author := seedUser(t, models.RoleVerifiedMechanic)
	voter := seedUser(t, models.RoleUnverified)

	older := seedPost(t, svc, author)
	newer, err := svc.CreatePost(author, "general", "Misfire under load", "Cyl 3 only, new plugs and coil already.")
	require.NoError(t, err)

	_, err = svc.VotePost(voter, older.ID, 1)
	require.NoError(t, err)

	byNew, err := svc.ListPosts("", SortNew)
	require.NoError(t, err)
	require.Len(t, byNew, 2)
	assert.Equal(t, newer.ID, byNew[0].ID)

	byTop, err := svc.ListPosts("", SortTop)
	require.NoError(t, err)
	require.Len(t, byTop, 2)
	assert.Equal(t, older.ID, byTop[0].ID, "higher score wins under top sort")
}

func TestListPostsCategoryFilter(t *testing.T) {
	svc := newTestService(t)
	author := seedUser(t, models.RoleVerifiedMechanic)

	seedPost(t, svc, author)
	electrical, err := svc.CreatePost(author, "electrical-diagnostics", "P0171 lean code", "Smoke test shows nothing, MAF cleaned.")
	require.NoError(t, err)

	posts, err := svc.ListPosts("electrical-diagnostics", SortNew)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, electrical.ID, posts[0].ID)

	_, err = svc.ListPosts("no-such-category", SortNew)
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestListPostsHidesRemoved(t *testing.T) {
	svc := newTestService(t)
	author := seedUser(t, models.RoleVerifiedMechanic)
	mod := seedUser(t, models.RoleModerator)
	post := seedPost(t, svc, author)

	require.NoError(t, svc.RemovePost(mod, post.ID))

	posts, err := svc.ListPosts("", SortNew)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestGetThreadTree(t *testing.T) {
	svc := newTestService(t)
	author := seedUser(t, models.RoleVerifiedMechanic)
	commenter := seedUser(t, models.RoleUnverified)
	post := seedPost(t, svc, author)

	root, err := svc.CreateComment(commenter, post.ID, nil, "Pull the pan and look at the pickup.")
	require.NoError(t, err)
	reply, err := svc.CreateComment(author, post.ID, &root.ID, "Will do this weekend.")
	require.NoError(t, err)
	nested, err := svc.CreateComment(commenter, post.ID, &reply.ID, "Post photos of what you find.")
	require.NoError(t, err)

	got, comments, err := svc.GetThread(nil, post.ID)
	require.NoError(t, err)
	assert.Equal(t, post.ID, got.ID)

	require.Len(t, comments, 1)
	assert.Equal(t, root.ID, comments[0].ID)
	require.Len(t, comments[0].Replies, 1)
	assert.Equal(t, reply.ID, comments[0].Replies[0].ID)
	require.Len(t, comments[0].Replies[0].Replies, 1)
	assert.Equal(t, nested.ID, comments[0].Replies[0].Replies[0].ID)
}

func TestGetThreadRemovedVisibility(t *testing.T) {
	svc := newTestService(t)
	author := seedUser(t, models.RoleVerifiedMechanic)
	viewer := seedUser(t, models.RoleUnverified)
	mod := seedUser(t, models.RoleModerator)
	post := seedPost(t, svc, author)

	comment, err := svc.CreateComment(viewer, post.ID, nil, "Spam link here")
	require.NoError(t, err)
	require.NoError(t, svc.RemoveComment(mod, comment.ID))

	// Removed comments vanish for regular viewers but stay for moderators.
	_, comments, err := svc.GetThread(viewer, post.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)

	_, comments, err = svc.GetThread(mod, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.True(t, comments[0].Removed)

	// Removed posts read as missing for everyone but moderators.
	require.NoError(t, svc.RemovePost(mod, post.ID))

	_, _, err = svc.GetThread(viewer, post.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, _, err = svc.GetThread(nil, post.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	got, _, err := svc.GetThread(mod, post.ID)
	require.NoError(t, err)
	assert.True(t, got.Removed)
}

func TestGetThreadRemovedParentHidesSubtree(t *testing.T) {
	svc := newTestService(t)
	author := seedUser(t, models.RoleVerifiedMechanic)
	commenter := seedUser(t, models.RoleUnverified)
	mod := seedUser(t, models.RoleModerator)
	post := seedPost(t, svc, author)

	keeper, err := svc.CreateComment(commenter, post.ID, nil, "Compression test first, then leakdown.")
	require.NoError(t, err)
	parent, err := svc.CreateComment(commenter, post.ID, nil, "Just use thicker oil lol")
	require.NoError(t, err)
	reply, err := svc.CreateComment(author, post.ID, &parent.ID, "That hides the symptom, not the cause.")
	require.NoError(t, err)

	require.NoError(t, svc.RemoveComment(mod, parent.ID))

	// Removing a comment with live replies must not break the thread view;
	// regular viewers simply lose the subtree.
	_, comments, err := svc.GetThread(commenter, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, keeper.ID, comments[0].ID)

	_, comments, err = svc.GetThread(nil, post.ID)
	require.NoError(t, err)
	assert.Len(t, comments, 1)

	// Moderators still see the removed branch with its reply in place.
	_, comments, err = svc.GetThread(mod, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	for _, c := range comments {
		if c.ID == parent.ID {
			assert.True(t, c.Removed)
			require.Len(t, c.Replies, 1)
			assert.Equal(t, reply.ID, c.Replies[0].ID)
		}
	}
}

func TestCreateCommentOnRemovedParent(t *testing.T) {
	svc := newTestService(t)
	author := seedUser(t, models.RoleVerifiedMechanic)
	commenter := seedUser(t, models.RoleUnverified)
	mod := seedUser(t, models.RoleModerator)
	post := seedPost(t, svc, author)

	parent, err := svc.CreateComment(commenter, post.ID, nil, "Sketchy advice")
	require.NoError(t, err)
	require.NoError(t, svc.RemoveComment(mod, parent.ID))

	_, err = svc.CreateComment(author, post.ID, &parent.ID, "reply")
	assert.ErrorIs(t, err, ErrTargetRemoved)
}

func TestGetThreadCorruptTree(t *testing.T) {
	svc := newTestService(t)
	author := seedUser(t, models.RoleVerifiedMechanic)
	commenter := seedUser(t, models.RoleUnverified)
	post := seedPost(t, svc, author)

	a, err := svc.CreateComment(commenter, post.ID, nil, "first")
	require.NoError(t, err)
	b, err := svc.CreateComment(commenter, post.ID, &a.ID, "second")
	require.NoError(t, err)

	// Corrupt the stored tree into a two-node cycle behind the API's back.
	require.NoError(t, testDB.Model(&models.Comment{}).Where("id = ?", a.ID).
		Update("parent_id", b.ID).Error)

	_, _, err = svc.GetThread(nil, post.ID)
	assert.ErrorIs(t, err, ErrCommentCycle)

	// Write-time detection: attaching under the corrupted chain fails too.
	_, err = svc.CreateComment(commenter, post.ID, &b.ID, "third")
	assert.ErrorIs(t, err, ErrCommentCycle)
}

func TestRemoveRestorePost(t *testing.T) {
	svc := newTestService(t)
	author := seedUser(t, models.RoleVerifiedMechanic)
	mod := seedUser(t, models.RoleModerator)
	post := seedPost(t, svc, author)

	assert.ErrorIs(t, svc.RemovePost(author, post.ID), ErrPermissionDenied)

	require.NoError(t, svc.RemovePost(mod, post.ID))
	assert.ErrorIs(t, svc.RemovePost(mod, post.ID), ErrAlreadyRemoved)

	require.NoError(t, svc.RestorePost(mod, post.ID))
	assert.ErrorIs(t, svc.RestorePost(mod, post.ID), ErrNotRemoved)

	posts, err := svc.ListPosts("", SortNew)
	require.NoError(t, err)
	assert.Len(t, posts, 1, "restored post is publicly visible again")
}

func TestRemovePostKeepsScoreAndComments(t *testing.T) {
	svc := newTestService(t)
	author := seedUser(t, models.RoleVerifiedMechanic)
	voter := seedUser(t, models.RoleUnverified)
	mod := seedUser(t, models.RoleModerator)
	post := seedPost(t, svc, author)

	_, err := svc.VotePost(voter, post.ID, 1)
	require.NoError(t, err)
	_, err = svc.CreateComment(voter, post.ID, nil, "useful reply")
	require.NoError(t, err)

	require.NoError(t, svc.RemovePost(mod, post.ID))

	got, err := svc.GetPost(mod, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Score, "removal retains the score for audit")

	var comments int64
	require.NoError(t, testDB.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&comments).Error)
	assert.EqualValues(t, 1, comments)
}
