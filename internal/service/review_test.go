package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mallikarjunadanduba/FitLife360/internal/apperr"
	"github.com/mallikarjunadanduba/FitLife360/internal/model"
)

func TestReviewCreateUpdatesAggregate(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewService(db, testLogger())

	product := seedProduct(t, db, "Protein", 20.0, 10, true)

	for i, rating := range []int{5, 4, 3} {
		user := seedUser(t, db, "reviewer"+string(rune('a'+i)), model.RoleUser)
		review, err := svc.Create(context.Background(), product.ID, user.ID, ReviewInput{
			Rating:     rating,
			ReviewText: "solid",
		})
		require.NoError(t, err)
		require.Equal(t, rating, review.Rating)
	}

	var reloaded model.Product
	require.NoError(t, db.First(&reloaded, product.ID).Error)
	require.InDelta(t, 4.0, reloaded.Rating, 1e-9)
	require.Equal(t, 3, reloaded.TotalReviews)
}

func TestReviewCreateDuplicateRejected(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewService(db, testLogger())

	product := seedProduct(t, db, "Protein", 20.0, 10, true)
	user := seedUser(t, db, "reviewer", model.RoleUser)

	_, err := svc.Create(context.Background(), product.ID, user.ID, ReviewInput{Rating: 5})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), product.ID, user.ID, ReviewInput{Rating: 1})
	require.Error(t, err)
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	var reloaded model.Product
	require.NoError(t, db.First(&reloaded, product.ID).Error)
	require.Equal(t, 1, reloaded.TotalReviews)
	require.InDelta(t, 5.0, reloaded.Rating, 1e-9)
}

func TestReviewCreateBounds(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewService(db, testLogger())

	product := seedProduct(t, db, "Protein", 20.0, 10, true)
	user := seedUser(t, db, "reviewer", model.RoleUser)

	for _, rating := range []int{0, 6, -3} {
		_, err := svc.Create(context.Background(), product.ID, user.ID, ReviewInput{Rating: rating})
		require.Error(t, err)
		require.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	}
}

func TestReviewCreateUnknownProduct(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewService(db, testLogger())

	user := seedUser(t, db, "reviewer", model.RoleUser)

	_, err := svc.Create(context.Background(), 404, user.ID, ReviewInput{Rating: 4})
	require.Error(t, err)
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestReviewDeleteRecomputesAggregate(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewService(db, testLogger())

	product := seedProduct(t, db, "Protein", 20.0, 10, true)
	alice := seedUser(t, db, "alice", model.RoleUser)
	bob := seedUser(t, db, "bob", model.RoleUser)

	aliceReview, err := svc.Create(context.Background(), product.ID, alice.ID, ReviewInput{Rating: 5})
	require.NoError(t, err)
	bobReview, err := svc.Create(context.Background(), product.ID, bob.ID, ReviewInput{Rating: 1})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), bobReview.ID, userActor(bob)))

	var reloaded model.Product
	require.NoError(t, db.First(&reloaded, product.ID).Error)
	require.Equal(t, 1, reloaded.TotalReviews)
	require.InDelta(t, 5.0, reloaded.Rating, 1e-9)

	// last review gone: aggregate resets to zero, not stale values
	require.NoError(t, svc.Delete(context.Background(), aliceReview.ID, userActor(alice)))
	require.NoError(t, db.First(&reloaded, product.ID).Error)
	require.Zero(t, reloaded.TotalReviews)
	require.Zero(t, reloaded.Rating)
}

func TestReviewDeletePermissions(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewService(db, testLogger())

	product := seedProduct(t, db, "Protein", 20.0, 10, true)
	alice := seedUser(t, db, "alice", model.RoleUser)
	bob := seedUser(t, db, "bob", model.RoleUser)
	admin := seedUser(t, db, "admin", model.RoleAdmin)

	review, err := svc.Create(context.Background(), product.ID, alice.ID, ReviewInput{Rating: 5})
	require.NoError(t, err)

	err = svc.Delete(context.Background(), review.ID, userActor(bob))
	require.Error(t, err)
	require.Equal(t, apperr.KindPermission, apperr.KindOf(err))

	require.NoError(t, svc.Delete(context.Background(), review.ID, adminActor(admin)))

	err = svc.Delete(context.Background(), review.ID, adminActor(admin))
	require.Error(t, err)
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
