package repository_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/harrier/pkg/model"
	"github.com/m-mizutani/harrier/pkg/repository"
)

func setupFirestore(t *testing.T) *repository.Firestore {
	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")

	if projectID == "" || databaseID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID and TEST_FIRESTORE_DATABASE_ID must be set to run Firestore tests")
	}

	repo, err := repository.NewFirestore(context.Background(), projectID, databaseID)
	gt.NoError(t, err)

	t.Cleanup(func() {
		gt.NoError(t, repo.Close())
	})

	return repo
}

// uniqueMessage avoids collisions with records left behind by earlier runs
func uniqueMessage(prefix string) string {
	return fmt.Sprintf("%s %s", prefix, uuid.New().String())
}

func TestFirestoreRecordOccurrence(t *testing.T) {
	repo := setupFirestore(t)
	ctx := context.Background()

	msg := uniqueMessage("NullPointerException at")

	rec, err := repo.RecordOccurrence(ctx, msg, "a.zip", time.Now())
	gt.NoError(t, err)
	gt.Equal(t, rec.Occurrences, int64(1))
	gt.False(t, rec.IsDuplicate())

	rec, err = repo.RecordOccurrence(ctx, "  "+msg+"  ", "b.zip", time.Now())
	gt.NoError(t, err)
	gt.Equal(t, rec.Occurrences, int64(2))
	gt.True(t, rec.IsDuplicate())
	gt.Equal(t, rec.SourceArchive, "b.zip")
}

func TestFirestoreGetExceptionNotFound(t *testing.T) {
	repo := setupFirestore(t)
	ctx := context.Background()

	rec, err := repo.GetException(ctx, model.NewFingerprint(uniqueMessage("never recorded")))
	gt.NoError(t, err)
	gt.V(t, rec).Nil()
}

func TestFirestoreListExceptions(t *testing.T) {
	repo := setupFirestore(t)
	ctx := context.Background()

	msgs := []string{
		uniqueMessage("list exception A"),
		uniqueMessage("list exception B"),
	}
	for _, msg := range msgs {
		_, err := repo.RecordOccurrence(ctx, msg, "list.zip", time.Now())
		gt.NoError(t, err)
	}

	records, err := repo.ListExceptions(ctx)
	gt.NoError(t, err)
	gt.A(t, records).Longer(1)

	// first_seen_at must be ascending
	for i := 0; i < len(records)-1; i++ {
		if records[i].FirstSeenAt.After(records[i+1].FirstSeenAt) {
			t.Errorf("records not ordered by first_seen_at: [%d] %v > [%d] %v",
				i, records[i].FirstSeenAt, i+1, records[i+1].FirstSeenAt)
		}
	}
}

func TestFirestoreConcurrentIncrements(t *testing.T) {
	repo := setupFirestore(t)
	ctx := context.Background()

	msg := uniqueMessage("contended exception")

	const workers = 10
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := repo.RecordOccurrence(ctx, msg, fmt.Sprintf("src-%d.zip", n), time.Now())
			gt.NoError(t, err)
		}(i)
	}
	wg.Wait()

	rec, err := repo.GetException(ctx, model.NewFingerprint(msg))
	gt.NoError(t, err)
	gt.V(t, rec).NotNil()
	gt.Equal(t, rec.Occurrences, int64(workers))
}

func TestFirestoreNotifications(t *testing.T) {
	repo := setupFirestore(t)
	ctx := context.Background()

	n := model.NewMessageNotification("notify.zip", uniqueMessage("please look at this"))
	gt.NoError(t, repo.PutNotification(ctx, n))

	notifications, err := repo.ListNotifications(ctx, 0, 10)
	gt.NoError(t, err)
	gt.A(t, notifications).Longer(0)

	found := false
	for _, got := range notifications {
		if got.ID == n.ID {
			found = true
			gt.Equal(t, got.Type, model.NotificationTypeMessage)
			gt.Equal(t, got.Status, model.NotificationStatusUnread)
		}
	}
	gt.True(t, found)
}
