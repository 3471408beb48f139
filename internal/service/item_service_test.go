package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"campus-lostfound/internal/model"
	"campus-lostfound/internal/workflow"
)

func TestItemServiceReceiveFromSecurity(t *testing.T) {
	t.Parallel()

	t.Run("converts a recorded intake into a stored item", func(t *testing.T) {
		intakes := newFakeIntakeStore()
		items := newFakeItemStore(intakes)
		svc := NewItemService(items, intakes, newFakeImageSink(), nil)

		intakeSvc := NewIntakeService(intakes, nil)
		intake, err := intakeSvc.Record(context.Background(), "security-1", model.RecordIntakeRequest{
			Campus:        "north",
			Category:      "keys",
			Description:   "keyring with four keys",
			FoundTime:     time.Now().UTC().Add(-time.Hour),
			FoundLocation: "cafeteria",
		})
		require.NoError(t, err)

		item, err := svc.ReceiveFromSecurity(context.Background(), "staff-1", model.ReceiveFromSecurityRequest{
			SecurityReceivedItemID: intake.ID,
			StorageLocation:        "locker B2",
		})
		require.NoError(t, err)
		require.Equal(t, model.ItemStored, item.Status)
		require.Equal(t, intake.Campus, item.Campus)
		require.Equal(t, intake.Description, item.Description)
		require.NotNil(t, item.IntakeID)
		require.Equal(t, intake.ID, *item.IntakeID)

		got, err := intakes.FindByID(context.Background(), intake.ID)
		require.NoError(t, err)
		require.Equal(t, model.IntakeTransferred, got.Status)
	})

	t.Run("refuses an intake that was already transferred", func(t *testing.T) {
		intakes := newFakeIntakeStore()
		items := newFakeItemStore(intakes)
		svc := NewItemService(items, intakes, newFakeImageSink(), nil)

		intakeSvc := NewIntakeService(intakes, nil)
		intake, err := intakeSvc.Record(context.Background(), "security-1", model.RecordIntakeRequest{
			Campus:        "north",
			Category:      "keys",
			Description:   "keyring",
			FoundTime:     time.Now().UTC(),
			FoundLocation: "cafeteria",
		})
		require.NoError(t, err)

		req := model.ReceiveFromSecurityRequest{
			SecurityReceivedItemID: intake.ID,
			StorageLocation:        "locker B2",
		}
		_, err = svc.ReceiveFromSecurity(context.Background(), "staff-1", req)
		require.NoError(t, err)

		_, err = svc.ReceiveFromSecurity(context.Background(), "staff-2", req)
		require.Error(t, err)
	})
}

func TestItemServiceUpdate(t *testing.T) {
	t.Parallel()

	t.Run("applies a partial patch", func(t *testing.T) {
		items := newFakeItemStore(nil)
		svc := NewItemService(items, newFakeIntakeStore(), newFakeImageSink(), nil)

		item := seedStoredItem(items)
		location := "shelf C1"

		updated, err := svc.Update(context.Background(), "staff-1", item.ID, model.UpdateFoundItemRequest{
			StorageLocation: &location,
		})
		require.NoError(t, err)
		require.Equal(t, "shelf C1", updated.StorageLocation)
		require.Equal(t, item.Category, updated.Category)
		require.Equal(t, item.Status, updated.Status)
	})

	t.Run("allows stored to disposed", func(t *testing.T) {
		items := newFakeItemStore(nil)
		svc := NewItemService(items, newFakeIntakeStore(), newFakeImageSink(), nil)

		item := seedStoredItem(items)
		disposed := string(model.ItemDisposed)

		updated, err := svc.Update(context.Background(), "staff-1", item.ID, model.UpdateFoundItemRequest{
			Status: &disposed,
		})
		require.NoError(t, err)
		require.Equal(t, model.ItemDisposed, updated.Status)
	})

	t.Run("rejects returned back to stored", func(t *testing.T) {
		items := newFakeItemStore(nil)
		svc := NewItemService(items, newFakeIntakeStore(), newFakeImageSink(), nil)

		item := seedStoredItem(items)
		item.Status = model.ItemReturned
		items.items[item.ID] = item

		stored := string(model.ItemStored)
		_, err := svc.Update(context.Background(), "staff-1", item.ID, model.UpdateFoundItemRequest{
			Status: &stored,
		})

		var transitionErr *workflow.TransitionError
		require.ErrorAs(t, err, &transitionErr)
	})
}

func TestItemServiceAttachImage(t *testing.T) {
	t.Parallel()

	t.Run("processes a png upload and sets the image url", func(t *testing.T) {
		items := newFakeItemStore(nil)
		sink := newFakeImageSink()
		svc := NewItemService(items, newFakeIntakeStore(), sink, nil)

		item := seedStoredItem(items)

		img := image.NewRGBA(image.Rect(0, 0, 8, 8))
		for y := 0; y < 8; y++ {
			for x := 0; x < 8; x++ {
				img.Set(x, y, color.RGBA{R: 200, G: 40, B: 40, A: 255})
			}
		}
		var buf bytes.Buffer
		require.NoError(t, png.Encode(&buf, img))

		imageURL, err := svc.AttachImage(context.Background(), "staff-1", item.ID, &buf)
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(imageURL, "/api/images/"))
		require.True(t, strings.HasSuffix(imageURL, ".jpg"))

		got, err := items.FindByID(context.Background(), item.ID)
		require.NoError(t, err)
		require.Equal(t, imageURL, got.ImageURL)
		require.Len(t, sink.saved, 1)
	})

	t.Run("empty upload fails without touching the item", func(t *testing.T) {
		items := newFakeItemStore(nil)
		sink := newFakeImageSink()
		svc := NewItemService(items, newFakeIntakeStore(), sink, nil)

		item := seedStoredItem(items)

		_, err := svc.AttachImage(context.Background(), "staff-1", item.ID, bytes.NewReader(nil))
		require.Error(t, err)

		got, err := items.FindByID(context.Background(), item.ID)
		require.NoError(t, err)
		require.Empty(t, got.ImageURL)
		require.Empty(t, sink.saved)
	})

	t.Run("unknown item fails before reading the upload", func(t *testing.T) {
		items := newFakeItemStore(nil)
		svc := NewItemService(items, newFakeIntakeStore(), newFakeImageSink(), nil)

		_, err := svc.AttachImage(context.Background(), "staff-1", "missing", bytes.NewReader([]byte("x")))
		require.ErrorIs(t, err, model.ErrItemNotFound)
	})
}
