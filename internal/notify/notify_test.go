package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMulti_FansOut(t *testing.T) {
	a, b := &Recorder{}, &Recorder{}
	var n Notifier = Multi{a, b, LogNotifier{}}

	n.Success("Added to wishlist")
	n.Error("Failed to add to wishlist")
	n.Info("Price alert removed")

	want := []Toast{
		{Level: LevelSuccess, Message: "Added to wishlist"},
		{Level: LevelError, Message: "Failed to add to wishlist"},
		{Level: LevelInfo, Message: "Price alert removed"},
	}
	assert.Equal(t, want, a.Toasts())
	assert.Equal(t, want, b.Toasts())
	assert.Equal(t, 1, a.Count(LevelError))

	a.Reset()
	assert.Empty(t, a.Toasts())
	assert.Len(t, b.Toasts(), 3)
}
