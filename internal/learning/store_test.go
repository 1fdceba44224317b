package learning_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/at-ishikawa/wordmemo/internal/learning"
	mock_learning "github.com/at-ishikawa/wordmemo/internal/mocks/learning"
)

func TestStore_Load(t *testing.T) {
	tests := []struct {
		name  string
		setup func(backend *mock_learning.MockBackend)
		want  learning.StatusMap
	}{
		{
			name: "loads persisted statuses",
			setup: func(backend *mock_learning.MockBackend) {
				backend.EXPECT().Load(gomock.Any()).Return(learning.StatusMap{"back": learning.StatusMastered}, nil)
			},
			want: learning.StatusMap{"back": learning.StatusMastered},
		},
		{
			name: "backend failure starts empty",
			setup: func(backend *mock_learning.MockBackend) {
				backend.EXPECT().Load(gomock.Any()).Return(nil, errors.New("storage unavailable"))
			},
			want: learning.StatusMap{},
		},
		{
			name: "invalid persisted status starts empty",
			setup: func(backend *mock_learning.MockBackend) {
				backend.EXPECT().Load(gomock.Any()).Return(learning.StatusMap{"back": "Forgotten"}, nil)
			},
			want: learning.StatusMap{},
		},
		{
			name: "nil map is treated as empty",
			setup: func(backend *mock_learning.MockBackend) {
				backend.EXPECT().Load(gomock.Any()).Return(nil, nil)
			},
			want: learning.StatusMap{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			backend := mock_learning.NewMockBackend(ctrl)
			tt.setup(backend)

			store := learning.NewStore(backend)
			got := store.Load(context.Background())
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want, store.Snapshot())
		})
	}
}

func TestStore_SetStatus(t *testing.T) {
	t.Run("persists the entire map", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		backend := mock_learning.NewMockBackend(ctrl)
		backend.EXPECT().Load(gomock.Any()).Return(learning.StatusMap{"bad": learning.StatusLearning}, nil)
		backend.EXPECT().Save(gomock.Any(), learning.StatusMap{
			"bad":  learning.StatusLearning,
			"back": learning.StatusMastered,
		}).Return(nil)

		store := learning.NewStore(backend)
		store.Load(context.Background())

		got, err := store.SetStatus(context.Background(), "back", learning.StatusMastered)
		require.NoError(t, err)
		assert.Equal(t, learning.StatusMastered, got.Get("back"))
		assert.Equal(t, learning.StatusLearning, got.Get("bad"))
	})

	t.Run("save failure keeps the in-memory update", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		backend := mock_learning.NewMockBackend(ctrl)
		backend.EXPECT().Save(gomock.Any(), gomock.Any()).Return(errors.New("quota exceeded"))

		store := learning.NewStore(backend)
		got, err := store.SetStatus(context.Background(), "back", learning.StatusLearning)
		require.NoError(t, err)
		assert.Equal(t, learning.StatusLearning, got.Get("back"))
		assert.Equal(t, learning.StatusLearning, store.Get("back"))
	})

	t.Run("rejects invalid input without saving", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		backend := mock_learning.NewMockBackend(ctrl)

		store := learning.NewStore(backend)
		_, err := store.SetStatus(context.Background(), "", learning.StatusLearning)
		assert.Error(t, err)
		_, err = store.SetStatus(context.Background(), "back", "Forgotten")
		assert.Error(t, err)
	})

	t.Run("returned map is a copy", func(t *testing.T) {
		store := learning.NewStore(learning.NewMemoryBackend(nil))
		got, err := store.SetStatus(context.Background(), "back", learning.StatusLearning)
		require.NoError(t, err)
		got["back"] = learning.StatusMastered
		assert.Equal(t, learning.StatusLearning, store.Get("back"))
	})
}

func TestStore_RoundTripAfterReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "statuses.yml")
	ctx := context.Background()

	for _, status := range learning.Statuses {
		store := learning.NewStore(learning.NewYAMLBackend(path))
		store.Load(ctx)
		_, err := store.SetStatus(ctx, "back", status)
		require.NoError(t, err)

		reloaded := learning.NewStore(learning.NewYAMLBackend(path))
		got := reloaded.Load(ctx)
		assert.Equal(t, status, got.Get("back"))
	}
}

func TestPersistenceError(t *testing.T) {
	cause := errors.New("disk full")
	err := &learning.PersistenceError{Op: "save", Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "learning status save failed: disk full", err.Error())
}
