package service

import (
	"encoding/json"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/onegoal/onegoal/internal/model"
	"github.com/onegoal/onegoal/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
}

func newMemStorage() *memStorage {
	return &memStorage{objects: map[string][]byte{}, types: map[string]string{}}
}

func (m *memStorage) Save(path string, body io.Reader, contentType string) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[path] = data
	m.types[path] = contentType
	return nil
}

func (m *memStorage) Delete(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, path)
	return nil
}

func (m *memStorage) PublicURL(path string) string {
	return "https://cdn.test/" + path
}

func (m *memStorage) PresignedURL(path string) (string, error) {
	return "https://cdn.test/" + path + "?sig=1", nil
}

func TestFileService_UploadAndDelete(t *testing.T) {
	env := newTestEnv(t)
	store := newMemStorage()
	files := NewFileService(repository.NewFileRepository(env.db), store, env.clock)
	user := env.createUser(t, "ana@example.com")

	file, err := files.Upload(FileUpload{
		UserID:    user.ID,
		OwnerType: model.FileOwnerGoal,
		OwnerID:   "goal-1",
		Type:      model.FileTypeExport,
		MimeType:  "application/json",
		Ext:       ".json",
		Data:      []byte(`{}`),
	})
	require.NoError(t, err)
	assert.Regexp(t, `^private/exports/[0-9a-f-]{36}\.json$`, file.StoragePath)
	assert.Equal(t, int64(2), file.Size)
	assert.Equal(t, "application/json", store.types[file.StoragePath])

	url, err := files.URL(file)
	require.NoError(t, err)
	assert.Contains(t, url, "sig=")

	listed, err := files.Files(model.FileOwnerGoal, "goal-1")
	require.NoError(t, err)
	assert.Len(t, listed, 1)

	require.NoError(t, files.Delete(file.ID))
	assert.Empty(t, store.objects)

	err = files.Delete(file.ID)
	assert.ErrorIs(t, err, repository.ErrFileNotFound)
}

func TestFileService_WithoutStorage(t *testing.T) {
	env := newTestEnv(t)
	files := NewFileService(repository.NewFileRepository(env.db), nil, env.clock)

	assert.False(t, files.Available())
	_, err := files.Upload(FileUpload{UserID: "u", Data: []byte("x")})
	assert.ErrorIs(t, err, ErrStorageUnavailable)
	assert.NoError(t, files.DeleteAllUserFilesFromStorage("u"))
}

func TestExportService_Snapshot(t *testing.T) {
	env := newTestEnv(t)
	store := newMemStorage()
	files := NewFileService(repository.NewFileRepository(env.db), store, env.clock)
	exports := NewExportService(env.goalRepo, env.checkInRepo, files, env.clock)
	users := NewUserService(env.users, files, env.mailer)

	user := registerUser(t, env, "ana@example.com")
	goal := env.createGoal(t, user.ID, 10*24*time.Hour)
	env.checkIn(t, user.ID, goal.ID, 25)

	snapshot, err := exports.Snapshot(user.ID, goal.ID)
	require.NoError(t, err)
	assert.Contains(t, snapshot.URL, snapshot.File.StoragePath)
	assert.Equal(t, goal.ID, snapshot.File.OwnerID)

	var stored GoalExport
	require.NoError(t, json.Unmarshal(store.objects[snapshot.File.StoragePath], &stored))
	assert.Equal(t, goal.ID, stored.Goal.ID)
	assert.Len(t, stored.CheckIns, 1)

	// Deleting the account clears stored objects too.
	require.NoError(t, users.DeleteAccount(user.ID, testPassword))
	assert.Empty(t, store.objects)
}
