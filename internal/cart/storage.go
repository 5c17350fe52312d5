package cart

import (
	"encoding/json"
	"os"
	"sync"
)

// FileStorage keeps the guest cart in a JSON file, the durable stand-in for
// the browser's local storage.
type FileStorage struct {
	mu   sync.Mutex
	path string
}

func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

type cartFile struct {
	Items []Item `json:"items"`
}

func (f *FileStorage) Load() ([]Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var file cartFile
	if err := json.Unmarshal(data, &file); err != nil {
		// Corrupt cart file: start empty rather than failing startup.
		return nil, nil
	}
	return file.Items, nil
}

func (f *FileStorage) Save(items []Item) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := json.Marshal(cartFile{Items: items})
	if err != nil {
		return err
	}
	return os.WriteFile(f.path, data, 0o600)
}

// MemoryStorage is the test double for Storage.
type MemoryStorage struct {
	mu    sync.Mutex
	items []Item
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (m *MemoryStorage) Load() ([]Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	items := make([]Item, len(m.items))
	copy(items, m.items)
	return items, nil
}

func (m *MemoryStorage) Save(items []Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = make([]Item, len(items))
	copy(m.items, items)
	return nil
}
